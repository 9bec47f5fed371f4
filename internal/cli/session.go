package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yildizm/SkillExtract/internal/analyzer"
	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/config"
	"github.com/yildizm/SkillExtract/internal/console"
	"github.com/yildizm/SkillExtract/internal/formatter"
	"github.com/yildizm/SkillExtract/internal/logger"
	"github.com/yildizm/SkillExtract/internal/overlay"
	"github.com/yildizm/SkillExtract/internal/pdfview"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// session is one configured console with its analyzer client
type session struct {
	cfg     *config.Config
	client  *analyzer.Client
	console *console.Console
	log     *logger.Logger
}

// newSession wires the analyzer client, renderer, and radar strategy from configuration
func newSession(cfg *config.Config, log *logger.Logger) (*session, error) {
	client, err := newAnalyzerClient(cfg, log)
	if err != nil {
		return nil, err
	}

	radar, err := newRadarStrategy(cfg)
	if err != nil {
		return nil, err
	}

	c, err := console.New(console.Options{
		Analyzer:          client,
		Renderer:          pdfview.NewRenderer(renderConfig(cfg)),
		Radar:             radar,
		Timeout:           cfg.Analyzer.Timeout,
		ClearOnFileSelect: cfg.Console.ClearOnFileSelect,
		DefaultSkills:     cfg.Console.DefaultSkills,
		Logger:            log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create console: %w", err)
	}

	return &session{cfg: cfg, client: client, console: c, log: log}, nil
}

func newAnalyzerClient(cfg *config.Config, log *logger.Logger) (*analyzer.Client, error) {
	client, err := analyzer.New(&analyzer.Config{
		BaseURL:        cfg.Analyzer.BaseURL,
		Timeout:        cfg.Analyzer.Timeout,
		MaxUploadBytes: cfg.Analyzer.MaxUploadBytes,
		ResponseShape:  cfg.Analyzer.ResponseShape,
	}, analyzer.WithLogger(log.WithComponent("analyzer")))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer client: %w", err)
	}
	return client, nil
}

func renderConfig(cfg *config.Config) pdfview.RenderConfig {
	return pdfview.RenderConfig{
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		MaxPages: cfg.Render.MaxPages,
		MaxBytes: cfg.Analyzer.MaxUploadBytes,
	}
}

// newRadarStrategy loads capability topics only when the topic radar is selected
func newRadarStrategy(cfg *config.Config) (scoring.RadarStrategy, error) {
	var topics []*common.Topic
	if cfg.Console.RadarMode == scoring.RadarModeTopics {
		loaded, err := common.LoadTopicsWithFallback(cfg.Topics.Directories)
		if err != nil {
			return nil, fmt.Errorf("failed to load topics: %w", err)
		}
		topics = loaded
	}
	return scoring.NewRadarStrategy(cfg.Console.RadarMode, cfg.Console.RequiredBaseline, topics)
}

// reportFormatter builds the headless formatter; JSON reports carry overlay
// rectangles on the configured render canvas
func reportFormatter(cfg *config.Config, format string, color bool) (formatter.Formatter, error) {
	projector, err := overlay.NewProjector(cfg.Console.OverlayMode)
	if err != nil {
		return nil, err
	}
	return formatter.New(format, color, formatter.WithLayout(formatter.Layout{
		Viewport: overlay.Viewport{
			Width:   cfg.Render.Width,
			Height:  cfg.Render.Height,
			MinSize: cfg.Render.MinBox,
		},
		Projector: projector,
	}))
}

// openLogFile redirects the logger to path so log lines stay off the TUI
func openLogFile(log *logger.Logger, path string) (func(), error) {
	if path == "" {
		log.SetWriter(io.Discard)
		return func() {}, nil
	}

	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - log path comes from the user's configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.SetWriter(file)
	return func() {
		log.SetWriter(io.Discard)
		_ = file.Close()
	}, nil
}
