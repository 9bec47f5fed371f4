package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/config"
	"github.com/yildizm/SkillExtract/internal/logger"
)

var (
	analyzeSkills     string
	analyzeOutputFile string
	analyzeTimeout    time.Duration
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <resume.pdf>",
		Short: "Analyze a resume without the interactive console",
		Long: `Send a resume PDF and the required skills to the analyzer and print the
verified findings, accuracy and skill radar.

Examples:
  skillx analyze resume.pdf --skills "Python,FastAPI,React"
  skillx analyze resume.pdf -s Go,SQL -o json --output-file report.json
  skillx analyze resume.pdf -o markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeSkills, "skills", "s", "", "required skills, comma-separated (default console.default_skills)")
	cmd.Flags().StringVar(&analyzeOutputFile, "output-file", "", "save output to file instead of stdout")
	cmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "analyzer timeout (default analyzer.timeout)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := analyzeConfig(cmd)
	log := newLogger()
	log.SetWriter(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(cfg, log)
	if err != nil {
		return err
	}

	result, err := analyzeOnce(ctx, s, args[0], analyzeSkills)
	if err != nil {
		return err
	}

	output, err := formatResult(cfg, result)
	if err != nil {
		return err
	}
	return handleOutputDestination(cmd.OutOrStdout(), output, analyzeOutputFile, log)
}

// analyzeConfig applies the analyze flags on top of a copy of the global configuration
func analyzeConfig(cmd *cobra.Command) *config.Config {
	cfg := *GetGlobalConfig()
	if flag := cmd.Flag("timeout"); flag != nil && flag.Changed && analyzeTimeout > 0 {
		cfg.Analyzer.Timeout = analyzeTimeout
	}
	return &cfg
}

// analyzeOnce selects the resume, applies the skills override and runs one analysis
func analyzeOnce(ctx context.Context, s *session, path, skills string) (*common.AnalysisResult, error) {
	if err := validateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	if err := s.console.SelectFilePath(filepath.Clean(path)); err != nil {
		if !common.IsRenderError(err) {
			return nil, err
		}
		// The analyzer still receives the bytes; only the local preview is lost.
		s.log.Warn("%s", common.UserMessage(err))
	}
	if skills != "" {
		s.console.SetRequiredSkills(skills)
	}

	s.log.Debug("analyzing %s for %q", path, s.console.RequiredSkills())
	result, err := s.console.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %s: %w", common.UserMessage(err), err)
	}
	return result, nil
}

func formatResult(cfg *config.Config, result *common.AnalysisResult) ([]byte, error) {
	f, err := reportFormatter(cfg, getOutputFormat(), useColor())
	if err != nil {
		return nil, fmt.Errorf("failed to get formatter: %w", err)
	}

	output, err := f.Format(result)
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}
	return output, nil
}

// handleOutputDestination writes output to file or to out
func handleOutputDestination(out io.Writer, output []byte, outputFile string, log *logger.Logger) error {
	if outputFile == "" {
		_, err := out.Write(output)
		return err
	}

	if err := validateOutputFilePath(outputFile); err != nil {
		return fmt.Errorf("invalid output file path: %w", err)
	}
	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}

	log.Info("output saved to %s", outputFile)
	return nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

func validateOutputFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}
	if info, err := os.Stat(filepath.Clean(path)); err == nil && info.IsDir() {
		return fmt.Errorf("path is a directory: %s", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file and syncs it
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
