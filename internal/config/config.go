package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Analyzer AnalyzerConfig `yaml:"analyzer" json:"analyzer"`
	Console  ConsoleConfig  `yaml:"console" json:"console"`
	Render   RenderConfig   `yaml:"render" json:"render"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Watch    WatchConfig    `yaml:"watch" json:"watch"`
	Topics   TopicsConfig   `yaml:"topics" json:"topics"`
}

// AnalyzerConfig configures the external analyzer endpoint
type AnalyzerConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`                 // analyzer root, /analyze is appended
	Timeout        time.Duration `yaml:"timeout" json:"timeout"`                   // bound on a single analysis
	MaxUploadBytes int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"` // 0 disables the check
	ResponseShape  string        `yaml:"response_shape" json:"response_shape"`     // auto|spatial|evidence
}

// ConsoleConfig configures console behavior
type ConsoleConfig struct {
	DefaultSkills     string `yaml:"default_skills" json:"default_skills"`
	ClearOnFileSelect bool   `yaml:"clear_on_file_select" json:"clear_on_file_select"`
	RadarMode         string `yaml:"radar_mode" json:"radar_mode"`               // skills|topics
	RequiredBaseline  int    `yaml:"required_baseline" json:"required_baseline"` // required level per skill
	OverlayMode       string `yaml:"overlay_mode" json:"overlay_mode"`           // auto|coordinates|percent
}

// RenderConfig configures local PDF rendering
type RenderConfig struct {
	Width    float64 `yaml:"width" json:"width"`
	Height   float64 `yaml:"height" json:"height"`
	MaxPages int     `yaml:"max_pages" json:"max_pages"`
	MinBox   float64 `yaml:"min_box" json:"min_box"` // minimum overlay size in rendered units
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	Theme         string `yaml:"theme" json:"theme"`       // default|high-contrast|minimal
	LogFile       string `yaml:"log_file" json:"log_file"` // log destination while the TUI runs
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// TopicsConfig configures capability topic loading
type TopicsConfig struct {
	Directories []string `yaml:"directories" json:"directories"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analyzer: AnalyzerConfig{
			BaseURL:        "http://localhost:8000",
			Timeout:        60 * time.Second,
			MaxUploadBytes: 20 * 1024 * 1024,
			ResponseShape:  "auto",
		},
		Console: ConsoleConfig{
			DefaultSkills:     "Python,FastAPI,React,SQL,Django",
			ClearOnFileSelect: false,
			RadarMode:         "skills",
			RequiredBaseline:  85,
			OverlayMode:       "auto",
		},
		Render: RenderConfig{
			Width:    760,
			Height:   1075,
			MaxPages: 20,
			MinBox:   12,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Theme:         "default",
			LogFile:       "~/.cache/skillx/skillx.log",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Topics: TopicsConfig{
			Directories: []string{"./topics"},
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAnalyzerConfig(); err != nil {
		return err
	}
	if err := c.validateConsoleConfig(); err != nil {
		return err
	}
	if err := c.validateRenderConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must be non-negative")
	}
	return nil
}

func (c *Config) validateAnalyzerConfig() error {
	u, err := url.Parse(c.Analyzer.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid analyzer base_url: %q (must be an http or https URL)", c.Analyzer.BaseURL)
	}
	if c.Analyzer.Timeout <= 0 {
		return fmt.Errorf("analyzer timeout must be greater than 0")
	}
	if c.Analyzer.MaxUploadBytes < 0 {
		return fmt.Errorf("analyzer max_upload_bytes must be non-negative")
	}
	return oneOf("analyzer response_shape", c.Analyzer.ResponseShape, "auto", "spatial", "evidence")
}

func (c *Config) validateConsoleConfig() error {
	if err := oneOf("radar_mode", c.Console.RadarMode, "skills", "topics"); err != nil {
		return err
	}
	if err := oneOf("overlay_mode", c.Console.OverlayMode, "auto", "coordinates", "percent"); err != nil {
		return err
	}
	if c.Console.RequiredBaseline < 0 || c.Console.RequiredBaseline > 100 {
		return fmt.Errorf("required_baseline must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateRenderConfig() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render width and height must be greater than 0")
	}
	if c.Render.MaxPages < 0 {
		return fmt.Errorf("render max_pages must be non-negative")
	}
	if c.Render.MinBox < 0 {
		return fmt.Errorf("render min_box must be non-negative")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if err := oneOf("output format", c.Output.DefaultFormat, "json", "text", "markdown", "csv"); err != nil {
		return err
	}
	if err := oneOf("color mode", c.Output.ColorMode, "auto", "always", "never"); err != nil {
		return err
	}
	return oneOf("theme", c.Output.Theme, "default", "high-contrast", "minimal")
}

// oneOf accepts an empty value or one of the allowed values
func oneOf(name, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (must be one of: %s)", name, value, strings.Join(allowed, ", "))
}
