package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.skillx.yaml",               // Project-specific config (highest priority)
	"~/.config/skillx/config.yaml", // User config
	"/etc/skillx/config.yaml",      // System config (lowest priority)
}

// DefaultEnvFile is read for environment overrides when present
const DefaultEnvFile = ".env"

// Environment variables naming the analyzer base URL, in priority order
const (
	EnvAPIBaseURL       = "SKILLX_API_BASE_URL"
	envLegacyAPIBaseURL = "API_BASE_URL"
)

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFiles:    []string{DefaultEnvFile},
	}
}

// WithEnvFiles replaces the .env files consulted before environment overrides
func (l *Loader) WithEnvFiles(files ...string) *Loader {
	l.envFiles = files
	return l
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables, then .env files (existing variables win)
// 3. ./.skillx.yaml
// 4. ~/.config/skillx/config.yaml
// 5. /etc/skillx/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadEnvFiles populates unset environment variables from .env files
func (l *Loader) loadEnvFiles() error {
	for _, file := range l.envFiles {
		if file == "" || !fileExists(file) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Analyzer Config
		"SKILLX_ANALYZER_TIMEOUT":          func(v string) error { return parseDuration(v, &config.Analyzer.Timeout) },
		"SKILLX_ANALYZER_MAX_UPLOAD_BYTES": func(v string) error { return parseInt64(v, &config.Analyzer.MaxUploadBytes) },
		"SKILLX_ANALYZER_RESPONSE_SHAPE":   func(v string) error { config.Analyzer.ResponseShape = v; return nil },

		// Console Config
		"SKILLX_CONSOLE_DEFAULT_SKILLS":       func(v string) error { config.Console.DefaultSkills = v; return nil },
		"SKILLX_CONSOLE_CLEAR_ON_FILE_SELECT": func(v string) error { return parseBool(v, &config.Console.ClearOnFileSelect) },
		"SKILLX_CONSOLE_RADAR_MODE":           func(v string) error { config.Console.RadarMode = v; return nil },
		"SKILLX_CONSOLE_REQUIRED_BASELINE":    func(v string) error { return parseInt(v, &config.Console.RequiredBaseline) },
		"SKILLX_CONSOLE_OVERLAY_MODE":         func(v string) error { config.Console.OverlayMode = v; return nil },

		// Render Config
		"SKILLX_RENDER_MAX_PAGES": func(v string) error { return parseInt(v, &config.Render.MaxPages) },

		// Output Config
		"SKILLX_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"SKILLX_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"SKILLX_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"SKILLX_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"SKILLX_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },

		// Watch Config
		"SKILLX_WATCH_DEBOUNCE": func(v string) error { return parseDuration(v, &config.Watch.Debounce) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// The base URL has a legacy alias; the prefixed name wins
	for _, envVar := range []string{envLegacyAPIBaseURL, EnvAPIBaseURL} {
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			config.Analyzer.BaseURL = strings.TrimRight(value, "/")
		}
	}

	if dirs := os.Getenv("SKILLX_TOPICS_DIRECTORIES"); dirs != "" {
		config.Topics.Directories = splitList(dirs)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeAnalyzerConfig(&dst.Analyzer, &src.Analyzer)
	mergeConsoleConfig(&dst.Console, &src.Console)
	mergeRenderConfig(&dst.Render, &src.Render)
	mergeOutputConfig(&dst.Output, &src.Output)

	if src.Watch.Debounce != 0 {
		dst.Watch.Debounce = src.Watch.Debounce
	}
	if len(src.Topics.Directories) > 0 {
		dst.Topics.Directories = src.Topics.Directories
	}
}

func mergeAnalyzerConfig(dst, src *AnalyzerConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = strings.TrimRight(src.BaseURL, "/")
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.MaxUploadBytes != 0 {
		dst.MaxUploadBytes = src.MaxUploadBytes
	}
	if src.ResponseShape != "" {
		dst.ResponseShape = src.ResponseShape
	}
}

func mergeConsoleConfig(dst, src *ConsoleConfig) {
	if src.DefaultSkills != "" {
		dst.DefaultSkills = src.DefaultSkills
	}
	if src.RadarMode != "" {
		dst.RadarMode = src.RadarMode
	}
	if src.RequiredBaseline != 0 {
		dst.RequiredBaseline = src.RequiredBaseline
	}
	if src.OverlayMode != "" {
		dst.OverlayMode = src.OverlayMode
	}
	// Boolean fields cannot distinguish unset from false; the default is false
	mergeIfSet(&dst.ClearOnFileSelect, src.ClearOnFileSelect)
}

func mergeRenderConfig(dst, src *RenderConfig) {
	if src.Width != 0 {
		dst.Width = src.Width
	}
	if src.Height != 0 {
		dst.Height = src.Height
	}
	if src.MaxPages != 0 {
		dst.MaxPages = src.MaxPages
	}
	if src.MinBox != 0 {
		dst.MinBox = src.MinBox
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	mergeIfSet(&dst.Verbose, src.Verbose)
}

// mergeIfSet only lets a true value through
func mergeIfSet(dst *bool, src bool) {
	if src {
		*dst = true
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
