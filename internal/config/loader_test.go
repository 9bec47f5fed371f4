package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets variables for the duration of a test
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
	if len(loader.envFiles) != 1 || loader.envFiles[0] != ".env" {
		t.Errorf("Expected default env file .env, got %v", loader.envFiles)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t, EnvAPIBaseURL, envLegacyAPIBaseURL)
	loader := &Loader{configPaths: []string{filepath.Join(t.TempDir(), "missing.yaml")}}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Analyzer.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Analyzer.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t, EnvAPIBaseURL, envLegacyAPIBaseURL)
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")

	configContent := `version: "1.0"
analyzer:
  base_url: "https://analyzer.example.com/"
  timeout: 90s
  response_shape: evidence
console:
  default_skills: "Go,Rust"
  clear_on_file_select: true
  radar_mode: topics
output:
  default_format: "json"
  verbose: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	cfg, err := NewLoader().WithEnvFiles().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Analyzer.BaseURL != "https://analyzer.example.com" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", cfg.Analyzer.BaseURL)
	}
	if cfg.Analyzer.Timeout != 90*time.Second {
		t.Errorf("Expected timeout 90s, got %v", cfg.Analyzer.Timeout)
	}
	if cfg.Analyzer.ResponseShape != "evidence" {
		t.Errorf("Expected response shape evidence, got %s", cfg.Analyzer.ResponseShape)
	}
	if cfg.Console.DefaultSkills != "Go,Rust" {
		t.Errorf("Expected default skills Go,Rust, got %s", cfg.Console.DefaultSkills)
	}
	if !cfg.Console.ClearOnFileSelect {
		t.Error("Expected clear_on_file_select to be true")
	}
	if cfg.Console.RadarMode != "topics" {
		t.Errorf("Expected radar mode topics, got %s", cfg.Console.RadarMode)
	}
	if cfg.Console.RequiredBaseline != 85 {
		t.Errorf("Expected unset baseline to keep default 85, got %d", cfg.Console.RequiredBaseline)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be true")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid-config.yaml")

	invalidConfigContent := `version: "1.0"
analyzer:
  base_url: "http://localhost:8000
  timeout: 60s
`
	if err := os.WriteFile(configPath, []byte(invalidConfigContent), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := NewLoader().WithEnvFiles().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	clearEnv(t, EnvAPIBaseURL, envLegacyAPIBaseURL)
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("console:\n  radar_mode: spider\n"), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	_, err := NewLoader().WithEnvFiles().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	clearEnv(t, EnvAPIBaseURL, envLegacyAPIBaseURL)
	dir := t.TempDir()
	high := filepath.Join(dir, "high.yaml")
	low := filepath.Join(dir, "low.yaml")

	if err := os.WriteFile(low, []byte("console:\n  default_skills: \"low\"\n  required_baseline: 70\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(high, []byte("console:\n  default_skills: \"high\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{configPaths: []string{high, low}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Console.DefaultSkills != "high" {
		t.Errorf("Expected higher priority file to win, got %s", cfg.Console.DefaultSkills)
	}
	if cfg.Console.RequiredBaseline != 70 {
		t.Errorf("Expected lower priority value to survive, got %d", cfg.Console.RequiredBaseline)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	envVars := map[string]string{
		"SKILLX_API_BASE_URL":                 "http://analyzer:9000/",
		"SKILLX_ANALYZER_TIMEOUT":             "15s",
		"SKILLX_CONSOLE_CLEAR_ON_FILE_SELECT": "true",
		"SKILLX_CONSOLE_REQUIRED_BASELINE":    "90",
		"SKILLX_OUTPUT_VERBOSE":               "true",
		"SKILLX_TOPICS_DIRECTORIES":           "dir1, dir2 ,,dir3",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Analyzer.BaseURL != "http://analyzer:9000" {
		t.Errorf("Expected base URL http://analyzer:9000, got %s", cfg.Analyzer.BaseURL)
	}
	if cfg.Analyzer.Timeout != 15*time.Second {
		t.Errorf("Expected timeout 15s, got %v", cfg.Analyzer.Timeout)
	}
	if !cfg.Console.ClearOnFileSelect {
		t.Error("Expected clear_on_file_select to be true")
	}
	if cfg.Console.RequiredBaseline != 90 {
		t.Errorf("Expected baseline 90, got %d", cfg.Console.RequiredBaseline)
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be true")
	}
	expectedDirs := []string{"dir1", "dir2", "dir3"}
	if len(cfg.Topics.Directories) != len(expectedDirs) {
		t.Fatalf("Expected %d topic directories, got %v", len(expectedDirs), cfg.Topics.Directories)
	}
	for i, dir := range expectedDirs {
		if cfg.Topics.Directories[i] != dir {
			t.Errorf("Expected topic directory %s, got %s", dir, cfg.Topics.Directories[i])
		}
	}
}

func TestPrefixedBaseURLWinsOverLegacy(t *testing.T) {
	t.Setenv(envLegacyAPIBaseURL, "http://legacy:1")
	t.Setenv(EnvAPIBaseURL, "http://preferred:2")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Analyzer.BaseURL != "http://preferred:2" {
		t.Errorf("Expected prefixed variable to win, got %s", cfg.Analyzer.BaseURL)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "SKILLX_CONSOLE_REQUIRED_BASELINE", "not-a-number"},
		{"invalid int64", "SKILLX_ANALYZER_MAX_UPLOAD_BYTES", "lots"},
		{"invalid bool", "SKILLX_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "SKILLX_ANALYZER_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := NewLoader().applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestEnvFileProvidesBaseURL(t *testing.T) {
	clearEnv(t, EnvAPIBaseURL, envLegacyAPIBaseURL)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SKILLX_API_BASE_URL=http://from-dotenv:8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{configPaths: []string{filepath.Join(dir, "none.yaml")}, envFiles: []string{envFile}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Analyzer.BaseURL != "http://from-dotenv:8080" {
		t.Errorf("Expected base URL from .env, got %s", cfg.Analyzer.BaseURL)
	}
}

func TestEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t, envLegacyAPIBaseURL)
	t.Setenv(EnvAPIBaseURL, "http://from-env:1")
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SKILLX_API_BASE_URL=http://from-dotenv:2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{configPaths: nil, envFiles: []string{envFile}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Analyzer.BaseURL != "http://from-env:1" {
		t.Errorf("Expected process environment to win, got %s", cfg.Analyzer.BaseURL)
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt(t *testing.T) {
	var value int

	if err := parseInt("42", &value); err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected 42, got %d", value)
	}
	if err := parseInt("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	if err := parseBool("true", &value); err != nil || !value {
		t.Errorf("Expected true, got %v (%v)", value, err)
	}
	if err := parseBool("false", &value); err != nil || value {
		t.Errorf("Expected false, got %v (%v)", value, err)
	}
	if err := parseBool("not-a-bool", &value); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFindConfigFile(t *testing.T) {
	if _, found := FindConfigFile(); found {
		t.Skip("a config file already exists in a search path")
	}

	tempConfigPath := "./.skillx.yaml"
	if err := os.WriteFile(tempConfigPath, []byte("version: \"1.0\""), 0o600); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	defer func() { _ = os.Remove(tempConfigPath) }()

	configPath, found := FindConfigFile()
	if !found {
		t.Error("Expected config file to be found, but none was found")
	}
	if configPath != tempConfigPath {
		t.Errorf("Expected config path %s, got %s", tempConfigPath, configPath)
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/.cache/skillx.log"); got != filepath.Join(home, ".cache/skillx.log") {
		t.Errorf("Unexpected expansion %s", got)
	}
	if got := ExpandPath("/var/log/x.log"); got != "/var/log/x.log" {
		t.Errorf("Absolute path should be unchanged, got %s", got)
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "path traversal attempt", path: "../../../etc/skillx.yaml", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
