package analyzer

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is used when no analyzer base URL is configured
const DefaultBaseURL = "http://localhost:8000"

// Config holds analyzer client settings
type Config struct {
	// BaseURL is the analyzer endpoint root; /analyze and /health are joined to it
	BaseURL string `json:"base_url"`

	// Timeout bounds every HTTP call
	Timeout time.Duration `json:"timeout"`

	// MaxUploadBytes rejects larger resumes before any network call; 0 disables the check
	MaxUploadBytes int64 `json:"max_upload_bytes"`

	// ResponseShape selects the normalizer: auto, spatial or evidence
	ResponseShape string `json:"response_shape"`
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        60 * time.Second,
		MaxUploadBytes: 20 * 1024 * 1024,
		ResponseShape:  ShapeAuto,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("analyzer base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid analyzer base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("analyzer base URL must use http or https, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("analyzer timeout must be positive")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("analyzer max upload bytes cannot be negative")
	}
	if _, err := NewNormalizer(c.ResponseShape); err != nil {
		return err
	}
	return nil
}
