package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/overlay"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result *common.AnalysisResult) ([]byte, error)
}

// Formats lists the supported output format names
var Formats = []string{"text", "json", "markdown", "csv"}

// Layout places finding locations on a rendered page for the JSON report
type Layout struct {
	Viewport  overlay.Viewport
	Projector overlay.Projector
}

// Option configures a formatter built by New
type Option func(*options)

type options struct {
	layout *Layout
}

// WithLayout adds rendered overlay rectangles to JSON findings
func WithLayout(layout Layout) Option {
	return func(o *options) {
		o.layout = &layout
	}
}

// New returns the formatter for the given format name
func New(format string, color bool, opts ...Option) (Formatter, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch strings.ToLower(format) {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		if o.layout != nil {
			return NewJSONWithLayout(*o.layout), nil
		}
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
}
