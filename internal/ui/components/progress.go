package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SkillExtract/internal/common"
)

// RadarBar renders one radar point as a candidate bar with a required marker
type RadarBar struct {
	Width      int
	LabelWidth int
	Point      common.RadarPoint
}

// NewRadarBar creates a new radar bar
func NewRadarBar(point common.RadarPoint, width, labelWidth int) *RadarBar {
	return &RadarBar{Width: width, LabelWidth: labelWidth, Point: point}
}

// Render renders the bar, marking the required level with │
func (r *RadarBar) Render() string {
	filledStyle := lipgloss.NewStyle().Foreground(r.color()).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)
	markerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

	filledWidth := scale(r.Point.Candidate, r.Width)
	marker := scale(r.Point.Required, r.Width)
	if marker >= r.Width {
		marker = r.Width - 1
	}

	var bar strings.Builder
	for i := 0; i < r.Width; i++ {
		switch {
		case i == marker:
			bar.WriteString(markerStyle.Render("│"))
		case i < filledWidth:
			bar.WriteString(filledStyle.Render("█"))
		default:
			bar.WriteString(mutedStyle.Render("░"))
		}
	}

	label := fmt.Sprintf("%-*s", r.LabelWidth, truncate(r.Point.Topic, r.LabelWidth))
	status := fmt.Sprintf("%3d%% / %d%%", r.Point.Candidate, r.Point.Required)
	if gap := r.Point.Gap(); gap > 0 {
		status += fmt.Sprintf("  (-%d)", gap)
	}

	return fmt.Sprintf("%s [%s] %s", label, bar.String(), status)
}

// color is green at or above the requirement, amber when partially met, red when absent
func (r *RadarBar) color() lipgloss.AdaptiveColor {
	switch {
	case r.Point.Gap() == 0:
		return successColor
	case r.Point.Candidate > 0:
		return warningColor
	default:
		return errorColor
	}
}

// RadarChart renders a full radar series as bars
type RadarChart struct {
	Title  string
	Points []common.RadarPoint
	Width  int
}

// NewRadarChart creates a radar chart
func NewRadarChart(title string, points []common.RadarPoint, width int) *RadarChart {
	return &RadarChart{Title: title, Points: points, Width: width}
}

// Render renders the chart
func (c *RadarChart) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	lines := []string{headerStyle.Render(c.Title), ""}
	if len(c.Points) == 0 {
		lines = append(lines, mutedStyle.Render("No radar data yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	labelWidth := 0
	for _, p := range c.Points {
		if len(p.Topic) > labelWidth {
			labelWidth = len(p.Topic)
		}
	}
	if labelWidth > 18 {
		labelWidth = 18
	}

	barWidth := c.Width - labelWidth - 22
	if barWidth < 10 {
		barWidth = 10
	}

	for _, p := range c.Points {
		lines = append(lines, NewRadarBar(p, barWidth, labelWidth).Render())
	}
	lines = append(lines, "", mutedStyle.Render("█ candidate  │ required"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	progressStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	spinner := progressStyle.Render(spinnerFrames[s.Frame%len(spinnerFrames)])

	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}

	return spinner
}

// scale maps a 0-100 value onto width cells
func scale(value, width int) int {
	switch {
	case value <= 0:
		return 0
	case value >= 100:
		return width
	default:
		return value * width / 100
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
