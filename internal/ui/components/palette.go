package components

import "github.com/charmbracelet/lipgloss"

// Component colors are defined here rather than taken from the ui theme to avoid an import cycle
var (
	primaryColor   = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#60A5FA"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	selectedColor  = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
	successColor   = lipgloss.AdaptiveColor{Light: "#10B981", Dark: "#34D399"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#FBBF24"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#F87171"}
)

// StatusColor maps a confidence tier or status name to a color
func StatusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "high", "success":
		return successColor
	case "medium", "warning":
		return warningColor
	case "low", "error":
		return errorColor
	case "info":
		return primaryColor
	default:
		return secondaryColor
	}
}
