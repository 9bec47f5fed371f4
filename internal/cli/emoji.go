package cli

import (
	"strings"

	"github.com/yildizm/SkillExtract/internal/emoji"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// GetEmoji is a wrapper for the shared emoji package
func GetEmoji(key string) string {
	return emoji.GetEmoji(key)
}

// GetTierEmoji returns the marker for a confidence score's tier
func GetTierEmoji(score float64) string {
	return emoji.ForTier(string(scoring.TierOf(score)))
}

// CreateConfidenceBar creates a ten-cell confidence bar with an ASCII fallback
func CreateConfidenceBar(confidence float64) string {
	barLength := int(scoring.Clamp(confidence) * 10)

	if isEmojiDisabled() {
		return "[" + strings.Repeat("#", barLength) + strings.Repeat("-", 10-barLength) + "]"
	}
	return strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
}
