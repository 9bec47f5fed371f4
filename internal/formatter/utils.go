package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/emoji"
	"github.com/yildizm/SkillExtract/internal/scoring"
	"github.com/yildizm/go-termfmt"
)

// getTierEmoji returns the marker for a confidence score
func getTierEmoji(confidence float64) string {
	return emoji.ForTier(string(scoring.TierOf(confidence)))
}

// createConfidenceBar creates ASCII confidence bar using go-termfmt
func createConfidenceBar(confidence float64) string {
	opts := termfmt.DefaultOptions()
	return termfmt.CreateConfidenceBar(scoring.Clamp(confidence), opts)
}

// formatLocation describes where a finding sits on the page
func formatLocation(f *common.SkillFinding) string {
	switch {
	case f.Coordinates != nil:
		c := f.Coordinates
		return fmt.Sprintf("page %d (%.0f,%.0f)-(%.0f,%.0f)", c.Page, c.X0, c.Y0, c.X1, c.Y1)
	case f.Box != nil:
		b := f.Box
		return fmt.Sprintf("page 1 @ %.0f%%,%.0f%% (%.0f%%x%.0f%%)", b.Left, b.Top, b.Width, b.Height)
	default:
		return "no location"
	}
}

// unverifiedSkills returns requested skills with no matching finding, in request order
func unverifiedSkills(result *common.AnalysisResult) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, skill := range result.Requested {
		key := strings.ToLower(strings.TrimSpace(skill))
		if seen[key] {
			continue
		}
		seen[key] = true

		found := false
		for i := range result.Findings {
			if result.Findings[i].MatchesSkill(skill) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, skill)
		}
	}
	return missing
}

// generateRecommendations generates actionable follow-ups from the radar gaps
func generateRecommendations(result *common.AnalysisResult) []string {
	var recommendations []string

	if missing := unverifiedSkills(result); len(missing) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("No evidence found for %d requested skill(s): %s", len(missing), strings.Join(missing, ", ")))
	}

	for _, point := range result.Radar {
		if gap := point.Gap(); gap > 0 && point.Candidate > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("%s is %d points below the required %d%%", point.Topic, gap, point.Required))
		}
	}

	if counts := scoring.TierCounts(result.Findings); counts[scoring.TierLow] > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Review %d low-confidence finding(s) against the highlighted evidence", counts[scoring.TierLow]))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "All requested skills are verified at or above the required level")
	}

	return recommendations
}

// singleLine flattens and truncates free text for tabular output
func singleLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if limit > 3 && len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	return s
}

// radarBarLength scales a 0-100 value to a bar of the given width
func radarBarLength(value, width int) int {
	switch {
	case value <= 0:
		return 0
	case value >= 100:
		return width
	default:
		return value * width / 100
	}
}
