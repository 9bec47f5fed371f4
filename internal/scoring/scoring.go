// Package scoring holds the pure functions that turn analyzer findings into
// tiers, an overall accuracy figure, and radar series.
package scoring

import (
	"math"

	"github.com/yildizm/SkillExtract/internal/common"
)

// Tier is a confidence bucket
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Tier thresholds; lower bounds are inclusive
const (
	HighThreshold   = 0.85
	MediumThreshold = 0.65
)

// Clamp restricts a confidence to [0,1]; NaN is treated as 0
func Clamp(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// TierOf maps a confidence to its tier after clamping
func TierOf(c float64) Tier {
	c = Clamp(c)
	switch {
	case c >= HighThreshold:
		return TierHigh
	case c >= MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Percent converts a confidence to an integer percentage
func Percent(c float64) int {
	return int(math.Round(Clamp(c) * 100))
}

// Accuracy is round(mean confidence × 100), or 0 for no findings
func Accuracy(findings []common.SkillFinding) int {
	if len(findings) == 0 {
		return 0
	}
	var sum float64
	for i := range findings {
		sum += Clamp(findings[i].ConfidenceScore)
	}
	return int(math.Round(sum / float64(len(findings)) * 100))
}

// TierCounts counts findings per tier
func TierCounts(findings []common.SkillFinding) map[Tier]int {
	counts := map[Tier]int{TierHigh: 0, TierMedium: 0, TierLow: 0}
	for i := range findings {
		counts[TierOf(findings[i].ConfidenceScore)]++
	}
	return counts
}
