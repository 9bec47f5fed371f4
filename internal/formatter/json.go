package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/overlay"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct {
	layout *Layout
}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// NewJSONWithLayout creates a JSON formatter that adds each finding's
// rendered overlay rectangle
func NewJSONWithLayout(layout Layout) Formatter {
	if layout.Projector == nil {
		layout.Projector = overlay.AutoProjector{}
	}
	return &jsonFormatter{layout: &layout}
}

func (f *jsonFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	output := &ReportOutput{
		Summary:    createSummary(result),
		Findings:   createFindingOutputs(result.Findings, f.layout),
		Radar:      result.Radar,
		Unverified: unverifiedSkills(result),
	}
	if output.Radar == nil {
		output.Radar = []common.RadarPoint{}
	}

	return json.MarshalIndent(output, "", "  ")
}

// ReportOutput represents the JSON report structure
type ReportOutput struct {
	Summary    *SummaryOutput      `json:"summary"`
	Findings   []*FindingOutput    `json:"findings"`
	Radar      []common.RadarPoint `json:"radar"`
	Unverified []string            `json:"unverified_skills,omitempty"`
}

// SummaryOutput represents the summary section
type SummaryOutput struct {
	RequestID  string         `json:"request_id,omitempty"`
	Model      string         `json:"model,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Requested  []string       `json:"requested_skills"`
	Verified   int            `json:"verified"`
	Accuracy   int            `json:"accuracy"`
	Tiers      map[string]int `json:"tiers"`
	AnalyzedAt *time.Time     `json:"analyzed_at,omitempty"`
	Duration   string         `json:"duration,omitempty"`
}

// FindingOutput represents a single finding with its derived tier
type FindingOutput struct {
	common.SkillFinding
	Tier    string        `json:"tier"`
	Percent int           `json:"percent"`
	Overlay *overlay.Rect `json:"overlay,omitempty"`
}

// createSummary creates the summary output
func createSummary(result *common.AnalysisResult) *SummaryOutput {
	summary := &SummaryOutput{
		RequestID: result.RequestID,
		Model:     result.Model,
		Notes:     result.Notes,
		Requested: result.Requested,
		Verified:  len(result.Findings),
		Accuracy:  result.Accuracy,
		Tiers:     make(map[string]int),
	}
	if summary.Requested == nil {
		summary.Requested = []string{}
	}

	for tier, count := range scoring.TierCounts(result.Findings) {
		summary.Tiers[string(tier)] = count
	}

	if !result.AnalyzedAt.IsZero() {
		at := result.AnalyzedAt
		summary.AnalyzedAt = &at
	}
	if result.Duration > 0 {
		summary.Duration = result.Duration.String()
	}

	return summary
}

// createFindingOutputs attaches tier information to each finding
func createFindingOutputs(findings []common.SkillFinding, layout *Layout) []*FindingOutput {
	outputs := make([]*FindingOutput, 0, len(findings))
	for i := range findings {
		out := &FindingOutput{
			SkillFinding: findings[i],
			Tier:         string(scoring.TierOf(findings[i].ConfidenceScore)),
			Percent:      scoring.Percent(findings[i].ConfidenceScore),
		}
		if layout != nil {
			if rect, ok := layout.Projector.Project(&findings[i], layout.Viewport); ok {
				out.Overlay = &rect
			}
		}
		outputs = append(outputs, out)
	}
	return outputs
}
