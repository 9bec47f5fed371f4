package common

import (
	"time"
)

// AnalysisResult is the normalized analyzer response plus derived aggregates
type AnalysisResult struct {
	Findings   []SkillFinding `json:"findings"`
	Accuracy   int            `json:"accuracy"`
	Radar      []RadarPoint   `json:"radar"`
	RequestID  string         `json:"request_id,omitempty"`
	Model      string         `json:"model,omitempty"`
	Notes      string         `json:"notes,omitempty"`
	Requested  []string       `json:"requested_skills"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
	Duration   time.Duration  `json:"duration"`
}

// Clone returns a deep copy safe to hand to renderers
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Findings = make([]SkillFinding, len(r.Findings))
	for i := range r.Findings {
		out.Findings[i] = r.Findings[i].clone()
	}
	out.Radar = append([]RadarPoint(nil), r.Radar...)
	out.Requested = append([]string(nil), r.Requested...)
	return &out
}

func (f SkillFinding) clone() SkillFinding {
	if f.Coordinates != nil {
		c := *f.Coordinates
		f.Coordinates = &c
	}
	if f.Box != nil {
		b := *f.Box
		f.Box = &b
	}
	if f.SemanticSimilarity != nil {
		v := *f.SemanticSimilarity
		f.SemanticSimilarity = &v
	}
	if f.SpatialWeight != nil {
		v := *f.SpatialWeight
		f.SpatialWeight = &v
	}
	return f
}

// Phase is the lifecycle of the analyze operation
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in-flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// NoSelection marks that no finding is selected
const NoSelection = -1

// UIState is the transient console state; it is never persisted
type UIState struct {
	Selected int    `json:"selected"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	InFlight bool   `json:"in_flight"`
	Phase    Phase  `json:"phase"`
}

// HasSelection reports whether a finding is selected
func (s UIState) HasSelection() bool {
	return s.Selected != NoSelection
}
