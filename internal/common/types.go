package common

import (
	"path/filepath"
	"strings"
)

// ResumeFile is a resume selected for analysis
type ResumeFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Size returns the file size in bytes
func (f *ResumeFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// BaseName returns the file name without directories
func (f *ResumeFile) BaseName() string {
	if f == nil || f.Name == "" {
		return "resume.pdf"
	}
	return filepath.Base(f.Name)
}

// AnalysisRequest is the immutable payload sent to the analyzer
type AnalysisRequest struct {
	Resume         ResumeFile `json:"resume"`
	RequiredSkills []string   `json:"required_skills"`
	RequestID      string     `json:"request_id,omitempty"`
}

// JobSkillsField renders the required skills as the analyzer's job_skills form value
func (r *AnalysisRequest) JobSkillsField() string {
	return strings.Join(r.RequiredSkills, ",")
}

// Coordinates locate a finding on a PDF page in source-page units
type Coordinates struct {
	Page       int     `json:"page" validate:"gte=1"`
	X0         float64 `json:"x0" validate:"gte=0"`
	Y0         float64 `json:"y0" validate:"gte=0"`
	X1         float64 `json:"x1" validate:"gtfield=X0,ltefield=PageWidth"`
	Y1         float64 `json:"y1" validate:"gtfield=Y0,ltefield=PageHeight"`
	PageWidth  float64 `json:"page_width" validate:"gt=0"`
	PageHeight float64 `json:"page_height" validate:"gt=0"`
}

// Box is a percentage-of-page rectangle supplied directly by the analyzer
type Box struct {
	Left   float64 `json:"left" validate:"gte=0,lte=100"`
	Top    float64 `json:"top" validate:"gte=0,lte=100"`
	Width  float64 `json:"width" validate:"gt=0,lte=100"`
	Height float64 `json:"height" validate:"gt=0,lte=100"`
}

// SkillFinding is one detected skill returned by the analyzer
type SkillFinding struct {
	SkillName       string       `json:"skill" validate:"required"`
	ConfidenceScore float64      `json:"confidence_score" validate:"gte=0,lte=1"`
	Section         string       `json:"section" validate:"required"`
	Reasoning       string       `json:"reasoning"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	Box             *Box         `json:"box,omitempty"`

	// Optional analyzer diagnostics
	SemanticSimilarity *float64 `json:"semantic_similarity,omitempty" validate:"omitempty,gte=0,lte=1"`
	SpatialWeight      *float64 `json:"spatial_weight,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// HasLocation reports whether the finding can be drawn on a page
func (f *SkillFinding) HasLocation() bool {
	return f.Coordinates != nil || f.Box != nil
}

// PageNumber returns the page a finding is located on; percentage boxes are page 1
func (f *SkillFinding) PageNumber() int {
	if f.Coordinates != nil {
		return f.Coordinates.Page
	}
	return 1
}

// MatchesSkill compares skill names case-insensitively
func (f *SkillFinding) MatchesSkill(name string) bool {
	return strings.EqualFold(strings.TrimSpace(f.SkillName), strings.TrimSpace(name))
}

// RadarPoint is a single (topic, candidate, required) triple
type RadarPoint struct {
	Topic     string `json:"topic" yaml:"topic"`
	Candidate int    `json:"candidate" yaml:"candidate"`
	Required  int    `json:"required" yaml:"required"`
}

// Gap returns how far the candidate is below the requirement (never negative)
func (p RadarPoint) Gap() int {
	if p.Candidate >= p.Required {
		return 0
	}
	return p.Required - p.Candidate
}

// ParseRequiredSkills splits raw comma-separated input into trimmed, non-empty skills
func ParseRequiredSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
