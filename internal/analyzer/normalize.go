package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// Response shapes
const (
	ShapeAuto     = "auto"
	ShapeSpatial  = "spatial"
	ShapeEvidence = "evidence"
)

// ResponseNormalizer turns a raw 2xx analyzer body into findings
type ResponseNormalizer interface {
	Name() string
	Normalize(body []byte) (*Result, error)
}

var (
	validate = validator.New()

	schemasOnce sync.Once
	schemaSet   map[string]*schemaValidator
	schemaErr   error
)

func schemaFor(shape string) (*schemaValidator, error) {
	schemasOnce.Do(func() {
		schemaSet = make(map[string]*schemaValidator, 2)
		for shape, source := range map[string]string{
			ShapeSpatial:  spatialSchema,
			ShapeEvidence: evidenceSchema,
		} {
			sv, err := newSchemaValidator(shape, source)
			if err != nil {
				schemaErr = err
				return
			}
			schemaSet[shape] = sv
		}
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	return schemaSet[shape], nil
}

// NewNormalizer selects a normalizer by shape name
func NewNormalizer(shape string) (ResponseNormalizer, error) {
	switch strings.ToLower(strings.TrimSpace(shape)) {
	case "", ShapeAuto:
		return AutoNormalizer{}, nil
	case ShapeSpatial:
		return SpatialNormalizer{}, nil
	case ShapeEvidence:
		return EvidenceNormalizer{}, nil
	default:
		return nil, fmt.Errorf("unknown response shape: %s", shape)
	}
}

// SpatialNormalizer reads coordinate-bearing responses
type SpatialNormalizer struct{}

// Name returns the shape name
func (SpatialNormalizer) Name() string { return ShapeSpatial }

// Normalize validates and converts a spatial response
func (SpatialNormalizer) Normalize(body []byte) (*Result, error) {
	sv, err := schemaFor(ShapeSpatial)
	if err != nil {
		return nil, err
	}
	if err := sv.validate(body); err != nil {
		return nil, err
	}

	var resp spatialResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode spatial response: %w", err)
	}

	findings := make([]common.SkillFinding, 0, len(resp.Skills))
	for _, s := range resp.Skills {
		findings = append(findings, common.SkillFinding{
			SkillName:          s.Skill,
			ConfidenceScore:    s.ConfidenceScore,
			Section:            s.Section,
			Reasoning:          s.EvidenceSnippet,
			Coordinates:        s.Coordinates,
			SemanticSimilarity: s.SemanticSimilarity,
			SpatialWeight:      s.CoordinateWeight,
		})
	}

	dropped, err := sanitizeFindings(findings)
	if err != nil {
		return nil, err
	}
	return &Result{Findings: findings, Model: resp.Model, Dropped: dropped}, nil
}

// EvidenceNormalizer reads evidence-first responses with optional percentage boxes
type EvidenceNormalizer struct{}

// Name returns the shape name
func (EvidenceNormalizer) Name() string { return ShapeEvidence }

// Normalize validates and converts an evidence response
func (EvidenceNormalizer) Normalize(body []byte) (*Result, error) {
	sv, err := schemaFor(ShapeEvidence)
	if err != nil {
		return nil, err
	}
	if err := sv.validate(body); err != nil {
		return nil, err
	}

	var resp evidenceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode evidence response: %w", err)
	}

	findings := make([]common.SkillFinding, 0, len(resp.ExtractedSkills))
	for _, s := range resp.ExtractedSkills {
		reasoning := s.Reasoning
		if reasoning == "" {
			reasoning = s.ContextWindow
		}
		findings = append(findings, common.SkillFinding{
			SkillName:          s.Skill,
			ConfidenceScore:    s.Confidence,
			Section:            s.Section,
			Reasoning:          reasoning,
			Coordinates:        s.Coordinates,
			Box:                s.Box,
			SemanticSimilarity: s.SemanticProofScore,
			SpatialWeight:      s.SpatialWeight,
		})
	}

	dropped, err := sanitizeFindings(findings)
	if err != nil {
		return nil, err
	}
	return &Result{Findings: findings, Notes: resp.Notes, Dropped: dropped}, nil
}

// AutoNormalizer picks the shape from the top-level key present
type AutoNormalizer struct{}

// Name returns the shape name
func (AutoNormalizer) Name() string { return ShapeAuto }

// Normalize dispatches on "skills" or "extracted_skills"
func (AutoNormalizer) Normalize(body []byte) (*Result, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if _, ok := top["skills"]; ok {
		return SpatialNormalizer{}.Normalize(body)
	}
	if _, ok := top["extracted_skills"]; ok {
		return EvidenceNormalizer{}.Normalize(body)
	}
	return nil, fmt.Errorf("response has neither skills nor extracted_skills")
}

// sanitizeFindings clamps scores, drops invalid locations, and rejects
// findings without a skill name or section. It returns the number of
// locations dropped.
func sanitizeFindings(findings []common.SkillFinding) (int, error) {
	dropped := 0
	for i := range findings {
		f := &findings[i]
		f.SkillName = strings.TrimSpace(f.SkillName)
		f.Section = strings.TrimSpace(f.Section)
		f.ConfidenceScore = scoring.Clamp(f.ConfidenceScore)
		f.SemanticSimilarity = clampOptional(f.SemanticSimilarity)
		f.SpatialWeight = clampOptional(f.SpatialWeight)

		if f.Coordinates != nil {
			if err := validate.Struct(f.Coordinates); err != nil {
				f.Coordinates = nil
				dropped++
			}
		}
		if f.Box != nil {
			if err := validate.Struct(f.Box); err != nil {
				f.Box = nil
				dropped++
			}
		}

		if err := validate.Struct(f); err != nil {
			return dropped, fmt.Errorf("finding %d is invalid: %w", i, err)
		}
	}
	return dropped, nil
}

func clampOptional(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := scoring.Clamp(*v)
	return &c
}
