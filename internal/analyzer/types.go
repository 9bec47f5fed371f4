package analyzer

import "github.com/yildizm/SkillExtract/internal/common"

// Result is a normalized analyzer response
type Result struct {
	Findings  []common.SkillFinding
	Model     string
	Notes     string
	RequestID string
	// Dropped counts locations discarded by validation
	Dropped int
}

// HealthStatus is the analyzer /health payload
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// OK reports whether the analyzer declared itself healthy
func (h *HealthStatus) OK() bool {
	return h != nil && h.Status == "ok"
}

// spatialResponse is the coordinate-bearing analyzer payload
type spatialResponse struct {
	Skills        []spatialSkill `json:"skills"`
	TotalDetected int            `json:"total_detected"`
	Model         string         `json:"model"`
}

type spatialSkill struct {
	Skill              string              `json:"skill"`
	Coordinates        *common.Coordinates `json:"coordinates"`
	ConfidenceScore    float64             `json:"confidence_score"`
	SemanticSimilarity *float64            `json:"semantic_similarity"`
	CoordinateWeight   *float64            `json:"coordinate_weight"`
	EvidenceSnippet    string              `json:"evidence_snippet"`
	Section            string              `json:"section"`
}

// evidenceResponse is the evidence-first analyzer payload
type evidenceResponse struct {
	ExtractedSkills []evidenceSkill `json:"extracted_skills"`
	RankedSkills    []rankedSkill   `json:"ranked_skills"`
	TotalScore      float64         `json:"total_score"`
	Notes           string          `json:"notes"`
}

type evidenceSkill struct {
	Skill              string              `json:"skill"`
	ContextWindow      string              `json:"context_window"`
	SemanticProofScore *float64            `json:"semantic_proof_score"`
	Confidence         float64             `json:"confidence"`
	Reasoning          string              `json:"reasoning"`
	Section            string              `json:"section"`
	SpatialWeight      *float64            `json:"spatial_weight"`
	Box                *common.Box         `json:"box"`
	Coordinates        *common.Coordinates `json:"coordinates"`
}

// rankedSkill is one entry of the analyzer's importance-weighted ranking
type rankedSkill struct {
	Skill         string  `json:"skill"`
	Importance    float64 `json:"importance"`
	Confidence    float64 `json:"confidence"`
	SpatialWeight float64 `json:"spatial_weight"`
	WeightedScore float64 `json:"weighted_score"`
}

// errorResponse is the analyzer error body; detail may be a string or a list
type errorResponse struct {
	Detail interface{} `json:"detail"`
}
