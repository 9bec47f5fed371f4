package scoring

import (
	"fmt"
	"strings"

	"github.com/yildizm/SkillExtract/internal/common"
)

// Radar modes
const (
	RadarModeSkills = "skills"
	RadarModeTopics = "topics"
)

// DefaultRequiredBaseline is the required level for every requested skill
const DefaultRequiredBaseline = 85

// RadarStrategy derives a radar series from the requested skills and findings
type RadarStrategy interface {
	Name() string
	Build(requested []string, findings []common.SkillFinding) []common.RadarPoint
}

// SkillsRadar emits one point per requested skill
type SkillsRadar struct {
	Baseline int
}

// NewSkillsRadar creates a per-skill radar; a non-positive baseline uses the default
func NewSkillsRadar(baseline int) *SkillsRadar {
	if baseline <= 0 {
		baseline = DefaultRequiredBaseline
	}
	return &SkillsRadar{Baseline: baseline}
}

// Name returns the strategy name
func (r *SkillsRadar) Name() string { return RadarModeSkills }

// Build returns one point per requested skill, in request order. The candidate
// value comes from the first finding whose name equals the skill ignoring case.
func (r *SkillsRadar) Build(requested []string, findings []common.SkillFinding) []common.RadarPoint {
	points := make([]common.RadarPoint, 0, len(requested))
	for _, skill := range requested {
		candidate := 0
		for i := range findings {
			if findings[i].MatchesSkill(skill) {
				candidate = Percent(findings[i].ConfidenceScore)
				break
			}
		}
		points = append(points, common.RadarPoint{
			Topic:     skill,
			Candidate: candidate,
			Required:  r.Baseline,
		})
	}
	return points
}

// TopicRadar emits one point per capability topic using keyword density
type TopicRadar struct {
	Topics []*common.Topic
}

// NewTopicRadar creates a topic-density radar
func NewTopicRadar(topics []*common.Topic) *TopicRadar {
	return &TopicRadar{Topics: topics}
}

// Name returns the strategy name
func (r *TopicRadar) Name() string { return RadarModeTopics }

// Build ignores the requested skills and scores each topic as
// min(100, hits*25+10) where hits counts matching findings
func (r *TopicRadar) Build(_ []string, findings []common.SkillFinding) []common.RadarPoint {
	points := make([]common.RadarPoint, 0, len(r.Topics))
	for _, topic := range r.Topics {
		hits := 0
		for i := range findings {
			if topic.Matches(findings[i].SkillName) {
				hits++
			}
		}
		required := topic.Required
		if required == 0 {
			required = common.DefaultTopicRequired
		}
		points = append(points, common.RadarPoint{
			Topic:     topic.Name,
			Candidate: TopicDensity(hits),
			Required:  required,
		})
	}
	return points
}

// TopicDensity is min(100, hits*25+10)
func TopicDensity(hits int) int {
	density := hits*25 + 10
	if density > 100 {
		return 100
	}
	return density
}

// NewRadarStrategy selects a strategy by mode name
func NewRadarStrategy(mode string, baseline int, topics []*common.Topic) (RadarStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", RadarModeSkills:
		return NewSkillsRadar(baseline), nil
	case RadarModeTopics:
		if len(topics) == 0 {
			defaults, err := common.LoadDefaultTopics()
			if err != nil {
				return nil, err
			}
			topics = defaults
		}
		return NewTopicRadar(topics), nil
	default:
		return nil, fmt.Errorf("unknown radar mode: %s", mode)
	}
}
