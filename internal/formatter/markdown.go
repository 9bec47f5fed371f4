package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Skill Verification Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	f.writeTableOfContents(&b, result)
	f.writeSummaryTable(&b, result)

	if len(result.Findings) > 0 {
		f.writeFindingSections(&b, result.Findings)
	}

	if len(result.Radar) > 0 {
		f.writeRadarSection(&b, result.Radar)
	}

	f.writeRecommendations(&b, result)

	return []byte(b.String()), nil
}

// writeTableOfContents writes the table of contents
func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, result *common.AnalysisResult) {
	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Summary](#summary)\n")

	if len(result.Findings) > 0 {
		b.WriteString("- [Verified Skills](#verified-skills)\n")
	}

	if len(result.Radar) > 0 {
		b.WriteString("- [Skill Radar](#skill-radar)\n")
	}

	b.WriteString("- [Recommendations](#recommendations)\n\n")
}

// writeSummaryTable writes the summary table
func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, result *common.AnalysisResult) {
	b.WriteString("## Summary\n\n")

	counts := scoring.TierCounts(result.Findings)

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Requested Skills | %s |\n", escapeTableCell(strings.Join(result.Requested, ", ")))
	fmt.Fprintf(b, "| Verified Skills | %d |\n", len(result.Findings))
	fmt.Fprintf(b, "| Accuracy | %d%% |\n", result.Accuracy)
	fmt.Fprintf(b, "| High / Medium / Low | %d / %d / %d |\n",
		counts[scoring.TierHigh], counts[scoring.TierMedium], counts[scoring.TierLow])
	if result.Model != "" {
		fmt.Fprintf(b, "| Model | %s |\n", escapeTableCell(result.Model))
	}
	if result.RequestID != "" {
		fmt.Fprintf(b, "| Request ID | `%s` |\n", result.RequestID)
	}
	b.WriteString("\n")
}

// writeFindingSections writes one section per finding
func (f *markdownFormatter) writeFindingSections(b *strings.Builder, findings []common.SkillFinding) {
	b.WriteString("## Verified Skills\n\n")

	for i := range findings {
		finding := &findings[i]
		fmt.Fprintf(b, "### %s %s (Confidence: %d%%)\n",
			getTierEmoji(finding.ConfidenceScore), finding.SkillName, scoring.Percent(finding.ConfidenceScore))

		fmt.Fprintf(b, "**Confidence**: %s %d%%\n\n",
			createConfidenceBar(finding.ConfidenceScore), scoring.Percent(finding.ConfidenceScore))

		fmt.Fprintf(b, "**Section**: %s | **Location**: %s\n\n", finding.Section, formatLocation(finding))

		if finding.SemanticSimilarity != nil || finding.SpatialWeight != nil {
			var parts []string
			if finding.SemanticSimilarity != nil {
				parts = append(parts, fmt.Sprintf("semantic %.2f", *finding.SemanticSimilarity))
			}
			if finding.SpatialWeight != nil {
				parts = append(parts, fmt.Sprintf("spatial %.2f", *finding.SpatialWeight))
			}
			fmt.Fprintf(b, "**Diagnostics**: %s\n\n", strings.Join(parts, ", "))
		}

		if finding.Reasoning != "" {
			b.WriteString("Evidence:\n")
			b.WriteString("```\n")
			b.WriteString(strings.TrimSpace(finding.Reasoning) + "\n")
			b.WriteString("```\n\n")
		}
	}
}

// writeRadarSection writes candidate vs required bars
func (f *markdownFormatter) writeRadarSection(b *strings.Builder, radar []common.RadarPoint) {
	b.WriteString("## Skill Radar\n\n")

	width := 0
	for _, point := range radar {
		if len(point.Topic) > width {
			width = len(point.Topic)
		}
	}

	b.WriteString("```\n")
	for _, point := range radar {
		barLength := radarBarLength(point.Candidate, 20)
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 20-barLength)
		fmt.Fprintf(b, "%-*s │%s│ %3d%% / %d%%\n", width, point.Topic, bar, point.Candidate, point.Required)
	}
	b.WriteString("```\n\n")
}

// writeRecommendations writes actionable follow-ups
func (f *markdownFormatter) writeRecommendations(b *strings.Builder, result *common.AnalysisResult) {
	b.WriteString("## Recommendations\n\n")

	for i, rec := range generateRecommendations(result) {
		fmt.Fprintf(b, "%d. %s\n", i+1, rec)
	}

	b.WriteString("\n---\n")
	b.WriteString("*Report generated by SkillExtract - Spatial-Semantic Skill Verification*\n")
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(singleLine(s, 0), "|", "\\|")
}
