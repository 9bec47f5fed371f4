package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/emoji"
	"github.com/yildizm/SkillExtract/internal/scoring"
	"github.com/yildizm/go-termfmt"
)

// maxTopFindings bounds the ranked list in the terminal summary
const maxTopFindings = 5

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeStatistics(&b, result)

	if len(result.Findings) > 0 {
		f.writeTopFindings(&b, result.Findings)
		f.writeEvidence(&b, result.Findings)
	}

	if len(result.Radar) > 0 {
		f.writeRadar(&b, result.Radar)
	}

	f.writeTextRecommendations(&b, result)

	return []byte(b.String()), nil
}

// symbol returns a go-termfmt symbol, or the local emoji set when go-termfmt has none
func (f *terminalFormatter) symbol(key string) string {
	if f.opts != nil {
		if s := termfmt.GetEmoji(key, f.opts); s != "" {
			return s
		}
	}
	return emoji.GetEmoji(key)
}

// writeHeader writes a box-drawn header
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Skill Verification Summary"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

// writeStatistics writes statistics with tree-style formatting using go-termfmt
func (f *terminalFormatter) writeStatistics(b *strings.Builder, result *common.AnalysisResult) {
	b.WriteString(f.symbol("statistics") + " Statistics\n")

	counts := scoring.TierCounts(result.Findings)

	items := []termfmt.TreeItem{
		{Label: "Requested Skills", Value: fmt.Sprintf("%d", len(result.Requested))},
		{Label: "Verified Skills", Value: fmt.Sprintf("%d", len(result.Findings))},
		{Label: "Accuracy", Value: fmt.Sprintf("%d%%", result.Accuracy)},
		{Label: "Tiers", Value: fmt.Sprintf("%d high, %d medium, %d low",
			counts[scoring.TierHigh], counts[scoring.TierMedium], counts[scoring.TierLow])},
	}

	if result.Model != "" {
		items = append(items, termfmt.TreeItem{Label: "Model", Value: result.Model})
	}
	if result.Duration > 0 {
		items = append(items, termfmt.TreeItem{Label: "Duration", Value: result.Duration.Round(time.Millisecond).String()})
	}
	items[len(items)-1].Last = true

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeTopFindings writes the highest-confidence findings, at most five
func (f *terminalFormatter) writeTopFindings(b *strings.Builder, findings []common.SkillFinding) {
	b.WriteString(emoji.GetEmoji("skill") + " Top Skills\n")

	sorted := make([]common.SkillFinding, len(findings))
	copy(sorted, findings)

	sort.SliceStable(sorted, func(i, j int) bool {
		return scoring.Clamp(sorted[i].ConfidenceScore) > scoring.Clamp(sorted[j].ConfidenceScore)
	})

	limit := maxTopFindings
	if len(sorted) < limit {
		limit = len(sorted)
	}

	for i := 0; i < limit; i++ {
		finding := sorted[i]
		marker := getTierEmoji(finding.ConfidenceScore)

		if i == limit-1 {
			fmt.Fprintf(b, "└─ %s %s (%d%%)\n", marker, finding.SkillName, scoring.Percent(finding.ConfidenceScore))
		} else {
			fmt.Fprintf(b, "├─ %s %s (%d%%)\n", marker, finding.SkillName, scoring.Percent(finding.ConfidenceScore))
		}
	}
	b.WriteString("\n")
}

// writeEvidence writes every finding with its confidence bar, location and reasoning
func (f *terminalFormatter) writeEvidence(b *strings.Builder, findings []common.SkillFinding) {
	b.WriteString(emoji.GetEmoji("evidence") + " Evidence\n")

	items := make([]termfmt.TreeItem, 0, len(findings))
	for i := range findings {
		finding := &findings[i]
		confidenceBar := termfmt.CreateConfidenceBar(scoring.Clamp(finding.ConfidenceScore), f.opts)

		children := []termfmt.TreeItem{
			{Label: "Confidence", Value: fmt.Sprintf("%s %d%%", confidenceBar, scoring.Percent(finding.ConfidenceScore))},
			{Label: "Section", Value: finding.Section},
			{Label: "Location", Value: formatLocation(finding)},
		}
		if finding.Reasoning != "" {
			children = append(children, termfmt.TreeItem{Label: "Reasoning", Value: singleLine(finding.Reasoning, 120)})
		}
		children[len(children)-1].Last = true

		items = append(items, termfmt.TreeItem{
			Label:    fmt.Sprintf("%s %s", getTierEmoji(finding.ConfidenceScore), finding.SkillName),
			Value:    string(scoring.TierOf(finding.ConfidenceScore)),
			Children: children,
			Last:     i == len(findings)-1,
		})
	}

	tree := termfmt.TreeViewWithOptions(items, f.opts)
	b.WriteString(tree + "\n\n")
}

// writeRadar writes candidate vs required bars
func (f *terminalFormatter) writeRadar(b *strings.Builder, radar []common.RadarPoint) {
	b.WriteString(emoji.GetEmoji("radar") + " Skill Radar\n")

	width := 0
	for _, point := range radar {
		if len(point.Topic) > width {
			width = len(point.Topic)
		}
	}

	filled, empty := "█", "░"
	if f.opts != nil && !f.opts.Emoji {
		filled, empty = "#", "-"
	}

	for i, point := range radar {
		branch := "├─"
		if i == len(radar)-1 {
			branch = "└─"
		}
		barLength := radarBarLength(point.Candidate, 20)
		bar := strings.Repeat(filled, barLength) + strings.Repeat(empty, 20-barLength)
		fmt.Fprintf(b, "%s %-*s %s %3d%% / %d%%\n", branch, width, point.Topic, bar, point.Candidate, point.Required)
	}
	b.WriteString("\n")
}

// writeTextRecommendations writes recommendations for text format using go-termfmt
func (f *terminalFormatter) writeTextRecommendations(b *strings.Builder, result *common.AnalysisResult) {
	recommendations := generateRecommendations(result)

	b.WriteString(f.symbol("recommendations") + " Recommendations\n")

	for i, rec := range recommendations {
		if i < 3 { // Limit to top 3 recommendations for text format
			b.WriteString("• " + rec + "\n")
		}
	}
}
