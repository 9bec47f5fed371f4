package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// csvFormatter formats findings as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(result *common.AnalysisResult) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"Skill",
		"Confidence",
		"Tier",
		"Section",
		"Page",
		"X0",
		"Y0",
		"X1",
		"Y1",
		"Reasoning",
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i := range result.Findings {
		finding := &result.Findings[i]

		page, x0, y0, x1, y1 := "", "", "", "", ""
		if finding.HasLocation() {
			page = strconv.Itoa(finding.PageNumber())
		}
		if c := finding.Coordinates; c != nil {
			x0, y0, x1, y1 = formatCSVFloat(c.X0), formatCSVFloat(c.Y0), formatCSVFloat(c.X1), formatCSVFloat(c.Y1)
		}

		record := []string{
			finding.SkillName,
			strconv.FormatFloat(scoring.Clamp(finding.ConfidenceScore), 'f', 2, 64),
			string(scoring.TierOf(finding.ConfidenceScore)),
			finding.Section,
			page,
			x0,
			y0,
			x1,
			y1,
			singleLine(finding.Reasoning, 100),
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}

// formatCSVFloat formats a page coordinate for CSV output
func formatCSVFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
