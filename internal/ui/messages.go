package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/console"
)

// Messages delivered back to the model by async commands
type analysisCompleteMsg struct {
	result *common.AnalysisResult
}

type analysisErrorMsg struct {
	err error
}

// Animation message
type tickMsg time.Time

// tick drives the spinner while an analysis runs
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// CreateAnalysisCommand creates a tea command that runs one analysis on the console.
// The console applies its own timeout.
func CreateAnalysisCommand(c *console.Console) tea.Cmd {
	return func() tea.Msg {
		result, err := c.Analyze(context.Background())
		if err != nil {
			return analysisErrorMsg{err: err}
		}
		return analysisCompleteMsg{result: result}
	}
}
