package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/SkillExtract/internal/analyzer"
	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/console"
	"github.com/yildizm/SkillExtract/internal/pdfview"
)

type stubAnalyzer struct {
	result *analyzer.Result
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ *common.AnalysisRequest) (*analyzer.Result, error) {
	return s.result, s.err
}

type stubRenderer struct {
	pages int
}

func (r stubRenderer) Load(file *common.ResumeFile) (*pdfview.Document, error) {
	pages := make([]pdfview.Page, r.pages)
	for i := range pages {
		pages[i] = pdfview.Page{Number: i + 1, Width: 100, Height: 100}
	}
	return &pdfview.Document{Name: file.BaseName(), NumPages: r.pages, Pages: pages}, nil
}

func twoPageResult() *analyzer.Result {
	return &analyzer.Result{
		Model: "test-model",
		Findings: []common.SkillFinding{
			{SkillName: "Go", ConfidenceScore: 0.9, Section: "Experience", Reasoning: "Wrote Go services.",
				Coordinates: &common.Coordinates{Page: 1, X0: 10, Y0: 10, X1: 40, Y1: 20, PageWidth: 100, PageHeight: 100}},
			{SkillName: "SQL", ConfidenceScore: 0.6, Section: "Skills",
				Coordinates: &common.Coordinates{Page: 2, X0: 10, Y0: 50, X1: 30, Y1: 60, PageWidth: 100, PageHeight: 100}},
		},
	}
}

func newTestModel(t *testing.T, a console.Analyzer) (*Model, string) {
	t.Helper()
	c, err := console.New(console.Options{
		Analyzer:      a,
		Renderer:      stubRenderer{pages: 2},
		DefaultSkills: "Go,SQL",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n%test\n"), 0o600))

	return NewModel(c, Options{}), path
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := m.Update(msg)
	require.Same(t, m, model)
	return cmd
}

func analyze(t *testing.T, m *Model, path string) {
	t.Helper()
	m.pathInput = path
	m.focus = fieldButton
	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	send(t, m, cmd())
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "X-Ray", ViewXRay.String())
	assert.Equal(t, "Unknown", View(42).String())
}

func TestFormEditing(t *testing.T) {
	m, _ := newTestModel(t, &stubAnalyzer{})
	assert.Equal(t, ViewForm, m.view)
	assert.Equal(t, "Go,SQL", m.skillsInput)

	send(t, m, keyRunes("abc"))
	send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ab", m.pathInput)

	send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldSkills, m.focus)
	send(t, m, keyRunes(","))
	send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	send(t, m, keyRunes("React"))
	assert.Equal(t, "Go,SQL, React", m.skillsInput)

	send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldPath, m.focus)
	send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldButton, m.focus)

	// letters are text in the form, not shortcuts
	m.focus = fieldPath
	send(t, m, keyRunes("q"))
	assert.False(t, m.quitting)
	assert.Equal(t, "abq", m.pathInput)
}

func TestEnterOnPathSelectsFile(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{})
	m.pathInput = path

	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	snap := m.console.Snapshot()
	assert.Equal(t, "resume.pdf", snap.FileName)
	assert.Equal(t, 2, snap.NumPages)
	assert.Equal(t, fieldSkills, m.focus)
	assert.Contains(t, m.View(), "resume.pdf")
}

func TestEnterOnMissingPathShowsError(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{})
	m.pathInput = filepath.Join(filepath.Dir(path), "missing.pdf")

	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, fieldPath, m.focus)
	assert.Contains(t, m.View(), "Cannot read missing.pdf.")
}

func TestAnalyzeFlow(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{result: twoPageResult()})
	m.pathInput = path
	m.focus = fieldButton

	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.analyzing)
	assert.Contains(t, m.View(), "Analyzing...")

	// a second trigger while the first is pending is refused
	assert.Nil(t, send(t, m, tea.KeyMsg{Type: tea.KeyEnter}))

	msg := cmd()
	require.IsType(t, analysisCompleteMsg{}, msg)
	send(t, m, msg)

	assert.False(t, m.analyzing)
	assert.Equal(t, ViewEvidence, m.view)
	assert.Equal(t, 1, m.page)

	out := m.View()
	assert.Contains(t, out, "Go")
	assert.Contains(t, out, "Wrote Go services.")
	assert.Contains(t, out, "Analysis complete. 2 skill(s) verified.")
}

func TestAnalyzeErrorShowsBanner(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{err: common.NewTransportError("Unreadable PDF", 422, nil)})
	analyze(t, m, path)

	assert.False(t, m.analyzing)
	assert.Equal(t, ViewForm, m.view)
	assert.Contains(t, m.View(), "Unreadable PDF")
}

func TestAnalyzeWithoutFile(t *testing.T) {
	a := &stubAnalyzer{result: twoPageResult()}
	m, _ := newTestModel(t, a)
	analyze(t, m, "")

	assert.False(t, m.analyzing)
	assert.Contains(t, m.View(), common.MsgNoFile)
}

func TestNavigation(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{result: twoPageResult()})
	analyze(t, m, path)
	require.Equal(t, ViewEvidence, m.view)
	assert.Equal(t, 0, m.console.Snapshot().State.Selected)

	send(t, m, keyRunes("j"))
	assert.Equal(t, 1, m.console.Snapshot().State.Selected)
	assert.Equal(t, 2, m.page)

	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ViewXRay, m.view)
	assert.Contains(t, m.View(), "page 2/2")

	send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.page)
	send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.page)

	send(t, m, keyRunes("j"))
	assert.Equal(t, 0, m.console.Snapshot().State.Selected)

	send(t, m, keyRunes("2"))
	assert.Equal(t, 1, m.console.Snapshot().State.Selected)

	send(t, m, keyRunes("r"))
	assert.Equal(t, ViewRadar, m.view)
	assert.Contains(t, m.View(), "Skill Radar (skills)")

	send(t, m, keyRunes("?"))
	assert.Contains(t, m.View(), "Confidence tiers")

	send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewForm, m.view)
	send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewEvidence, m.view)

	cmd := send(t, m, keyRunes("q"))
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Contains(t, m.View(), "Thanks for using SkillExtract!")
}

func TestCtrlCQuitsFromForm(t *testing.T) {
	m, _ := newTestModel(t, &stubAnalyzer{})
	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestTickAdvancesSpinnerOnlyWhileAnalyzing(t *testing.T) {
	m, _ := newTestModel(t, &stubAnalyzer{})
	assert.NotNil(t, send(t, m, tickMsg{}))
	assert.Equal(t, 0, m.spinner.Frame)

	m.analyzing = true
	send(t, m, tickMsg{})
	assert.Equal(t, 1, m.spinner.Frame)
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t, &stubAnalyzer{})
	send(t, m, tea.WindowSizeMsg{Width: 140, Height: 50})
	assert.Equal(t, 140, m.width)
	assert.Equal(t, 50, m.height)
}

func TestThemes(t *testing.T) {
	defer SetThemeByName("default")

	assert.True(t, SetThemeByName("minimal"))
	assert.Equal(t, "minimal", GetTheme().Name)
	assert.False(t, SetThemeByName("neon"))

	theme := GetTheme()
	assert.Equal(t, theme.Success, theme.TierColor("high"))
	assert.Equal(t, theme.Warning, theme.TierColor("medium"))
	assert.Equal(t, theme.Error, theme.TierColor("low"))
	assert.Equal(t, theme.Muted, theme.TierColor(""))
}

func TestRunRejectsUnknownTheme(t *testing.T) {
	defer SetThemeByName("default")

	m, _ := newTestModel(t, &stubAnalyzer{})
	err := Run(m.console, Options{Theme: "neon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme: neon")
}

func TestPathReselectRefusedWhileAnalysisQueued(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{result: twoPageResult()})
	other := filepath.Join(filepath.Dir(path), "other.pdf")
	require.NoError(t, os.WriteFile(other, []byte("%PDF-1.4\n%other\n"), 0o600))

	m.pathInput = path
	m.focus = fieldButton
	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.True(t, m.analyzing)

	m.focus = fieldPath
	m.pathInput = other
	send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, path, m.selectedPath)
	assert.Equal(t, fieldPath, m.focus)

	send(t, m, cmd())
	assert.False(t, m.analyzing)
	assert.False(t, m.console.InFlight())
	assert.Equal(t, ViewEvidence, m.view)
	assert.Len(t, m.console.Snapshot().Result.Findings, 2)
}

func TestInFlightRejectionReenablesTrigger(t *testing.T) {
	m, path := newTestModel(t, &stubAnalyzer{result: twoPageResult()})
	m.pathInput = path
	m.focus = fieldButton

	require.NotNil(t, send(t, m, tea.KeyMsg{Type: tea.KeyEnter}))
	require.True(t, m.analyzing)

	send(t, m, analysisErrorMsg{err: console.ErrInFlight})
	assert.False(t, m.analyzing)

	cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "trigger must accept a retry")
	send(t, m, cmd())
	assert.False(t, m.analyzing)
	assert.NotNil(t, m.console.Snapshot().Result)
}

func TestIsColorDisabledFollowsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.False(t, IsColorDisabled())
	t.Setenv("NO_COLOR", "1")
	assert.True(t, IsColorDisabled())
}
