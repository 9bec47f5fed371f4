package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/console"
	"github.com/yildizm/SkillExtract/internal/emoji"
	"github.com/yildizm/SkillExtract/internal/overlay"
	"github.com/yildizm/SkillExtract/internal/scoring"
	"github.com/yildizm/SkillExtract/internal/ui/components"
)

// View identifies a screen of the console
type View int

const (
	ViewForm View = iota
	ViewEvidence
	ViewXRay
	ViewRadar
	ViewHelp
)

var viewNames = []string{"Form", "Evidence", "X-Ray", "Radar", "Help"}

// String returns the tab label of the view
func (v View) String() string {
	if int(v) < 0 || int(v) >= len(viewNames) {
		return "Unknown"
	}
	return viewNames[v]
}

// formField is the focused element of the form view
type formField int

const (
	fieldPath formField = iota
	fieldSkills
	fieldButton
	fieldCount
)

// Options configures the interactive console
type Options struct {
	Theme       string
	OverlayMode string
	InitialPath string
}

// Model is the bubbletea model of the interactive console
type Model struct {
	console   *console.Console
	styles    *Styles
	projector overlay.Projector

	width    int
	height   int
	view     View
	focus    formField
	quitting bool

	pathInput    string
	skillsInput  string
	selectedPath string

	// analyzing is set as soon as the trigger fires; the console only
	// reports in-flight once the command goroutine has started
	analyzing bool
	spinner   *components.Spinner
	page      int
}

// NewModel creates the console model
func NewModel(c *console.Console, opts Options) *Model {
	projector, err := overlay.NewProjector(opts.OverlayMode)
	if err != nil {
		projector = overlay.AutoProjector{}
	}

	m := &Model{
		console:     c,
		styles:      GetStyles(),
		projector:   projector,
		width:       100,
		height:      32,
		view:        ViewForm,
		pathInput:   opts.InitialPath,
		skillsInput: c.RequiredSkills(),
		spinner:     components.NewSpinner(),
		page:        1,
	}
	if opts.InitialPath != "" {
		m.focus = fieldSkills
		m.selectPath(true)
	}
	return m
}

// Init starts the animation ticker
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and navigation
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		if m.analyzing {
			m.spinner.Tick()
		}
		return m, tick()
	case analysisCompleteMsg:
		return m.handleAnalysisComplete(msg)
	case analysisErrorMsg:
		return m.handleAnalysisError(msg)
	}

	return m, nil
}

// handleKeyPress routes keys to the form editor or the result views
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.handleQuit()
	}
	if m.view == ViewForm {
		return m.handleFormKey(msg)
	}
	return m.handleNavKey(msg)
}

func (m *Model) handleQuit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// handleFormKey edits the focused field. Letters are text here, so only
// ctrl+c quits from the form.
func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % fieldCount
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + fieldCount - 1) % fieldCount
	case tea.KeyEsc:
		if m.console.Snapshot().Result != nil {
			m.view = ViewEvidence
		}
	case tea.KeyEnter:
		if m.focus == fieldPath {
			if m.selectPath(true) {
				m.focus = fieldSkills
			}
			return m, nil
		}
		return m, m.triggerAnalyze()
	case tea.KeyBackspace:
		if field := m.focusedInput(); field != nil {
			runes := []rune(*field)
			if len(runes) > 0 {
				*field = string(runes[:len(runes)-1])
			}
		}
	case tea.KeySpace:
		if field := m.focusedInput(); field != nil {
			*field += " "
		}
	case tea.KeyRunes:
		if field := m.focusedInput(); field != nil {
			*field += string(msg.Runes)
		}
	}
	return m, nil
}

func (m *Model) focusedInput() *string {
	switch m.focus {
	case fieldPath:
		return &m.pathInput
	case fieldSkills:
		return &m.skillsInput
	default:
		return nil
	}
}

// handleNavKey handles keys on the result views
func (m *Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "esc", "f":
		m.view = ViewForm
	case "e":
		m.view = ViewEvidence
	case "x":
		m.view = ViewXRay
		m.followSelection()
	case "r":
		m.view = ViewRadar
	case "?", "h":
		m.view = ViewHelp
	case "up", "k":
		m.console.SelectPrev()
		m.followSelection()
	case "down", "j":
		m.console.SelectNext()
		m.followSelection()
	case "enter":
		if m.view == ViewEvidence {
			m.view = ViewXRay
			m.followSelection()
		}
	case "left", "[":
		m.turnPage(-1)
	case "right", "]":
		m.turnPage(1)
	case "a":
		return m, m.triggerAnalyze()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.console.SelectFinding(int(msg.String()[0] - '1'))
		m.followSelection()
	}
	return m, nil
}

// selectPath loads the path field into the console. Unless forced, a path
// that is already loaded is not read again.
func (m *Model) selectPath(force bool) bool {
	if m.analyzing || m.console.InFlight() {
		return false
	}
	path := strings.TrimSpace(m.pathInput)
	if !force && path != "" && path == m.selectedPath {
		return true
	}
	if err := m.console.SelectFilePath(path); err != nil && !common.IsRenderError(err) {
		return false
	}
	m.selectedPath = path
	m.page = 1
	return true
}

// triggerAnalyze starts an analysis unless one is already running
func (m *Model) triggerAnalyze() tea.Cmd {
	if m.analyzing || m.console.InFlight() {
		return nil
	}
	if strings.TrimSpace(m.pathInput) != "" && !m.selectPath(false) {
		return nil
	}
	m.console.SetRequiredSkills(m.skillsInput)
	m.analyzing = true
	m.spinner.SetLabel("Analyzing...")
	return CreateAnalysisCommand(m.console)
}

func (m *Model) handleAnalysisComplete(_ analysisCompleteMsg) (tea.Model, tea.Cmd) {
	m.analyzing = false
	m.view = ViewEvidence
	m.page = 1
	m.followSelection()
	return m, nil
}

// handleAnalysisError re-enables the trigger on every failure. ErrInFlight
// means this command never ran, so it is cleared too.
func (m *Model) handleAnalysisError(_ analysisErrorMsg) (tea.Model, tea.Cmd) {
	m.analyzing = false
	return m, nil
}

// followSelection shows the page that holds the selected finding
func (m *Model) followSelection() {
	if f, ok := m.console.Snapshot().Selected(); ok && f.HasLocation() {
		m.page = f.PageNumber()
	}
}

func (m *Model) turnPage(delta int) {
	pages := m.console.Snapshot().NumPages
	if pages < 1 {
		pages = 1
	}
	m.page += delta
	if m.page < 1 {
		m.page = 1
	}
	if m.page > pages {
		m.page = pages
	}
}

// View renders the console
func (m *Model) View() string {
	if m.quitting {
		return lipgloss.NewStyle().
			Foreground(m.styles.Theme.Success).
			Bold(true).
			Render("Thanks for using SkillExtract!") + "\n"
	}

	snap := m.console.Snapshot()

	var body string
	switch m.view {
	case ViewEvidence:
		body = m.renderEvidenceView(&snap)
	case ViewXRay:
		body = m.renderXRayView(&snap)
	case ViewRadar:
		body = m.renderRadarView(&snap)
	case ViewHelp:
		body = m.renderHelpView()
	default:
		body = m.renderFormView(&snap)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderBanners(&snap),
		"",
		body,
		"",
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render(emoji.GetEmoji("xray") + " SkillExtract")

	tabs := make([]string, 0, len(viewNames))
	for i, name := range viewNames {
		style := m.styles.Tab
		if View(i) == m.view {
			style = m.styles.ActiveTab
		}
		tabs = append(tabs, style.Render(name))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(tabs, " "))
}

// renderBanners shows status and error on every view
func (m *Model) renderBanners(snap *console.Snapshot) string {
	status := snap.State.Status
	if m.analyzing {
		status = m.spinner.Render() + " " + console.StatusRunning
	}
	lines := []string{m.styles.StatusBanner.Render(emoji.GetEmoji("info") + " " + status)}
	if snap.State.Error != "" {
		lines = append(lines, m.styles.ErrorBanner.Render(emoji.GetEmoji("error")+" "+snap.State.Error))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) contentWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) renderFormView(snap *console.Snapshot) string {
	width := min(m.contentWidth(), 80)

	field := func(label, value string, focused bool) string {
		style := m.styles.Field
		cursor := ""
		if focused {
			style = m.styles.FocusedField
			cursor = "█"
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Label.Render(label),
			style.Width(width-2).Render(value+cursor),
		)
	}

	var button string
	switch {
	case m.analyzing || snap.State.InFlight:
		button = m.styles.DisabledButton.Render(m.spinner.Render() + " Analyzing...")
	case m.focus == fieldButton:
		button = m.styles.FocusedButton.Render(emoji.GetEmoji("rocket") + " Analyze")
	default:
		button = m.styles.Button.Render(emoji.GetEmoji("rocket") + " Analyze")
	}

	parts := []string{
		field("Resume (PDF path)", m.pathInput, m.focus == fieldPath),
		"",
		field("Required skills (comma-separated)", m.skillsInput, m.focus == fieldSkills),
		"",
		button,
	}

	if snap.FileName != "" {
		summary := components.NewSummaryBox(emoji.GetEmoji("page")+" Resume", width)
		summary.AddKeyValue("File", snap.FileName)
		summary.AddKeyValue("Pages", fmt.Sprintf("%d", snap.NumPages))
		summary.AddKeyValue("Skills", fmt.Sprintf("%d requested", len(common.ParseRequiredSkills(m.skillsInput))))
		parts = append(parts, "", summary.Render())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderEvidenceView(snap *console.Snapshot) string {
	if snap.Result == nil {
		return m.styles.Muted.Render("No analysis yet. Press f to open the form.")
	}

	width := m.contentWidth()
	listWidth := width / 2
	listHeight := m.height - 16
	if listHeight < 8 {
		listHeight = 8
	}

	list := components.NewEvidenceList(snap.Result.Findings, snap.State.Selected, listWidth, listHeight)
	list.SetFocused(true)

	detail := m.styles.Muted.Render("Select a finding to see its reasoning.")
	if f, ok := snap.Selected(); ok {
		tier := string(scoring.TierOf(f.ConfidenceScore))
		detail = components.NewFindingDetail(f, tier, scoring.Percent(f.ConfidenceScore), width-listWidth-2).Render()
	}

	stats := components.CreateResultStats(snap.Result)
	stats.SetCardSize(max(14, width/5-2), 3)

	return lipgloss.JoinVertical(lipgloss.Left,
		stats.Render(),
		lipgloss.JoinHorizontal(lipgloss.Top, list.Render(), " ", detail),
	)
}

func (m *Model) renderXRayView(snap *console.Snapshot) string {
	var findings []common.SkillFinding
	if snap.Result != nil {
		findings = snap.Result.Findings
	}

	cols := min(m.contentWidth()-4, 90)
	rows := m.height - 14
	if rows < 10 {
		rows = 10
	}

	viewer := components.NewXRayViewer(m.console.Document(), findings, snap.State.Selected, cols, rows)
	viewer.Page = m.page
	viewer.Projector = m.projector

	caption := m.styles.Muted.Render("No finding selected.")
	if f, ok := snap.Selected(); ok {
		tier := scoring.TierOf(f.ConfidenceScore)
		where := fmt.Sprintf("page %d", f.PageNumber())
		if !f.HasLocation() {
			where = "no location"
		}
		caption = lipgloss.NewStyle().Foreground(m.styles.Theme.TierColor(string(tier))).Render(
			fmt.Sprintf("%s %s  %d%%  %s  (%s)", emoji.ForTier(string(tier)), f.SkillName, scoring.Percent(f.ConfidenceScore), f.Section, where))
	}

	return lipgloss.JoinVertical(lipgloss.Left, viewer.Render(), caption)
}

func (m *Model) renderRadarView(snap *console.Snapshot) string {
	var points []common.RadarPoint
	if snap.Result != nil {
		points = snap.Result.Radar
	}
	title := fmt.Sprintf("%s Skill Radar (%s)", emoji.GetEmoji("radar"), m.console.RadarMode())
	chart := components.NewRadarChart(title, points, min(m.contentWidth(), 100))
	return m.styles.Box.Render(chart.Render())
}

func (m *Model) renderHelpView() string {
	sections := []components.DetailSection{
		{Title: "Form", Style: "info", Content: []string{
			"Tab / Shift+Tab    Move between fields",
			"Enter on path      Load the resume",
			"Enter on skills    Run the analysis",
			"Esc                Back to results",
		}},
		{Title: "Results", Style: "info", Content: []string{
			"e / x / r / ?      Evidence, X-Ray, Radar, Help",
			"↑↓ or j/k          Select finding",
			"1-9                Jump to finding",
			"←→ or [ ]          Change page",
			"a                  Re-run the analysis",
			"f or Esc           Back to the form",
		}},
		{Title: "Exit", Style: "warning", Content: []string{
			"q                  Quit (results views)",
			"Ctrl+C             Quit anywhere",
		}},
		{Title: "Confidence tiers", Style: "success", Content: []string{
			fmt.Sprintf("high    >= %.0f%%", scoring.HighThreshold*100),
			fmt.Sprintf("medium  >= %.0f%%", scoring.MediumThreshold*100),
			"low     below medium",
		}},
	}

	help := components.NewDetailViewer(emoji.GetEmoji("help")+" SkillExtract Help", min(m.contentWidth(), 80))
	for _, s := range sections {
		help.AddSection(s)
	}
	return help.Render()
}

func (m *Model) renderFooter() string {
	hint := "Tab: next field • Enter: load/analyze • Ctrl+C: quit"
	if m.view != ViewForm {
		hint = "e/x/r/?: views • ↑↓: select • ←→: page • a: analyze • f: form • q: quit"
	}
	return m.styles.Muted.Render(hint)
}

// Run runs the interactive console until the user quits
func Run(c *console.Console, opts Options) error {
	if !SetThemeByName(opts.Theme) {
		return fmt.Errorf("unknown theme: %s (available: %s)", opts.Theme, strings.Join(GetAvailableThemes(), ", "))
	}
	p := tea.NewProgram(NewModel(c, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
