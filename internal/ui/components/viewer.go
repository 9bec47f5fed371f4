package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/emoji"
	"github.com/yildizm/SkillExtract/internal/overlay"
	"github.com/yildizm/SkillExtract/internal/pdfview"
)

// Mark is what an X-Ray cell shows beneath the page text
type Mark struct {
	Tier     string
	Selected bool
}

// XRayViewer draws one page of the resume with findings overlaid
type XRayViewer struct {
	Doc       *pdfview.Document
	Page      int
	NumPages  int
	Findings  []common.SkillFinding
	Selected  int
	Cols      int
	Rows      int
	Projector overlay.Projector
}

// NewXRayViewer creates a viewer for the given page grid size
func NewXRayViewer(doc *pdfview.Document, findings []common.SkillFinding, selected, cols, rows int) *XRayViewer {
	v := &XRayViewer{
		Doc:       doc,
		Page:      1,
		Findings:  findings,
		Selected:  selected,
		Cols:      cols,
		Rows:      rows,
		Projector: overlay.AutoProjector{},
	}
	if doc != nil {
		v.NumPages = doc.NumPages
	}
	return v
}

// Overlays returns the finding overlays for the current page in grid units
func (v *XRayViewer) Overlays() []overlay.Overlay {
	vp := overlay.Viewport{Width: float64(v.Cols), Height: float64(v.Rows), MinSize: 1}
	return overlay.ForPage(v.Findings, v.Page, vp, v.Projector)
}

// Marks snaps the page overlays to the grid. The selected finding is laid
// down last so it wins where overlays overlap.
func (v *XRayViewer) Marks() [][]*Mark {
	if v.Cols <= 0 || v.Rows <= 0 {
		return nil
	}
	marks := make([][]*Mark, v.Rows)
	for i := range marks {
		marks[i] = make([]*Mark, v.Cols)
	}

	overlays := v.Overlays()
	var selected *overlay.Overlay
	for i := range overlays {
		if overlays[i].Index == v.Selected {
			selected = &overlays[i]
			continue
		}
		v.paint(marks, &overlays[i], false)
	}
	if selected != nil {
		v.paint(marks, selected, true)
	}
	return marks
}

func (v *XRayViewer) paint(marks [][]*Mark, o *overlay.Overlay, selected bool) {
	cell := overlay.ToCells(o.Rect, v.Cols, v.Rows)
	mark := &Mark{Tier: string(o.Tier), Selected: selected}
	for r := cell.Row; r < cell.Row+cell.Rows; r++ {
		for c := cell.Col; c < cell.Col+cell.Cols; c++ {
			marks[r][c] = mark
		}
	}
}

// lines returns the page text grid, or a blank page when nothing is loaded
func (v *XRayViewer) lines() []string {
	if v.Cols <= 0 || v.Rows <= 0 {
		return nil
	}
	if v.Doc != nil {
		if lines, err := v.Doc.Grid(v.Page, v.Cols, v.Rows); err == nil {
			return lines
		}
	}
	lines := make([]string, v.Rows)
	for i := range lines {
		lines[i] = strings.Repeat("·", v.Cols)
	}
	return lines
}

// Render renders the page with overlays, a page indicator, and a legend
func (v *XRayViewer) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	pages := v.NumPages
	if pages < 1 {
		pages = 1
	}
	title := fmt.Sprintf("%s X-Ray  page %d/%d", emoji.GetEmoji("xray"), v.Page, pages)
	content := []string{headerStyle.Render(title)}

	if v.Doc == nil {
		content = append(content, mutedStyle.Render("No page preview available; overlays are shown on a blank page."))
	}

	marks := v.Marks()
	for r, line := range v.lines() {
		content = append(content, renderMarkedLine([]rune(line), marks[r]))
	}

	legend := strings.Join([]string{
		lipgloss.NewStyle().Background(StatusColor("high")).Render("  ") + " high",
		lipgloss.NewStyle().Background(StatusColor("medium")).Render("  ") + " medium",
		lipgloss.NewStyle().Background(StatusColor("low")).Render("  ") + " low",
		lipgloss.NewStyle().Background(selectedColor).Bold(true).Render("  ") + " selected",
	}, "   ")
	content = append(content, "", legend)

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(secondaryColor).Padding(0, 1)
	return panelStyle.Render(joined)
}

// renderMarkedLine styles consecutive cells that share a mark together
func renderMarkedLine(line []rune, marks []*Mark) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && sameMark(markAt(marks, i), markAt(marks, start)) {
			continue
		}
		b.WriteString(styleFor(markAt(marks, start)).Render(string(line[start:i])))
		start = i
	}
	return b.String()
}

func markAt(marks []*Mark, i int) *Mark {
	if i < 0 || i >= len(marks) {
		return nil
	}
	return marks[i]
}

func sameMark(a, b *Mark) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func styleFor(m *Mark) lipgloss.Style {
	if m == nil {
		return lipgloss.NewStyle()
	}
	if m.Selected {
		return lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor).Bold(true).Underline(true)
	}
	return lipgloss.NewStyle().Background(StatusColor(m.Tier)).Foreground(lipgloss.Color("#111827"))
}

// DetailViewer represents a detailed view of a specific item
type DetailViewer struct {
	Title   string
	Content []DetailSection
	Width   int
}

// DetailSection represents a section in the detail view
type DetailSection struct {
	Title   string
	Content []string
	Style   string // "info", "warning", "error", "success", or a tier name
}

// NewDetailViewer creates a new detail viewer
func NewDetailViewer(title string, width int) *DetailViewer {
	return &DetailViewer{
		Title: title,
		Width: width,
	}
}

// AddSection adds a section to the detail view
func (d *DetailViewer) AddSection(section DetailSection) {
	d.Content = append(d.Content, section)
}

// Render renders the detail viewer
func (d *DetailViewer) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

	content := make([]string, 0, len(d.Content)*3+2)
	content = append(content, headerStyle.Render(d.Title), "")

	for _, section := range d.Content {
		content = append(content, d.renderSection(section)...)
		content = append(content, "")
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(secondaryColor).Padding(0, 1)
	if d.Width > 0 {
		panelStyle = panelStyle.Width(d.Width)
	}
	return panelStyle.Render(joined)
}

// renderSection renders a detail section
func (d *DetailViewer) renderSection(section DetailSection) []string {
	titleStyle := lipgloss.NewStyle().Foreground(StatusColor(section.Style)).Bold(true)
	bodyStyle := lipgloss.NewStyle()

	lines := make([]string, 0, len(section.Content)+1)
	lines = append(lines, titleStyle.Render(section.Title))
	for _, line := range section.Content {
		lines = append(lines, bodyStyle.Render("  "+line))
	}
	return lines
}

// NewFindingDetail builds the reasoning panel for one finding
func NewFindingDetail(f *common.SkillFinding, tier string, percent, width int) *DetailViewer {
	d := NewDetailViewer(fmt.Sprintf("%s %s", emoji.GetEmoji("evidence"), f.SkillName), width)

	d.AddSection(DetailSection{
		Title:   "Confidence",
		Content: []string{fmt.Sprintf("%d%% (%s)", percent, tier)},
		Style:   tier,
	})
	d.AddSection(DetailSection{Title: "Section", Content: []string{f.Section}, Style: "info"})

	location := "not located on the page"
	switch {
	case f.Coordinates != nil:
		c := f.Coordinates
		location = fmt.Sprintf("page %d at (%.0f, %.0f)-(%.0f, %.0f) of %.0fx%.0f", c.Page, c.X0, c.Y0, c.X1, c.Y1, c.PageWidth, c.PageHeight)
	case f.Box != nil:
		b := f.Box
		location = fmt.Sprintf("page 1 at %.0f%%, %.0f%% (%.0f%% x %.0f%%)", b.Left, b.Top, b.Width, b.Height)
	}
	d.AddSection(DetailSection{Title: "Location", Content: []string{location}, Style: "info"})

	var diagnostics []string
	if f.SemanticSimilarity != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("semantic similarity %.2f", *f.SemanticSimilarity))
	}
	if f.SpatialWeight != nil {
		diagnostics = append(diagnostics, fmt.Sprintf("spatial weight %.2f", *f.SpatialWeight))
	}
	if len(diagnostics) > 0 {
		d.AddSection(DetailSection{Title: "Diagnostics", Content: diagnostics})
	}

	reasoning := strings.TrimSpace(f.Reasoning)
	if reasoning == "" {
		reasoning = "No reasoning provided."
	}
	d.AddSection(DetailSection{Title: "Reasoning", Content: wrap(reasoning, width-6)})

	return d
}

// wrap breaks text into lines of at most width runes on word boundaries
func wrap(text string, width int) []string {
	if width < 10 {
		width = 10
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(word)) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
