package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/emoji"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// ListItem represents an item in a list
type ListItem struct {
	ID          string
	Title       string
	Description string
	Status      string
	Icon        string
}

// List represents a navigable list component. Selection is owned by the
// caller; -1 renders with nothing highlighted.
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Focused     bool
	Width       int
	Height      int
	ShowNumbers bool
	ShowIcons   bool
	EmptyText   string
}

// NewList creates a new list component
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		Selected:    -1,
		ShowNumbers: true,
		ShowIcons:   true,
		EmptyText:   "Nothing to show",
	}
}

// AddItem adds an item to the list
func (l *List) AddItem(item *ListItem) {
	l.Items = append(l.Items, *item)
}

// SetFocused sets the focus state of the list
func (l *List) SetFocused(focused bool) {
	l.Focused = focused
}

// SelectedItem returns the currently selected item
func (l *List) SelectedItem() *ListItem {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// visibleRange returns the window of items that keeps the selection on screen
func (l *List) visibleRange() (start, end int) {
	maxVisible := l.Height - 4 // Account for title and spacing
	if maxVisible < 1 {
		maxVisible = 1
	}

	if l.Selected >= maxVisible {
		start = l.Selected - maxVisible + 1
	}

	end = start + maxVisible
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return start, end
}

// Render renders the list
func (l *List) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(secondaryColor)

	content := []string{headerStyle.Render(l.Title), ""}

	if len(l.Items) == 0 {
		content = append(content, normalStyle.Render(l.EmptyText))
	}

	start, end := l.visibleRange()
	for i := start; i < end; i++ {
		content = append(content, l.renderItem(&l.Items[i], i+1, i == l.Selected))
	}

	if len(l.Items) > end-start && len(l.Items) > 0 {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", start+1, end, len(l.Items))
		content = append(content, "", normalStyle.Render(scrollInfo))
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)

	border := secondaryColor
	if l.Focused {
		border = primaryColor
	}
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)

	return panelStyle.Width(l.Width).Render(joined)
}

// renderItem renders a single list item
func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	var parts []string

	prefix := "  "
	if selected {
		prefix = "▶ "
	}
	parts = append(parts, prefix)

	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}

	if l.ShowIcons && item.Icon != "" {
		parts = append(parts, item.Icon)
	}

	title := item.Title
	if item.Description != "" {
		title += " - " + item.Description
	}
	parts = append(parts, title)

	line := strings.Join(parts, " ")

	style := lipgloss.NewStyle().Foreground(StatusColor(item.Status))
	if selected {
		style = lipgloss.NewStyle().Background(selectedColor).Foreground(primaryColor).Bold(true)
	}

	width := l.Width - 4
	if width < 1 {
		width = 1
	}
	return style.Width(width).Render(line)
}

// NewEvidenceList creates a list component for skill findings
func NewEvidenceList(findings []common.SkillFinding, selected, width, height int) *List {
	list := NewList("Verified Skills", width, height)
	list.EmptyText = "No findings yet. Run an analysis from the form."
	list.Selected = selected

	for i := range findings {
		finding := &findings[i]
		tier := string(scoring.TierOf(finding.ConfidenceScore))

		description := fmt.Sprintf("%d%% in %s", scoring.Percent(finding.ConfidenceScore), finding.Section)
		if finding.HasLocation() {
			description += fmt.Sprintf(" (p.%d)", finding.PageNumber())
		}

		list.AddItem(&ListItem{
			ID:          fmt.Sprintf("finding-%d", i),
			Title:       finding.SkillName,
			Description: description,
			Status:      tier,
			Icon:        emoji.ForTier(tier),
		})
	}

	return list
}
