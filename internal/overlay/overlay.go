// Package overlay projects analyzer finding locations onto a rendered page.
package overlay

import (
	"fmt"
	"math"
	"strings"

	"github.com/yildizm/SkillExtract/internal/common"
	"github.com/yildizm/SkillExtract/internal/scoring"
)

// Projection modes
const (
	ModeAuto        = "auto"
	ModeCoordinates = "coordinates"
	ModePercent     = "percent"
)

// DefaultMinSize keeps tiny boxes visible on a pixel canvas
const DefaultMinSize = 12.0

// Viewport is the rendered size of one page
type Viewport struct {
	Width   float64
	Height  float64
	MinSize float64
}

// Rect is a placed overlay rectangle in rendered units
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlay is a rectangle tied to the finding it marks
type Overlay struct {
	Index int          `json:"index"`
	Skill string       `json:"skill"`
	Tier  scoring.Tier `json:"tier"`
	Page  int          `json:"page"`
	Rect  Rect         `json:"rect"`
}

// Projector turns a finding location into a rect on the given viewport
type Projector interface {
	Project(f *common.SkillFinding, vp Viewport) (Rect, bool)
}

// CoordinateProjector places absolute page coordinates
type CoordinateProjector struct{}

// Project scales coordinates by (c/dim)*rendered
func (CoordinateProjector) Project(f *common.SkillFinding, vp Viewport) (Rect, bool) {
	c := f.Coordinates
	if c == nil || c.PageWidth <= 0 || c.PageHeight <= 0 {
		return Rect{}, false
	}
	left := Place(c.X0, c.PageWidth, vp.Width)
	top := Place(c.Y0, c.PageHeight, vp.Height)
	width := Place(c.X1-c.X0, c.PageWidth, vp.Width)
	height := Place(c.Y1-c.Y0, c.PageHeight, vp.Height)
	return Rect{
		Left:   left,
		Top:    top,
		Width:  math.Max(width, vp.MinSize),
		Height: math.Max(height, vp.MinSize),
	}, true
}

// PercentBoxProjector places percentage-of-page boxes
type PercentBoxProjector struct{}

// Project scales percentages by percent/100*rendered
func (PercentBoxProjector) Project(f *common.SkillFinding, vp Viewport) (Rect, bool) {
	b := f.Box
	if b == nil {
		return Rect{}, false
	}
	return Rect{
		Left:   Place(b.Left, 100, vp.Width),
		Top:    Place(b.Top, 100, vp.Height),
		Width:  math.Max(Place(b.Width, 100, vp.Width), vp.MinSize),
		Height: math.Max(Place(b.Height, 100, vp.Height), vp.MinSize),
	}, true
}

// AutoProjector prefers coordinates and falls back to percentage boxes
type AutoProjector struct{}

// Project dispatches on whichever location the finding carries
func (AutoProjector) Project(f *common.SkillFinding, vp Viewport) (Rect, bool) {
	if r, ok := (CoordinateProjector{}).Project(f, vp); ok {
		return r, true
	}
	return PercentBoxProjector{}.Project(f, vp)
}

// NewProjector selects a projector by mode name
func NewProjector(mode string) (Projector, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeAuto:
		return AutoProjector{}, nil
	case ModeCoordinates:
		return CoordinateProjector{}, nil
	case ModePercent:
		return PercentBoxProjector{}, nil
	default:
		return nil, fmt.Errorf("unknown overlay mode: %s", mode)
	}
}

// Place converts a source-page value into rendered units
func Place(value, dimension, rendered float64) float64 {
	if dimension <= 0 {
		return 0
	}
	return value / dimension * rendered
}

// ForPage builds overlays for findings located on the given page.
// Percentage boxes have no page and are shown on page 1.
func ForPage(findings []common.SkillFinding, page int, vp Viewport, p Projector) []Overlay {
	if p == nil {
		p = AutoProjector{}
	}
	var overlays []Overlay
	for i := range findings {
		f := &findings[i]
		if !f.HasLocation() || f.PageNumber() != page {
			continue
		}
		rect, ok := p.Project(f, vp)
		if !ok {
			continue
		}
		overlays = append(overlays, Overlay{
			Index: i,
			Skill: f.SkillName,
			Tier:  scoring.TierOf(f.ConfidenceScore),
			Page:  page,
			Rect:  rect,
		})
	}
	return overlays
}

// Cell is an overlay snapped to a character grid
type Cell struct {
	Col, Row, Cols, Rows int
}

// ToCells snaps a rect to integer grid cells, at least one cell in each direction
func ToCells(r Rect, maxCols, maxRows int) Cell {
	col := int(math.Floor(r.Left))
	row := int(math.Floor(r.Top))
	cols := int(math.Ceil(r.Left+r.Width)) - col
	rows := int(math.Ceil(r.Top+r.Height)) - row
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if col >= maxCols {
		col = maxCols - 1
	}
	if row >= maxRows {
		row = maxRows - 1
	}
	if col < 0 {
		col = 0
	}
	if row < 0 {
		row = 0
	}
	if col+cols > maxCols {
		cols = maxCols - col
	}
	if row+rows > maxRows {
		rows = maxRows - row
	}
	return Cell{Col: col, Row: row, Cols: cols, Rows: rows}
}
