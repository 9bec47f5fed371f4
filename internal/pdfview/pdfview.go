// Package pdfview loads a resume PDF for on-screen inspection: page geometry
// and positioned text runs, laid out into a character grid for the terminal.
package pdfview

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/yildizm/SkillExtract/internal/common"
)

// US Letter in points, used when a page has no usable MediaBox
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// RenderConfig controls how documents are loaded and laid out
type RenderConfig struct {
	// Width and Height are the rendered page size used for pixel overlays
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// MaxPages limits how many pages have their text extracted; 0 means all
	MaxPages int `json:"max_pages"`

	// MaxBytes rejects larger files; 0 disables the check
	MaxBytes int64 `json:"max_bytes"`
}

// DefaultRenderConfig returns the default render configuration
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:    760,
		Height:   1075,
		MaxPages: 20,
		MaxBytes: 20 * 1024 * 1024,
	}
}

// Validate validates the render configuration
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("render width and height must be positive")
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("render max pages cannot be negative")
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("render max bytes cannot be negative")
	}
	return nil
}

// TextRun is a piece of text positioned with a top-left origin in page units
type TextRun struct {
	X        float64
	Y        float64
	FontSize float64
	Text     string
}

// Page is one page's geometry and text
type Page struct {
	Number int
	Width  float64
	Height float64
	Runs   []TextRun
}

// Document is a loaded PDF
type Document struct {
	Name     string
	NumPages int
	Pages    []Page
}

// Renderer loads documents with a fixed configuration
type Renderer struct {
	config RenderConfig
}

// NewRenderer creates a renderer; zero-valued dimensions take the defaults
func NewRenderer(config RenderConfig) *Renderer {
	defaults := DefaultRenderConfig()
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Height <= 0 {
		config.Height = defaults.Height
	}
	return &Renderer{config: config}
}

// Config returns the renderer configuration
func (r *Renderer) Config() RenderConfig {
	return r.config
}

// Load parses a PDF. Every failure, including a panic inside the PDF
// library, is returned as a render error.
func (r *Renderer) Load(file *common.ResumeFile) (doc *Document, err error) {
	if file == nil || len(file.Data) == 0 {
		return nil, common.NewRenderError(fmt.Errorf("no PDF data"))
	}
	if r.config.MaxBytes > 0 && int64(len(file.Data)) > r.config.MaxBytes {
		return nil, common.NewRenderError(fmt.Errorf("file is %d bytes, limit is %d", len(file.Data), r.config.MaxBytes))
	}

	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = common.NewRenderError(fmt.Errorf("malformed PDF: %v", rec))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return nil, common.NewRenderError(err)
	}

	total := reader.NumPage()
	if total == 0 {
		return nil, common.NewRenderError(fmt.Errorf("document has no pages"))
	}

	limit := total
	if r.config.MaxPages > 0 && limit > r.config.MaxPages {
		limit = r.config.MaxPages
	}

	doc = &Document{
		Name:     file.BaseName(),
		NumPages: total,
		Pages:    make([]Page, 0, limit),
	}
	for i := 1; i <= limit; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{Number: i, Width: defaultPageWidth, Height: defaultPageHeight})
			continue
		}
		doc.Pages = append(doc.Pages, loadPage(i, p))
	}
	return doc, nil
}

func loadPage(number int, p pdf.Page) Page {
	x0, y0, x1, y1 := mediaBox(p.V)
	page := Page{Number: number, Width: x1 - x0, Height: y1 - y0}

	content := p.Content()
	page.Runs = mergeRuns(content.Text, x0, y1)
	return page
}

// maxTreeDepth bounds the walk up a page tree with a broken Parent chain
const maxTreeDepth = 32

// mediaBox returns the page MediaBox, walking up the page tree for an
// inherited value
func mediaBox(v pdf.Value) (x0, y0, x1, y1 float64) {
	node := v
	for depth := 0; depth < maxTreeDepth && !node.IsNull(); depth++ {
		box := node.Key("MediaBox")
		node = node.Key("Parent")
		if box.Len() != 4 {
			continue
		}
		x0, y0 = box.Index(0).Float64(), box.Index(1).Float64()
		x1, y1 = box.Index(2).Float64(), box.Index(3).Float64()
		if x1 > x0 && y1 > y0 {
			return x0, y0, x1, y1
		}
	}
	return 0, 0, defaultPageWidth, defaultPageHeight
}

// mergeRuns joins glyphs that share a baseline and follow each other
// closely, and flips Y to a top-left origin
func mergeRuns(glyphs []pdf.Text, originX, top float64) []TextRun {
	var runs []TextRun
	var cur *TextRun
	var curEnd, curBaseline float64

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		x := g.X - originX
		y := top - g.Y
		gap := g.FontSize
		if gap <= 0 {
			gap = 1
		}
		if cur != nil && math.Abs(g.Y-curBaseline) < 0.5 && x >= curEnd-gap/2 && x-curEnd <= gap {
			if x-curEnd > gap/4 && !strings.HasSuffix(cur.Text, " ") && g.S != " " {
				cur.Text += " "
			}
			cur.Text += g.S
			curEnd = x + g.W
			continue
		}
		runs = append(runs, TextRun{X: x, Y: y, FontSize: g.FontSize, Text: g.S})
		cur = &runs[len(runs)-1]
		curEnd = x + g.W
		curBaseline = g.Y
	}
	return runs
}

// Page returns a page by 1-based number
func (d *Document) Page(number int) (*Page, bool) {
	if d == nil || number < 1 || number > len(d.Pages) {
		return nil, false
	}
	return &d.Pages[number-1], true
}

// HasText reports whether any loaded page carries visible text
func (d *Document) HasText() bool {
	if d == nil {
		return false
	}
	for _, p := range d.Pages {
		for _, r := range p.Runs {
			if strings.TrimSpace(r.Text) != "" {
				return true
			}
		}
	}
	return false
}

// Text returns the loaded text in reading order, one line per run row
func (d *Document) Text() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		for _, line := range p.lines() {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (p *Page) lines() []string {
	runs := append([]TextRun(nil), p.Runs...)
	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].Y-runs[j].Y) >= 0.5 {
			return runs[i].Y < runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var lines []string
	var cur strings.Builder
	lastY := math.NaN()
	for _, r := range runs {
		if !math.IsNaN(lastY) && math.Abs(r.Y-lastY) >= 0.5 {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(r.Text)
		lastY = r.Y
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Grid lays a page's text into a cols×rows character grid. Runs are placed
// proportionally and clipped at the right edge; later runs overwrite earlier
// ones where they collide.
func (d *Document) Grid(page, cols, rows int) ([]string, error) {
	p, ok := d.Page(page)
	if !ok {
		return nil, fmt.Errorf("page %d out of range", page)
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", cols, rows)
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}

	for _, run := range p.Runs {
		col := int(math.Floor(run.X / p.Width * float64(cols)))
		row := int(math.Floor(run.Y / p.Height * float64(rows)))
		if row < 0 || row >= rows || col >= cols {
			continue
		}
		if col < 0 {
			col = 0
		}
		for _, ch := range run.Text {
			if col >= cols {
				break
			}
			if ch == '\t' || ch == '\n' || ch == '\r' {
				ch = ' '
			}
			grid[row][col] = ch
			col++
		}
	}

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines, nil
}
