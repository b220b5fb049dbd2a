// Package entity defines the layout entity: a bounded paragraph or table
// that the reading-order pipeline consolidates and sorts.
package entity

import (
	"sort"
	"strings"

	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/table"
	"github.com/layoutflow/layoutflow/internal/text"
)

type Kind int

const (
	Paragraph Kind = iota
	Table
)

func (k Kind) String() string {
	if k == Table {
		return "table"
	}
	return "paragraph"
}

const (
	defaultFontSize   = 12.0
	paragraphBreakGap = 5.0
	centerTolerance   = 15.0
	centerMinMargin   = 100.0
	centerMaxWidth    = 0.40
	indentThreshold   = 2.0
	sameLineTolerance = 3.0
	glyphWidthRatio   = 0.5
)

// Frame is the page extent an entity was built on.
type Frame struct{ Width, Height float32 }

// Entity is immutable once built apart from its lazily computed text.
// Merging produces a new Entity.
type Entity struct {
	kind          Kind
	elems         []*models.Element
	grid          *table.Grid
	bounds        geometry.Bounds
	firstLineLeft float32
	fontSize      float32
	frame         Frame
	text          *string
}

// NewParagraph wraps a run of elements. The elements are copied and sorted
// top to bottom, then left to right.
func NewParagraph(elems []*models.Element, frame Frame) *Entity {
	sorted := append([]*models.Element(nil), elems...)
	models.SortByLine(sorted)
	e := &Entity{kind: Paragraph, elems: sorted, frame: frame}
	for _, el := range sorted {
		e.bounds = e.bounds.Extend(el.Rect())
	}
	if len(sorted) > 0 {
		e.firstLineLeft = sorted[0].Left()
	}
	e.fontSize = estimateFontSize(sorted)
	return e
}

func NewTable(g *table.Grid, frame Frame) *Entity {
	e := &Entity{kind: Table, grid: g, frame: frame, bounds: g.Bounds()}
	e.firstLineLeft = e.bounds.OrEmpty().X0
	var elems []*models.Element
	for _, c := range g.Cells() {
		elems = append(elems, c.Elements...)
	}
	e.fontSize = estimateFontSize(elems)
	return e
}

// Merge joins two paragraphs into a new entity. The first-line offset is
// inherited from whichever input starts higher on the page.
func Merge(a, b *Entity) *Entity {
	elems := make([]*models.Element, 0, len(a.elems)+len(b.elems))
	elems = append(elems, a.elems...)
	elems = append(elems, b.elems...)
	m := NewParagraph(elems, a.frame)
	if b.Top() < a.Top() {
		m.firstLineLeft = b.firstLineLeft
	} else {
		m.firstLineLeft = a.firstLineLeft
	}
	return m
}

// estimateFontSize takes the median of the font sizes present on the text
// runs, falling back to 12.
func estimateFontSize(elems []*models.Element) float32 {
	var sizes []float32
	for _, el := range elems {
		if el.IsText() && el.HasFontSize() {
			sizes = append(sizes, el.FontSize())
		}
	}
	if len(sizes) == 0 {
		return defaultFontSize
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes[len(sizes)/2]
}

func (e *Entity) Kind() Kind                  { return e.kind }
func (e *Entity) IsTable() bool               { return e.kind == Table }
func (e *Entity) Grid() *table.Grid           { return e.grid }
func (e *Entity) Frame() Frame                { return e.frame }
func (e *Entity) Bounds() geometry.Bounds     { return e.bounds }
func (e *Entity) Rect() geometry.Rect         { return e.bounds.OrEmpty() }
func (e *Entity) Elements() []*models.Element { return e.elems }
func (e *Entity) FirstLineLeft() float32      { return e.firstLineLeft }
func (e *Entity) FontSize() float32           { return e.fontSize }

func (e *Entity) Left() float32   { return e.Rect().X0 }
func (e *Entity) Top() float32    { return e.Rect().Y0 }
func (e *Entity) Right() float32  { return e.Rect().X1 }
func (e *Entity) Bottom() float32 { return e.Rect().Y1 }
func (e *Entity) Width() float32  { return e.Rect().Width() }
func (e *Entity) Height() float32 { return e.Rect().Height() }

// Indent is the first-line indent relative to the paragraph's left edge,
// or zero when it is too small to be meaningful.
func (e *Entity) Indent() float32 {
	if e.kind != Paragraph {
		return 0
	}
	if d := e.firstLineLeft - e.Left(); d > indentThreshold {
		return d
	}
	return 0
}

// first returns the first text run, or nil.
func (e *Entity) first() *models.Element {
	for _, el := range e.elems {
		if el.IsText() {
			return el
		}
	}
	return nil
}

// FirstFontSize is the size of the first text run, or the estimated size
// when that run carries none.
func (e *Entity) FirstFontSize() float32 {
	if f := e.first(); f != nil && f.HasFontSize() {
		return f.FontSize()
	}
	return e.fontSize
}

func (e *Entity) FirstBold() bool {
	if f := e.first(); f != nil {
		return f.Bold()
	}
	return false
}

// IsCentered applies the symmetric-margin test against the page width.
func (e *Entity) IsCentered() bool {
	if e.frame.Width <= 0 || e.bounds.IsZero() {
		return false
	}
	left := e.Left()
	right := e.frame.Width - e.Right()
	if geometry.Abs32(left-right) >= centerTolerance {
		return false
	}
	return left > centerMinMargin || e.Width() < e.frame.Width*centerMaxWidth
}

// LastLineRight is the right edge of the bottom-most line.
func (e *Entity) LastLineRight() float32 {
	if len(e.elems) == 0 {
		return e.Right()
	}
	var lastTop float32
	for _, el := range e.elems {
		lastTop = geometry.Max32(lastTop, el.Top())
	}
	var right float32
	for _, el := range e.elems {
		if el.Top() >= lastTop-sameLineTolerance {
			right = geometry.Max32(right, el.Right())
		}
	}
	return right
}

// HangingLeft is the left edge wrapped lines of the entity align with. For
// a list item that is where the item text starts after its marker; for
// anything else it is the entity's left edge.
func (e *Entity) HangingLeft() float32 {
	left := e.Left()
	if e.kind != Paragraph || !text.StartsWithBullet(e.Text()) {
		return left
	}
	f := e.first()
	lineEnd := f.Top() + geometry.Max32(f.Height()/2, sameLineTolerance)
	var firstLine, rest []*models.Element
	for _, el := range e.elems {
		if el.Top() < lineEnd {
			firstLine = append(firstLine, el)
		} else {
			rest = append(rest, el)
		}
	}
	if len(rest) > 0 {
		hang := rest[0].Left()
		for _, el := range rest[1:] {
			hang = geometry.Min32(hang, el.Left())
		}
		return hang
	}
	models.SortByLeft(firstLine)
	marker := strings.TrimSpace(firstLine[0].Text())
	if len(firstLine) > 1 && (text.IsBullet(marker) || text.IsListMarker(marker)) {
		return firstLine[1].Left()
	}
	w := text.FirstWord(firstLine[0].Text())
	return firstLine[0].Left() + float32(text.CountUnicodeChars(w)+1)*e.fontSize*glyphWidthRatio
}

// FirstWordWidth estimates the rendered width of the entity's first word.
func (e *Entity) FirstWordWidth() float32 {
	w := text.FirstWord(e.Text())
	return float32(text.CountUnicodeChars(w)) * e.fontSize * glyphWidthRatio
}

// Text returns the flow text. Centered paragraphs join their runs with
// single spaces; otherwise a vertical gap above 5 units becomes a blank
// line. Tables render one line per row with tab-separated cells.
func (e *Entity) Text() string {
	if e.text != nil {
		return *e.text
	}
	var s string
	if e.kind == Table {
		s = tableText(e.grid)
	} else {
		s = e.flowText()
	}
	e.text = &s
	return s
}

func (e *Entity) flowText() string {
	centered := e.IsCentered()
	var b strings.Builder
	var prev *models.Element
	for _, el := range e.elems {
		t := text.Clean(el.Text(), text.FlowCleanup)
		if t == "" {
			continue
		}
		if prev != nil {
			if !centered && el.Top()-prev.Bottom() > paragraphBreakGap {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t)
		prev = el
	}
	return b.String()
}

func tableText(g *table.Grid) string {
	if g == nil {
		return ""
	}
	var lines []string
	for _, row := range g.RowTexts() {
		line := strings.Join(row, "\t")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Rows returns the table's cell texts, or nil for paragraphs.
func (e *Entity) Rows() [][]string {
	if e.kind != Table || e.grid == nil {
		return nil
	}
	return e.grid.RowTexts()
}
