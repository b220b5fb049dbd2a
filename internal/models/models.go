package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/layoutflow/layoutflow/internal/geometry"
)

type ElementKind string

const (
	ElementText  ElementKind = "text"
	ElementImage ElementKind = "image"
	ElementHRule ElementKind = "hrule"
	ElementVRule ElementKind = "vrule"
	ElementCell  ElementKind = "cell"
)

type GroupKind string

const (
	GroupText  GroupKind = "text"
	GroupTable GroupKind = "table"
)

// GroupRef points an element at the one text group or table that encloses
// it. The reference is set upstream and treated as authoritative.
type GroupRef struct {
	Kind  GroupKind `json:"kind"`
	Index int       `json:"index"`
}

// Element is a positioned leaf of a page. Every attribute is optional; the
// accessors return zero values for anything the extractor did not provide.
type Element struct {
	Kind      ElementKind `json:"kind"`
	X         *float32    `json:"left,omitempty"`
	Y         *float32    `json:"top,omitempty"`
	W         *float32    `json:"width,omitempty"`
	H         *float32    `json:"height,omitempty"`
	Stretch   *float32    `json:"stretch,omitempty"`
	Content   *string     `json:"text,omitempty"`
	Size      *float32    `json:"font_size,omitempty"`
	IsBold    *bool       `json:"bold,omitempty"`
	IsItalic  *bool       `json:"italic,omitempty"`
	Colour    *string     `json:"color,omitempty"`
	LineStart *float32    `json:"indent,omitempty"`
	Alignment *string     `json:"align,omitempty"`
	Group     *GroupRef   `json:"group,omitempty"`
}

func f32(p *float32) float32 {
	if p == nil {
		return 0
	}
	return *p
}

func (e *Element) Left() float32 { return f32(e.X) }
func (e *Element) Top() float32  { return f32(e.Y) }

func (e *Element) Width() float32 {
	if e.W != nil {
		return *e.W
	}
	if e.Kind == ElementHRule {
		return f32(e.Stretch)
	}
	return 0
}

func (e *Element) Height() float32 {
	if e.H != nil {
		return *e.H
	}
	if e.Kind == ElementVRule {
		return f32(e.Stretch)
	}
	return 0
}

func (e *Element) Right() float32  { return e.Left() + e.Width() }
func (e *Element) Bottom() float32 { return e.Top() + e.Height() }

func (e *Element) Rect() geometry.Rect {
	return geometry.Rect{X0: e.Left(), Y0: e.Top(), X1: e.Right(), Y1: e.Bottom()}
}

func (e *Element) IsText() bool { return e.Kind == ElementText || e.Kind == ElementCell }

func (e *Element) Text() string {
	if e.Content == nil || !e.IsText() {
		return ""
	}
	return *e.Content
}

func (e *Element) FontSize() float32 { return f32(e.Size) }
func (e *Element) HasFontSize() bool { return e.Size != nil && *e.Size > 0 }
func (e *Element) Bold() bool        { return e.IsBold != nil && *e.IsBold }
func (e *Element) Italic() bool      { return e.IsItalic != nil && *e.IsItalic }

func (e *Element) Color() (string, bool) {
	if e.Colour == nil {
		return "", false
	}
	return *e.Colour, true
}

// Indent is the first-line offset the extractor measured for the run.
func (e *Element) Indent() float32 { return f32(e.LineStart) }

func (e *Element) Align() string {
	if e.Alignment == nil {
		return ""
	}
	return *e.Alignment
}

type TextGroup struct {
	Elements []int `json:"elements"`
}

type Borders struct {
	Top    bool `json:"top,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
}

func (b Borders) Any() bool { return b.Top || b.Bottom || b.Left || b.Right }

type Cell struct {
	Elements []int   `json:"elements,omitempty"`
	Borders  Borders `json:"borders"`
}

// Table is a tabular group. Grid holds one logical cell index per grid
// coordinate; merged cells repeat the same index and -1 marks a hole.
type Table struct {
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Grid  [][]int `json:"grid"`
	Cells []Cell  `json:"cells"`
}

// CellAt returns the logical cell index at (r, c), or -1.
func (t *Table) CellAt(r, c int) int {
	if r < 0 || r >= len(t.Grid) || c < 0 || c >= len(t.Grid[r]) {
		return -1
	}
	if idx := t.Grid[r][c]; idx >= 0 && idx < len(t.Cells) {
		return idx
	}
	return -1
}

type Page struct {
	Number     int         `json:"number"`
	Width      float32     `json:"width"`
	Height     float32     `json:"height"`
	Elements   []Element   `json:"elements"`
	TextGroups []TextGroup `json:"text_groups,omitempty"`
	Tables     []Table     `json:"tables,omitempty"`
}

func (p *Page) Rect() geometry.Rect { return geometry.Rect{X1: p.Width, Y1: p.Height} }

// Element returns the element at idx, or nil when idx is out of range.
func (p *Page) Element(idx int) *Element {
	if idx < 0 || idx >= len(p.Elements) {
		return nil
	}
	return &p.Elements[idx]
}

type BBox [4]float32

func (b BBox) X0() float32     { return b[0] }
func (b BBox) Y0() float32     { return b[1] }
func (b BBox) X1() float32     { return b[2] }
func (b BBox) Y1() float32     { return b[3] }
func (b BBox) Width() float32  { return b[2] - b[0] }
func (b BBox) Height() float32 { return b[3] - b[1] }

func BBoxOf(r geometry.Rect) BBox { return BBox{r.X0, r.Y0, r.X1, r.Y1} }

func (b BBox) MarshalJSON() ([]byte, error) {
	return []byte("[" +
		strconv.FormatFloat(float64(b[0]), 'f', 2, 32) + "," +
		strconv.FormatFloat(float64(b[1]), 'f', 2, 32) + "," +
		strconv.FormatFloat(float64(b[2]), 'f', 2, 32) + "," +
		strconv.FormatFloat(float64(b[3]), 'f', 2, 32) + "]"), nil
}

type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockTable     BlockType = "table"
)

// Block is one layout entity as handed to the translation and rendering
// stages.
type Block struct {
	ID       string
	Type     BlockType
	BBox     BBox
	Area     int
	Text     string
	Indent   float32
	FontSize float32
	Rows     [][]string
}

func (b Block) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	var err error
	switch b.Type {
	case BlockTable:
		err = enc.Encode(struct {
			ID   string     `json:"id"`
			Type BlockType  `json:"type"`
			BBox BBox       `json:"bbox"`
			Area int        `json:"area"`
			Text string     `json:"text"`
			Rows [][]string `json:"rows,omitempty"`
		}{b.ID, b.Type, b.BBox, b.Area, b.Text, b.Rows})
	default:
		err = enc.Encode(struct {
			ID       string    `json:"id"`
			Type     BlockType `json:"type"`
			BBox     BBox      `json:"bbox"`
			Area     int       `json:"area"`
			Text     string    `json:"text"`
			Indent   float32   `json:"indent,omitempty"`
			FontSize float32   `json:"font_size"`
		}{b.ID, b.Type, b.BBox, b.Area, b.Text, b.Indent, b.FontSize})
	}
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

type PageResult struct {
	Number int     `json:"page"`
	Layout string  `json:"layout"`
	Data   []Block `json:"data"`
}

type Document struct{ Pages []PageResult }

func (d *Document) MarshalJSON() ([]byte, error) { return json.Marshal(d.Pages) }
