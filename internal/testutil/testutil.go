// Package testutil builds page fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"

	"github.com/layoutflow/layoutflow/internal/models"
)

var TestDataDir string

func init() {
	root := FindProjectRoot()
	if root != "" {
		TestDataDir = filepath.Join(root, "testdata")
	}
}

func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return ""
		}
		cwd = parent
	}
}

func F(v float32) *float32 { return &v }
func S(v string) *string   { return &v }
func B(v bool) *bool       { return &v }

// Text returns a text run at the given position.
func Text(left, top, width, height float32, s string, fontSize float32) *models.Element {
	e := &models.Element{
		Kind:    models.ElementText,
		X:       F(left),
		Y:       F(top),
		W:       F(width),
		H:       F(height),
		Content: S(s),
	}
	if fontSize > 0 {
		e.Size = F(fontSize)
	}
	return e
}

func Bold(e *models.Element) *models.Element {
	e.IsBold = B(true)
	return e
}

func Image(left, top, width, height float32) *models.Element {
	return &models.Element{Kind: models.ElementImage, X: F(left), Y: F(top), W: F(width), H: F(height)}
}

// Page assembles a page and wires text groups. Each group lists indices
// into elems; elements named by no group stay ungrouped.
type Page struct {
	p *models.Page
}

func NewPage(width, height float32) *Page {
	return &Page{p: &models.Page{Number: 1, Width: width, Height: height}}
}

// Add appends elements and returns their indices.
func (b *Page) Add(elems ...*models.Element) []int {
	idx := make([]int, 0, len(elems))
	for _, e := range elems {
		idx = append(idx, len(b.p.Elements))
		b.p.Elements = append(b.p.Elements, *e)
	}
	return idx
}

// Group adds the elements as one text group.
func (b *Page) Group(elems ...*models.Element) *Page {
	idx := b.Add(elems...)
	g := len(b.p.TextGroups)
	for _, i := range idx {
		b.p.Elements[i].Group = &models.GroupRef{Kind: models.GroupText, Index: g}
	}
	b.p.TextGroups = append(b.p.TextGroups, models.TextGroup{Elements: idx})
	return b
}

// Table adds a rows×cols table whose cells each hold one element from
// cells, row-major. A nil entry leaves the cell empty. bordered marks every
// cell with full borders.
func (b *Page) Table(rows, cols int, cells []*models.Element, bordered bool) *Page {
	t := models.Table{Rows: rows, Cols: cols, Grid: make([][]int, rows)}
	ti := len(b.p.Tables)
	for r := 0; r < rows; r++ {
		t.Grid[r] = make([]int, cols)
		for c := 0; c < cols; c++ {
			ci := len(t.Cells)
			t.Grid[r][c] = ci
			cell := models.Cell{}
			if bordered {
				cell.Borders = models.Borders{Top: true, Bottom: true, Left: true, Right: true}
			}
			if k := r*cols + c; k < len(cells) && cells[k] != nil {
				e := *cells[k]
				e.Kind = models.ElementCell
				e.Group = &models.GroupRef{Kind: models.GroupTable, Index: ti}
				cell.Elements = b.Add(&e)
			}
			t.Cells = append(t.Cells, cell)
		}
	}
	b.p.Tables = append(b.p.Tables, t)
	return b
}

func (b *Page) Build() *models.Page { return b.p }
