package table

import (
	"strings"

	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/text"
)

var Logger = logger.GetLogger("table")

const (
	tallRatio         = 0.40
	tallBorderedRatio = 0.25
	maxListRows       = 8
	maxListCols       = 4
	bulletColumnWidth = 60
	bulletColumnCover = 0.5
	borderedRatio     = 0.5
	markerColumnRatio = 0.5
)

type Cell struct {
	Index    int
	Elements []*models.Element
	Borders  models.Borders
}

func (c *Cell) Empty() bool { return c == nil || len(c.Elements) == 0 }

func (c *Cell) Bounds() geometry.Bounds {
	var b geometry.Bounds
	if c == nil {
		return b
	}
	for _, e := range c.Elements {
		b = b.Extend(e.Rect())
	}
	return b
}

// Text joins the cell's runs in reading order.
func (c *Cell) Text() string {
	if c.Empty() {
		return ""
	}
	elems := append([]*models.Element(nil), c.Elements...)
	models.SortByPosition(elems)
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		if t := strings.TrimSpace(e.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Grid is a tabular group with its cell references resolved against the
// page. Merged cells share one *Cell across coordinates; holes are nil.
type Grid struct {
	Rows, Cols int
	cells      [][]*Cell
	logical    []*Cell
}

// Resolve builds a Grid from the upstream table description. Rows shorter
// than the column count are padded with holes. Elements whose back-reference
// names a text group belong to that group and are left out.
func Resolve(t *models.Table, page *models.Page) *Grid {
	rows, cols := t.Rows, t.Cols
	if rows < len(t.Grid) {
		rows = len(t.Grid)
	}
	for _, r := range t.Grid {
		if len(r) > cols {
			cols = len(r)
		}
	}
	g := &Grid{Rows: rows, Cols: cols, logical: make([]*Cell, len(t.Cells))}
	for i, mc := range t.Cells {
		cell := &Cell{Index: i, Borders: mc.Borders}
		for _, idx := range mc.Elements {
			e := page.Element(idx)
			if e == nil || (e.Group != nil && e.Group.Kind != models.GroupTable) {
				continue
			}
			cell.Elements = append(cell.Elements, e)
		}
		g.logical[i] = cell
	}
	g.cells = make([][]*Cell, rows)
	for r := 0; r < rows; r++ {
		g.cells[r] = make([]*Cell, cols)
		for c := 0; c < cols; c++ {
			if idx := t.CellAt(r, c); idx >= 0 {
				g.cells[r][c] = g.logical[idx]
			}
		}
	}
	return g
}

func (g *Grid) At(r, c int) *Cell {
	if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
		return nil
	}
	return g.cells[r][c]
}

// Cells returns the logical cells referenced by the grid, row-major in
// order of first appearance.
func (g *Grid) Cells() []*Cell {
	seen := make(map[*Cell]bool)
	var out []*Cell
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if cell := g.cells[r][c]; cell != nil && !seen[cell] {
				seen[cell] = true
				out = append(out, cell)
			}
		}
	}
	return out
}

// Bounds covers the non-empty cells. A table without content has empty
// bounds rather than an inverted box.
func (g *Grid) Bounds() geometry.Bounds {
	var b geometry.Bounds
	for _, cell := range g.Cells() {
		b = b.Merge(cell.Bounds())
	}
	return b
}

// RowTexts renders each row as the text of its cells.
func (g *Grid) RowTexts() [][]string {
	rows := make([][]string, 0, g.Rows)
	for r := 0; r < g.Rows; r++ {
		row := make([]string, g.Cols)
		for c := 0; c < g.Cols; c++ {
			if cell := g.cells[r][c]; cell != nil {
				row[c] = cell.Text()
			}
		}
		rows = append(rows, row)
	}
	return rows
}

type Verdict int

const (
	// Keep preserves the grid as a data table.
	Keep Verdict = iota
	// FlattenRows emits one text block per row.
	FlattenRows
	// FlattenCells emits one text block per logical cell.
	FlattenCells
)

func (v Verdict) IsTable() bool { return v == Keep }

func (v Verdict) String() string {
	switch v {
	case Keep:
		return "keep"
	case FlattenRows:
		return "flatten_rows"
	case FlattenCells:
		return "flatten_cells"
	}
	return "unknown"
}

type stats struct {
	nonEmpty, bordered, anyBorder int
}

func (g *Grid) stats() stats {
	var s stats
	for _, cell := range g.Cells() {
		if cell.Borders.Any() {
			s.anyBorder++
		}
		if cell.Empty() {
			continue
		}
		s.nonEmpty++
		if cell.Borders.Any() {
			s.bordered++
		}
	}
	return s
}

func (s stats) borderedFraction() float32 {
	if s.nonEmpty == 0 {
		return 0
	}
	return float32(s.bordered) / float32(s.nonEmpty)
}

// Classify decides whether a tabular group is a genuine data table. The
// rules are applied in order and the first one that fires decides.
func Classify(g *Grid, pageHeight float32) Verdict {
	s := g.stats()
	if s.nonEmpty == 0 {
		Logger.Debug("table has no content", "rows", g.Rows, "cols", g.Cols)
		return FlattenRows
	}
	bordered := s.borderedFraction()
	rect := g.Bounds().OrEmpty()
	if pageHeight > 0 && rect.Height() > pageHeight*tallRatio {
		if !(g.Cols > 2 && bordered > tallBorderedRatio) {
			Logger.Debug("table is a layout container", "height", rect.Height(), "bordered", bordered)
			return FlattenCells
		}
	}
	if g.Rows > maxListRows || g.Cols > maxListCols {
		if g.Cols == 2 && g.hasBulletColumn() {
			Logger.Debug("table rejected: bullet column", "rows", g.Rows)
			return FlattenRows
		}
		return Keep
	}
	if bordered > borderedRatio {
		return Keep
	}
	if s.anyBorder == 0 && g.Rows <= 2 && g.Cols <= 2 {
		Logger.Debug("table rejected: borderless box", "rows", g.Rows, "cols", g.Cols)
		return FlattenRows
	}
	if g.Cols == 2 && g.hasMarkerColumn() {
		Logger.Debug("table rejected: marker column", "rows", g.Rows)
		return FlattenRows
	}
	if g.Rows >= 2 && g.Cols >= 2 {
		return Keep
	}
	return FlattenRows
}

// hasBulletColumn reports a narrow first column that has content in most
// rows, the shape of a bullet or numbering column.
func (g *Grid) hasBulletColumn() bool {
	if g.Rows == 0 {
		return false
	}
	var widthSum float32
	withContent := 0
	for r := 0; r < g.Rows; r++ {
		cell := g.At(r, 0)
		if cell.Empty() {
			continue
		}
		withContent++
		widthSum += cell.Bounds().OrEmpty().Width()
	}
	if withContent == 0 {
		return false
	}
	avg := widthSum / float32(withContent)
	return avg < bulletColumnWidth && float32(withContent)/float32(g.Rows) > bulletColumnCover
}

func (g *Grid) hasMarkerColumn() bool {
	total, markers := 0, 0
	for r := 0; r < g.Rows; r++ {
		cell := g.At(r, 0)
		if cell.Empty() {
			continue
		}
		total++
		if text.IsListMarker(cell.Text()) {
			markers++
		}
	}
	return total > 0 && float32(markers)/float32(total) >= markerColumnRatio
}

// Flatten turns a rejected table into text blocks: per row for ordinary
// containers, per cell for FlattenCells. Merged cells are emitted once and
// empty rows are skipped.
func Flatten(g *Grid, v Verdict) [][]*models.Element {
	var blocks [][]*models.Element
	switch v {
	case FlattenCells:
		for _, cell := range g.Cells() {
			if cell.Empty() {
				continue
			}
			block := append([]*models.Element(nil), cell.Elements...)
			models.SortByPosition(block)
			blocks = append(blocks, block)
		}
	case FlattenRows:
		seen := make(map[*Cell]bool)
		for r := 0; r < g.Rows; r++ {
			var row []*models.Element
			for c := 0; c < g.Cols; c++ {
				cell := g.At(r, c)
				if cell == nil || seen[cell] {
					continue
				}
				seen[cell] = true
				row = append(row, cell.Elements...)
			}
			if len(row) == 0 {
				continue
			}
			models.SortByLeft(row)
			blocks = append(blocks, row)
		}
	}
	return blocks
}
