package table

import (
	"fmt"
	"testing"

	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/testutil"
)

func gridOf(page *models.Page) *Grid {
	return Resolve(&page.Tables[0], page)
}

func filled(rows, cols int) []*models.Element {
	cells := make([]*models.Element, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			left := float32(50 + c*100)
			top := float32(100 + r*14)
			cells = append(cells, testutil.Text(left, top, 80, 10, fmt.Sprintf("r%dc%d", r, c), 10))
		}
	}
	return cells
}

func bordered(p *models.Page, n int) *models.Page {
	cells := p.Tables[0].Cells
	for i := 0; i < n && i < len(cells); i++ {
		cells[i].Borders = models.Borders{Top: true, Bottom: true, Left: true, Right: true}
	}
	return p
}

func tallGrid(cols int) *models.Page {
	var cells []*models.Element
	for r := 0; r < 3; r++ {
		for c := 0; c < cols; c++ {
			cells = append(cells, testutil.Text(float32(50+c*150), float32(100+r*200), 100, 10, fmt.Sprintf("r%dc%d", r, c), 10))
		}
	}
	return testutil.NewPage(600, 800).Table(3, cols, cells, false).Build()
}

func markerRows(n int) []*models.Element {
	var cells []*models.Element
	for r := 0; r < n; r++ {
		top := float32(100 + r*14)
		cells = append(cells,
			testutil.Text(50, top, 20, 10, fmt.Sprintf("(%d)", r+1), 10),
			testutil.Text(100, top, 300, 10, "clause text", 10))
	}
	return cells
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		page func() *models.Page
		want Verdict
	}{
		{
			name: "large bordered grid",
			page: func() *models.Page {
				p := testutil.NewPage(600, 800).Table(10, 5, filled(10, 5), true).Build()
				for i := range p.Tables[0].Cells {
					if i%5 >= 3 {
						p.Tables[0].Cells[i].Borders = models.Borders{}
					}
				}
				return p
			},
			want: Keep,
		},
		{
			name: "single borderless cell",
			page: func() *models.Page {
				return testutil.NewPage(600, 800).Table(1, 1, filled(1, 1), false).Build()
			},
			want: FlattenRows,
		},
		{
			name: "marker column",
			page: func() *models.Page {
				var cells []*models.Element
				for r := 0; r < 6; r++ {
					top := float32(100 + r*14)
					cells = append(cells,
						testutil.Text(50, top, 20, 10, fmt.Sprintf("(%d)", r+1), 10),
						testutil.Text(100, top, 300, 10, "clause text", 10))
				}
				return testutil.NewPage(600, 800).Table(6, 2, cells, false).Build()
			},
			want: FlattenRows,
		},
		{
			name: "bullet column in long list",
			page: func() *models.Page {
				var cells []*models.Element
				for r := 0; r < 10; r++ {
					top := float32(100 + r*14)
					cells = append(cells,
						testutil.Text(50, top, 8, 10, "•", 10),
						testutil.Text(100, top, 300, 10, "item", 10))
				}
				return testutil.NewPage(600, 800).Table(10, 2, cells, true).Build()
			},
			want: FlattenRows,
		},
		{
			name: "tall layout container",
			page: func() *models.Page {
				return testutil.NewPage(600, 800).Table(2, 2, []*models.Element{
					testutil.Text(50, 100, 200, 10, "left column", 10),
					testutil.Text(300, 100, 200, 10, "right column", 10),
					testutil.Text(50, 500, 200, 10, "left footer", 10),
					testutil.Text(300, 500, 200, 10, "right footer", 10),
				}, false).Build()
			},
			want: FlattenCells,
		},
		{
			name: "borderless data grid",
			page: func() *models.Page {
				return testutil.NewPage(600, 800).Table(3, 3, filled(3, 3), false).Build()
			},
			want: Keep,
		},
		{
			name: "empty grid",
			page: func() *models.Page {
				return testutil.NewPage(600, 800).Table(3, 3, nil, true).Build()
			},
			want: FlattenRows,
		},
		{
			name: "tall grid with a third of cells bordered",
			page: func() *models.Page { return bordered(tallGrid(3), 3) },
			want: Keep,
		},
		{
			name: "tall borderless grid",
			page: func() *models.Page { return tallGrid(3) },
			want: FlattenCells,
		},
		{
			name: "tall two column grid with borders",
			page: func() *models.Page { return bordered(tallGrid(2), 4) },
			want: FlattenCells,
		},
		{
			name: "single row mostly bordered",
			page: func() *models.Page {
				return bordered(testutil.NewPage(600, 800).Table(1, 3, filled(1, 3), false).Build(), 2)
			},
			want: Keep,
		},
		{
			name: "single row partly bordered",
			page: func() *models.Page {
				return bordered(testutil.NewPage(600, 800).Table(1, 3, filled(1, 3), false).Build(), 1)
			},
			want: FlattenRows,
		},
		{
			name: "marker column mostly bordered",
			page: func() *models.Page {
				return bordered(testutil.NewPage(600, 800).Table(4, 2, markerRows(4), false).Build(), 5)
			},
			want: Keep,
		},
		{
			name: "marker column half bordered",
			page: func() *models.Page {
				return bordered(testutil.NewPage(600, 800).Table(4, 2, markerRows(4), false).Build(), 4)
			},
			want: FlattenRows,
		},
	}

	for _, tc := range tests {
		if got := Classify(gridOf(tc.page()), 800); got != tc.want {
			t.Errorf("%s: Classify() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFlattenRowsKeepsOrder(t *testing.T) {
	page := testutil.NewPage(600, 800).Table(2, 2, []*models.Element{
		testutil.Text(50, 100, 80, 10, "first", 10),
		nil,
		nil,
		testutil.Text(150, 120, 80, 10, "second", 10),
	}, false).Build()
	g := gridOf(page)

	v := Classify(g, 800)
	if v != FlattenRows {
		t.Fatalf("Classify() = %v, want flatten_rows", v)
	}
	blocks := Flatten(g, v)
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
	if blocks[0][0].Text() != "first" || blocks[1][0].Text() != "second" {
		t.Errorf("blocks out of order: %q, %q", blocks[0][0].Text(), blocks[1][0].Text())
	}
}

func TestFlattenCells(t *testing.T) {
	page := testutil.NewPage(600, 800).Table(1, 3, []*models.Element{
		testutil.Text(50, 100, 80, 10, "a", 10),
		nil,
		testutil.Text(250, 100, 80, 10, "c", 10),
	}, false).Build()
	blocks := Flatten(gridOf(page), FlattenCells)
	if len(blocks) != 2 {
		t.Fatalf("len(blocks) = %d, want 2", len(blocks))
	}
}

func TestMergedCellsEmittedOnce(t *testing.T) {
	page := testutil.NewPage(600, 800).Table(2, 2, filled(2, 2), false).Build()
	tbl := &page.Tables[0]
	tbl.Grid[0][1] = tbl.Grid[0][0]

	g := gridOf(page)
	if n := len(g.Cells()); n != 3 {
		t.Errorf("len(Cells()) = %d, want 3", n)
	}
	rows := Flatten(g, FlattenRows)
	if len(rows[0]) != 1 {
		t.Errorf("first row has %d elements, want 1", len(rows[0]))
	}
}

func TestEmptyGridBounds(t *testing.T) {
	page := testutil.NewPage(600, 800).Table(2, 2, nil, false).Build()
	if !gridOf(page).Bounds().IsZero() {
		t.Error("empty grid should report zero bounds")
	}
}
