// Package pagetype decides whether a page reads as a single column, as
// multiple columns or as a table-dominated page.
package pagetype

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/layoutflow/layoutflow/internal/column"
	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/table"
)

var Logger = logger.GetLogger("pagetype")

type Kind int

const (
	SingleColumn Kind = iota
	MultiColumn
	TableDominant
)

func (k Kind) String() string {
	switch k {
	case MultiColumn:
		return "multi_column"
	case TableDominant:
		return "table_dominant"
	}
	return "single_column"
}

const (
	marginRatio        = 0.08
	leftCenterRatio    = 0.45
	rightCenterRatio   = 0.55
	narrowRatio        = 0.55
	minVOverlap        = 5.0
	centerSpreadRatio  = 0.30
	tableCoverageRatio = 0.40
	minSideCount       = 3
)

// Stats are the measurements the verdict is drawn from.
type Stats struct {
	Left, Right   int
	ParallelPairs int
	Tables        int
	TableCoverage float32
	BodyFontSize  float32
	Bands         int
	// Gutter sits in the gap between the detected bands nearest the page
	// center, or at the center when there is no such gap.
	Gutter column.Gutter
}

// Classify measures the page and returns its kind. Tables win first, then
// evidence of side-by-side content, then the single-column default.
func Classify(page *models.Page) (Kind, Stats) {
	s := measure(page)
	kind := SingleColumn
	switch {
	case s.Tables >= 1 && s.TableCoverage > tableCoverageRatio:
		kind = TableDominant
	case (s.Left >= minSideCount && s.Right >= minSideCount) || s.ParallelPairs >= 1:
		kind = MultiColumn
	}
	Logger.Debug("page classified", "page", page.Number, "kind", kind.String(),
		"left", s.Left, "right", s.Right, "pairs", s.ParallelPairs,
		"tables", s.Tables, "coverage", s.TableCoverage, "bands", s.Bands, "gutter", s.Gutter.X)
	return kind, s
}

func measure(page *models.Page) Stats {
	var s Stats
	w, h := page.Width, page.Height
	top, bottom := h*marginRatio, h*(1-marginRatio)
	inBody := func(r geometry.Rect) bool { return r.Y0 >= top && r.Y1 <= bottom }

	fonts := &fontStats{}
	var rects []geometry.Rect
	for i := range page.Elements {
		el := &page.Elements[i]
		if el.Kind == models.ElementHRule || el.Kind == models.ElementVRule {
			continue
		}
		if el.IsText() {
			fonts.add(el.FontSize())
		}
		r := el.Rect()
		if !inBody(r) {
			continue
		}
		rects = append(rects, r)
		switch c := r.CenterX(); {
		case c < w*leftCenterRatio:
			s.Left++
		case c > w*rightCenterRatio:
			s.Right++
		}
	}
	s.BodyFontSize = fonts.mode()
	bands := column.Detect(rects, s.BodyFontSize)
	s.Bands = len(bands)
	s.Gutter = column.GutterOf(bands, w)

	var blocks []geometry.Rect
	for _, b := range blockRects(page) {
		if inBody(b) {
			blocks = append(blocks, b)
		}
	}
	s.ParallelPairs = parallelPairs(blocks, w)

	var covered float32
	for ti := range page.Tables {
		b := table.Resolve(&page.Tables[ti], page).Bounds()
		if r, ok := b.Rect(); ok {
			s.Tables++
			covered += r.Area()
		}
	}
	if area := w * h; area > 0 {
		s.TableCoverage = covered / area
	}
	return s
}

// blockRects returns one box per text group plus one per text run that no
// group claims.
func blockRects(page *models.Page) []geometry.Rect {
	claimed := make(map[int]bool)
	var out []geometry.Rect
	for _, g := range page.TextGroups {
		var b geometry.Bounds
		for _, idx := range g.Elements {
			if el := page.Element(idx); el != nil && el.IsText() {
				claimed[idx] = true
				b = b.Extend(el.Rect())
			}
		}
		if r, ok := b.Rect(); ok {
			out = append(out, r)
		}
	}
	for i := range page.Elements {
		el := &page.Elements[i]
		if claimed[i] || !el.IsText() || el.Group != nil {
			continue
		}
		out = append(out, el.Rect())
	}
	return out
}

// parallelPairs counts pairs of narrow blocks that share more than 5 units
// of vertical extent while their centers sit far apart horizontally.
func parallelPairs(blocks []geometry.Rect, pageWidth float32) int {
	var tr rtree.RTreeG[int]
	for i, r := range blocks {
		if r.Width() < pageWidth*narrowRatio {
			tr.Insert(box(r), [2]float64{float64(r.X1), float64(r.Y1)}, i)
		}
	}
	pairs := 0
	for i, a := range blocks {
		if a.Width() >= pageWidth*narrowRatio {
			continue
		}
		tr.Search(
			[2]float64{math.Inf(-1), float64(a.Y0)},
			[2]float64{math.Inf(1), float64(a.Y1)},
			func(_, _ [2]float64, j int) bool {
				if j <= i {
					return true
				}
				b := blocks[j]
				if a.VOverlap(b) > minVOverlap && geometry.Abs32(a.CenterX()-b.CenterX()) > pageWidth*centerSpreadRatio {
					pairs++
				}
				return true
			})
	}
	return pairs
}

func box(r geometry.Rect) [2]float64 { return [2]float64{float64(r.X0), float64(r.Y0)} }
