// Package column finds the content bands of a page and answers gutter
// questions for two-column pages: which side of the gutter a box sits on
// and where consecutive runs bleed across it.
package column

import (
	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/models"
)

const (
	maxColumns          = 8
	pageWidthResolution = 1000

	gutterSlack = 0.05
	gutterReach = 0.20
)

type Side int

const (
	Spans Side = iota
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "spans"
}

// Gutter is the vertical line between two columns. A box belongs to a side
// when it stays within Slack of the line on that side.
type Gutter struct {
	X, Slack float32
}

// CenterGutter puts the gutter at the middle of the page.
func CenterGutter(pageWidth float32) Gutter {
	return Gutter{X: pageWidth / 2, Slack: pageWidth * gutterSlack}
}

// GutterOf picks, among the gaps between consecutive bands, the one whose
// middle is closest to the page center. Gaps further than 20% of the page
// width from the center are ignored and the page center is used instead.
func GutterOf(bands []Range, pageWidth float32) Gutter {
	g := CenterGutter(pageWidth)
	center := pageWidth / 2
	best := pageWidth * gutterReach
	for i := 1; i < len(bands); i++ {
		mid := (bands[i-1].X1 + bands[i].X0) / 2
		if d := geometry.Abs32(mid - center); d <= best {
			best, g.X = d, mid
		}
	}
	return g
}

// Side places a box that ends before X+Slack on the left, one that starts
// after X-Slack on the right, and anything else across the gutter.
func (g Gutter) Side(r geometry.Rect) Side {
	if g.X <= 0 {
		return Spans
	}
	switch {
	case r.X1 <= g.X+g.Slack:
		return Left
	case r.X0 >= g.X-g.Slack:
		return Right
	}
	return Spans
}

// Opposite reports whether two boxes sit on different sides of the gutter.
func (g Gutter) Opposite(a, b geometry.Rect) bool {
	sa, sb := g.Side(a), g.Side(b)
	return sa != Spans && sb != Spans && sa != sb
}

// SplitBleed cuts a run wherever two consecutive elements sit on opposite
// sides of the gutter. Elements spanning the gutter never cause a cut.
func (g Gutter) SplitBleed(run []*models.Element) [][]*models.Element {
	if len(run) == 0 {
		return nil
	}
	var out [][]*models.Element
	start := 0
	for i := 1; i < len(run); i++ {
		if g.Opposite(run[i-1].Rect(), run[i].Rect()) {
			out = append(out, run[start:i])
			start = i
		}
	}
	return append(out, run[start:])
}

type Range struct{ X0, X1 float32 }

// Detect finds the horizontal content bands of a page from an occupancy
// histogram of the narrower boxes. A gap wider than 1.2 body font sizes
// (at least 10 units) separates two bands.
func Detect(boxes []geometry.Rect, bodyFontSize float32) []Range {
	if len(boxes) == 0 {
		return nil
	}
	minX, maxX := findBounds(boxes)
	pageWidth := maxX - minX
	if pageWidth < 50 {
		return []Range{{minX, maxX}}
	}
	occupancy := make([]bool, pageWidthResolution)
	threshold := pageWidth * 0.5
	for _, r := range boxes {
		if bw := r.Width(); bw > threshold || bw < 5 {
			continue
		}
		idx0 := geometry.Clamp(int((r.X0-minX)/pageWidth*float32(pageWidthResolution-1)), 0, pageWidthResolution-1)
		idx1 := geometry.Clamp(int((r.X1-minX)/pageWidth*float32(pageWidthResolution-1)), 0, pageWidthResolution-1)
		for k := idx0; k <= idx1; k++ {
			occupancy[k] = true
		}
	}
	gapUnits := geometry.Max32(bodyFontSize*1.2, 10)
	gapBins := int(gapUnits / pageWidth * float32(pageWidthResolution))
	if gapBins < 1 {
		gapBins = 1
	}
	toX := func(bin int) float32 { return minX + float32(bin)/float32(pageWidthResolution)*pageWidth }

	bands := make([]Range, 0, maxColumns)
	inside, start := false, 0
	for i := 0; i < pageWidthResolution; i++ {
		if occupancy[i] {
			if !inside {
				inside, start = true, i
			}
			continue
		}
		if !inside {
			continue
		}
		gap := 0
		for i+gap < pageWidthResolution && !occupancy[i+gap] {
			gap++
		}
		if gap >= gapBins || i+gap == pageWidthResolution {
			if len(bands) < maxColumns {
				bands = append(bands, Range{toX(start), toX(i - 1)})
			}
			inside = false
			i += gap - 1
		}
	}
	if inside && len(bands) < maxColumns {
		bands = append(bands, Range{toX(start), maxX})
	}
	if len(bands) == 0 {
		return []Range{{minX, maxX}}
	}
	return bands
}

func findBounds(boxes []geometry.Rect) (minX, maxX float32) {
	minX, maxX = boxes[0].X0, boxes[0].X1
	for _, r := range boxes[1:] {
		minX, maxX = geometry.Min32(minX, r.X0), geometry.Max32(maxX, r.X1)
	}
	return
}
