package strategy

import (
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/extractor"
	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/pagetype"
)

const (
	fullWidthRatio  = 0.65
	gutterSpanRatio = 0.02
	leftStartRatio  = 0.25
	centerTolerance = 15.0
	spanWideRatio   = 0.80
)

// MultiColumn reads the left column before the right one. Full-width and
// gutter-spanning blocks stay in the main flow.
type MultiColumn struct{}

func (MultiColumn) Kind() pagetype.Kind { return pagetype.MultiColumn }

func (MultiColumn) Extract(page *models.Page, ctx Context) []*entity.Entity {
	g := ctx.gutter()
	return extractor.Extract(page, extractor.Options{
		Refine: func(run []*models.Element, _ *models.Page) [][]*models.Element { return g.SplitBleed(run) },
	})
}

func (m MultiColumn) ShouldMerge(a, b *entity.Entity, ctx Context) bool {
	ctx.MultiColumn = true
	return rules{sameLineGap: 4, fallbackGap: 6, area: m.ReadingArea, veto: crossesGutter}.shouldMerge(a, b, ctx)
}

// crossesGutter forbids joining text from opposite columns unless one side
// is itself a near full-width block.
func crossesGutter(a, b *entity.Entity, ctx Context) bool {
	if a.Width() > ctx.Width*spanWideRatio || b.Width() > ctx.Width*spanWideRatio {
		return false
	}
	return ctx.gutter().Opposite(a.Rect(), b.Rect())
}

func (MultiColumn) ReadingArea(e *entity.Entity, ctx Context) int {
	if area, ok := marginArea(e, ctx); ok {
		return area
	}
	w := ctx.Width
	g := ctx.gutter()
	slack := w * gutterSpanRatio
	center := e.Rect().CenterX()
	switch {
	case e.Width() > w*fullWidthRatio,
		e.Left() < g.X-slack && e.Right() > g.X+slack,
		e.Left() < w*leftStartRatio,
		geometry.Abs32(center-w/2) < centerTolerance:
		return AreaBody
	case center < g.X+slack:
		return AreaBody
	}
	return AreaBodyRight
}
