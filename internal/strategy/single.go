package strategy

import (
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/extractor"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/pagetype"
)

const (
	headerRatio      = 0.08
	headerWidthRatio = 0.40
	marginTopRatio   = 0.12
	marginBotRatio   = 0.88
	wideRatio        = 0.50
	shortLines       = 3.0
)

// SingleColumn is the default policy: one flow of text with narrow header
// fragments read first.
type SingleColumn struct{}

func (SingleColumn) Kind() pagetype.Kind { return pagetype.SingleColumn }

func (SingleColumn) Extract(page *models.Page, _ Context) []*entity.Entity {
	return extractor.Extract(page, extractor.Options{})
}

func (s SingleColumn) ShouldMerge(a, b *entity.Entity, ctx Context) bool {
	return rules{sameLineGap: 4, fallbackGap: 6, area: s.ReadingArea}.shouldMerge(a, b, ctx)
}

func (SingleColumn) ReadingArea(e *entity.Entity, ctx Context) int {
	if area, ok := marginArea(e, ctx); ok {
		return area
	}
	if e.Top() < ctx.Height*headerRatio && e.Width() < ctx.Width*headerWidthRatio {
		return AreaHeader
	}
	return AreaBody
}

// marginArea sends wide, short blocks in the top or bottom margin band to
// the header or footer.
func marginArea(e *entity.Entity, ctx Context) (int, bool) {
	if e.Width() <= ctx.Width*wideRatio || e.Height() >= e.FontSize()*shortLines {
		return 0, false
	}
	switch {
	case e.Top() < ctx.Height*marginTopRatio:
		return AreaHeader, true
	case e.Top() > ctx.Height*marginBotRatio:
		return AreaFooter, true
	}
	return 0, false
}
