package strategy

import (
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/extractor"
	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/pagetype"
	"github.com/layoutflow/layoutflow/internal/text"
)

// TableDominant keeps tables and their captions in one flow and only
// merges the residual text around them.
type TableDominant struct{}

func (TableDominant) Kind() pagetype.Kind { return pagetype.TableDominant }

func (TableDominant) Extract(page *models.Page, _ Context) []*entity.Entity {
	return extractor.Extract(page, extractor.Options{})
}

func (t TableDominant) ShouldMerge(a, b *entity.Entity, ctx Context) bool {
	return rules{sameLineGap: 8, fallbackGap: 8, area: t.ReadingArea, veto: acrossCaption}.shouldMerge(a, b, ctx)
}

// acrossCaption keeps captions apart from the lines above and below them.
// Fragments of a caption on one line may still join.
func acrossCaption(a, b *entity.Entity, _ Context) bool {
	if geometry.Abs32(a.Top()-b.Top()) < sameLineTopDelta {
		return false
	}
	return text.StartsWithCaption(a.Text()) || text.StartsWithCaption(b.Text())
}

func (TableDominant) ReadingArea(e *entity.Entity, ctx Context) int {
	switch {
	case e.Top() < ctx.Height*headerRatio:
		return AreaHeader
	case e.Top() > ctx.Height*marginBotRatio && e.Height() < e.FontSize()*shortLines:
		return AreaFooter
	}
	return AreaBody
}
