// Package strategy holds the per-layout policies the reading-order pipeline
// is parameterised with: how entities are extracted, when two of them are
// one paragraph, and which reading area each belongs to.
package strategy

import (
	"github.com/layoutflow/layoutflow/internal/column"
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/pagetype"
)

var Logger = logger.GetLogger("strategy")

// Reading areas, in output order.
const (
	AreaHeader    = -1
	AreaBody      = 0
	AreaBodyRight = 1
	AreaFooter    = 2
)

// Context is the read-only page information every merge and area decision
// sees.
type Context struct {
	Width, Height float32
	MultiColumn   bool
	// Gutter is the measured column gutter; the zero value means the page
	// center.
	Gutter column.Gutter
}

func ContextOf(page *models.Page, kind pagetype.Kind, stats pagetype.Stats) Context {
	return Context{
		Width:       page.Width,
		Height:      page.Height,
		MultiColumn: kind == pagetype.MultiColumn,
		Gutter:      stats.Gutter,
	}
}

func (c Context) gutter() column.Gutter {
	if c.Gutter.X > 0 {
		return c.Gutter
	}
	return column.CenterGutter(c.Width)
}

// Strategy implementations are stateless and safe for concurrent use.
type Strategy interface {
	Kind() pagetype.Kind
	Extract(page *models.Page, ctx Context) []*entity.Entity
	// ShouldMerge is asked about (upper, lower) pairs of paragraphs.
	ShouldMerge(a, b *entity.Entity, ctx Context) bool
	ReadingArea(e *entity.Entity, ctx Context) int
}

var (
	singleColumn  Strategy = SingleColumn{}
	multiColumn   Strategy = MultiColumn{}
	tableDominant Strategy = TableDominant{}
)

// Select returns the strategy for a page kind, falling back to the
// single-column policy for anything unrecognised.
func Select(kind pagetype.Kind) Strategy {
	switch kind {
	case pagetype.MultiColumn:
		return multiColumn
	case pagetype.TableDominant:
		return tableDominant
	case pagetype.SingleColumn:
		return singleColumn
	}
	Logger.Warn("unknown page kind, using single column", "kind", int(kind))
	return singleColumn
}
