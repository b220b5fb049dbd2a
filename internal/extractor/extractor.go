// Package extractor turns a page's grouping hints into layout entities:
// text groups are split at typographic breaks, tabular groups are kept or
// flattened, and bare text runs become singleton paragraphs.
package extractor

import (
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/metrics"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/table"
	"github.com/layoutflow/layoutflow/internal/text"
)

var Logger = logger.GetLogger("extractor")

const (
	newLineGap      = 2.0
	fontSizeJump    = 1.5
	leftJump        = 100.0
	tableOverlapMax = 0.85
)

// Refine further divides a run produced by SplitGroup. It must return
// non-empty runs that together hold every input element.
type Refine func(run []*models.Element, page *models.Page) [][]*models.Element

type Options struct {
	Refine Refine
}

// SplitGroup walks a vertical run and cuts it wherever the next element
// starts a new line and opens a list item, glossary entry or definition,
// changes font size by more than 1.5, toggles bold or italic, or jumps more
// than 100 units horizontally. The run is sorted by position first.
func SplitGroup(run []*models.Element) [][]*models.Element {
	if len(run) == 0 {
		return nil
	}
	sorted := append([]*models.Element(nil), run...)
	models.SortByPosition(sorted)

	var parts [][]*models.Element
	start := 0
	for i := 1; i < len(sorted); i++ {
		if breaksBefore(sorted[i-1], sorted[i]) {
			parts = append(parts, sorted[start:i])
			start = i
		}
	}
	return append(parts, sorted[start:])
}

func breaksBefore(prev, cur *models.Element) bool {
	if cur.Top()-prev.Top() <= newLineGap {
		return false
	}
	if t := cur.Text(); text.StartsWithBullet(t) || text.StartsWithGlossaryEntry(t) || text.StartsWithDefinition(t) {
		return true
	}
	if prev.HasFontSize() && cur.HasFontSize() && geometry.Abs32(cur.FontSize()-prev.FontSize()) > fontSizeJump {
		return true
	}
	if prev.Bold() != cur.Bold() || prev.Italic() != cur.Italic() {
		return true
	}
	return geometry.Abs32(cur.Left()-prev.Left()) > leftJump
}

type unitKind int

const (
	unitText unitKind = iota
	unitTable
	unitSingle
)

type unit struct {
	kind  unitKind
	index int
	elem  *models.Element
}

// Extract builds the page's initial entities in order of first appearance
// in the element list. Tables no element points back to follow at the end.
func Extract(page *models.Page, opts Options) []*entity.Entity {
	frame := entity.Frame{Width: page.Width, Height: page.Height}
	res := newResolver(page)

	members := make([][]*models.Element, len(page.TextGroups))
	seenText := make([]bool, len(page.TextGroups))
	seenTable := make([]bool, len(page.Tables))
	var units []unit
	for i := range page.Elements {
		el := &page.Elements[i]
		ref, ok := res.groupOf(i)
		switch {
		case ok && ref.Kind == models.GroupTable:
			if !seenTable[ref.Index] {
				seenTable[ref.Index] = true
				units = append(units, unit{kind: unitTable, index: ref.Index})
			}
		case ok && ref.Kind == models.GroupText:
			members[ref.Index] = append(members[ref.Index], el)
			if !seenText[ref.Index] {
				seenText[ref.Index] = true
				units = append(units, unit{kind: unitText, index: ref.Index})
			}
		case isFlowText(el):
			units = append(units, unit{kind: unitSingle, elem: el})
		}
	}
	for ti := range page.Tables {
		if !seenTable[ti] {
			units = append(units, unit{kind: unitTable, index: ti})
		}
	}

	var out, tables []*entity.Entity
	for _, u := range units {
		switch u.kind {
		case unitTable:
			kept, flat := extractTable(page, u.index, frame)
			if kept != nil {
				tables = append(tables, kept)
				out = append(out, kept)
			}
			out = append(out, flat...)
		case unitText:
			out = append(out, paragraphs(members[u.index], page, frame, opts)...)
		case unitSingle:
			out = append(out, entity.NewParagraph([]*models.Element{u.elem}, frame))
		}
	}
	out = dropTableShadows(out, tables)
	Logger.Debug("entities extracted", "page", page.Number, "units", len(units), "entities", len(out), "tables", len(tables))
	return out
}

func paragraphs(elems []*models.Element, page *models.Page, frame entity.Frame, opts Options) []*entity.Entity {
	run := flowText(elems)
	if len(run) == 0 {
		return nil
	}
	var out []*entity.Entity
	for _, part := range SplitGroup(run) {
		pieces := [][]*models.Element{part}
		if opts.Refine != nil {
			pieces = opts.Refine(part, page)
		}
		for _, p := range pieces {
			if len(p) > 0 {
				out = append(out, entity.NewParagraph(p, frame))
			}
		}
	}
	return out
}

func extractTable(page *models.Page, ti int, frame entity.Frame) (*entity.Entity, []*entity.Entity) {
	g := table.Resolve(&page.Tables[ti], page)
	v := table.Classify(g, page.Height)
	metrics.IncTableVerdict(v.String())
	if v.IsTable() {
		return entity.NewTable(g, frame), nil
	}
	var flat []*entity.Entity
	for _, block := range table.Flatten(g, v) {
		if run := flowText(block); len(run) > 0 {
			flat = append(flat, entity.NewParagraph(run, frame))
		}
	}
	Logger.Debug("table flattened", "table", ti, "verdict", v.String(), "blocks", len(flat))
	return nil, flat
}

// dropTableShadows removes paragraphs that lie almost entirely inside a kept
// table; upstream occasionally reports cell text twice.
func dropTableShadows(ents, tables []*entity.Entity) []*entity.Entity {
	if len(tables) == 0 {
		return ents
	}
	out := ents[:0]
	for _, e := range ents {
		if !e.IsTable() && shadowed(e, tables) {
			Logger.Debug("dropping paragraph inside table", "text", e.Text())
			continue
		}
		out = append(out, e)
	}
	return out
}

func shadowed(e *entity.Entity, tables []*entity.Entity) bool {
	r := e.Rect()
	area := r.Area()
	if area <= 0 {
		return false
	}
	for _, t := range tables {
		if r.IntersectArea(t.Rect())/area > tableOverlapMax {
			return true
		}
	}
	return false
}

// flowText keeps the text runs that carry visible content.
func flowText(elems []*models.Element) []*models.Element {
	var out []*models.Element
	for _, el := range elems {
		if isFlowText(el) {
			out = append(out, el)
		}
	}
	return out
}

func isFlowText(el *models.Element) bool {
	return el.IsText() && text.HasVisibleContent(el.Text())
}
