package layout

import (
	"sort"

	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/strategy"
)

const lineTolerance = 3.0

// Item is an entity placed in its reading area.
type Item struct {
	*entity.Entity
	Area int
}

// Order sorts entities into reading order: by area, then by line from top
// to bottom, then left to right within a line. Entities whose tops lie
// within 3 units of a line's first entity share that line. Every
// permutation of the input yields the same output.
func Order(ents []*entity.Entity, s strategy.Strategy, ctx strategy.Context) []Item {
	items := make([]Item, len(ents))
	for i, e := range ents {
		items[i] = Item{Entity: e, Area: s.ReadingArea(e, ctx)}
	}
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })

	for start := 0; start < len(items); {
		end := start + 1
		for end < len(items) && items[end].Area == items[start].Area &&
			items[end].Top()-items[start].Top() < lineTolerance {
			end++
		}
		line := items[start:end]
		sort.SliceStable(line, func(i, j int) bool { return line[i].Left() < line[j].Left() })
		start = end
	}
	return items
}

// less is a total order over placed entities.
func less(a, b Item) bool {
	if a.Area != b.Area {
		return a.Area < b.Area
	}
	ra, rb := a.Rect(), b.Rect()
	switch {
	case ra.Y0 != rb.Y0:
		return ra.Y0 < rb.Y0
	case ra.X0 != rb.X0:
		return ra.X0 < rb.X0
	case ra.Y1 != rb.Y1:
		return ra.Y1 < rb.Y1
	case ra.X1 != rb.X1:
		return ra.X1 < rb.X1
	case a.Kind() != b.Kind():
		return a.Kind() < b.Kind()
	}
	return a.Text() < b.Text()
}
