// Package layout runs the reading-order pipeline: classify the page, pick a
// strategy, extract entities, merge wrapped lines and sort the result.
package layout

import (
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/strategy"
)

var Logger = logger.GetLogger("layout")

// Consolidate merges paragraph pairs until no pair qualifies. After every
// merge the scan restarts from the first pair of the updated list, so the
// outcome depends only on the input order. Tables are never merged.
// The input slice is left untouched.
func Consolidate(ents []*entity.Entity, s strategy.Strategy, ctx strategy.Context) ([]*entity.Entity, int) {
	list := append([]*entity.Entity(nil), ents...)
	merges := 0
	for {
		i, j, ok := firstMergeable(list, s, ctx)
		if !ok {
			return list, merges
		}
		upper, lower := orient(list[i], list[j])
		list[i] = entity.Merge(upper, lower)
		list = append(list[:j], list[j+1:]...)
		merges++
		Logger.Debug("merged pair", "kind", s.Kind().String(), "i", i, "j", j, "remaining", len(list))
	}
}

func firstMergeable(list []*entity.Entity, s strategy.Strategy, ctx strategy.Context) (int, int, bool) {
	for i := 0; i < len(list); i++ {
		if list[i].IsTable() {
			continue
		}
		for j := i + 1; j < len(list); j++ {
			if list[j].IsTable() {
				continue
			}
			if upper, lower := orient(list[i], list[j]); s.ShouldMerge(upper, lower, ctx) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// orient puts the entity that starts higher first, the one further left on
// a tie.
func orient(a, b *entity.Entity) (*entity.Entity, *entity.Entity) {
	if b.Top() < a.Top() || (b.Top() == a.Top() && b.Left() < a.Left()) {
		return b, a
	}
	return a, b
}
