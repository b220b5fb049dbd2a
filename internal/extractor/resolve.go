package extractor

import "github.com/layoutflow/layoutflow/internal/models"

// resolver assigns each element to at most one group. The element's own
// back-reference wins; without one, membership in a table cell comes
// before the first text group that lists the element.
type resolver struct {
	page    *models.Page
	inTable map[int]int
	inText  map[int]int
}

func newResolver(page *models.Page) *resolver {
	r := &resolver{page: page, inTable: make(map[int]int), inText: make(map[int]int)}
	for ti := range page.Tables {
		for _, c := range page.Tables[ti].Cells {
			for _, idx := range c.Elements {
				if _, ok := r.inTable[idx]; !ok {
					r.inTable[idx] = ti
				}
			}
		}
	}
	for gi, g := range page.TextGroups {
		for _, idx := range g.Elements {
			if _, ok := r.inText[idx]; !ok {
				r.inText[idx] = gi
			}
		}
	}
	return r
}

func (r *resolver) groupOf(idx int) (models.GroupRef, bool) {
	if ref := r.page.Elements[idx].Group; ref != nil && r.valid(*ref) {
		return *ref, true
	}
	if ti, ok := r.inTable[idx]; ok {
		return models.GroupRef{Kind: models.GroupTable, Index: ti}, true
	}
	if gi, ok := r.inText[idx]; ok {
		return models.GroupRef{Kind: models.GroupText, Index: gi}, true
	}
	return models.GroupRef{}, false
}

func (r *resolver) valid(ref models.GroupRef) bool {
	switch ref.Kind {
	case models.GroupText:
		return ref.Index >= 0 && ref.Index < len(r.page.TextGroups)
	case models.GroupTable:
		return ref.Index >= 0 && ref.Index < len(r.page.Tables)
	}
	return false
}
