package models

import (
	"sort"

	"github.com/layoutflow/layoutflow/internal/geometry"
)

const minLineSlack = 3.0

// SortByPosition orders elements top to bottom, then left to right.
func SortByPosition(elems []*Element) {
	sort.SliceStable(elems, func(i, j int) bool {
		if ti, tj := elems[i].Top(), elems[j].Top(); ti != tj {
			return ti < tj
		}
		return elems[i].Left() < elems[j].Left()
	})
}

// SortByLeft orders elements left to right, then top to bottom.
func SortByLeft(elems []*Element) {
	sort.SliceStable(elems, func(i, j int) bool {
		if li, lj := elems[i].Left(), elems[j].Left(); li != lj {
			return li < lj
		}
		return elems[i].Top() < elems[j].Top()
	})
}

// SortByLine orders elements into lines from top to bottom and each line left
// to right. An element joins the current line when its top lies within half
// the height of the line's first element, and never less than 3 units.
func SortByLine(elems []*Element) {
	SortByPosition(elems)
	for start := 0; start < len(elems); {
		first := elems[start]
		limit := first.Top() + geometry.Max32(first.Height()/2, minLineSlack)
		end := start + 1
		for end < len(elems) && elems[end].Top() < limit {
			end++
		}
		line := elems[start:end]
		sort.SliceStable(line, func(i, j int) bool { return line[i].Left() < line[j].Left() })
		start = end
	}
}
