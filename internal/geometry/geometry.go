package geometry

type Rect struct{ X0, Y0, X1, Y1 float32 }

var Empty = Rect{}

func (r Rect) IsEmpty() bool   { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }
func (r Rect) Width() float32  { return r.X1 - r.X0 }
func (r Rect) Height() float32 { return r.Y1 - r.Y0 }

func (r Rect) CenterX() float32 { return (r.X0 + r.X1) / 2 }

func (r Rect) Area() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Cover returns the smallest rectangle containing both r and other. It
// keeps degenerate rectangles such as rule lines.
func (r Rect) Cover(other Rect) Rect {
	return Rect{Min32(r.X0, other.X0), Min32(r.Y0, other.Y0), Max32(r.X1, other.X1), Max32(r.Y1, other.Y1)}
}

func (r Rect) Intersect(other Rect) Rect {
	result := Rect{Max32(r.X0, other.X0), Max32(r.Y0, other.Y0), Min32(r.X1, other.X1), Min32(r.Y1, other.Y1)}
	if result.IsEmpty() {
		return Empty
	}
	return result
}

func (r Rect) IntersectArea(other Rect) float32 { return r.Intersect(other).Area() }

// HOverlap is the width shared by both rectangles; negative values measure
// the horizontal distance between them.
func (r Rect) HOverlap(other Rect) float32 {
	return Min32(r.X1, other.X1) - Max32(r.X0, other.X0)
}

// VOverlap is the vertical counterpart of HOverlap.
func (r Rect) VOverlap(other Rect) float32 {
	return Min32(r.Y1, other.Y1) - Max32(r.Y0, other.Y0)
}

// Bounds accumulates rectangles into a box that knows whether anything was
// added. A zero Bounds holds no content.
type Bounds struct {
	rect Rect
	ok   bool
}

func BoundsOf(r Rect) Bounds { return Bounds{rect: r, ok: true} }

func (b Bounds) Extend(r Rect) Bounds {
	if !b.ok {
		return Bounds{rect: r, ok: true}
	}
	return Bounds{rect: b.rect.Cover(r), ok: true}
}

func (b Bounds) Merge(other Bounds) Bounds {
	if !other.ok {
		return b
	}
	return b.Extend(other.rect)
}

// Rect returns the accumulated rectangle and false when nothing was added.
func (b Bounds) Rect() (Rect, bool) { return b.rect, b.ok }

func (b Bounds) IsZero() bool { return !b.ok }

// OrEmpty returns the rectangle, or a zero-area rectangle for empty bounds.
func (b Bounds) OrEmpty() Rect {
	if !b.ok {
		return Empty
	}
	return b.rect
}

func Min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func Clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
