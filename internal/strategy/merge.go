package strategy

import (
	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/geometry"
	"github.com/layoutflow/layoutflow/internal/text"
)

const (
	bulletMaxWidth     = 30.0
	bulletReachBefore  = 15.0
	bulletReachAfter   = 50.0
	bulletLineGap      = 4.0
	bulletTopDelta     = 5.0
	sameLineTopDelta   = 3.0
	sameLineOverlap    = -5.0
	tocMaxGap          = 8.0
	tocRightMargin     = 0.90
	anchoredMinGap     = 2.0
	anchoredLeftRatio  = 0.55
	anchoredWidthRatio = 0.40
	anchoredRightSlack = 0.12
	fontSizeTolerance  = 1.2
	centeredMaxGap     = 15.0
	lineFullRatio      = 0.80
	lineHeightFactor   = 1.4
	tightGapFactor     = 0.6
	indentTolerance    = 2.0
	maxLeftJump        = 100.0
	alignTolerance     = 3.0
)

// rules carries the knobs and hooks one strategy plugs into the shared
// merge skeleton.
type rules struct {
	sameLineGap float32
	fallbackGap float32
	area        func(e *entity.Entity, ctx Context) int
	// veto forbids a merge the shared rules might otherwise allow.
	veto func(a, b *entity.Entity, ctx Context) bool
}

// shouldMerge applies the shared merge rules in order; the first rule that
// decides wins. a is the upper entity of the pair.
func (r rules) shouldMerge(a, b *entity.Entity, ctx Context) bool {
	if a.IsTable() || b.IsTable() {
		return false
	}
	at, bt := a.Text(), b.Text()
	gap := b.Top() - a.Bottom()
	dTop := geometry.Abs32(a.Top() - b.Top())

	if gap < bulletLineGap && dTop < bulletTopDelta && (bulletBeside(a, b) || bulletBeside(b, a)) {
		return true
	}
	if text.StartsWithBullet(bt) {
		return false
	}
	if r.area(a, ctx) != r.area(b, ctx) {
		return false
	}
	if r.veto != nil && r.veto(a, b, ctx) {
		return false
	}
	if gap < r.sameLineGap && dTop < sameLineTopDelta && a.Rect().HOverlap(b.Rect()) > sameLineOverlap {
		return true
	}
	if text.StartsWithSectionEntry(at) && a.Right() < ctx.Width*tocRightMargin &&
		text.HasLeaderDots(bt) && !text.StartsWithNumberedEntry(bt) && gap < tocMaxGap {
		return true
	}
	if independentEntries(at, bt) {
		return false
	}
	if rightAnchored(a, ctx) && rightAnchored(b, ctx) && gap > anchoredMinGap {
		return false
	}
	if geometry.Abs32(a.FirstFontSize()-b.FirstFontSize()) > fontSizeTolerance || a.FirstBold() != b.FirstBold() {
		return false
	}
	if a.IsCentered() && b.IsCentered() && gap < centeredMaxGap {
		return true
	}
	return r.lineWrap(a, b, gap, ctx)
}

// lineWrap decides the ordinary case of a paragraph continuing on the next
// line.
func (r rules) lineWrap(a, b *entity.Entity, gap float32, ctx Context) bool {
	lineHeight := a.FontSize() * lineHeightFactor
	tight := gap < lineHeight*tightGapFactor
	hang := a.HangingLeft()
	sameOrLess := b.FirstLineLeft() <= hang+indentTolerance && hang-b.Left() <= maxLeftJump
	if lineFull(a, b, ctx) && !rightAnchored(a, ctx) && tight && sameOrLess {
		return true
	}
	if b.FirstLineLeft() > hang+indentTolerance {
		return false
	}
	if gap > r.fallbackGap {
		return false
	}
	narrower := geometry.Min32(a.Width(), b.Width())
	return geometry.Abs32(a.Left()-b.Left()) <= alignTolerance && a.Rect().HOverlap(b.Rect()) > narrower/2
}

// lineFull reports whether a's last line ran to the edge of its measure.
// On multi-column pages the measure is the pair's column, and the line
// counts as full when b's first word would not have fitted after it.
func lineFull(a, b *entity.Entity, ctx Context) bool {
	if !ctx.MultiColumn {
		return a.LastLineRight() >= ctx.Width*lineFullRatio
	}
	colRight := geometry.Max32(a.Right(), b.Right())
	remaining := colRight - a.LastLineRight()
	return remaining < b.FirstWordWidth()+a.FontSize()
}

// bulletBeside reports whether bullet is a standalone marker with content
// starting just to its right.
func bulletBeside(bullet, content *entity.Entity) bool {
	if bullet.Width() >= bulletMaxWidth || !text.StartsWithBullet(bullet.Text()) {
		return false
	}
	if text.StartsWithBullet(content.Text()) {
		return false
	}
	l := content.Left()
	return l >= bullet.Right()-bulletReachBefore && l <= bullet.Right()+bulletReachAfter
}

func independentEntries(a, b string) bool {
	return (text.HasLeaderDots(a) && text.HasLeaderDots(b)) ||
		(text.StartsWithGlossaryEntry(a) && text.StartsWithGlossaryEntry(b)) ||
		(text.StartsWithDefinition(a) && text.StartsWithDefinition(b)) ||
		(text.StartsWithReference(a) && text.StartsWithReference(b))
}

// rightAnchored matches narrow fragments hugging the right margin, such as
// dates or reference numbers in a letterhead.
func rightAnchored(e *entity.Entity, ctx Context) bool {
	w := ctx.Width
	return e.Left() > w*anchoredLeftRatio && e.Width() < w*anchoredWidthRatio && w-e.Right() < w*anchoredRightSlack
}
