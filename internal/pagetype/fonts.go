package pagetype

import (
	"math"

	"github.com/layoutflow/layoutflow/internal/geometry"
)

// fontStats is a histogram of rounded font sizes.
type fontStats struct {
	counts    [128]int
	totalSize float64
	total     int
}

func (f *fontStats) add(size float32) {
	if size <= 0 {
		return
	}
	idx := geometry.Clamp(int(math.Round(float64(size))), 0, 127)
	f.counts[idx]++
	f.totalSize += float64(size)
	f.total++
}

// mode returns the most common rounded size, 12 when nothing was seen.
func (f *fontStats) mode() float32 {
	if f.total == 0 {
		return 12.0
	}
	bestIdx, bestCount := 0, 0
	for i, c := range f.counts {
		if c > bestCount {
			bestCount, bestIdx = c, i
		}
	}
	if bestIdx == 0 {
		return float32(f.totalSize / float64(f.total))
	}
	return float32(bestIdx)
}
