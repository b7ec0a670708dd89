package carousel

import (
	"math"

	"github.com/matzehuels/lightbox/pkg/aspect"
)

// ItemWidths returns the rendered width of each item at the given height.
func ItemWidths(aspects []aspect.Aspect, height float64) []float64 {
	widths := make([]float64, len(aspects))
	for i, a := range aspects {
		widths[i] = a.WidthAt(height)
	}
	return widths
}

// ContentWidth returns the scrollable width of a strip of items rendered at
// height, including gaps and padding on both ends.
func ContentWidth(aspects []aspect.Aspect, height, gap, padding float64) float64 {
	if len(aspects) == 0 {
		return 2 * padding
	}
	w := 2*padding + gap*float64(len(aspects)-1)
	for _, a := range aspects {
		w += a.WidthAt(height)
	}
	return w
}

// CenterOffset returns the scrollLeft that centers item i in a viewport of
// clientWidth when every item is rendered at height. The result is not
// clamped and may be negative or exceed the scrollable range.
func CenterOffset(aspects []aspect.Aspect, i int, height, gap, padding, clientWidth float64) float64 {
	x := padding
	for _, a := range aspects[:i] {
		x += a.WidthAt(height) + gap
	}
	return x + aspects[i].WidthAt(height)/2 - clientWidth/2
}

// ScrollTarget is CenterOffset clamped to the strip's scrollable range. It
// reports false when i is out of range.
func ScrollTarget(aspects []aspect.Aspect, i int, height, gap, padding, clientWidth float64) (float64, bool) {
	if i < 0 || i >= len(aspects) {
		return 0, false
	}
	x := CenterOffset(aspects, i, height, gap, padding, clientWidth)
	return clampOffset(x, ContentWidth(aspects, height, gap, padding), clientWidth), true
}

// clampOffset limits x to the strip's scrollable range.
func clampOffset(x, content, client float64) float64 {
	return math.Max(0, math.Min(x, math.Max(0, content-client)))
}
