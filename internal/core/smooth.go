package core

import "mortalitycore/pkg/domain"

// Smooth replaces each value with the trailing mean of the last window
// observations for the same demographic tuple. Values must belong to a single
// tuple in ascending date order; the caller guarantees both, so windows never
// mix demographic cells. Leading positions with fewer than window observations
// use whatever history exists (minimum one), which defines the series from its
// very first date at the cost of downward bias in the leading tail. Gaps in
// the underlying dates are not densified; the window spans observations, not
// calendar days.
//
// WindowDaily applies no transform at all: the input slice is returned as is.
func Smooth(values []float64, window domain.Window) []float64 {
	if window == domain.WindowDaily {
		return values
	}
	out := make([]float64, len(values))
	w := int(window)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= w {
			sum -= values[i-w]
		}
		span := i + 1
		if span > w {
			span = w
		}
		out[i] = sum / float64(span)
	}
	return out
}
