// Package numeric holds the small float helpers shared by the scoring and
// rating calculators.
package numeric

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// Round2 rounds v to two decimal places, the precision of every reported
// score and rating.
func Round2(v float64) float64 {
	return Round(v, 2)
}
