// Package normalize maps raw plan inputs onto the canonical [0,1] and [0,100]
// ranges used by the scoring formulas.
package normalize

import "math"

// Clamp limits value to [lo, hi]. NaN is mapped to lo.
func Clamp(value, lo, hi float64) float64 {
	if math.IsNaN(value) {
		return lo
	}
	return math.Max(lo, math.Min(hi, value))
}

// Normalize rescales value from [min, max] to [0, 100], clamped.
// A degenerate range (min == max) yields the midpoint 50, which carries no
// information about value.
func Normalize(value, min, max float64) float64 {
	if max == min {
		return 50
	}
	return Clamp((value-min)/(max-min)*100, 0, 100)
}

// From01 scales a [0,1] value to [0,100], clamping both ends.
func From01(value float64) float64 {
	return Clamp(value*100, 0, 100)
}

// Difficulty maps a 1–5 difficulty to d/5 in [0,1].
func Difficulty(d int) float64 {
	return Clamp(float64(d)/5, 0, 1)
}

// Confidence maps a 1–5 confidence to (6-c)/5 in [0,1].
// The scale is inverted: low confidence contributes high urgency.
func Confidence(c int) float64 {
	return Clamp(float64(6-c)/5, 0, 1)
}
