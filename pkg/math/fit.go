package math

import "math"

// Fit linearly maps value from [inMin, inMax] to [outMin, outMax] and
// clamps the result to the output interval. Either interval may be
// reversed. A degenerate input interval (inMin == inMax) maps every value
// to outMin.
func Fit(value, inMin, inMax, outMin, outMax float32) float32 {
	d := inMax - inMin
	if d == 0 {
		return outMin
	}
	r := outMin + (value-inMin)/d*(outMax-outMin)
	lo, hi := outMin, outMax
	if lo > hi {
		lo, hi = hi, lo
	}
	return Clamp(r, lo, hi)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Ceil returns the least integer value greater than or equal to x.
func Ceil(x float32) int {
	return int(math.Ceil(float64(x)))
}
