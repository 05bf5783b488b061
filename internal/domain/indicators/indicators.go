// Package indicators implements the derived time-series computations the
// signal generators are built from. Every function is pure: it maps an
// input series (and scalar parameters) to one or more output series of
// identical length, left-padded with NaN for the warm-up span. A series
// shorter than the warm-up requirement yields an all-NaN output of the
// same length; callers check for values, they never get an error.
//
// Division-by-zero situations resolve to documented neutral defaults
// (RSI 50/100, Williams %R -50, CCI 0, Stochastic 50) instead of
// propagating NaN through valid spans.
package indicators

import "math"

// nans returns a length-n series of warm-up padding.
func nans(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// firstValid returns the index of the first non-NaN entry, or -1.
func firstValid(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// smoothValid applies fn to the valid tail of values and re-pads the
// result so output alignment is preserved. Multi-stage indicators (MACD
// signal line, stochastic %K/%D smoothing, Coppock WMA) must smooth only
// the non-NaN portion or the padding would poison every window it touches.
func smoothValid(values []float64, fn func([]float64) []float64) []float64 {
	out := nans(len(values))
	start := firstValid(values)
	if start < 0 {
		return out
	}
	smoothed := fn(values[start:])
	copy(out[start:], smoothed)
	return out
}
