package indicators

import "math"

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates the Moving Average Convergence Divergence: the
// difference of a short and a long EMA, an EMA of that difference as the
// signal line, and their difference as the histogram. The signal line is
// computed only over the valid portion of the MACD line and re-padded so
// every output stays aligned with the input.
func MACD(values []float64, short, long, signal int) MACDResult {
	fast := EMA(values, short)
	slow := EMA(values, long)
	line := nans(len(values))
	for i := range values {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			line[i] = fast[i] - slow[i]
		}
	}
	sig := smoothValid(line, func(v []float64) []float64 { return EMA(v, signal) })
	hist := nans(len(values))
	for i := range values {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return MACDResult{MACD: line, Signal: sig, Histogram: hist}
}
