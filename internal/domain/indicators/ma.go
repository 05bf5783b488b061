package indicators

// SMA calculates the simple moving average over the trailing window.
// Output index i is the mean of values[i-period+1..i] once the window is
// full, NaN before that.
func SMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA calculates the exponential moving average, seeded with the SMA of
// the first period values, then ema[i] = ema[i-1] + k*(x[i]-ema[i-1])
// with k = 2/(period+1).
func EMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = out[i-1] + k*(values[i]-out[i-1])
	}
	return out
}

// WMA calculates the linearly weighted moving average, most recent value
// weighted highest.
func WMA(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	denom := float64(period*(period+1)) / 2.0
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += values[i-period+1+j] * float64(j+1)
		}
		out[i] = sum / denom
	}
	return out
}

// Momentum calculates the n-period price difference x[i] - x[i-period].
func Momentum(values []float64, period int) []float64 {
	out := nans(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}
	for i := period; i < len(values); i++ {
		out[i] = values[i] - values[i-period]
	}
	return out
}
