package indicators

import (
	"math"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// TrueRange calculates max(high-low, |high-prevClose|, |low-prevClose|)
// per bar. Index 0 has no prior close and stays NaN.
func TrueRange(candles []series.Candle) []float64 {
	out := nans(len(candles))
	for i := 1; i < len(candles); i++ {
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - candles[i-1].Close)
		lc := math.Abs(candles[i].Low - candles[i-1].Close)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR calculates the Wilder-smoothed average true range, seeded with the
// simple mean of the first period true ranges.
func ATR(candles []series.Candle, period int) []float64 {
	out := nans(len(candles))
	if period <= 0 || len(candles) <= period {
		return out
	}
	tr := TrueRange(candles)

	seed := 0.0
	for i := 1; i <= period; i++ {
		seed += tr[i]
	}
	out[period] = seed / float64(period)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(candles); i++ {
		out[i] = out[i-1]*(1-alpha) + tr[i]*alpha
	}
	return out
}

// BollingerResult holds the three Bollinger band lines.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger calculates Bollinger Bands: SMA middle band with upper and
// lower bands k population standard deviations away.
func Bollinger(values []float64, period int, k float64) BollingerResult {
	middle := SMA(values, period)
	upper := nans(len(values))
	lower := nans(len(values))
	if period <= 0 || len(values) < period {
		return BollingerResult{Upper: upper, Middle: middle, Lower: lower}
	}
	for i := period - 1; i < len(values); i++ {
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - middle[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + k*sd
		lower[i] = middle[i] - k*sd
	}
	return BollingerResult{Upper: upper, Middle: middle, Lower: lower}
}

// KeltnerResult holds the three Keltner channel lines.
type KeltnerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Keltner calculates Keltner Channels: EMA middle band with bands a
// multiple of ATR away.
func Keltner(candles []series.Candle, period int, multiplier float64) KeltnerResult {
	middle := EMA(series.Closes(candles), period)
	atr := ATR(candles, period)
	upper := nans(len(candles))
	lower := nans(len(candles))
	for i := range candles {
		if !math.IsNaN(middle[i]) && !math.IsNaN(atr[i]) {
			upper[i] = middle[i] + multiplier*atr[i]
			lower[i] = middle[i] - multiplier*atr[i]
		}
	}
	return KeltnerResult{Upper: upper, Middle: middle, Lower: lower}
}

// DonchianResult holds the Donchian channel lines.
type DonchianResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Donchian calculates Donchian Channels: rolling max high and min low
// over the trailing window, middle line halfway between them.
func Donchian(candles []series.Candle, period int) DonchianResult {
	upper := nans(len(candles))
	middle := nans(len(candles))
	lower := nans(len(candles))
	if period <= 0 || len(candles) < period {
		return DonchianResult{Upper: upper, Middle: middle, Lower: lower}
	}
	for i := period - 1; i < len(candles); i++ {
		hi, lo := windowRange(candles, i, period)
		upper[i] = hi
		lower[i] = lo
		middle[i] = (hi + lo) / 2.0
	}
	return DonchianResult{Upper: upper, Middle: middle, Lower: lower}
}
