package indicators

import (
	"github.com/quantlab/signalrun/internal/domain/series"
)

// OBV calculates On-Balance Volume: a cumulative sum that adds volume on
// up closes and subtracts it on down closes, starting at zero.
func OBV(candles []series.Candle) []float64 {
	out := make([]float64, len(candles))
	if len(candles) == 0 {
		return out
	}
	for i := 1; i < len(candles); i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			out[i] = out[i-1] + candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			out[i] = out[i-1] - candles[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// CMF calculates Chaikin Money Flow: the ratio of money-flow volume to
// total volume over the trailing window. A bar with zero range
// contributes zero money-flow volume; a window with zero total volume
// yields 0.
func CMF(candles []series.Candle, period int) []float64 {
	out := nans(len(candles))
	if period <= 0 || len(candles) < period {
		return out
	}
	mfv := make([]float64, len(candles))
	for i, c := range candles {
		rng := c.High - c.Low
		if rng == 0 {
			continue
		}
		mfv[i] = ((c.Close - c.Low) - (c.High - c.Close)) / rng * c.Volume
	}
	for i := period - 1; i < len(candles); i++ {
		mfvSum, volSum := 0.0, 0.0
		for j := i - period + 1; j <= i; j++ {
			mfvSum += mfv[j]
			volSum += candles[j].Volume
		}
		if volSum == 0 {
			out[i] = 0.0
			continue
		}
		out[i] = mfvSum / volSum
	}
	return out
}

// VWAP calculates the rolling volume-weighted typical price over the
// trailing window. A window with zero total volume has no defined VWAP
// and stays NaN.
func VWAP(candles []series.Candle, window int) []float64 {
	out := nans(len(candles))
	if window <= 0 || len(candles) < window {
		return out
	}
	for i := window - 1; i < len(candles); i++ {
		pvSum, volSum := 0.0, 0.0
		for j := i - window + 1; j <= i; j++ {
			typical := (candles[j].High + candles[j].Low + candles[j].Close) / 3.0
			pvSum += typical * candles[j].Volume
			volSum += candles[j].Volume
		}
		if volSum == 0 {
			continue
		}
		out[i] = pvSum / volSum
	}
	return out
}
