package indicators

import (
	"math"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// ElderRayResult holds bull and bear power relative to the trend EMA.
type ElderRayResult struct {
	Bull []float64
	Bear []float64
}

// ElderRay calculates Elder Ray bull power (high - EMA) and bear power
// (low - EMA).
func ElderRay(candles []series.Candle, period int) ElderRayResult {
	ema := EMA(series.Closes(candles), period)
	bull := nans(len(candles))
	bear := nans(len(candles))
	for i := range candles {
		if !math.IsNaN(ema[i]) {
			bull[i] = candles[i].High - ema[i]
			bear[i] = candles[i].Low - ema[i]
		}
	}
	return ElderRayResult{Bull: bull, Bear: bear}
}

// HeikinAshi transforms a candle series into its Heikin-Ashi smoothed
// form. Timestamps and volumes carry over; annotation fields do not.
func HeikinAshi(candles []series.Candle) []series.Candle {
	out := make([]series.Candle, len(candles))
	for i, c := range candles {
		haClose := (c.Open + c.High + c.Low + c.Close) / 4.0
		var haOpen float64
		if i == 0 {
			haOpen = (c.Open + c.Close) / 2.0
		} else {
			haOpen = (out[i-1].Open + out[i-1].Close) / 2.0
		}
		out[i] = series.Candle{
			Time:   c.Time,
			Open:   haOpen,
			High:   math.Max(c.High, math.Max(haOpen, haClose)),
			Low:    math.Min(c.Low, math.Min(haOpen, haClose)),
			Close:  haClose,
			Volume: c.Volume,
		}
	}
	return out
}

// PivotPointsResult holds the classic pivot with two resistance and two
// support levels.
type PivotPointsResult struct {
	Pivot []float64
	R1    []float64
	R2    []float64
	S1    []float64
	S2    []float64
}

// PivotPoints calculates classic pivot levels from the prior window: for
// index i the pivot uses the high/low extremes of candles[i-period..i-1]
// and the close at i-1, never the current bar.
func PivotPoints(candles []series.Candle, period int) PivotPointsResult {
	n := len(candles)
	res := PivotPointsResult{Pivot: nans(n), R1: nans(n), R2: nans(n), S1: nans(n), S2: nans(n)}
	if period <= 0 || n <= period {
		return res
	}
	for i := period; i < n; i++ {
		hi, lo := windowRange(candles, i-1, period)
		pivot := (hi + lo + candles[i-1].Close) / 3.0
		res.Pivot[i] = pivot
		res.R1[i] = 2.0*pivot - lo
		res.S1[i] = 2.0*pivot - hi
		res.R2[i] = pivot + (hi - lo)
		res.S2[i] = pivot - (hi - lo)
	}
	return res
}
