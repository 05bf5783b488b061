package indicators

import (
	"math"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// IchimokuResult holds the five Ichimoku Cloud lines, each aligned with
// the input series. Senkou spans are written displacement bars forward
// of their source index and the Chikou span displacement bars backward;
// this is the plotting alignment the cloud is defined with, so entries
// that would land outside the series are simply not written.
type IchimokuResult struct {
	Tenkan  []float64
	Kijun   []float64
	SenkouA []float64
	SenkouB []float64
	Chikou  []float64
}

// Ichimoku calculates the Ichimoku Cloud. Conversion (tenkan) and base
// (kijun) lines are rolling high-low midpoints; span A is the midpoint
// of those two, span B the midpoint over the senkouB window.
func Ichimoku(candles []series.Candle, tenkan, kijun, senkouB, displacement int) IchimokuResult {
	n := len(candles)
	res := IchimokuResult{
		Tenkan:  midpointLine(candles, tenkan),
		Kijun:   midpointLine(candles, kijun),
		SenkouA: nans(n),
		SenkouB: nans(n),
		Chikou:  nans(n),
	}

	spanB := midpointLine(candles, senkouB)
	for i := 0; i < n; i++ {
		if i+displacement < n {
			if !math.IsNaN(res.Tenkan[i]) && !math.IsNaN(res.Kijun[i]) {
				res.SenkouA[i+displacement] = (res.Tenkan[i] + res.Kijun[i]) / 2.0
			}
			if !math.IsNaN(spanB[i]) {
				res.SenkouB[i+displacement] = spanB[i]
			}
		}
		if i-displacement >= 0 {
			res.Chikou[i-displacement] = candles[i].Close
		}
	}
	return res
}

// midpointLine is the rolling (highest high + lowest low)/2 used by the
// tenkan, kijun and senkou B lines.
func midpointLine(candles []series.Candle, period int) []float64 {
	out := nans(len(candles))
	if period <= 0 || len(candles) < period {
		return out
	}
	for i := period - 1; i < len(candles); i++ {
		hi, lo := windowRange(candles, i, period)
		out[i] = (hi + lo) / 2.0
	}
	return out
}
