package indicators

import (
	"math"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// Trend direction constants for Supertrend and Parabolic SAR.
const (
	TrendUp   = 1.0
	TrendDown = -1.0
)

// SupertrendResult holds the active stop line and the trend direction
// (+1 up, -1 down) per bar.
type SupertrendResult struct {
	Line      []float64
	Direction []float64
}

// Supertrend calculates the ATR-banded trailing stop. Basic bands are
// (high+low)/2 ± multiplier*ATR; final bands only tighten toward price
// (carry the prior band forward unless the new band is tighter or the
// prior close already crossed it), and the direction flips when the
// close crosses the active band. The first valid bar is seeded from the
// basic bands with no prior to carry.
func Supertrend(candles []series.Candle, period int, multiplier float64) SupertrendResult {
	line := nans(len(candles))
	dir := nans(len(candles))
	if period <= 0 || len(candles) <= period {
		return SupertrendResult{Line: line, Direction: dir}
	}
	atr := ATR(candles, period)

	upper := nans(len(candles))
	lower := nans(len(candles))
	for i := period; i < len(candles); i++ {
		mid := (candles[i].High + candles[i].Low) / 2.0
		basicUpper := mid + multiplier*atr[i]
		basicLower := mid - multiplier*atr[i]

		if i == period || math.IsNaN(upper[i-1]) {
			upper[i] = basicUpper
			lower[i] = basicLower
			if candles[i].Close <= basicUpper {
				dir[i] = TrendDown
				line[i] = basicUpper
			} else {
				dir[i] = TrendUp
				line[i] = basicLower
			}
			continue
		}

		if basicUpper < upper[i-1] || candles[i-1].Close > upper[i-1] {
			upper[i] = basicUpper
		} else {
			upper[i] = upper[i-1]
		}
		if basicLower > lower[i-1] || candles[i-1].Close < lower[i-1] {
			lower[i] = basicLower
		} else {
			lower[i] = lower[i-1]
		}

		if dir[i-1] == TrendUp {
			if candles[i].Close < lower[i] {
				dir[i] = TrendDown
				line[i] = upper[i]
			} else {
				dir[i] = TrendUp
				line[i] = lower[i]
			}
		} else {
			if candles[i].Close > upper[i] {
				dir[i] = TrendUp
				line[i] = lower[i]
			} else {
				dir[i] = TrendDown
				line[i] = upper[i]
			}
		}
	}
	return SupertrendResult{Line: line, Direction: dir}
}
