package indicators

import (
	"github.com/quantlab/signalrun/internal/domain/series"
)

// PSARResult holds the Parabolic SAR stop values and trend direction.
type PSARResult struct {
	SAR       []float64
	Direction []float64
}

// ParabolicSAR calculates the parabolic stop-and-reverse. The stop
// accelerates toward price on every new extreme, the acceleration factor
// capped at afMax, and both the stop and the factor reset when price
// crosses the stop and the trend flips.
func ParabolicSAR(candles []series.Candle, afStart, afIncrement, afMax float64) PSARResult {
	n := len(candles)
	sar := nans(n)
	dir := nans(n)
	if n < 2 {
		return PSARResult{SAR: sar, Direction: dir}
	}

	// Seed from the first two bars.
	uptrend := candles[1].Close >= candles[0].Close
	af := afStart
	var ep float64 // extreme point of the current trend
	if uptrend {
		sar[1] = candles[0].Low
		ep = candles[1].High
		dir[1] = TrendUp
	} else {
		sar[1] = candles[0].High
		ep = candles[1].Low
		dir[1] = TrendDown
	}

	for i := 2; i < n; i++ {
		next := sar[i-1] + af*(ep-sar[i-1])

		if uptrend {
			// Stop may never rise into the prior two bars' lows.
			if next > candles[i-1].Low {
				next = candles[i-1].Low
			}
			if next > candles[i-2].Low {
				next = candles[i-2].Low
			}
			if candles[i].Low < next {
				// Flip short: stop resets to the old extreme.
				uptrend = false
				next = ep
				ep = candles[i].Low
				af = afStart
			} else if candles[i].High > ep {
				ep = candles[i].High
				af += afIncrement
				if af > afMax {
					af = afMax
				}
			}
		} else {
			if next < candles[i-1].High {
				next = candles[i-1].High
			}
			if next < candles[i-2].High {
				next = candles[i-2].High
			}
			if candles[i].High > next {
				uptrend = true
				next = ep
				ep = candles[i].High
				af = afStart
			} else if candles[i].Low < ep {
				ep = candles[i].Low
				af += afIncrement
				if af > afMax {
					af = afMax
				}
			}
		}

		sar[i] = next
		if uptrend {
			dir[i] = TrendUp
		} else {
			dir[i] = TrendDown
		}
	}
	return PSARResult{SAR: sar, Direction: dir}
}
