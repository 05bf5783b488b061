package structure

import "github.com/quantlab/signalrun/internal/domain/series"

// FairValueGap is a three-candle imbalance: the wick ranges of the outer
// candles do not overlap, leaving an untraded zone around the middle
// candle. Index is the middle candle; the gap is known one bar later,
// once the third candle has closed.
type FairValueGap struct {
	Index     int
	Upper     float64
	Lower     float64
	Direction Direction
}

// FairValueGaps finds every gap whose third candle closed at or before
// upTo. A bullish gap has the third candle's low above the first's high;
// a bearish gap has the third candle's high below the first's low.
func FairValueGaps(candles []series.Candle, upTo int) []FairValueGap {
	var gaps []FairValueGap
	if upTo >= len(candles) {
		upTo = len(candles) - 1
	}
	for i := 1; i+1 <= upTo; i++ {
		first, third := candles[i-1], candles[i+1]
		if third.Low > first.High {
			gaps = append(gaps, FairValueGap{
				Index:     i,
				Upper:     third.Low,
				Lower:     first.High,
				Direction: Bullish,
			})
		}
		if third.High < first.Low {
			gaps = append(gaps, FairValueGap{
				Index:     i,
				Upper:     first.Low,
				Lower:     third.High,
				Direction: Bearish,
			})
		}
	}
	return gaps
}

// Contains reports whether price is inside the gap zone.
func (g FairValueGap) Contains(price float64) bool {
	return price >= g.Lower && price <= g.Upper
}
