// Package structure detects price-structure events on a candle series:
// confirmed swing points, breaks of structure, liquidity sweeps and fair
// value gaps. Every detector is causal: an event attributed to index i
// is computed from a bounded neighborhood that never extends past its
// declared confirmation window, which is what keeps the strategies built
// on top of it non-repainting.
package structure

import "github.com/quantlab/signalrun/internal/domain/series"

// Kind distinguishes swing highs from swing lows.
type Kind int

const (
	SwingHigh Kind = iota
	SwingLow
)

func (k Kind) String() string {
	if k == SwingHigh {
		return "high"
	}
	return "low"
}

// SwingPoint is a confirmed local extremum. A swing at index i requires
// lookaround closed candles on both sides, so it is only known lookaround
// bars after the fact; Confirmed records that bar index.
type SwingPoint struct {
	Index     int
	Time      int64
	Price     float64
	Kind      Kind
	Confirmed int
}

// SwingPoints finds all confirmed swing highs and lows for the given
// lookaround. Index i is a swing high iff high[i] strictly exceeds every
// high in [i-L, i+L] except itself; symmetric for lows. The scan stops
// lookaround bars before the end because later candidates cannot be
// confirmed yet.
func SwingPoints(candles []series.Candle, lookaround int) []SwingPoint {
	var points []SwingPoint
	if lookaround <= 0 {
		return points
	}
	for i := lookaround; i < len(candles)-lookaround; i++ {
		if isSwingHigh(candles, i, lookaround) {
			points = append(points, SwingPoint{
				Index:     i,
				Time:      candles[i].Time,
				Price:     candles[i].High,
				Kind:      SwingHigh,
				Confirmed: i + lookaround,
			})
		}
		if isSwingLow(candles, i, lookaround) {
			points = append(points, SwingPoint{
				Index:     i,
				Time:      candles[i].Time,
				Price:     candles[i].Low,
				Kind:      SwingLow,
				Confirmed: i + lookaround,
			})
		}
	}
	return points
}

// LastConfirmedSwing returns the most recent swing of the given kind
// whose confirmation bar is at or before asOf, or nil. Passing the
// evaluation index as asOf is what prevents a strategy from acting on a
// swing the market has not yet confirmed.
func LastConfirmedSwing(points []SwingPoint, kind Kind, asOf int) *SwingPoint {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Kind == kind && points[i].Confirmed <= asOf {
			return &points[i]
		}
	}
	return nil
}

// LastOppositeBefore returns the most recent swing of the opposite kind
// strictly before the given swing's index, confirmed at or before asOf.
func LastOppositeBefore(points []SwingPoint, ref SwingPoint, asOf int) *SwingPoint {
	opposite := SwingLow
	if ref.Kind == SwingLow {
		opposite = SwingHigh
	}
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Kind == opposite && points[i].Index < ref.Index && points[i].Confirmed <= asOf {
			return &points[i]
		}
	}
	return nil
}

func isSwingHigh(candles []series.Candle, i, lookaround int) bool {
	h := candles[i].High
	for j := i - lookaround; j <= i+lookaround; j++ {
		if j == i {
			continue
		}
		if candles[j].High >= h {
			return false
		}
	}
	return true
}

func isSwingLow(candles []series.Candle, i, lookaround int) bool {
	l := candles[i].Low
	for j := i - lookaround; j <= i+lookaround; j++ {
		if j == i {
			continue
		}
		if candles[j].Low <= l {
			return false
		}
	}
	return true
}
