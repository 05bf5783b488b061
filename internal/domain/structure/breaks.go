package structure

import "github.com/quantlab/signalrun/internal/domain/series"

// Direction of a structural event.
type Direction int

const (
	// Bullish means a close broke above a prior swing high.
	Bullish Direction = 1
	// Bearish means a close broke below a prior swing low.
	Bearish Direction = -1
)

// Event is a break of structure: a close moving past a prior confirmed
// swing extremum. TriggerIndex is the breaking candle,
// ReferenceSwingIndex the swing that was broken.
type Event struct {
	TriggerIndex        int
	ReferenceSwingIndex int
	Direction           Direction
}

// BreakOfStructure scans closes in (from, upTo] for the first one that
// breaks past the reference swing. A bearish break closes below a swing
// low, a bullish break closes above a swing high. Returns nil when no
// close in the span breaks the level. The scan never reads past upTo.
func BreakOfStructure(candles []series.Candle, ref SwingPoint, from, upTo int) *Event {
	if upTo >= len(candles) {
		upTo = len(candles) - 1
	}
	for i := from + 1; i <= upTo; i++ {
		switch ref.Kind {
		case SwingLow:
			if candles[i].Close < ref.Price {
				return &Event{TriggerIndex: i, ReferenceSwingIndex: ref.Index, Direction: Bearish}
			}
		case SwingHigh:
			if candles[i].Close > ref.Price {
				return &Event{TriggerIndex: i, ReferenceSwingIndex: ref.Index, Direction: Bullish}
			}
		}
	}
	return nil
}

// PullbackExtreme tracks the running pullback extremum from the break
// candle to the evaluation index: the minimum low after a bearish break,
// the maximum high after a bullish break. The second return is the index
// where the extreme was set.
func PullbackExtreme(candles []series.Candle, ev Event, upTo int) (float64, int) {
	if upTo >= len(candles) {
		upTo = len(candles) - 1
	}
	extreme := candles[ev.TriggerIndex].Low
	if ev.Direction == Bullish {
		extreme = candles[ev.TriggerIndex].High
	}
	at := ev.TriggerIndex
	for i := ev.TriggerIndex + 1; i <= upTo; i++ {
		if ev.Direction == Bearish && candles[i].Low < extreme {
			extreme = candles[i].Low
			at = i
		}
		if ev.Direction == Bullish && candles[i].High > extreme {
			extreme = candles[i].High
			at = i
		}
	}
	return extreme, at
}

// SweepConfirmed reports whether the break candle's volume is below the
// swept candle's volume. A structural break on falling volume after a
// high-volume sweep of the level is read as a reversal, not continuation.
func SweepConfirmed(candles []series.Candle, ev Event) bool {
	return candles[ev.TriggerIndex].Volume < candles[ev.ReferenceSwingIndex].Volume
}
