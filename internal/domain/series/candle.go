// Package series defines the candle data model shared by the indicator
// library, the structure engine, the signal generators and the backtest
// simulator. A candle series is an immutable input: computation stages
// annotate a copy, never the caller's slice.
package series

import (
	"errors"
	"fmt"
	"math"
)

// Candle is a single OHLCV bar with optional derived annotations.
// Time is epoch milliseconds; a series is sorted strictly ascending by Time.
// Annotation fields are nil until a strategy writes them.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`

	BuySignal     *float64 `json:"buySignal,omitempty"`
	SellSignal    *float64 `json:"sellSignal,omitempty"`
	StopLossLevel *float64 `json:"stopLossLevel,omitempty"`
	PeakPrice     *float64 `json:"peakPrice,omitempty"`
}

var (
	// ErrEmptySeries is returned when a series has no candles.
	ErrEmptySeries = errors.New("series: empty candle series")
	// ErrNotAscending is returned when timestamps are not strictly ascending.
	ErrNotAscending = errors.New("series: timestamps not strictly ascending")
)

// Validate checks the series invariants: non-empty, strictly ascending
// unique timestamps. Malformed input is fatal to the call that received it.
func Validate(candles []Candle) error {
	if len(candles) == 0 {
		return ErrEmptySeries
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].Time <= candles[i-1].Time {
			return fmt.Errorf("%w: index %d (%d) <= index %d (%d)",
				ErrNotAscending, i, candles[i].Time, i-1, candles[i-1].Time)
		}
	}
	return nil
}

// Clone returns an annotation buffer for the given series: same bars,
// separate backing array, annotation pointers reset. Strategies write
// into the clone so concurrent evaluations never share mutable state.
func Clone(candles []Candle) []Candle {
	out := make([]Candle, len(candles))
	copy(out, candles)
	for i := range out {
		out[i].BuySignal = nil
		out[i].SellSignal = nil
		out[i].StopLossLevel = nil
		out[i].PeakPrice = nil
	}
	return out
}

// Closes extracts the close column.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}
	return out
}

// Highs extracts the high column.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].High
	}
	return out
}

// Lows extracts the low column.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Low
	}
	return out
}

// Volumes extracts the volume column.
func Volumes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Volume
	}
	return out
}

// Ptr returns a pointer to v, for annotation fields.
func Ptr(v float64) *float64 { return &v }

// IsValue reports whether v is a computed value rather than warm-up padding.
func IsValue(v float64) bool { return !math.IsNaN(v) }
