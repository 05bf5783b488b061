// Package data supplies candle series to the engine: CSV files for the
// CLI, a Redis-backed cache for higher-timeframe lookups, and a
// WebSocket subscriber for streaming closed candles. The engine itself
// never performs I/O; it consumes what this package hands it.
package data

import (
	"context"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// CandleSource provides historical candles for an instrument/interval.
type CandleSource interface {
	Candles(ctx context.Context, asset, interval string, limit int) ([]series.Candle, error)
}

// HTFSource adapts a CandleSource to the strategy layer's
// higher-timeframe provider for a fixed instrument/interval pair.
type HTFSource struct {
	Source   CandleSource
	Asset    string
	Interval string
	Limit    int
}

// HigherTimeframe fetches the configured higher-timeframe series.
func (h HTFSource) HigherTimeframe(ctx context.Context) ([]series.Candle, error) {
	limit := h.Limit
	if limit <= 0 {
		limit = 500
	}
	return h.Source.Candles(ctx, h.Asset, h.Interval, limit)
}
