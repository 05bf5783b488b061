package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

// CandleStream delivers closed candles for an instrument/interval pair.
// The channel closes when the subscription context is cancelled or the
// upstream disconnects.
type CandleStream interface {
	Subscribe(ctx context.Context, asset, interval string) (<-chan series.Candle, error)
}

// StreamEvaluator re-runs one strategy once per newly closed candle over
// a rolling window. Switching instrument or interval cancels the
// in-flight subscription first, and results from a cancelled
// subscription are discarded by epoch check rather than applied.
type StreamEvaluator struct {
	engine *Engine
	stream CandleStream
	window int

	mu     sync.Mutex
	epoch  uint64
	cancel context.CancelFunc

	// OnResult receives each evaluation. Called from the subscription
	// goroutine, never after a Switch superseded it.
	OnResult func(*AnalyzeResult)
}

// NewStreamEvaluator creates a streaming evaluator keeping at most
// window candles of history per evaluation.
func NewStreamEvaluator(engine *Engine, stream CandleStream, window int) *StreamEvaluator {
	if window <= 0 {
		window = 500
	}
	return &StreamEvaluator{engine: engine, stream: stream, window: window}
}

// Switch subscribes to the given instrument/interval, cancelling any
// prior subscription. Seed candles prime the rolling window so the first
// evaluations have warm-up history.
func (ev *StreamEvaluator) Switch(ctx context.Context, asset, interval, strategyID string, params strategy.Params, seed []series.Candle) error {
	ev.mu.Lock()
	if ev.cancel != nil {
		ev.cancel()
	}
	ev.epoch++
	epoch := ev.epoch
	subCtx, cancel := context.WithCancel(ctx)
	ev.cancel = cancel
	ev.mu.Unlock()

	ch, err := ev.stream.Subscribe(subCtx, asset, interval)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe %s/%s: %w", asset, interval, err)
	}

	window := make([]series.Candle, len(seed))
	copy(window, seed)

	log.Info().Str("asset", asset).Str("interval", interval).Str("strategy", strategyID).
		Msg("streaming evaluation started")

	go func() {
		defer cancel()
		for candle := range ch {
			window = append(window, candle)
			if len(window) > ev.window {
				window = window[len(window)-ev.window:]
			}

			result, err := ev.engine.Analyze(subCtx, strategyID, asset, window, params)
			if err != nil {
				log.Warn().Err(err).Str("asset", asset).Msg("streaming evaluation failed")
				continue
			}
			if !ev.deliver(epoch, result) {
				return
			}
		}
	}()
	return nil
}

// Stop cancels the current subscription, if any.
func (ev *StreamEvaluator) Stop() {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if ev.cancel != nil {
		ev.cancel()
		ev.cancel = nil
	}
	ev.epoch++
}

// deliver hands a result to the callback unless the subscription was
// superseded since the evaluation started.
func (ev *StreamEvaluator) deliver(epoch uint64, result *AnalyzeResult) bool {
	ev.mu.Lock()
	stale := epoch != ev.epoch
	cb := ev.OnResult
	ev.mu.Unlock()
	if stale {
		log.Debug().Uint64("epoch", epoch).Msg("discarding stale streaming result")
		return false
	}
	if cb != nil {
		cb(result)
	}
	return true
}
