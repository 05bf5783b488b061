// Package application orchestrates the computation pipeline: it wires
// candle sources, strategies, the consensus aggregator, the backtest
// simulator and the optional external predictor behind a single engine
// facade used by the CLI and the HTTP layer.
package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/backtest"
	"github.com/quantlab/signalrun/internal/domain/consensus"
	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

// Engine runs strategies over candle series. It holds no per-call state:
// every evaluation receives its own annotation buffer, so concurrent
// calls never interfere.
type Engine struct {
	predictor *GatedPredictor
	htf       strategy.HTFProvider
	config    EngineConfig
}

// NewEngine creates an engine. Both the predictor and the
// higher-timeframe provider are optional capabilities; a nil provider
// degrades the strategies that want them, never the engine.
func NewEngine(config EngineConfig, predictor *GatedPredictor, htf strategy.HTFProvider) *Engine {
	return &Engine{
		predictor: predictor,
		htf:       htf,
		config:    config,
	}
}

// WithHTF returns an engine bound to the given higher-timeframe
// provider, sharing the receiver's config and predictor. The provider
// is asset-specific, so callers serving many instruments derive a
// per-call engine instead of fixing one provider at construction.
func (e *Engine) WithHTF(htf strategy.HTFProvider) *Engine {
	derived := *e
	derived.htf = htf
	return &derived
}

// AnalyzeResult is one strategy evaluation: the annotated series for the
// rendering layer and the single current signal for the execution layer.
type AnalyzeResult struct {
	Candles []series.Candle `json:"candles"`
	Signal  strategy.Signal `json:"signal"`
}

// Analyze runs one strategy over the series and derives the current
// trade signal from the final candle. When a predictor is configured,
// its confidence gates emission: a verdict under the threshold
// downgrades the signal to HOLD.
func (e *Engine) Analyze(ctx context.Context, strategyID, asset string, candles []series.Candle, params strategy.Params) (*AnalyzeResult, error) {
	if err := series.Validate(candles); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", asset, err)
	}
	strat, err := e.resolve(strategyID)
	if err != nil {
		return nil, err
	}

	annotated := strat.Calculate(candles, params)
	sig := strategy.LatestSignal(annotated, strategyID, asset, e.config.TakeProfitPct)
	sig = e.confirm(ctx, candles, sig)

	log.Debug().
		Str("strategy", strategyID).
		Str("asset", asset).
		Str("action", string(sig.Action)).
		Int("candles", len(candles)).
		Msg("analysis complete")

	return &AnalyzeResult{Candles: annotated, Signal: sig}, nil
}

// Backtest annotates the series with the strategy and replays it through
// the simulator.
func (e *Engine) Backtest(ctx context.Context, strategyID, asset string, candles []series.Candle, params strategy.Params, cfg backtest.Config) (*backtest.Result, error) {
	if err := series.Validate(candles); err != nil {
		return nil, fmt.Errorf("backtest %s: %w", asset, err)
	}
	strat, err := e.resolve(strategyID)
	if err != nil {
		return nil, err
	}

	annotated := strat.Calculate(candles, params)
	result, err := backtest.NewSimulator(cfg).Run(annotated, strategyID, asset)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("strategy", strategyID).
		Str("asset", asset).
		Int("trades", result.Summary.TotalTrades).
		Float64("ending_balance", result.Summary.EndingBalance).
		Msg("backtest complete")
	return result, nil
}

// Consensus fans the series out to the named strategies (all registered
// ones when the list is empty) and reduces their last-candle markers to
// one directional vote.
func (e *Engine) Consensus(ctx context.Context, strategyIDs []string, candles []series.Candle, params map[string]strategy.Params) (*consensus.Result, error) {
	var strategies []strategy.Strategy
	if len(strategyIDs) == 0 {
		strategies = e.allStrategies()
	} else {
		for _, id := range strategyIDs {
			s, err := e.resolve(id)
			if err != nil {
				return nil, err
			}
			strategies = append(strategies, s)
		}
	}
	return consensus.Aggregate(ctx, strategies, candles, params)
}

// resolve looks up a strategy, injecting the engine's higher-timeframe
// provider into the trend-filter strategy rather than letting it read
// ambient state.
func (e *Engine) resolve(id string) (strategy.Strategy, error) {
	s, err := strategy.Lookup(id)
	if err != nil {
		return nil, err
	}
	if _, ok := s.(strategy.TrendFilter); ok && e.htf != nil {
		return strategy.TrendFilter{Provider: e.htf}, nil
	}
	return s, nil
}

func (e *Engine) allStrategies() []strategy.Strategy {
	all := strategy.All()
	if e.htf == nil {
		return all
	}
	out := make([]strategy.Strategy, len(all))
	for i, s := range all {
		if _, ok := s.(strategy.TrendFilter); ok {
			out[i] = strategy.TrendFilter{Provider: e.htf}
			continue
		}
		out[i] = s
	}
	return out
}

// confirm applies the predictor gate to a non-HOLD signal. Predictor
// failure is non-fatal: the signal passes through unconfirmed.
func (e *Engine) confirm(ctx context.Context, candles []series.Candle, sig strategy.Signal) strategy.Signal {
	if e.predictor == nil || sig.Action == strategy.ActionHold {
		return sig
	}
	verdict, err := e.predictor.Predict(ctx, candles)
	if err != nil {
		log.Warn().Err(err).Str("strategy", sig.StrategyID).Msg("predictor unavailable, signal passes unconfirmed")
		return sig
	}
	if verdict.Confidence < e.predictor.Threshold() {
		log.Debug().
			Float64("confidence", verdict.Confidence).
			Float64("threshold", e.predictor.Threshold()).
			Msg("predictor confidence below threshold, holding")
		sig.Action = strategy.ActionHold
		return sig
	}
	sig.Confidence = verdict.Confidence
	return sig
}
