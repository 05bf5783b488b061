package strategy

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/domain/indicators"
	"github.com/quantlab/signalrun/internal/domain/series"
)

// HTFProvider supplies an independently fetched higher-timeframe candle
// series. The fetch is external and may fail or stall; TrendFilter
// treats that as non-fatal and falls back to unfiltered signals.
type HTFProvider interface {
	HigherTimeframe(ctx context.Context) ([]series.Candle, error)
}

// TrendFilter is the crossover strategy gated by a higher-timeframe EMA:
// buys only when the base close is above the carried-forward HTF EMA,
// sells only below it. The HTF series is joined onto the base series by
// bucketing each base timestamp into its enclosing higher-timeframe
// interval and carrying the last known value forward.
type TrendFilter struct {
	Provider     HTFProvider
	FetchTimeout time.Duration
}

func (TrendFilter) ID() string   { return "htf-trend-filter" }
func (TrendFilter) Name() string { return "Higher-Timeframe Trend Filter" }

func (TrendFilter) Defaults() Params {
	return Params{
		"fastPeriod":  20,
		"slowPeriod":  50,
		"htfEMA":      50,
		"stopLossPct": 2.0,
		"reverse":     0,
	}
}

func (s TrendFilter) Calculate(candles []series.Candle, params Params) []series.Candle {
	p := Merge(s.Defaults(), params)
	base := Crossover{}.Calculate(candles, Params{
		"fastPeriod":  p.Get("fastPeriod", 20),
		"slowPeriod":  p.Get("slowPeriod", 50),
		"stopLossPct": p.Get("stopLossPct", 2.0),
		"reverse":     p.Get("reverse", 0),
	})

	htf, err := s.fetchHTF()
	if err != nil {
		log.Warn().Err(err).Str("strategy", s.ID()).
			Msg("higher-timeframe fetch failed, falling back to unfiltered signals")
		return base
	}

	htfEMA := indicators.EMA(series.Closes(htf), p.GetInt("htfEMA", 50))
	trend := MapLOCF(candles, htf, htfEMA)

	for i := range base {
		if !series.IsValue(trend[i]) {
			continue
		}
		// Drop signals that fight the higher-timeframe trend.
		if base[i].BuySignal != nil && candles[i].Close < trend[i] {
			base[i].BuySignal = nil
			base[i].StopLossLevel = nil
		}
		if base[i].SellSignal != nil && candles[i].Close > trend[i] {
			base[i].SellSignal = nil
			base[i].StopLossLevel = nil
		}
	}
	return base
}

// ErrNoHTFProvider marks a TrendFilter constructed without a provider.
var ErrNoHTFProvider = errors.New("strategy: no higher-timeframe provider configured")

func (s TrendFilter) fetchHTF() ([]series.Candle, error) {
	if s.Provider == nil {
		return nil, ErrNoHTFProvider
	}
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Provider.HigherTimeframe(ctx)
}

// MapLOCF maps a higher-timeframe value series onto the base series by
// last-observation-carried-forward: each base candle takes the value of
// the latest higher-timeframe candle whose open time is at or before its
// own. Base candles preceding the first HTF candle stay NaN.
func MapLOCF(base, htf []series.Candle, values []float64) []float64 {
	out := make([]float64, len(base))
	j := -1
	last := math.NaN()
	for i := range base {
		for j+1 < len(htf) && htf[j+1].Time <= base[i].Time {
			j++
			if series.IsValue(values[j]) {
				last = values[j]
			}
		}
		out[i] = last
	}
	return out
}
