package application

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/quantlab/signalrun/internal/domain/series"
)

// Verdict is a probabilistic predictor's opinion of the series.
type Verdict struct {
	Direction  string  `json:"direction"`
	Confidence float64 `json:"confidence"`
}

// Predictor is an injected external capability, typically a model call.
// It sits outside the engine's determinism guarantees and may be slow or
// down; callers must treat failures as advisory, not fatal.
type Predictor interface {
	Predict(ctx context.Context, candles []series.Candle) (Verdict, error)
}

// ErrPredictorThrottled is returned when the rate policy suppresses a
// predictor call.
var ErrPredictorThrottled = errors.New("application: predictor call throttled")

// PredictorConfig holds the policy knobs around the external predictor:
// how often it may be consulted and the confidence below which signals
// are suppressed. These are configuration, not control flow baked into
// the strategies.
type PredictorConfig struct {
	Endpoint              string  `yaml:"endpoint"`
	ConfidenceThreshold   float64 `yaml:"confidence_threshold"`
	MinIntervalSeconds    int     `yaml:"min_interval_seconds"`
	BreakerMaxFailures    uint32  `yaml:"breaker_max_failures"`
	BreakerOpenForSeconds int     `yaml:"breaker_open_for_seconds"`
}

// DefaultPredictorConfig returns the default predictor policy.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		ConfidenceThreshold:   0.6,
		MinIntervalSeconds:    30,
		BreakerMaxFailures:    3,
		BreakerOpenForSeconds: 120,
	}
}

// GatedPredictor wraps a Predictor with the throttling and failure
// policy: a rate limiter spaces out calls and a circuit breaker stops
// hammering a failing backend, so a slow or dead predictor can never
// block the indicator pipeline.
type GatedPredictor struct {
	inner     Predictor
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
	threshold float64
}

// NewGatedPredictor wraps inner with the given policy.
func NewGatedPredictor(inner Predictor, cfg PredictorConfig) *GatedPredictor {
	interval := time.Duration(cfg.MinIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "predictor",
		Timeout: time.Duration(cfg.BreakerOpenForSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
	return &GatedPredictor{
		inner:     inner,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		breaker:   breaker,
		threshold: cfg.ConfidenceThreshold,
	}
}

// Threshold returns the confidence gate for signal emission.
func (g *GatedPredictor) Threshold() float64 { return g.threshold }

// Predict consults the wrapped predictor, subject to the rate policy and
// the circuit breaker.
func (g *GatedPredictor) Predict(ctx context.Context, candles []series.Candle) (Verdict, error) {
	if !g.limiter.Allow() {
		return Verdict{}, ErrPredictorThrottled
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		v, err := g.inner.Predict(ctx, candles)
		return v, err
	})
	if err != nil {
		return Verdict{}, err
	}
	return out.(Verdict), nil
}
