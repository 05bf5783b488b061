package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRegistry holds the Prometheus metrics for the signal engine.
type MetricsRegistry struct {
	EvalDuration *prometheus.HistogramVec
	EvalErrors   *prometheus.CounterVec

	SignalsEmitted *prometheus.CounterVec

	BacktestDuration prometheus.Histogram
	BacktestTrades   prometheus.Histogram
}

// NewMetricsRegistry creates and registers all engine metrics on the
// given registerer (the default registerer when nil).
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &MetricsRegistry{
		EvalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalrun_eval_duration_seconds",
				Help:    "Duration of one strategy evaluation over a candle series",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"strategy"},
		),
		EvalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalrun_eval_errors_total",
				Help: "Total failed strategy evaluations by strategy",
			},
			[]string{"strategy"},
		),
		SignalsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalrun_signals_emitted_total",
				Help: "Total trade signals emitted by strategy and action",
			},
			[]string{"strategy", "action"},
		),
		BacktestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signalrun_backtest_duration_seconds",
				Help:    "Duration of one backtest run",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
		),
		BacktestTrades: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "signalrun_backtest_trades",
				Help:    "Trades produced per backtest run",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
		),
	}

	reg.MustRegister(
		m.EvalDuration, m.EvalErrors, m.SignalsEmitted,
		m.BacktestDuration, m.BacktestTrades,
	)
	return m
}
