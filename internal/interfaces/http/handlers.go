package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

type handlers struct {
	engine  *application.Engine
	config  application.Config
	metrics *MetricsRegistry
	htf     func(asset string) strategy.HTFProvider
}

func newHandlers(engine *application.Engine, config application.Config, metrics *MetricsRegistry) *handlers {
	return &handlers{engine: engine, config: config, metrics: metrics}
}

// engineFor binds the higher-timeframe provider for the request's asset
// when a factory is configured. The base engine is untouched, so
// concurrent requests for different assets never share a provider.
func (h *handlers) engineFor(asset string) *application.Engine {
	if h.htf == nil {
		return h.engine
	}
	provider := h.htf(asset)
	if provider == nil {
		return h.engine
	}
	return h.engine.WithHTF(provider)
}

// analyzeRequest is the shared request body for analyze and backtest.
type analyzeRequest struct {
	Strategy string             `json:"strategy"`
	Asset    string             `json:"asset"`
	Candles  []series.Candle    `json:"candles"`
	Params   map[string]float64 `json:"params,omitempty"`
}

type consensusRequest struct {
	Strategies []string                      `json:"strategies,omitempty"`
	Asset      string                        `json:"asset,omitempty"`
	Candles    []series.Candle               `json:"candles"`
	Params     map[string]map[string]float64 `json:"params,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) strategies(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Defaults strategy.Params `json:"defaults"`
	}
	var out []entry
	for _, s := range strategy.All() {
		out = append(out, entry{ID: s.ID(), Name: s.Name(), Defaults: s.Defaults()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	result, err := h.engineFor(req.Asset).Analyze(r.Context(), req.Strategy, req.Asset, req.Candles, strategy.Params(req.Params))
	h.metrics.EvalDuration.WithLabelValues(req.Strategy).Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.EvalErrors.WithLabelValues(req.Strategy).Inc()
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	h.metrics.SignalsEmitted.WithLabelValues(req.Strategy, string(result.Signal.Action)).Inc()
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) consensus(w http.ResponseWriter, r *http.Request) {
	var req consensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	params := make(map[string]strategy.Params, len(req.Params))
	for id, p := range req.Params {
		params[id] = strategy.Params(p)
	}
	result, err := h.engineFor(req.Asset).Consensus(r.Context(), req.Strategies, req.Candles, params)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	if result == nil {
		// Tie: no directional consensus.
		writeJSON(w, http.StatusOK, map[string]interface{}{"direction": nil})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) backtest(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	result, err := h.engineFor(req.Asset).Backtest(r.Context(), req.Strategy, req.Asset, req.Candles,
		strategy.Params(req.Params), h.config.BacktestSimConfig())
	h.metrics.BacktestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	h.metrics.BacktestTrades.Observe(float64(result.Summary.TotalTrades))
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps malformed input to 400 and everything else to 500.
func statusFor(err error) int {
	if errors.Is(err, series.ErrEmptySeries) || errors.Is(err, series.ErrNotAscending) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
