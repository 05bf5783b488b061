// Package http exposes the signal engine over a read-only JSON API:
// strategy evaluation, consensus and backtests on caller-supplied candle
// series, plus health and Prometheus metrics endpoints.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns a local-only default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front end over the engine.
type Server struct {
	router   *mux.Router
	server   *http.Server
	metrics  *MetricsRegistry
	handlers *handlers
}

// NewServer wires the routes and metrics over the given engine.
func NewServer(config ServerConfig, engine *application.Engine, backtestCfg application.Config) *Server {
	registry := prometheus.NewRegistry()
	metrics := NewMetricsRegistry(registry)
	handlers := newHandlers(engine, backtestCfg, metrics)

	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	router.HandleFunc("/health", handlers.health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Subrouters do not inherit the root's MethodNotAllowedHandler; a
	// method mismatch inside the prefix would otherwise fall through as
	// a 404.
	api := router.PathPrefix("/v1").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.HandleFunc("/strategies", handlers.strategies).Methods(http.MethodGet)
	api.HandleFunc("/analyze", handlers.analyze).Methods(http.MethodPost)
	api.HandleFunc("/consensus", handlers.consensus).Methods(http.MethodPost)
	api.HandleFunc("/backtest", handlers.backtest).Methods(http.MethodPost)

	return &Server{
		router:   router,
		metrics:  metrics,
		handlers: handlers,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
	}
}

// Router exposes the mux for tests.
func (s *Server) Router() *mux.Router { return s.router }

// SetHTFFactory installs a per-asset higher-timeframe provider factory.
// Each request binds a provider for its own asset; without a factory the
// trend filter runs unfiltered.
func (s *Server) SetHTFFactory(factory func(asset string) strategy.HTFProvider) {
	s.handlers.htf = factory
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
