package application

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantlab/signalrun/internal/backtest"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

// EngineConfig holds engine-level evaluation settings.
type EngineConfig struct {
	TakeProfitPct float64 `yaml:"take_profit_pct"`
	StreamWindow  int     `yaml:"stream_window"`
}

// DefaultEngineConfig returns the default engine settings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TakeProfitPct: 4.0,
		StreamWindow:  500,
	}
}

// Config is the top-level YAML configuration file.
type Config struct {
	Engine    EngineConfig                  `yaml:"engine"`
	Backtest  BacktestConfig                `yaml:"backtest"`
	Predictor PredictorConfig               `yaml:"predictor"`
	HTF       HTFConfig                     `yaml:"htf"`
	Server    ServerConfig                  `yaml:"server"`
	Cache     CacheConfig                   `yaml:"cache"`
	Strategy  map[string]map[string]float64 `yaml:"strategies"`
}

// BacktestConfig mirrors backtest.Config in YAML form.
type BacktestConfig struct {
	InitialCapital float64 `yaml:"initial_capital"`
	Leverage       float64 `yaml:"leverage"`
	StopLossPct    float64 `yaml:"stop_loss_pct"`
	TakeProfitPct  float64 `yaml:"take_profit_pct"`
	FeePct         float64 `yaml:"fee_pct"`
}

// HTFConfig points the trend filter at a higher-timeframe candle feed.
// An empty source URL disables the filter's independent fetch.
type HTFConfig struct {
	SourceURL string `yaml:"source_url"`
	Interval  string `yaml:"interval"`
	Limit     int    `yaml:"limit"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// ReadTimeout converts the configured read timeout to a duration.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout converts the configured write timeout to a duration.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// CacheConfig holds the Redis candle-cache settings.
type CacheConfig struct {
	Addr              string `yaml:"addr"`
	DB                int    `yaml:"db"`
	DefaultTTLSeconds int    `yaml:"default_ttl_seconds"`
}

// DefaultTTL converts the configured TTL to a duration.
func (c CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Engine:    DefaultEngineConfig(),
		Predictor: DefaultPredictorConfig(),
		Backtest: BacktestConfig{
			InitialCapital: 1000,
			Leverage:       1,
			StopLossPct:    2.0,
			TakeProfitPct:  4.0,
		},
		HTF: HTFConfig{
			Interval: "4h",
			Limit:    500,
		},
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8080,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Cache: CacheConfig{
			Addr:              "localhost:6379",
			DefaultTTLSeconds: 300,
		},
		Strategy: map[string]map[string]float64{},
	}
}

// LoadConfig reads a YAML configuration file over the defaults. A
// missing path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// StrategyParams returns the configured overrides for a strategy as a
// parameter set.
func (c Config) StrategyParams(id string) strategy.Params {
	overrides := c.Strategy[id]
	if overrides == nil {
		return strategy.Params{}
	}
	p := make(strategy.Params, len(overrides))
	for k, v := range overrides {
		p[k] = v
	}
	return p
}

// BacktestSimConfig converts the YAML backtest section to the simulator
// configuration.
func (c Config) BacktestSimConfig() backtest.Config {
	return backtest.Config{
		InitialCapital: c.Backtest.InitialCapital,
		Leverage:       c.Backtest.Leverage,
		StopLossPct:    c.Backtest.StopLossPct,
		TakeProfitPct:  c.Backtest.TakeProfitPct,
		FeePct:         c.Backtest.FeePct,
	}
}
