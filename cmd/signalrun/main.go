package main

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/data"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

const (
	appName = "SignalRun"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "signalrun",
		Short:   "Technical-analysis signal engine and backtester",
		Version: version,
		Long: appName + ` computes indicator series, structure events and
trade signals from candle data, aggregates strategy consensus, and
replays signals through a backtest simulator.`,
		Run: func(cmd *cobra.Command, args []string) {
			if term.IsTerminal(int(os.Stdout.Fd())) {
				cmd.Help()
				return
			}
			log.Info().Msg("no subcommand given; see --help")
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		level, _ := cmd.Flags().GetString("log-level")
		if l, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(l)
		}
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newBacktestCmd())
	rootCmd.AddCommand(newConsensusCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStreamCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// addSeriesFlags attaches the flags every series-consuming subcommand
// shares.
func addSeriesFlags(fs *pflag.FlagSet) {
	fs.String("candles", "", "Path to CSV candle file (time,open,high,low,close,volume)")
	fs.String("asset", "BTCUSD", "Instrument identifier for signal attribution")
	fs.StringToString("param", nil, "Strategy parameter override, e.g. --param fastPeriod=10")
}

// buildPredictor wires the gated predictor when a model endpoint is
// configured. A missing endpoint means signals pass unconfirmed.
func buildPredictor(cfg application.Config) *application.GatedPredictor {
	if cfg.Predictor.Endpoint == "" {
		return nil
	}
	return application.NewGatedPredictor(&data.RESTPredictor{Endpoint: cfg.Predictor.Endpoint}, cfg.Predictor)
}

// buildHTFFactory wires the higher-timeframe fetch for the trend
// filter: a REST candle source behind the Redis read-through cache,
// shared by every provider the factory hands out. Without a source URL
// the filter has nothing to fetch and stays disabled.
func buildHTFFactory(cfg application.Config) func(asset string) strategy.HTFProvider {
	if cfg.HTF.SourceURL == "" {
		return nil
	}
	source := data.NewCachedSource(
		&data.RESTSource{BaseURL: cfg.HTF.SourceURL},
		redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr, DB: cfg.Cache.DB}),
		cfg.Cache.DefaultTTL(),
	)
	return func(asset string) strategy.HTFProvider {
		return data.HTFSource{
			Source:   source,
			Asset:    asset,
			Interval: cfg.HTF.Interval,
			Limit:    cfg.HTF.Limit,
		}
	}
}

// buildHTF binds the provider for a single asset, for the one-shot
// subcommands.
func buildHTF(cfg application.Config, asset string) strategy.HTFProvider {
	factory := buildHTFFactory(cfg)
	if factory == nil {
		return nil
	}
	return factory(asset)
}
