package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/store"
)

func newBacktestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay a strategy's signals into a trade ledger",
		Long:  "Annotates a CSV candle series with one strategy's signals, replays it through the position state machine and prints the ledger and summary as JSON.",
		RunE:  runBacktest,
	}
	cmd.Flags().String("strategy", "sma-crossover", "Strategy ID")
	cmd.Flags().Float64("capital", 0, "Initial capital (overrides config)")
	cmd.Flags().Float64("leverage", 0, "Leverage (overrides config)")
	cmd.Flags().String("store-dsn", "", "Optional Postgres DSN to persist the run")
	addSeriesFlags(cmd.Flags())
	return cmd
}

func runBacktest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}
	strategyID, _ := cmd.Flags().GetString("strategy")
	asset, _ := cmd.Flags().GetString("asset")

	candles, err := loadCandlesFlag(cmd)
	if err != nil {
		return err
	}
	params, err := paramsFlag(cmd, cfg, strategyID)
	if err != nil {
		return err
	}

	simCfg := cfg.BacktestSimConfig()
	if v, _ := cmd.Flags().GetFloat64("capital"); v > 0 {
		simCfg.InitialCapital = v
	}
	if v, _ := cmd.Flags().GetFloat64("leverage"); v > 0 {
		simCfg.Leverage = v
	}

	engine := application.NewEngine(cfg.Engine, nil, buildHTF(cfg, asset))
	result, err := engine.Backtest(context.Background(), strategyID, asset, candles, params, simCfg)
	if err != nil {
		return err
	}

	if dsn, _ := cmd.Flags().GetString("store-dsn"); dsn != "" {
		pg, err := store.NewPostgresStore(dsn)
		if err != nil {
			log.Warn().Err(err).Msg("ledger store unavailable, printing only")
		} else {
			defer pg.Close()
			if err := pg.SaveResult(context.Background(), result); err != nil {
				log.Warn().Err(err).Msg("failed to persist backtest run")
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
