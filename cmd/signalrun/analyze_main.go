package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/data"
	"github.com/quantlab/signalrun/internal/domain/series"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one strategy over a candle file",
		Long:  "Annotates a CSV candle series with one strategy's signals and prints the annotated series and the current trade signal as JSON.",
		RunE:  runAnalyze,
	}
	cmd.Flags().String("strategy", "sma-crossover", "Strategy ID (see `signalrun serve` /v1/strategies)")
	addSeriesFlags(cmd.Flags())
	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
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

	engine := application.NewEngine(cfg.Engine, buildPredictor(cfg), buildHTF(cfg, asset))
	result, err := engine.Analyze(context.Background(), strategyID, asset, candles, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func loadConfigFlag(cmd *cobra.Command) (application.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return application.LoadConfig(path)
}

func loadCandlesFlag(cmd *cobra.Command) ([]series.Candle, error) {
	path, _ := cmd.Flags().GetString("candles")
	if path == "" {
		return nil, fmt.Errorf("--candles is required")
	}
	return data.CSVLoader{}.LoadFile(path)
}

// paramsFlag merges config-file overrides with --param flags, flags
// winning. Unparseable numbers coerce to 0, matching the parameter-set
// contract.
func paramsFlag(cmd *cobra.Command, cfg application.Config, strategyID string) (strategy.Params, error) {
	params := cfg.StrategyParams(strategyID)
	raw, _ := cmd.Flags().GetStringToString("param")
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			f = 0
		}
		params[k] = f
	}
	return params, nil
}
