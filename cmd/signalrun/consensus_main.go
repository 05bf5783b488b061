package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/domain/strategy"
)

func newConsensusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consensus",
		Short: "Reduce all strategies to one directional vote",
		Long:  "Runs every registered strategy (or a named subset) over a CSV candle series and prints the majority direction and mean signal price.",
		RunE:  runConsensus,
	}
	cmd.Flags().StringSlice("strategies", nil, "Strategy IDs to include (default all)")
	addSeriesFlags(cmd.Flags())
	return cmd
}

func runConsensus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}
	candles, err := loadCandlesFlag(cmd)
	if err != nil {
		return err
	}
	ids, _ := cmd.Flags().GetStringSlice("strategies")

	params := make(map[string]strategy.Params)
	for _, s := range strategy.All() {
		params[s.ID()] = cfg.StrategyParams(s.ID())
	}

	asset, _ := cmd.Flags().GetString("asset")
	engine := application.NewEngine(cfg.Engine, nil, buildHTF(cfg, asset))
	result, err := engine.Consensus(context.Background(), ids, candles, params)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("no consensus (tie)")
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
