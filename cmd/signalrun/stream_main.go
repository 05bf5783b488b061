package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantlab/signalrun/internal/application"
	"github.com/quantlab/signalrun/internal/data"
	"github.com/quantlab/signalrun/internal/domain/series"
)

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Re-evaluate a strategy live, once per closed candle",
		Long:  "Subscribes to a WebSocket candle feed and prints the current trade signal after every closed candle. Seed history may be primed from a CSV file.",
		RunE:  runStream,
	}
	cmd.Flags().String("strategy", "sma-crossover", "Strategy ID")
	cmd.Flags().String("ws-url", "", "WebSocket feed base URL")
	cmd.Flags().String("interval", "1m", "Candle interval to subscribe to")
	addSeriesFlags(cmd.Flags())
	return cmd
}

func runStream(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}
	strategyID, _ := cmd.Flags().GetString("strategy")
	asset, _ := cmd.Flags().GetString("asset")
	interval, _ := cmd.Flags().GetString("interval")
	wsURL, _ := cmd.Flags().GetString("ws-url")

	var seed []series.Candle
	if path, _ := cmd.Flags().GetString("candles"); path != "" {
		if seed, err = (data.CSVLoader{}).LoadFile(path); err != nil {
			return err
		}
	}
	params, err := paramsFlag(cmd, cfg, strategyID)
	if err != nil {
		return err
	}

	engine := application.NewEngine(cfg.Engine, buildPredictor(cfg), buildHTF(cfg, asset))
	evaluator := application.NewStreamEvaluator(engine, &data.WSStream{BaseURL: wsURL}, cfg.Engine.StreamWindow)
	evaluator.OnResult = func(result *application.AnalyzeResult) {
		out, _ := json.Marshal(result.Signal)
		os.Stdout.Write(append(out, '\n'))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := evaluator.Switch(ctx, asset, interval, strategyID, params, seed); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("stopping stream")
	evaluator.Stop()
	return nil
}
