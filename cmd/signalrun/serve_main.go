package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantlab/signalrun/internal/application"
	httpapi "github.com/quantlab/signalrun/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		Long:  "Starts the JSON API (analyze, consensus, backtest) with health and Prometheus metrics endpoints.",
		RunE:  runServe,
	}
	cmd.Flags().String("host", "", "Bind host (overrides config)")
	cmd.Flags().Int("port", 0, "Bind port (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFlag(cmd)
	if err != nil {
		return err
	}

	serverCfg := httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		serverCfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		serverCfg.Port = port
	}

	engine := application.NewEngine(cfg.Engine, buildPredictor(cfg), nil)
	server := httpapi.NewServer(serverCfg, engine, cfg)
	server.SetHTFFactory(buildHTFFactory(cfg))

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
