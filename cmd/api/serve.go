package main

import (
	"os/signal"
	"syscall"

	"grocer-service/internal/app"
	"grocer-service/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket notifications and the renewal scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.NewServer(cfg, logger).Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("server failed", zap.Error(err))
				return err
			}

			logger.Info("server stopped gracefully")
			return nil
		},
	}
}
