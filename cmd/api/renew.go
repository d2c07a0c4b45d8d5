package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"grocer-service/internal/app"
	"grocer-service/internal/config"
	"grocer-service/internal/metrics"
	notifyUsecase "grocer-service/internal/service/notification"
	"grocer-service/internal/service/renewal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRenewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renew",
		Short: "Process due subscriptions once and print the run report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			infra, err := app.Connect(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer infra.Close()

			notifier := notifyUsecase.NewNotificationService(infra.BusPublisher(logger), logger.Named("notification"))
			renewer := infra.Renewer(cfg, notifier, metrics.Nop(), logger)

			report, err := renewer.RunOnce(ctx, renewal.TriggerCLI)
			if err != nil {
				logger.Error("subscription renewal failed", zap.Error(err))
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
}
