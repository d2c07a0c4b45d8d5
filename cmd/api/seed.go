package main

import (
	"fmt"

	"grocer-service/internal/app"
	"grocer-service/internal/config"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in product catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			infra, err := app.Connect(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer infra.Close()

			inserted, err := infra.SeedCatalog(cmd.Context(), logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d products\n", inserted)
			return nil
		},
	}
}
