package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"grocer-service/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "grocer",
		Short:         "Grocery storefront backend and subscription renewal job",
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newRenewCmd(),
		newSeedCmd(),
		newTokenCmd(),
	)
	return root
}

// newLogger builds the production zap logger at the configured level.
func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
