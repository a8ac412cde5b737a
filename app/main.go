package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shipping-system/pkg/config"
	applogger "shipping-system/pkg/logger"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	root := &cobra.Command{
		Use:           "shipping",
		Short:         "Chrisdan Enterprises shipping backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(cfg, logger),
		newMigrateCommand(cfg, logger),
		newSeedCommand(cfg, logger),
	)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
