package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shipping-system/pkg/config"
	"shipping-system/pkg/database/migrations"
)

func newMigrateCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}

	step := func(name string, run func(ctx context.Context, cfg *config.Config) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: "migrate " + name,
			RunE: func(c *cobra.Command, args []string) error {
				if err := cfg.Validate(); err != nil {
					return err
				}
				start := time.Now()
				if err := run(c.Context(), cfg); err != nil {
					return err
				}
				logger.Info("migrate finished", zap.String("step", name), zap.Duration("took", time.Since(start)))
				return nil
			},
		}
	}

	cmd.AddCommand(
		step("up", withPool(migrations.Up)),
		step("down", withPool(migrations.Down)),
		step("status", withPool(migrations.Status)),
	)
	return cmd
}
