package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shipping-system/pkg/config"
	"shipping-system/pkg/database/postgresql"
	"shipping-system/seeders"
)

func newSeedCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample staff, customers and shipments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
				return seeders.Run(ctx, pool, logger.Named("seed"))
			})(cmd.Context(), cfg)
		},
	}
}

// withPool opens a short-lived pool for one-off commands.
func withPool(fn func(ctx context.Context, pool *pgxpool.Pool) error) func(ctx context.Context, cfg *config.Config) error {
	return func(ctx context.Context, cfg *config.Config) error {
		pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(ctx, pool)
	}
}
