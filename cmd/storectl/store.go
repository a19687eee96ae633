package main

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xenking/novexa-store/internal/app"
	"github.com/xenking/novexa-store/internal/storage/postgres"
)

// openStore connects to the configured database and applies migrations.
func openStore(ctx context.Context, lg *zap.Logger) (*app.Config, *pgxpool.Pool, error) {
	cfg, err := app.LoadEnvConfig()
	if err != nil {
		return nil, nil, err
	}

	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect to database")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, errors.Wrap(err, "run migrations")
	}
	return cfg, pool, nil
}
