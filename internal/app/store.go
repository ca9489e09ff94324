package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/config"
	"github.com/adanyl0v/taskd/internal/storage"
	"github.com/adanyl0v/taskd/internal/storage/postgres"
	"github.com/adanyl0v/taskd/internal/storage/sqlite"
)

// OpenStore opens the backend selected by cfg.StorageDriver. The caller
// owns the returned store and must close it.
func OpenStore(ctx context.Context, logger zerolog.Logger, cfg config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := ConnectPostgres(ctx, logger, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool), nil
	case config.StorageDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			logger.Error().
				Err(err).
				Str("path", cfg.SQLite.Path).
				Msg("failed to open sqlite database")
			return nil, err
		}
		logger.Info().
			Str("path", cfg.SQLite.Path).
			Msg("opened sqlite database")
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownStorageDriver, cfg.StorageDriver)
	}
}

func Migrate(ctx context.Context, logger zerolog.Logger, store storage.Store) error {
	err := store.Migrate(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to apply migrations")
		return err
	}
	logger.Info().Msg("applied migrations")
	return nil
}
