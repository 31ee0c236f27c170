package database

import (
	"context"

	"github.com/sirupsen/logrus"

	"memeshare/internal/domain/repository"
	"memeshare/internal/platform/config"
)

// Stores returns the store factory for cfg.DBDriver. SQL drivers connect the
// package DB; the memory driver keeps everything in process and is lost on exit.
func Stores(ctx context.Context, cfg *config.Config, initSchema bool) (repository.StoreFactory, error) {
	if cfg.DBDriver == config.DriverMemory {
		logrus.Warn("Using in-memory storage, data will not survive a restart")
		return repository.NewMemoryDB().Store, nil
	}
	if err := Connect(ctx, cfg); err != nil {
		return nil, err
	}
	if initSchema {
		if err := EnsureSchema(ctx, DB); err != nil {
			return nil, err
		}
		logrus.Info("Database schema ensured")
	}
	return repository.NewSQLStoreFactory(DB), nil
}
