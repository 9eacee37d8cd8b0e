package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/db"
	"booking-engine/internal/infra/memstore"
	"booking-engine/internal/infra/postgres"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork picks the backing store from STORE_DRIVER.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Info("using in-memory store")
		return memstore.NewUnitOfWork(memstore.New()), nil
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(context.Background(), pool); err != nil {
			cleanup()
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	logger.Info("using postgres store", "host", cfg.DB.Host, "database", cfg.DB.DBName)
	return postgres.NewPostgresUoW(pool), nil
}
