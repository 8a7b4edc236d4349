package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/StarCase_Go/internal/config"
	"github.com/osse101/StarCase_Go/internal/database"
	"github.com/osse101/StarCase_Go/internal/database/memory"
	"github.com/osse101/StarCase_Go/internal/database/postgres"
	"github.com/osse101/StarCase_Go/internal/database/sqlite"
	"github.com/osse101/StarCase_Go/internal/repository"
)

const sqliteInMemory = ":memory:"

// OpenStore opens the backend named by cfg.StoreDriver. Postgres migrations
// run only when DBAutoMigrate is set; SQLite always migrates on open.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDatabase, err)
		}
		if cfg.DBAutoMigrate {
			if err := database.MigratePool(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
			}
			slog.Info(LogMsgMigrationsApplied, "driver", cfg.StoreDriver)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewStore(pool), nil

	case config.StoreDriverSQLite:
		if cfg.SQLitePath != sqliteInMemory {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), DirPermission); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return store, nil

	case config.StoreDriverMemory:
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver)
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.StoreDriver)
	}
}
