package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/db"
	"infinite-experiment/flightvault/internal/metrics"

	"gorm.io/gorm"
)

// Open builds the document store selected by cfg.Driver. For the relational
// drivers the gorm handle is returned too so callers can reuse the connection.
func Open(ctx context.Context, cfg config.StoreConfig, m *metrics.MetricsRegistry) (DocumentStore, *gorm.DB, error) {
	switch cfg.Driver {
	case config.StoreDriverFile, "":
		s, err := NewFileStore(cfg.DataFile, m)
		return s, nil, err

	case config.StoreDriverMemory:
		return NewMemoryStore(m), nil, nil

	case config.StoreDriverRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client, cfg.Redis.Key, m), nil, nil

	case config.StoreDriverPostgres:
		gdb, err := db.InitPostgresORM(cfg.Postgres.DSN())
		if err != nil {
			return nil, nil, err
		}
		return NewGormStore(gdb, config.StoreDriverPostgres, m), gdb, nil

	case config.StoreDriverSQLite:
		if cfg.SQLite != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.SQLite), 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create sqlite folder: %w", err)
			}
		}
		gdb, err := db.InitSQLiteORM(cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return NewGormStore(gdb, config.StoreDriverSQLite, m), gdb, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
