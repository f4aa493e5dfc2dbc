package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

// ClientStorages groups all client-side storage into a single value that can
// be passed around the service layer.
type ClientStorages struct {
	// CacheStore holds entity snapshots and the pending-operation log.
	CacheStore LocalCacheStore
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. For the [MemoryDSN] it returns an in-memory store and stops.
//  2. Otherwise opens an SQLite connection to the file path specified in
//     cfg.DB.DSN, creating the database file if it does not yet exist.
//  3. Runs pending schema migrations via [DB.MigrateClient].
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Str("dsn", cfg.DB.DSN).Msg("creating new client storages...")

	if cfg.DB.DSN == MemoryDSN {
		return &ClientStorages{CacheStore: NewMemoryStore()}, nil
	}

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.MigrateClient(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		CacheStore: NewCacheStore(db, logger),
	}, nil
}

// Close releases the underlying database connection.
func (s *ClientStorages) Close() error {
	return s.CacheStore.Close()
}
