package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/migrations"
)

// DB wraps a *sql.DB with the error classifier of its driver and a logger.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// MigrateServer applies the remote store schema.
func (db *DB) MigrateServer() error {
	return migrations.MigrateServer(db.DB)
}

// MigrateClient applies the local cache schema.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}

const (
	retryBaseDelay  = 50 * time.Millisecond
	retryMaxRetries = 3
)

// withRetry runs fn and retries it with exponential backoff while the
// driver classifies the failure as [Retryable].
func (db *DB) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
			logger.FromContext(ctx).Warn().Err(err).Str("func", "DB.withRetry").Msg("retryable database error")
			return retry.RetryableError(err)
		}
		return err
	})
}
