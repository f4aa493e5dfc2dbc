// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

// cacheStore is the SQLite-backed implementation of [LocalCacheStore].
// Snapshots are stored as one JSON document per (user, kind) row, so a save
// either replaces the whole collection or nothing.
type cacheStore struct {
	*DB
	logger *logger.Logger
}

// NewCacheStore constructs a [LocalCacheStore] on top of a migrated SQLite
// connection.
func NewCacheStore(db *DB, logger *logger.Logger) LocalCacheStore {
	return &cacheStore{
		DB:     db,
		logger: logger,
	}
}

func (c *cacheStore) SaveSnapshot(ctx context.Context, userID string, kind models.EntityKind, snapshot models.Snapshot) error {
	log := logger.FromContext(ctx)

	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now().UTC()
	}
	if snapshot.Entities == nil {
		snapshot.Entities = []models.Entity{}
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Err(err).
			Str("func", "cacheStore.SaveSnapshot").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Msg("failed to encode snapshot")
		return storageError("save snapshot", fmt.Errorf("%w: %w", ErrEncodingPayload, err))
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "cacheStore.SaveSnapshot").
			Str("user_id", userID).
			Msg("failed to begin transaction")
		return storageError("save snapshot", fmt.Errorf("%w: %w", ErrBeginningTransaction, err))
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, upsertSnapshot, userID, kind.String(), string(payload), snapshot.SavedAt); err != nil {
		log.Err(err).
			Str("func", "cacheStore.SaveSnapshot").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Msg("failed to upsert snapshot")
		return storageError("save snapshot", fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "cacheStore.SaveSnapshot").
			Str("user_id", userID).
			Msg("failed to commit transaction")
		return storageError("save snapshot", fmt.Errorf("%w: %w", ErrCommitingTransaction, err))
	}

	return nil
}

func (c *cacheStore) LoadSnapshot(ctx context.Context, userID string, kind models.EntityKind) (models.Snapshot, bool, error) {
	log := logger.FromContext(ctx)

	var payload string
	err := c.DB.QueryRowContext(ctx, getSnapshot, userID, kind.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "cacheStore.LoadSnapshot").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Msg("failed to read snapshot")
		return models.Snapshot{}, false, storageError("load snapshot", fmt.Errorf("%w: %w", ErrScanningRow, err))
	}

	var snapshot models.Snapshot
	if err = json.Unmarshal([]byte(payload), &snapshot); err != nil {
		log.Err(err).
			Str("func", "cacheStore.LoadSnapshot").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Msg("failed to decode snapshot")
		return models.Snapshot{}, false, storageError("load snapshot", fmt.Errorf("%w: %w", ErrDecodingPayload, err))
	}

	return snapshot, true, nil
}

func (c *cacheStore) Clear(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "cacheStore.Clear").Str("user_id", userID).Msg("failed to begin transaction")
		return storageError("clear cache", fmt.Errorf("%w: %w", ErrBeginningTransaction, err))
	}
	defer tx.Rollback()

	for _, query := range []string{deleteUserSnapshots, deleteUserOperations} {
		if _, err = tx.ExecContext(ctx, query, userID); err != nil {
			log.Err(err).Str("func", "cacheStore.Clear").Str("user_id", userID).Msg("failed to clear user data")
			return storageError("clear cache", fmt.Errorf("%w: %w", ErrExecutingStatement, err))
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "cacheStore.Clear").Str("user_id", userID).Msg("failed to commit transaction")
		return storageError("clear cache", fmt.Errorf("%w: %w", ErrCommitingTransaction, err))
	}

	return nil
}

func (c *cacheStore) AppendOperation(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now().UTC()
	}

	res, err := c.DB.ExecContext(ctx, insertOperation,
		op.UserID,
		op.EntityKind.String(),
		string(op.Kind),
		op.TargetID,
		nullPayload(op.Payload),
		op.EnqueuedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "cacheStore.AppendOperation").
			Str("user_id", op.UserID).
			Str("entity_kind", op.EntityKind.String()).
			Str("target_id", op.TargetID).
			Msg("failed to append pending operation")
		return models.PendingOperation{}, storageError("append operation", fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		log.Err(err).Str("func", "cacheStore.AppendOperation").Msg("failed to read operation id")
		return models.PendingOperation{}, storageError("append operation", err)
	}
	op.ID = id

	return op, nil
}

func (c *cacheStore) ListOperations(ctx context.Context, userID string, kind models.EntityKind) ([]models.PendingOperation, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, listOperations, userID, kind.String())
	if err != nil {
		log.Err(err).
			Str("func", "cacheStore.ListOperations").
			Str("user_id", userID).
			Str("entity_kind", kind.String()).
			Msg("failed to query pending operations")
		return nil, storageError("list operations", fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	ops := make([]models.PendingOperation, 0, 8)
	for rows.Next() {
		var (
			op         models.PendingOperation
			entityKind string
			opKind     string
			payload    sql.NullString
		)
		if err = rows.Scan(&op.ID, &op.UserID, &entityKind, &opKind, &op.TargetID, &payload, &op.EnqueuedAt); err != nil {
			log.Err(err).
				Str("func", "cacheStore.ListOperations").
				Str("user_id", userID).
				Msg("failed to scan pending operation row")
			return nil, storageError("list operations", fmt.Errorf("%w: %w", ErrScanningRow, err))
		}
		op.EntityKind = models.EntityKind(entityKind)
		op.Kind = models.OperationKind(opKind)
		if payload.Valid {
			op.Payload = json.RawMessage(payload.String)
		}
		ops = append(ops, op)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "cacheStore.ListOperations").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, storageError("list operations", fmt.Errorf("%w: %w", ErrScanningRows, err))
	}

	return ops, nil
}

func (c *cacheStore) ReplaceOperation(ctx context.Context, op models.PendingOperation) error {
	log := logger.FromContext(ctx)

	res, err := c.DB.ExecContext(ctx, replaceOperation,
		string(op.Kind),
		op.TargetID,
		nullPayload(op.Payload),
		op.ID,
		op.UserID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "cacheStore.ReplaceOperation").
			Int64("op_id", op.ID).
			Msg("failed to replace pending operation")
		return storageError("replace operation", fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storageError("replace operation", err)
	}
	if affected == 0 {
		return storageError("replace operation", fmt.Errorf("%w: %d", ErrOperationNotFound, op.ID))
	}

	return nil
}

func (c *cacheStore) RemoveOperation(ctx context.Context, userID string, id int64) error {
	log := logger.FromContext(ctx)

	if _, err := c.DB.ExecContext(ctx, removeOperation, id, userID); err != nil {
		log.Err(err).
			Str("func", "cacheStore.RemoveOperation").
			Str("user_id", userID).
			Int64("op_id", id).
			Msg("failed to remove pending operation")
		return storageError("remove operation", fmt.Errorf("%w: %w", ErrExecutingStatement, err))
	}

	return nil
}

func (c *cacheStore) Close() error {
	return c.DB.Close()
}

func nullPayload(payload json.RawMessage) sql.NullString {
	if len(payload) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(payload), Valid: true}
}
