package store

import (
	"context"

	"github.com/MKhiriev/go-link-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalCacheStore is the durable per-user storage of the sync engine. It
// holds the last-known-good snapshot of every entity kind and the log of
// pending operations. Entries are keyed by (userID, entity kind).
//
// Every I/O failure is returned as a [models.SyncError] of kind
// [models.ErrorKindStorage]; callers match it with errors.Is(err,
// models.ErrStorage).
type LocalCacheStore interface {
	// SaveSnapshot overwrites the snapshot of (userID, kind) as a whole.
	SaveSnapshot(ctx context.Context, userID string, kind models.EntityKind, snapshot models.Snapshot) error

	// LoadSnapshot returns the stored snapshot. found is false when nothing
	// was ever saved for the key; that is not an error.
	LoadSnapshot(ctx context.Context, userID string, kind models.EntityKind) (snapshot models.Snapshot, found bool, err error)

	// Clear removes every snapshot and pending operation of userID.
	Clear(ctx context.Context, userID string) error

	// AppendOperation adds op to the end of the pending log and returns it
	// with its assigned ID.
	AppendOperation(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error)

	// ListOperations returns the pending log of (userID, kind) in ID order.
	ListOperations(ctx context.Context, userID string, kind models.EntityKind) ([]models.PendingOperation, error)

	// ReplaceOperation rewrites kind, target and payload of an existing
	// operation in place, keeping its position in the log.
	ReplaceOperation(ctx context.Context, op models.PendingOperation) error

	// RemoveOperation deletes one operation. Removing a missing operation is
	// not an error.
	RemoveOperation(ctx context.Context, userID string, id int64) error

	Close() error
}
