package store

import (
	"errors"

	"github.com/MKhiriev/go-link-keeper/models"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntityNotFound is returned when an update or delete targets an
	// entity (identified by id, user_id and entity_kind) that does not exist.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrEntityAlreadyExists is returned when an insert collides with an
	// existing identifier.
	ErrEntityAlreadyExists = errors.New("entity already exists")

	// ErrOperationNotFound is returned when a pending operation addressed by
	// id is no longer in the local log.
	ErrOperationNotFound = errors.New("pending operation was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingPayload is returned when a snapshot or operation payload
	// cannot be serialized for storage.
	ErrEncodingPayload = errors.New("failed to encode payload")

	// ErrDecodingPayload is returned when a stored snapshot cannot be
	// deserialized.
	ErrDecodingPayload = errors.New("failed to decode payload")
)

// storageError classifies a local cache failure so that the sync engine can
// match it with errors.Is(err, models.ErrStorage).
func storageError(op string, err error) error {
	return models.NewSyncError(models.ErrorKindStorage, op, err)
}
