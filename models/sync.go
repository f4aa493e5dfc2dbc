package models

import "time"

// SyncState is the in-memory state of one entity kind for the signed-in user.
//
// Entities are ordered most-recent-first. SyncInFlight is the mutual
// exclusion flag of the scheduler: at most one synchronization per kind may
// run at a time.
type SyncState struct {
	Kind              EntityKind
	Entities          []Entity
	LastSyncTimestamp *time.Time
	SyncInFlight      bool
	LastError         *ErrorKind
}

// Snapshot is the durable form of a [SyncState] written to the local cache.
// It is always written and read as a whole.
type Snapshot struct {
	Entities          []Entity   `json:"entities"`
	LastSyncTimestamp *time.Time `json:"last_sync_timestamp,omitempty"`
	SavedAt           time.Time  `json:"saved_at"`
}

// RemoteEventKind is the kind of change announced by the remote store's
// real-time channel.
type RemoteEventKind string

const (
	RemoteEventInsert RemoteEventKind = "insert"
	RemoteEventUpdate RemoteEventKind = "update"
	RemoteEventDelete RemoteEventKind = "delete"
)

// ChangeEvent is a push notification of a remote-side change. Only
// EntityKind and Event are used by the client; the payload is never trusted
// as new state.
type ChangeEvent struct {
	UserID     string          `json:"user_id"`
	EntityKind EntityKind      `json:"entity_kind"`
	Event      RemoteEventKind `json:"event"`
	EntityID   string          `json:"entity_id,omitempty"`
	At         time.Time       `json:"at"`
}
