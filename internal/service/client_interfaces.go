package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-link-keeper/models"
)

// RefreshDecision reports what the scheduler did with a refresh request.
type RefreshDecision int

const (
	// DecisionExecuted means a forced synchronization ran to completion.
	DecisionExecuted RefreshDecision = iota
	// DecisionScheduled means the debounce timer was armed or reset.
	DecisionScheduled
	// DecisionDroppedInFlight means a synchronization was already running.
	DecisionDroppedInFlight
	// DecisionDroppedThrottled means the last synchronization started less
	// than the throttle window ago.
	DecisionDroppedThrottled
	// DecisionDroppedClosed means the session has ended.
	DecisionDroppedClosed
)

func (d RefreshDecision) String() string {
	switch d {
	case DecisionExecuted:
		return "executed"
	case DecisionScheduled:
		return "scheduled"
	case DecisionDroppedInFlight:
		return "dropped_in_flight"
	case DecisionDroppedThrottled:
		return "dropped_throttled"
	case DecisionDroppedClosed:
		return "dropped_closed"
	default:
		return "unknown"
	}
}

// AuthFailureHandler is notified when the remote store rejects the session.
// The sign-out flow lives outside the engine.
type AuthFailureHandler func(err error)

// SyncEngine is the offline-first synchronization engine of the client. It
// owns one sync state per entity kind for the signed-in user and is the only
// writer of the local cache.
type SyncEngine interface {
	// OnSessionStart loads the cached snapshots of userID, subscribes to
	// remote changes, replays pending operations and runs the initial forced
	// refresh of every kind. A previous session is ended first.
	OnSessionStart(ctx context.Context, userID string) error

	// OnSessionEnd unsubscribes, stops all timers, waits for running work and
	// resets the in-memory state. When clearCache is set the durable cache of
	// the user is wiped as well (sign-out).
	OnSessionEnd(ctx context.Context, clearCache bool) error

	// OnConnectivityRestored replays pending operations of every kind and
	// requests a non-forced refresh.
	OnConnectivityRestored(ctx context.Context) error

	// Entities returns a copy of the current in-memory collection of kind,
	// most recent first.
	Entities(kind models.EntityKind) []models.Entity
	IsLoading(kind models.EntityKind) bool
	IsSyncing(kind models.EntityKind) bool
	LastError(kind models.EntityKind) *models.ErrorKind

	// PendingOperations returns a copy of the pending log of kind.
	PendingOperations(kind models.EntityKind) []models.PendingOperation

	// Create applies a new entity optimistically and confirms it remotely.
	// When the remote store is unreachable the optimistic entity (with its
	// temporary marker and Pending set) is returned with a nil error and the
	// operation is queued for replay.
	Create(ctx context.Context, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error)

	// Update replaces the attributes of entity id. id may be a temporary
	// marker returned by Create, even after the remote store assigned the
	// final id.
	Update(ctx context.Context, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error)

	// Delete removes entity id.
	Delete(ctx context.Context, kind models.EntityKind, id string) error

	// RequestRefresh asks the scheduler of kind for a full synchronization.
	RequestRefresh(ctx context.Context, kind models.EntityKind, force bool) (RefreshDecision, error)

	// UserID returns the user of the active session, or "" between sessions.
	UserID() string
}
