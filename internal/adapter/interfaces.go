// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the remote store.
//
// The primary abstraction is [RemoteStore], which decouples the sync engine
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteStore]) whose change subscriptions run over a websocket.
//
// Every error returned by a [RemoteStore] is a [models.SyncError], so callers
// can classify failures with [models.KindOf] or match them with errors.Is
// against the models sentinels (e.g. [models.ErrNetwork]) and against the
// transport sentinels in errors.go (e.g. [ErrNotFound] for 404).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-link-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// ChangeHandler receives remote change notifications. Only the entity kind
// and the event kind are delivered; the entity payload is never trusted.
type ChangeHandler func(kind models.EntityKind, event models.RemoteEventKind)

// Subscription is the handle of an active change subscription.
type Subscription interface {
	// Kind returns the entity kind the subscription listens to.
	Kind() models.EntityKind
}

// RemoteStore is the authoritative store of links and collections.
//
// Implementations are bound to one session; userID must match the session
// user or the call fails with an auth error.
type RemoteStore interface {
	// FetchAll returns every entity of kind owned by userID, most recent first.
	FetchAll(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error)

	// Create stores a new entity and returns it with the remote-assigned id
	// and timestamps.
	Create(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error)

	// Update replaces the attribute set of entity id.
	Update(ctx context.Context, userID string, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error)

	// Delete removes entity id.
	Delete(ctx context.Context, userID string, kind models.EntityKind, id string) error

	// Subscribe starts delivering change notifications of kind to handler.
	// Delivery survives connection drops until Unsubscribe is called.
	Subscribe(ctx context.Context, userID string, kind models.EntityKind, handler ChangeHandler) (Subscription, error)

	// Unsubscribe stops a subscription. After it returns, handler is never
	// called again for sub.
	Unsubscribe(sub Subscription)

	// Ping checks that the remote store is reachable.
	Ping(ctx context.Context) error
}
