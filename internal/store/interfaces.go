package store

import (
	"context"

	"github.com/MKhiriev/go-link-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntityRepository is the authoritative entity storage of the remote store
// server. Every method is scoped to one user and one entity kind.
type EntityRepository interface {
	// ListEntities returns the entities of (userID, kind), most recent first.
	ListEntities(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error)

	// GetEntity returns one entity or [ErrEntityNotFound].
	GetEntity(ctx context.Context, userID string, kind models.EntityKind, id string) (models.Entity, error)

	// CreateEntity inserts entity (ID already assigned) and returns it with
	// server timestamps.
	CreateEntity(ctx context.Context, kind models.EntityKind, entity models.Entity) (models.Entity, error)

	// UpdateEntity replaces the attributes of an existing entity or returns
	// [ErrEntityNotFound].
	UpdateEntity(ctx context.Context, kind models.EntityKind, entity models.Entity) (models.Entity, error)

	// DeleteEntity removes an entity or returns [ErrEntityNotFound].
	DeleteEntity(ctx context.Context, userID string, kind models.EntityKind, id string) error

	// CountLinksInCollection returns how many links of userID reference
	// collectionID.
	CountLinksInCollection(ctx context.Context, userID string, collectionID string) (int, error)
}
