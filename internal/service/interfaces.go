package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-link-keeper/models"
)

// EntityService is the authoritative remote store of links and collections.
// Every accepted change is announced through the [EventBroker].
type EntityService interface {
	ListEntities(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error)
	CreateEntity(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error)
	UpdateEntity(ctx context.Context, userID string, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error)
	DeleteEntity(ctx context.Context, userID string, kind models.EntityKind, id string) error
}

// EventBroker fans change events out to the real-time subscribers of one
// (user, kind) pair.
type EventBroker interface {
	Publish(event models.ChangeEvent)

	// Subscribe returns a channel of events and a function that detaches
	// it. The channel is closed after cancel.
	Subscribe(userID string, kind models.EntityKind) (<-chan models.ChangeEvent, func())
}

type AuthService interface {
	CreateToken(ctx context.Context, userID string) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// EntityServiceWrapper defines middleware composition for EntityService.
// Implementations wrap an existing EntityService to add behavior such as
// validation.
type EntityServiceWrapper interface {
	Wrap(EntityService) EntityService
}
