package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

type entityService struct {
	entityRepository store.EntityRepository
	broker           EventBroker
	ids              *utils.UUIDGenerator

	logger *logger.Logger
}

func NewEntityService(entityRepository store.EntityRepository, broker EventBroker, logger *logger.Logger) EntityService {
	return &entityService{
		entityRepository: entityRepository,
		broker:           broker,
		ids:              utils.NewUUIDGenerator(),
		logger:           logger,
	}
}

func (s *entityService) ListEntities(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error) {
	entities, err := s.entityRepository.ListEntities(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	if entities == nil {
		entities = []models.Entity{}
	}
	return entities, nil
}

func (s *entityService) CreateEntity(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	if err := s.checkCollectionReference(ctx, userID, kind, attributes); err != nil {
		return models.Entity{}, err
	}

	created, err := s.entityRepository.CreateEntity(ctx, kind, models.Entity{
		ID:         s.ids.Generate(),
		UserID:     userID,
		Attributes: attributes,
	})
	if err != nil {
		return models.Entity{}, fmt.Errorf("create %s: %w", kind, err)
	}

	s.publish(userID, kind, models.RemoteEventInsert, created.ID)
	return created, nil
}

func (s *entityService) UpdateEntity(ctx context.Context, userID string, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	if err := s.checkCollectionReference(ctx, userID, kind, attributes); err != nil {
		return models.Entity{}, err
	}

	updated, err := s.entityRepository.UpdateEntity(ctx, kind, models.Entity{
		ID:         id,
		UserID:     userID,
		Attributes: attributes,
	})
	if err != nil {
		return models.Entity{}, fmt.Errorf("update %s %s: %w", kind, id, err)
	}

	s.publish(userID, kind, models.RemoteEventUpdate, id)
	return updated, nil
}

// DeleteEntity removes an entity. A collection that still groups links is
// kept; the caller has to move or delete the links first.
func (s *entityService) DeleteEntity(ctx context.Context, userID string, kind models.EntityKind, id string) error {
	if kind == models.EntityKindCollections {
		count, err := s.entityRepository.CountLinksInCollection(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("count links of collection %s: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %d links reference collection %s", ErrCollectionNotEmpty, count, id)
		}
	}

	if err := s.entityRepository.DeleteEntity(ctx, userID, kind, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}

	s.publish(userID, kind, models.RemoteEventDelete, id)
	return nil
}

// checkCollectionReference rejects links that point at a collection the user
// does not own.
func (s *entityService) checkCollectionReference(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) error {
	if kind != models.EntityKindLinks {
		return nil
	}

	link, err := models.DecodeAttributes[models.LinkAttributes](models.Entity{Attributes: attributes})
	if err != nil || link.CollectionID == nil {
		return nil
	}

	_, err = s.entityRepository.GetEntity(ctx, userID, models.EntityKindCollections, *link.CollectionID)
	if errors.Is(err, store.ErrEntityNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, *link.CollectionID)
	}
	if err != nil {
		return fmt.Errorf("look up collection %s: %w", *link.CollectionID, err)
	}
	return nil
}

func (s *entityService) publish(userID string, kind models.EntityKind, event models.RemoteEventKind, id string) {
	s.broker.Publish(models.ChangeEvent{
		UserID:     userID,
		EntityKind: kind,
		Event:      event,
		EntityID:   id,
		At:         time.Now().UTC(),
	})
}
