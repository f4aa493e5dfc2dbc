package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/validators"
	"github.com/MKhiriev/go-link-keeper/models"
)

// EntityValidationService checks identifiers and attribute sets before they
// reach the wrapped [EntityService].
type EntityValidationService struct {
	inner     EntityService
	validator validators.Validator
}

func NewEntityValidationService() EntityServiceWrapper {
	return &EntityValidationService{
		validator: validators.NewEntityValidator(),
	}
}

func (v *EntityValidationService) Wrap(inner EntityService) EntityService {
	v.inner = inner
	return v
}

func (v *EntityValidationService) ListEntities(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return v.inner.ListEntities(ctx, userID, kind)
}

func (v *EntityValidationService) CreateEntity(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	if err := v.validate(ctx, models.Entity{UserID: userID, Attributes: attributes}, kind, validators.FieldUserID, validators.FieldAttributes); err != nil {
		return models.Entity{}, err
	}
	return v.inner.CreateEntity(ctx, userID, kind, attributes)
}

func (v *EntityValidationService) UpdateEntity(ctx context.Context, userID string, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	if err := v.validate(ctx, models.Entity{ID: id, UserID: userID, Attributes: attributes}, kind); err != nil {
		return models.Entity{}, err
	}
	return v.inner.UpdateEntity(ctx, userID, kind, id, attributes)
}

func (v *EntityValidationService) DeleteEntity(ctx context.Context, userID string, kind models.EntityKind, id string) error {
	if err := v.validator.Validate(ctx, models.Entity{ID: id, UserID: userID}, validators.FieldID, validators.FieldUserID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return v.inner.DeleteEntity(ctx, userID, kind, id)
}

func (v *EntityValidationService) validate(ctx context.Context, entity models.Entity, kind models.EntityKind, fields ...string) error {
	if err := v.validator.Validate(ctx, entity, fields...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	var err error
	switch kind {
	case models.EntityKindLinks:
		var link models.LinkAttributes
		if link, err = models.DecodeAttributes[models.LinkAttributes](entity); err == nil {
			err = v.validator.Validate(ctx, link)
		}
	case models.EntityKindCollections:
		var collection models.CollectionAttributes
		if collection, err = models.DecodeAttributes[models.CollectionAttributes](entity); err == nil {
			err = v.validator.Validate(ctx, collection)
		}
	default:
		return models.ErrUnknownEntityKind
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return nil
}
