package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/MKhiriev/go-link-keeper/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the remote-assigned entity identifier.
	FieldID = "id"

	// FieldUserID targets the owner of the entity.
	FieldUserID = "user_id"

	// FieldAttributes targets the raw attribute document of an entity.
	FieldAttributes = "attributes"

	// FieldURL targets the bookmarked address of a link.
	FieldURL = "url"

	// FieldTitle targets the display title of a link.
	FieldTitle = "title"

	// FieldCollectionID targets the optional collection a link belongs to.
	FieldCollectionID = "collection_id"

	// FieldTags targets the free-form tags of a link.
	FieldTags = "tags"

	// FieldName targets the name of a collection.
	FieldName = "name"

	// FieldColor targets the display color of a collection.
	FieldColor = "color"
)

const (
	maxURLLength   = 2048
	maxTextLength  = 512
	maxNameLength  = 128
	maxTags        = 32
	maxTagLength   = 64
	maxDescription = 4096
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// EntityValidator validates entities and the kind-specific attribute sets
// of links and collections.
type EntityValidator struct {
}

// NewEntityValidator returns an [EntityValidator] as a [Validator].
func NewEntityValidator() Validator {
	return &EntityValidator{}
}

// Validate dispatches on the type of obj. Supported types are
// [models.Entity], [models.LinkAttributes] and [models.CollectionAttributes],
// by value or pointer.
func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entity:
		return v.validateEntity(ctx, value, fields...)
	case *models.Entity:
		return v.validateEntity(ctx, *value, fields...)

	case models.LinkAttributes:
		return v.validateLink(ctx, value, fields...)
	case *models.LinkAttributes:
		return v.validateLink(ctx, *value, fields...)

	case models.CollectionAttributes:
		return v.validateCollection(ctx, value, fields...)
	case *models.CollectionAttributes:
		return v.validateCollection(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntityValidator) validateEntity(ctx context.Context, entity models.Entity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldUserID, FieldAttributes}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if entity.ID == "" {
				return ErrInvalidEntityID
			}
		case FieldUserID:
			if entity.UserID == "" {
				return ErrInvalidUserID
			}
		case FieldAttributes:
			raw := bytes.TrimSpace(entity.Attributes)
			if len(raw) == 0 {
				return ErrEmptyAttributes
			}
			if raw[0] != '{' || !json.Valid(raw) {
				return ErrMalformedJSON
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateLink(ctx context.Context, link models.LinkAttributes, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldURL, FieldTitle, FieldCollectionID, FieldTags}
	}

	for _, f := range fields {
		switch f {
		case FieldURL:
			if link.URL == "" {
				return ErrEmptyURL
			}
			if len(link.URL) > maxURLLength {
				return fmt.Errorf("%w: url", ErrFieldTooLong)
			}
			u, err := url.Parse(link.URL)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return ErrInvalidURL
			}
		case FieldTitle:
			if utf8.RuneCountInString(link.Title) > maxTextLength {
				return fmt.Errorf("%w: title", ErrFieldTooLong)
			}
			if utf8.RuneCountInString(link.Description) > maxDescription {
				return fmt.Errorf("%w: description", ErrFieldTooLong)
			}
		case FieldCollectionID:
			if link.CollectionID != nil && *link.CollectionID == "" {
				return ErrInvalidCollection
			}
		case FieldTags:
			if len(link.Tags) > maxTags {
				return ErrTooManyTags
			}
			for i, tag := range link.Tags {
				if tag == "" {
					return fmt.Errorf("tag at index %d: %w", i, ErrEmptyTag)
				}
				if utf8.RuneCountInString(tag) > maxTagLength {
					return fmt.Errorf("tag at index %d: %w", i, ErrFieldTooLong)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntityValidator) validateCollection(ctx context.Context, collection models.CollectionAttributes, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldColor}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if collection.Name == "" {
				return ErrEmptyName
			}
			if utf8.RuneCountInString(collection.Name) > maxNameLength {
				return fmt.Errorf("%w: name", ErrFieldTooLong)
			}
			if utf8.RuneCountInString(collection.Description) > maxDescription {
				return fmt.Errorf("%w: description", ErrFieldTooLong)
			}
		case FieldColor:
			if collection.Color != "" && !hexColor.MatchString(collection.Color) {
				return ErrInvalidColor
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
