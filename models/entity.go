package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EntityKind names a synchronized entity collection. Each kind has its own
// sync state, scheduler, pending-operation log and remote endpoints.
type EntityKind string

const (
	// EntityKindLinks is the collection of saved bookmarks.
	EntityKindLinks EntityKind = "links"

	// EntityKindCollections is the collection of user-defined link groups.
	EntityKindCollections EntityKind = "collections"
)

// EntityKinds lists every kind handled by the sync engine, in the order the
// engine starts them.
var EntityKinds = []EntityKind{EntityKindLinks, EntityKindCollections}

// ErrUnknownEntityKind is returned by [ParseEntityKind] for unsupported names.
var ErrUnknownEntityKind = errors.New("unknown entity kind")

// Valid reports whether k is one of [EntityKinds].
func (k EntityKind) Valid() bool {
	switch k {
	case EntityKindLinks, EntityKindCollections:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (k EntityKind) String() string {
	return string(k)
}

// ParseEntityKind converts a raw name (as used in URLs and persistence keys)
// into an [EntityKind].
func ParseEntityKind(raw string) (EntityKind, error) {
	k := EntityKind(raw)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, raw)
	}
	return k, nil
}

// Entity is a single Link or Collection record, the unit of synchronization.
//
// ID is assigned by the remote store on creation. Until the remote store
// acknowledges a create, the local copy carries a temporary marker in ID and
// Pending is set. Attributes hold the kind-specific attribute set as JSON
// (see [LinkAttributes] and [CollectionAttributes]).
type Entity struct {
	// ID is the globally unique identifier, or a temporary local marker.
	ID string `json:"id"`

	// UserID is the owner of the entity.
	UserID string `json:"user_id"`

	// Attributes is the mutable, kind-specific attribute set.
	Attributes json.RawMessage `json:"attributes"`

	// CreatedAt is set by the remote store.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is set by the remote store on every accepted change.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Pending marks a local copy that is ahead of the remote store.
	// It is never sent to the remote store.
	Pending bool `json:"pending,omitempty"`
}

// Clone returns a deep copy of e so that callers can hand it out without
// sharing the attribute buffer.
func (e Entity) Clone() Entity {
	c := e
	if e.Attributes != nil {
		c.Attributes = append(json.RawMessage(nil), e.Attributes...)
	}
	if e.CreatedAt != nil {
		t := *e.CreatedAt
		c.CreatedAt = &t
	}
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

// SameAttributes reports whether e and other carry byte-identical attributes
// after JSON compaction.
func (e Entity) SameAttributes(other Entity) bool {
	var a, b bytes.Buffer
	if err := json.Compact(&a, e.Attributes); err != nil {
		return false
	}
	if err := json.Compact(&b, other.Attributes); err != nil {
		return false
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// CloneEntities deep-copies a slice of entities, preserving order.
func CloneEntities(entities []Entity) []Entity {
	if entities == nil {
		return nil
	}
	out := make([]Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}

// LinkAttributes is the attribute set of a Link. Title, Description,
// ImageURL and SiteName are usually filled in by the metadata scraper,
// Category by the keyword categorizer; both are external collaborators.
type LinkAttributes struct {
	URL          string   `json:"url"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	SiteName     string   `json:"site_name,omitempty"`
	CollectionID *string  `json:"collection_id,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// CollectionAttributes is the attribute set of a Collection.
type CollectionAttributes struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// EncodeAttributes marshals a kind-specific attribute struct into the raw
// form stored in [Entity.Attributes].
func EncodeAttributes(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode entity attributes: %w", err)
	}
	return raw, nil
}

// DecodeAttributes unmarshals e.Attributes into a kind-specific struct.
func DecodeAttributes[T any](e Entity) (T, error) {
	var v T
	if len(e.Attributes) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(e.Attributes, &v); err != nil {
		return v, fmt.Errorf("decode attributes of entity %s: %w", e.ID, err)
	}
	return v, nil
}
