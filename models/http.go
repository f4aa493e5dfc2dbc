package models

import "encoding/json"

// EntityPayload is the body of create and update requests sent to the
// remote store. Only the attribute set travels; identity and timestamps are
// owned by the remote store.
type EntityPayload struct {
	Attributes json.RawMessage `json:"attributes"`
}

// EntityListResponse is returned by the list endpoint of the remote store.
// Entities are ordered most-recent-first.
type EntityListResponse struct {
	Entities []Entity `json:"entities"`
	Length   int      `json:"length"`
}

// ErrorResponse is the JSON error body of the remote store. Kind is one of
// network, validation, auth, notFound, unknown.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
