// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// OperationKind is the kind of a queued mutation.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// PendingOperation is a mutation that could not reach the remote store and
// waits in the durable queue for replay.
//
// ID is assigned locally when the operation is appended and grows
// monotonically; replay follows ID order. For a Create, TargetID carries the
// temporary local marker of the optimistic entity; it is never sent to the
// remote store.
type PendingOperation struct {
	ID         int64           `json:"id"`
	UserID     string          `json:"user_id"`
	EntityKind EntityKind      `json:"entity_kind"`
	Kind       OperationKind   `json:"kind"`
	TargetID   string          `json:"target_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}
