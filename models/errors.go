package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies failures of remote calls and cache I/O. The sync
// engine decides between enqueue, rollback and degradation from it.
type ErrorKind string

const (
	// ErrorKindNetwork means no connectivity or a timeout. Recoverable via
	// the pending-operation queue.
	ErrorKindNetwork ErrorKind = "network"

	// ErrorKindValidation means the remote store rejected the payload.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindAuth means the session is no longer valid.
	ErrorKindAuth ErrorKind = "auth"

	// ErrorKindStorage means local cache I/O failed.
	ErrorKindStorage ErrorKind = "storage"

	// ErrorKindConflict means the entity no longer exists remotely or was
	// concurrently modified.
	ErrorKindConflict ErrorKind = "conflict"

	// ErrorKindUnknown is anything the remote store could not classify.
	ErrorKindUnknown ErrorKind = "unknown"
)

// Sentinels matched by [SyncError.Is]; use errors.Is(err, models.ErrNetwork).
var (
	ErrNetwork    = errors.New("network error")
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("auth error")
	ErrStorage    = errors.New("storage error")
	ErrConflict   = errors.New("conflict error")
	ErrUnknown    = errors.New("unknown error")
)

var kindSentinels = map[ErrorKind]error{
	ErrorKindNetwork:    ErrNetwork,
	ErrorKindValidation: ErrValidation,
	ErrorKindAuth:       ErrAuth,
	ErrorKindStorage:    ErrStorage,
	ErrorKindConflict:   ErrConflict,
	ErrorKindUnknown:    ErrUnknown,
}

// SyncError is a classified failure. Op names the failed operation
// (e.g. "create links").
type SyncError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewSyncError wraps err with a classification.
func NewSyncError(kind ErrorKind, op string, err error) *SyncError {
	return &SyncError{Kind: kind, Op: op, Err: err}
}

func (e *SyncError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to e.Kind.
func (e *SyncError) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the classification of err. Context deadlines count as
// network failures; unclassified errors are [ErrorKindUnknown].
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindNetwork
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ErrorKindUnknown
}

// Recoverable reports whether failures of this kind keep the optimistic
// state (network: queue and replay; storage: continue in memory).
func (k ErrorKind) Recoverable() bool {
	return k == ErrorKindNetwork || k == ErrorKindStorage
}

// Ptr returns a pointer to a copy of k, for optional fields.
func (k ErrorKind) Ptr() *ErrorKind {
	return &k
}
