package service

import "errors"

// sync engine
var (
	ErrNoActiveSession   = errors.New("no active sync session")
	ErrEmptyUserID       = errors.New("empty user ID")
	ErrEmptyEntityID     = errors.New("empty entity ID")
	ErrEntityNotFound    = errors.New("entity not found")
	ErrInvalidAttributes = errors.New("attributes must be a JSON document")
	ErrUnknownOperation  = errors.New("unknown pending operation kind")
)

// remote store server
var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrInvalidEntity        = errors.New("entity failed validation")
	ErrCollectionNotEmpty   = errors.New("collection still contains links")
	ErrUnknownCollection    = errors.New("collection does not exist")
	ErrTokenIsExpired       = errors.New("token is expired")
	ErrTokenCreationFailed  = errors.New("token creation failed")
	ErrInvalidTokenSettings = errors.New("token issuer and sign key are required")
)
