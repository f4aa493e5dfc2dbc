package adapter

import "errors"

// Transport-level causes wrapped inside the [models.SyncError] values
// returned by the adapter.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("unprocessable entity")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrInternalServerError = errors.New("internal server error")

	// ErrEmptyResponse and ErrMalformedResponse are reported when a
	// successful response carries no usable JSON body.
	ErrEmptyResponse     = errors.New("empty response body")
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrUserMismatch is returned when a call names a user other than the
	// one the adapter's access token was issued to.
	ErrUserMismatch = errors.New("user does not match session")

	// ErrUnknownSubscription is reported when Unsubscribe receives a handle
	// it did not create.
	ErrUnknownSubscription = errors.New("unknown subscription")
)
