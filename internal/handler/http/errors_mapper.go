package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

var errorStatusMap = map[error]int{
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrMissingUser:                http.StatusUnauthorized,
	ErrInvalidJSON:                http.StatusBadRequest,
	ErrRouteNotFound:              http.StatusNotFound,

	service.ErrTokenIsExpired:     http.StatusUnauthorized,
	service.ErrEmptyUserID:        http.StatusUnauthorized,
	service.ErrInvalidEntity:      http.StatusUnprocessableEntity,
	service.ErrCollectionNotEmpty: http.StatusUnprocessableEntity,
	service.ErrUnknownCollection:  http.StatusUnprocessableEntity,

	models.ErrUnknownEntityKind: http.StatusNotFound,

	store.ErrEntityNotFound:      http.StatusNotFound,
	store.ErrEntityAlreadyExists: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// errorKinds is the kind reported in the error body for each status. The
// client decides between rollback, retry and sign-out on it.
var errorKinds = map[int]string{
	http.StatusBadRequest:          "validation",
	http.StatusUnprocessableEntity: "validation",
	http.StatusUnauthorized:        "auth",
	http.StatusForbidden:           "auth",
	http.StatusNotFound:            "notFound",
	http.StatusConflict:            "conflict",
	http.StatusServiceUnavailable:  "network",
	http.StatusGatewayTimeout:      "network",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func kindFromStatus(status int) string {
	if kind, ok := errorKinds[status]; ok {
		return kind
	}
	return "unknown"
}

// writeError answers with the status and error kind of err. Internal
// failures are not described to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	_, _ = utils.WriteJSON(w, models.ErrorResponse{Kind: kindFromStatus(status), Message: message}, status)
}
