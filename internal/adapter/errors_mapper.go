package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-link-keeper/models"
)

// remoteKinds maps the error kinds reported by the remote store in its JSON
// error body. A missing entity is a conflict from the client's point of view.
var remoteKinds = map[string]models.ErrorKind{
	"network":    models.ErrorKindNetwork,
	"validation": models.ErrorKindValidation,
	"auth":       models.ErrorKindAuth,
	"notFound":   models.ErrorKindConflict,
	"conflict":   models.ErrorKindConflict,
	"unknown":    models.ErrorKindUnknown,
}

type statusMapping struct {
	kind  models.ErrorKind
	cause error
}

var statusKinds = map[int]statusMapping{
	http.StatusBadRequest:          {models.ErrorKindValidation, ErrBadRequest},
	http.StatusUnprocessableEntity: {models.ErrorKindValidation, ErrUnprocessable},
	http.StatusUnauthorized:        {models.ErrorKindAuth, ErrUnauthorized},
	http.StatusForbidden:           {models.ErrorKindAuth, ErrForbidden},
	http.StatusNotFound:            {models.ErrorKindConflict, ErrNotFound},
	http.StatusConflict:            {models.ErrorKindConflict, ErrConflict},
	http.StatusBadGateway:          {models.ErrorKindNetwork, ErrBadGateway},
	http.StatusServiceUnavailable:  {models.ErrorKindNetwork, ErrServiceUnavailable},
	http.StatusGatewayTimeout:      {models.ErrorKindNetwork, ErrBadGateway},
	http.StatusInternalServerError: {models.ErrorKindUnknown, ErrInternalServerError},
}

// mapHTTPError converts a non-2xx response into a classified error. The
// kind field of a JSON error body wins over the status code.
func mapHTTPError(op string, resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	mapping, ok := statusKinds[resp.StatusCode()]
	if !ok {
		mapping = statusMapping{kind: models.ErrorKindUnknown, cause: fmt.Errorf("http %d", resp.StatusCode())}
	}

	var errResp models.ErrorResponse
	if json.Unmarshal(resp.Body(), &errResp) == nil {
		if kind, known := remoteKinds[errResp.Kind]; known {
			mapping.kind = kind
		}
		if errResp.Message != "" {
			body = errResp.Message
		}
	}

	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	return models.NewSyncError(mapping.kind, op, fmt.Errorf("%w: %s", mapping.cause, body))
}

// decodeResult decodes the JSON body of a successful response whatever its
// Content-Type says. An empty or undecodable body is an error: read as an
// empty result it would wipe the local collection on the next merge.
func decodeResult(op string, resp *resty.Response, v any) error {
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return models.NewSyncError(models.ErrorKindUnknown, op, ErrEmptyResponse)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return models.NewSyncError(models.ErrorKindUnknown, op, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}

// mapTransportError classifies a failure to get any response at all:
// refused connections, DNS failures and timeouts are network errors.
func mapTransportError(op string, err error) error {
	return models.NewSyncError(models.ErrorKindNetwork, op, err)
}
