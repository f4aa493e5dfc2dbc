package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

const (
	defaultRedialDelay    = 500 * time.Millisecond
	defaultMaxRedialDelay = 30 * time.Second
)

type httpRemoteStore struct {
	client *utils.HTTPClient

	baseURL string
	token   string
	userID  string

	redialDelay    time.Duration
	maxRedialDelay time.Duration

	subsMu sync.Mutex
	subs   map[*wsSubscription]struct{}

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs an HTTP/REST implementation of [RemoteStore].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL, the
// request timeout and the bearer token from appCfg.AccessToken, and binds the
// adapter to the user named by the token subject.
//
// Returns an error if the address cannot be parsed or the token carries no
// subject.
func NewHTTPRemoteStore(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	token := strings.TrimSpace(appCfg.AccessToken)
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	return &httpRemoteStore{
		client:         utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout, token),
		baseURL:        baseURL,
		token:          token,
		userID:         userID,
		redialDelay:    defaultRedialDelay,
		maxRedialDelay: defaultMaxRedialDelay,
		subs:           make(map[*wsSubscription]struct{}),
		logger:         logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchAll implements [RemoteStore] via GET /api/{kind}/.
func (h *httpRemoteStore) FetchAll(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error) {
	op := "fetch " + kind.String()
	if err := h.checkUser(op, userID); err != nil {
		return nil, err
	}

	resp, err := h.request(ctx).
		SetPathParam("kind", kind.String()).
		Get("/api/{kind}/")
	if err != nil {
		return nil, mapTransportError(op, err)
	}
	if err = mapHTTPError(op, resp); err != nil {
		return nil, err
	}

	var list models.EntityListResponse
	if err = decodeResult(op, resp, &list); err != nil {
		return nil, err
	}

	return list.Entities, nil
}

// Create implements [RemoteStore] via POST /api/{kind}/.
func (h *httpRemoteStore) Create(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	op := "create " + kind.String()
	if err := h.checkUser(op, userID); err != nil {
		return models.Entity{}, err
	}

	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.EntityPayload{Attributes: attributes}).
		SetPathParam("kind", kind.String()).
		Post("/api/{kind}/")
	if err != nil {
		return models.Entity{}, mapTransportError(op, err)
	}
	if err = mapHTTPError(op, resp); err != nil {
		return models.Entity{}, err
	}

	var created models.Entity
	if err = decodeResult(op, resp, &created); err != nil {
		return models.Entity{}, err
	}

	return created, nil
}

// Update implements [RemoteStore] via PUT /api/{kind}/{id}.
func (h *httpRemoteStore) Update(ctx context.Context, userID string, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	op := "update " + kind.String()
	if err := h.checkUser(op, userID); err != nil {
		return models.Entity{}, err
	}

	resp, err := h.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.EntityPayload{Attributes: attributes}).
		SetPathParams(map[string]string{"kind": kind.String(), "id": id}).
		Put("/api/{kind}/{id}")
	if err != nil {
		return models.Entity{}, mapTransportError(op, err)
	}
	if err = mapHTTPError(op, resp); err != nil {
		return models.Entity{}, err
	}

	var updated models.Entity
	if err = decodeResult(op, resp, &updated); err != nil {
		return models.Entity{}, err
	}

	return updated, nil
}

// Delete implements [RemoteStore] via DELETE /api/{kind}/{id}.
func (h *httpRemoteStore) Delete(ctx context.Context, userID string, kind models.EntityKind, id string) error {
	op := "delete " + kind.String()
	if err := h.checkUser(op, userID); err != nil {
		return err
	}

	resp, err := h.request(ctx).
		SetPathParams(map[string]string{"kind": kind.String(), "id": id}).
		Delete("/api/{kind}/{id}")
	if err != nil {
		return mapTransportError(op, err)
	}

	return mapHTTPError(op, resp)
}

// Ping implements [RemoteStore] via GET /api/health.
func (h *httpRemoteStore) Ping(ctx context.Context) error {
	resp, err := h.request(ctx).Get("/api/health")
	if err != nil {
		return mapTransportError("ping", err)
	}

	return mapHTTPError("ping", resp)
}

func (h *httpRemoteStore) request(ctx context.Context) *resty.Request {
	return h.client.R().SetContext(ctx)
}

func (h *httpRemoteStore) checkUser(op, userID string) error {
	if userID != h.userID {
		return models.NewSyncError(models.ErrorKindAuth, op, fmt.Errorf("%w: %q", ErrUserMismatch, userID))
	}
	return nil
}
