// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

const testUserID = "user-1"

func testToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("test", testUserID, time.Hour, "secret")
	require.NoError(t, err)
	return token.SignedString
}

// newTestStore creates an httpRemoteStore pointed at the test server.
func newTestStore(t *testing.T, serverURL string, timeout time.Duration) *httpRemoteStore {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: timeout}
	appCfg := config.ClientApp{AccessToken: testToken(t)}

	s, err := NewHTTPRemoteStore(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return s.(*httpRemoteStore)
}

func TestNewHTTPRemoteStore_InvalidConfig(t *testing.T) {
	_, err := NewHTTPRemoteStore(config.ClientAdapter{HTTPAddress: ""}, config.ClientApp{AccessToken: testToken(t)}, logger.Nop())
	require.Error(t, err)

	_, err = NewHTTPRemoteStore(config.ClientAdapter{HTTPAddress: "localhost:8080"}, config.ClientApp{AccessToken: "not-a-jwt"}, logger.Nop())
	require.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:8080", want: "http://localhost:8080"},
		{raw: " https://links.example.com/ ", want: "https://links.example.com"},
		{raw: "", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── FetchAll ────────────────────────────────────────────────────────────────

func TestFetchAll_Success(t *testing.T) {
	token := testToken(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/links/", r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(models.EntityListResponse{
			Entities: []models.Entity{
				{ID: "b", UserID: testUserID, Attributes: json.RawMessage(`{"url":"https://b.example"}`)},
				{ID: "a", UserID: testUserID, Attributes: json.RawMessage(`{"url":"https://a.example"}`)},
			},
			Length: 2,
		})
	}))
	defer srv.Close()

	s, err := NewHTTPRemoteStore(config.ClientAdapter{HTTPAddress: srv.URL}, config.ClientApp{AccessToken: token}, logger.Nop())
	require.NoError(t, err)

	got, err := s.FetchAll(context.Background(), testUserID, models.EntityKindLinks)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestFetchAll_UnusableBody(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCause error
	}{
		{name: "empty", body: "", wantCause: ErrEmptyResponse},
		{name: "whitespace", body: "\n", wantCause: ErrEmptyResponse},
		{name: "not json", body: "<html>maintenance</html>", wantCause: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := newTestStore(t, srv.URL, 0)
			got, err := s.FetchAll(context.Background(), testUserID, models.EntityKindLinks)

			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantCause)
			assert.Equal(t, models.ErrorKindUnknown, models.KindOf(err))
		})
	}
}

func TestFetchAll_JSONWithoutContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// an explicit empty value stops net/http from sniffing one
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte(`{"entities":[{"id":"l-1","attributes":{"url":"https://a.example"}}],"length":1}`))
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, 0)
	got, err := s.FetchAll(context.Background(), testUserID, models.EntityKindLinks)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l-1", got[0].ID)
}

func TestFetchAll_UserMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server")
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, 0)
	_, err := s.FetchAll(context.Background(), "someone-else", models.EntityKindLinks)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrAuth)
	assert.ErrorIs(t, err, ErrUserMismatch)
}

// ── Create / Update / Delete ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/collections/", r.URL.Path)

		var payload models.EntityPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.JSONEq(t, `{"name":"Reading"}`, string(payload.Attributes))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Entity{ID: "c-1", UserID: testUserID, Attributes: payload.Attributes})
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, 0)
	got, err := s.Create(context.Background(), testUserID, models.EntityKindCollections, json.RawMessage(`{"name":"Reading"}`))

	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
}

func TestUpdate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/links/l-1", r.URL.Path)

		var payload models.EntityPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_ = json.NewEncoder(w).Encode(models.Entity{ID: "l-1", Attributes: payload.Attributes})
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, 0)
	got, err := s.Update(context.Background(), testUserID, models.EntityKindLinks, "l-1", json.RawMessage(`{"url":"https://x.example"}`))

	require.NoError(t, err)
	assert.Equal(t, "l-1", got.ID)
	assert.JSONEq(t, `{"url":"https://x.example"}`, string(got.Attributes))
}

func TestDelete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/links/l-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, 0)
	require.NoError(t, s.Delete(context.Background(), testUserID, models.EntityKindLinks, "l-1"))
}

// ── error classification ────────────────────────────────────────────────────

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantKind  models.ErrorKind
		wantCause error
	}{
		{name: "400 validation", status: http.StatusBadRequest, wantKind: models.ErrorKindValidation, wantCause: ErrBadRequest},
		{name: "422 validation", status: http.StatusUnprocessableEntity, wantKind: models.ErrorKindValidation, wantCause: ErrUnprocessable},
		{name: "401 auth", status: http.StatusUnauthorized, wantKind: models.ErrorKindAuth, wantCause: ErrUnauthorized},
		{name: "403 auth", status: http.StatusForbidden, wantKind: models.ErrorKindAuth, wantCause: ErrForbidden},
		{name: "404 conflict", status: http.StatusNotFound, wantKind: models.ErrorKindConflict, wantCause: ErrNotFound},
		{name: "409 conflict", status: http.StatusConflict, wantKind: models.ErrorKindConflict, wantCause: ErrConflict},
		{name: "502 network", status: http.StatusBadGateway, wantKind: models.ErrorKindNetwork, wantCause: ErrBadGateway},
		{name: "503 network", status: http.StatusServiceUnavailable, wantKind: models.ErrorKindNetwork, wantCause: ErrServiceUnavailable},
		{name: "500 unknown", status: http.StatusInternalServerError, wantKind: models.ErrorKindUnknown, wantCause: ErrInternalServerError},
		{name: "418 unknown", status: http.StatusTeapot, wantKind: models.ErrorKindUnknown},
		{
			name:      "body kind wins",
			status:    http.StatusBadRequest,
			body:      `{"kind":"notFound","message":"link is gone"}`,
			wantKind:  models.ErrorKindConflict,
			wantCause: ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := newTestStore(t, srv.URL, 0)
			err := s.Delete(context.Background(), testUserID, models.EntityKindLinks, "l-1")

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, models.KindOf(err))
			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}

func TestTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := newTestStore(t, url, time.Second)
	_, err := s.FetchAll(context.Background(), testUserID, models.EntityKindLinks)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestTimeoutIsNetwork(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := newTestStore(t, srv.URL, 50*time.Millisecond)
	_, err := s.Create(context.Background(), testUserID, models.EntityKindLinks, json.RawMessage(`{}`))

	require.Error(t, err)
	assert.Equal(t, models.ErrorKindNetwork, models.KindOf(err))
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestStore(t, srv.URL, time.Second)
	assert.NoError(t, s.Ping(context.Background()))
}
