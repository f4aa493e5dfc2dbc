package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/models"
)

// fakeEngine is an in-memory SyncEngine that records mutation calls.
type fakeEngine struct {
	mu sync.Mutex

	entities map[models.EntityKind][]models.Entity
	pending  map[models.EntityKind][]models.PendingOperation
	lastErr  map[models.EntityKind]*models.ErrorKind

	startErr error
	opErr    error
	decision service.RefreshDecision

	startedFor string
	ended      bool
	clearCache bool
	calls      []string
	nextID     int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		entities: make(map[models.EntityKind][]models.Entity),
		pending:  make(map[models.EntityKind][]models.PendingOperation),
		lastErr:  make(map[models.EntityKind]*models.ErrorKind),
		decision: service.DecisionScheduled,
	}
}

func (f *fakeEngine) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeEngine) OnSessionStart(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startedFor = userID
	return f.startErr
}

func (f *fakeEngine) OnSessionEnd(ctx context.Context, clearCache bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended, f.clearCache = true, clearCache
	return nil
}

func (f *fakeEngine) OnConnectivityRestored(ctx context.Context) error { return nil }

func (f *fakeEngine) Entities(kind models.EntityKind) []models.Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.CloneEntities(f.entities[kind])
}

func (f *fakeEngine) IsLoading(kind models.EntityKind) bool { return false }
func (f *fakeEngine) IsSyncing(kind models.EntityKind) bool { return false }

func (f *fakeEngine) LastError(kind models.EntityKind) *models.ErrorKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr[kind]
}

func (f *fakeEngine) PendingOperations(kind models.EntityKind) []models.PendingOperation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PendingOperation(nil), f.pending[kind]...)
}

func (f *fakeEngine) Create(ctx context.Context, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create " + kind.String() + " " + compact(attributes))
	if f.opErr != nil {
		return models.Entity{}, f.opErr
	}
	f.nextID++
	e := models.Entity{ID: fmt.Sprintf("id-%d", f.nextID), Attributes: attributes}
	f.entities[kind] = append([]models.Entity{e}, f.entities[kind]...)
	return e, nil
}

func (f *fakeEngine) Update(ctx context.Context, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update " + kind.String() + " " + id + " " + compact(attributes))
	return models.Entity{ID: id, Attributes: attributes}, f.opErr
}

func (f *fakeEngine) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete " + kind.String() + " " + id)
	return f.opErr
}

func (f *fakeEngine) RequestRefresh(ctx context.Context, kind models.EntityKind, force bool) (service.RefreshDecision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if force {
		f.record("refresh " + kind.String() + " force")
	} else {
		f.record("refresh " + kind.String())
	}
	return f.decision, f.opErr
}

func (f *fakeEngine) UserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startedFor
}

func (f *fakeEngine) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
