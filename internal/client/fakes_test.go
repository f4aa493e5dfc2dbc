package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/MKhiriev/go-link-keeper/internal/service"
	"github.com/MKhiriev/go-link-keeper/models"
)

// fakeEngine is an in-memory SyncEngine that records lifecycle calls.
type fakeEngine struct {
	mu sync.Mutex

	entities map[models.EntityKind][]models.Entity
	pending  map[models.EntityKind][]models.PendingOperation
	lastErr  map[models.EntityKind]*models.ErrorKind

	startErr error

	startedFor string
	ended      bool
	clearCache bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		entities: make(map[models.EntityKind][]models.Entity),
		pending:  make(map[models.EntityKind][]models.PendingOperation),
		lastErr:  make(map[models.EntityKind]*models.ErrorKind),
	}
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
	return models.Entity{}, nil
}

func (f *fakeEngine) Update(ctx context.Context, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	return models.Entity{}, nil
}

func (f *fakeEngine) Delete(ctx context.Context, kind models.EntityKind, id string) error { return nil }

func (f *fakeEngine) RequestRefresh(ctx context.Context, kind models.EntityKind, force bool) (service.RefreshDecision, error) {
	return service.DecisionScheduled, nil
}

func (f *fakeEngine) UserID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startedFor
}
