// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

const testUser = "user-1"

var (
	errOffline    = models.NewSyncError(models.ErrorKindNetwork, "test", errors.New("connection refused"))
	errValidation = models.NewSyncError(models.ErrorKindValidation, "test", errors.New("rejected"))
	errConflict   = models.NewSyncError(models.ErrorKindConflict, "test", errors.New("gone"))
	errAuth       = models.NewSyncError(models.ErrorKindAuth, "test", errors.New("token expired"))
	errServer     = models.NewSyncError(models.ErrorKindUnknown, "test", errors.New("internal server error"))
)

// quiet windows keep automatic refreshes out of tests that do not need them
var quietWindows = config.SyncWindows{ThrottleWindow: time.Hour, DebounceWindow: time.Hour}

func link(url string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"url":%q}`, url))
}

func collection(name string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"name":%q}`, name))
}

// fakeRemote is an in-memory remote store with switchable failures.
type fakeRemote struct {
	mu       sync.Mutex
	data     map[models.EntityKind][]models.Entity
	seq      int
	fail     map[string]error
	calls    []string
	fetches  map[models.EntityKind]int
	fetchAt  []time.Time
	hook     func(op string)
	active   int
	maxSync  int
	handlers map[models.EntityKind]adapter.ChangeHandler
	unsubs   int
}

type fakeSubscription struct {
	kind models.EntityKind
}

func (s *fakeSubscription) Kind() models.EntityKind { return s.kind }

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		data:     make(map[models.EntityKind][]models.Entity),
		fail:     make(map[string]error),
		fetches:  make(map[models.EntityKind]int),
		handlers: make(map[models.EntityKind]adapter.ChangeHandler),
	}
}

func (f *fakeRemote) seed(kind models.EntityKind, entities ...models.Entity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[kind] = append(f.data[kind], entities...)
}

func (f *fakeRemote) setFailure(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

func (f *fakeRemote) goOffline() {
	for _, op := range []string{"fetch", "create", "update", "delete"} {
		f.setFailure(op, errOffline)
	}
}

func (f *fakeRemote) goOnline() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = make(map[string]error)
}

func (f *fakeRemote) setHook(hook func(op string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = hook
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeRemote) fetchCount(kind models.EntityKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[kind]
}

func (f *fakeRemote) fetchTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.fetchAt)
}

func (f *fakeRemote) remoteEntities(kind models.EntityKind) []models.Entity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.CloneEntities(f.data[kind])
}

func (f *fakeRemote) push(kind models.EntityKind, event models.RemoteEventKind) {
	f.mu.Lock()
	h := f.handlers[kind]
	f.mu.Unlock()
	if h != nil {
		h(kind, event)
	}
}

func (f *fakeRemote) enter(op string) (func(op string), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hook, f.fail[op]
}

func (f *fakeRemote) FetchAll(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error) {
	f.mu.Lock()
	f.fetches[kind]++
	f.fetchAt = append(f.fetchAt, time.Now())
	f.active++
	f.maxSync = max(f.maxSync, f.active)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	hook, err := f.enter("fetch")
	if hook != nil {
		hook("fetch")
	}
	if err != nil {
		return nil, err
	}
	return f.remoteEntities(kind), nil
}

func (f *fakeRemote) Create(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	hook, err := f.enter("create")
	if hook != nil {
		hook("create")
	}
	if err != nil {
		return models.Entity{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	now := time.Now().UTC()
	e := models.Entity{ID: fmt.Sprintf("r-%d", f.seq), UserID: userID, Attributes: attributes, CreatedAt: &now, UpdatedAt: &now}
	f.data[kind] = slices.Insert(f.data[kind], 0, e)
	f.calls = append(f.calls, "create "+string(attributes))
	return e.Clone(), nil
}

func (f *fakeRemote) Update(ctx context.Context, userID string, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	hook, err := f.enter("update")
	if hook != nil {
		hook("update")
	}
	if err != nil {
		return models.Entity{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.data[kind], func(e models.Entity) bool { return e.ID == id })
	if i < 0 {
		return models.Entity{}, errConflict
	}
	now := time.Now().UTC()
	f.data[kind][i].Attributes = attributes
	f.data[kind][i].UpdatedAt = &now
	f.calls = append(f.calls, "update "+id+" "+string(attributes))
	return f.data[kind][i].Clone(), nil
}

func (f *fakeRemote) Delete(ctx context.Context, userID string, kind models.EntityKind, id string) error {
	hook, err := f.enter("delete")
	if hook != nil {
		hook("delete")
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.data[kind], func(e models.Entity) bool { return e.ID == id })
	if i < 0 {
		return errConflict
	}
	f.data[kind] = slices.Delete(f.data[kind], i, i+1)
	f.calls = append(f.calls, "delete "+id)
	return nil
}

func (f *fakeRemote) Subscribe(ctx context.Context, userID string, kind models.EntityKind, handler adapter.ChangeHandler) (adapter.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[kind] = handler
	return &fakeSubscription{kind: kind}, nil
}

func (f *fakeRemote) Unsubscribe(sub adapter.Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, sub.Kind())
	f.unsubs++
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	_, err := f.enter("ping")
	return err
}

// stallingRemote answers FetchAll with the collection as it was when the
// call started, but only once released: a slow response carrying stale data.
type stallingRemote struct {
	*fakeRemote
	stall   atomic.Bool
	started chan struct{}
	release chan struct{}
}

func newStallingRemote() *stallingRemote {
	return &stallingRemote{
		fakeRemote: newFakeRemote(),
		started:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
}

func (s *stallingRemote) FetchAll(ctx context.Context, userID string, kind models.EntityKind) ([]models.Entity, error) {
	entities, err := s.fakeRemote.FetchAll(ctx, userID, kind)
	if s.stall.Load() && kind == models.EntityKindLinks {
		s.started <- struct{}{}
		<-s.release
	}
	return entities, err
}

// slowRemote delays Create and gives up when the caller's context ends, the
// way the HTTP adapter reports a timeout.
type slowRemote struct {
	*fakeRemote
	delay time.Duration
}

func (s *slowRemote) Create(ctx context.Context, userID string, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return models.Entity{}, models.NewSyncError(models.ErrorKindNetwork, "create "+kind.String(), ctx.Err())
	}
	return s.fakeRemote.Create(ctx, userID, kind, attributes)
}

// sqliteCache opens a file-backed cache that lives as long as the test.
func sqliteCache(t *testing.T, path string) store.LocalCacheStore {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{DSN: path}}
	storages, err := store.NewClientStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })
	return storages.CacheStore
}

func newTestEngine(t *testing.T, remote adapter.RemoteStore, cache store.LocalCacheStore, windows config.SyncWindows, opts ...EngineOption) *syncEngine {
	t.Helper()
	cfg := config.ClientSync{Windows: map[models.EntityKind]config.SyncWindows{
		models.EntityKindLinks:       windows,
		models.EntityKindCollections: windows,
	}}
	e := NewSyncEngine(remote, cache, cfg, logger.Nop(), opts...).(*syncEngine)
	t.Cleanup(func() {
		_ = e.OnSessionEnd(context.Background(), false)
	})
	return e
}

// startEngine starts a session against a fresh fake remote and memory cache.
func startEngine(t *testing.T, remote *fakeRemote, windows config.SyncWindows, opts ...EngineOption) (*syncEngine, store.LocalCacheStore) {
	t.Helper()
	cache := store.NewMemoryStore()
	e := newTestEngine(t, remote, cache, windows, opts...)
	require.NoError(t, e.OnSessionStart(context.Background(), testUser))
	return e, cache
}

func ids(entities []models.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}

func cachedIDs(t *testing.T, cache store.LocalCacheStore, kind models.EntityKind) []string {
	t.Helper()
	snapshot, found, err := cache.LoadSnapshot(context.Background(), testUser, kind)
	require.NoError(t, err)
	if !found {
		return nil
	}
	return ids(snapshot.Entities)
}

func cachedOps(t *testing.T, cache store.LocalCacheStore, kind models.EntityKind) []models.PendingOperation {
	t.Helper()
	ops, err := cache.ListOperations(context.Background(), testUser, kind)
	require.NoError(t, err)
	return ops
}
