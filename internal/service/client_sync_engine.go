package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

type syncEngine struct {
	remote        adapter.RemoteStore
	cache         store.LocalCacheStore
	sync          config.ClientSync
	tempIDs       *utils.TempIDGenerator
	onAuthFailure AuthFailureHandler
	logger        *logger.Logger

	// lifecycle serializes OnSessionStart and OnSessionEnd
	lifecycle sync.Mutex

	mu     sync.RWMutex
	userID string
	kinds  map[models.EntityKind]*kindState
	cancel context.CancelFunc
}

// EngineOption customizes a [SyncEngine].
type EngineOption func(*syncEngine)

// WithAuthFailureHandler registers the sign-out collaborator.
func WithAuthFailureHandler(h AuthFailureHandler) EngineOption {
	return func(e *syncEngine) {
		e.onAuthFailure = h
	}
}

// NewSyncEngine constructs a [SyncEngine] over the given remote store and
// local cache. The engine is idle until OnSessionStart.
func NewSyncEngine(remote adapter.RemoteStore, cache store.LocalCacheStore, syncCfg config.ClientSync, log *logger.Logger, opts ...EngineOption) SyncEngine {
	e := &syncEngine{
		remote:  remote,
		cache:   cache,
		sync:    syncCfg,
		tempIDs: utils.NewTempIDGenerator(),
		logger:  log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnSessionStart implements [SyncEngine]. Kinds start in parallel. Only an
// auth failure is returned; being offline is the normal case for an
// offline-first client and shows up in LastError instead.
func (e *syncEngine) OnSessionStart(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	e.endSession(ctx, false)

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	deps := kindDeps{
		remote:        e.remote,
		cache:         e.cache,
		tempIDs:       e.tempIDs,
		onAuthFailure: e.onAuthFailure,
		logger:        e.logger,
	}

	kinds := make(map[models.EntityKind]*kindState, len(models.EntityKinds))
	for _, kind := range models.EntityKinds {
		ks := newKindState(sessionCtx, userID, kind, e.sync.For(kind), deps)
		ks.setLoading(true)
		kinds[kind] = ks
	}

	e.mu.Lock()
	e.userID = userID
	e.kinds = kinds
	e.cancel = cancel
	e.mu.Unlock()

	e.logger.Info().Str("user_id", userID).Msg("sync session started")

	g, gCtx := errgroup.WithContext(ctx)
	for _, ks := range kinds {
		g.Go(func() error {
			return e.startKind(gCtx, ks)
		})
	}

	return g.Wait()
}

func (e *syncEngine) startKind(ctx context.Context, ks *kindState) error {
	defer ks.setLoading(false)

	snapshot, found, err := ks.cache.LoadSnapshot(ctx, ks.userID, ks.kind)
	switch {
	case err != nil:
		ks.logger.Err(err).Msg("cached snapshot unavailable, starting empty")
	case found:
		ks.restore(snapshot)
	}
	ks.queue.load(ctx)

	sub, err := e.remote.Subscribe(ks.ctx, ks.userID, ks.kind, ks.listener.onRemoteChange)
	if err != nil {
		ks.logger.Warn().Err(err).Msg("change subscription unavailable")
	} else {
		ks.mu.Lock()
		ks.sub = sub
		ks.mu.Unlock()
	}

	if err = ks.replayAll(ctx); err != nil && models.KindOf(err) == models.ErrorKindAuth {
		return err
	}

	if _, err = ks.scheduler.RequestRefresh(ctx, true); err != nil {
		if models.KindOf(err) == models.ErrorKindAuth {
			return err
		}
		ks.logger.Warn().Err(err).Msg("initial refresh failed, serving cached snapshot")
	}

	return nil
}

// OnSessionEnd implements [SyncEngine].
func (e *syncEngine) OnSessionEnd(ctx context.Context, clearCache bool) error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()

	return e.endSession(ctx, clearCache)
}

func (e *syncEngine) endSession(ctx context.Context, clearCache bool) error {
	e.mu.Lock()
	userID, kinds, cancel := e.userID, e.kinds, e.cancel
	e.userID, e.kinds, e.cancel = "", nil, nil
	e.mu.Unlock()

	if kinds == nil {
		return nil
	}

	var g errgroup.Group
	for _, ks := range kinds {
		g.Go(func() error {
			ks.listener.close()
			ks.mu.RLock()
			sub := ks.sub
			ks.mu.RUnlock()
			if sub != nil {
				e.remote.Unsubscribe(sub)
			}
			return nil
		})
	}
	_ = g.Wait()

	// in-flight remote calls observe the cancelled session
	cancel()
	for _, ks := range kinds {
		ks.scheduler.Close()
		ks.wg.Wait()
	}

	e.logger.Info().Str("user_id", userID).Bool("clear_cache", clearCache).Msg("sync session ended")

	if clearCache {
		if err := e.cache.Clear(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// OnConnectivityRestored implements [SyncEngine].
func (e *syncEngine) OnConnectivityRestored(ctx context.Context) error {
	kinds := e.activeKinds()
	if kinds == nil {
		return ErrNoActiveSession
	}

	var g errgroup.Group
	for _, ks := range kinds {
		g.Go(func() error {
			ctx, stop := ks.bind(ctx)
			defer stop()

			err := ks.replayAll(ctx)
			if _, rerr := ks.scheduler.RequestRefresh(ctx, false); rerr != nil {
				err = errors.Join(err, rerr)
			}
			return err
		})
	}

	return g.Wait()
}

func (e *syncEngine) Entities(kind models.EntityKind) []models.Entity {
	ks, err := e.kindState(kind)
	if err != nil {
		return nil
	}
	return ks.entities()
}

func (e *syncEngine) IsLoading(kind models.EntityKind) bool {
	ks, err := e.kindState(kind)
	if err != nil {
		return false
	}
	return ks.isLoading()
}

func (e *syncEngine) IsSyncing(kind models.EntityKind) bool {
	ks, err := e.kindState(kind)
	if err != nil {
		return false
	}
	return ks.isSyncing()
}

func (e *syncEngine) LastError(kind models.EntityKind) *models.ErrorKind {
	ks, err := e.kindState(kind)
	if err != nil {
		return nil
	}
	return ks.lastError()
}

func (e *syncEngine) PendingOperations(kind models.EntityKind) []models.PendingOperation {
	ks, err := e.kindState(kind)
	if err != nil {
		return nil
	}
	return ks.queue.list()
}

func (e *syncEngine) Create(ctx context.Context, kind models.EntityKind, attributes json.RawMessage) (models.Entity, error) {
	ks, err := e.kindState(kind)
	if err != nil {
		return models.Entity{}, err
	}
	if !json.Valid(attributes) {
		return models.Entity{}, ErrInvalidAttributes
	}

	ctx, stop := ks.bind(ctx)
	defer stop()

	return ks.create(ctx, attributes)
}

func (e *syncEngine) Update(ctx context.Context, kind models.EntityKind, id string, attributes json.RawMessage) (models.Entity, error) {
	ks, err := e.kindState(kind)
	if err != nil {
		return models.Entity{}, err
	}
	if id == "" {
		return models.Entity{}, ErrEmptyEntityID
	}
	if !json.Valid(attributes) {
		return models.Entity{}, ErrInvalidAttributes
	}

	ctx, stop := ks.bind(ctx)
	defer stop()

	return ks.update(ctx, id, attributes)
}

func (e *syncEngine) Delete(ctx context.Context, kind models.EntityKind, id string) error {
	ks, err := e.kindState(kind)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyEntityID
	}

	ctx, stop := ks.bind(ctx)
	defer stop()

	return ks.delete(ctx, id)
}

func (e *syncEngine) RequestRefresh(ctx context.Context, kind models.EntityKind, force bool) (RefreshDecision, error) {
	ks, err := e.kindState(kind)
	if err != nil {
		return DecisionDroppedClosed, err
	}

	ctx, stop := ks.bind(ctx)
	defer stop()

	return ks.scheduler.RequestRefresh(ctx, force)
}

func (e *syncEngine) UserID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.userID
}

func (e *syncEngine) kindState(kind models.EntityKind) (*kindState, error) {
	if !kind.Valid() {
		return nil, models.ErrUnknownEntityKind
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.kinds == nil {
		return nil, ErrNoActiveSession
	}
	return e.kinds[kind], nil
}

func (e *syncEngine) activeKinds() []*kindState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.kinds == nil {
		return nil
	}
	out := make([]*kindState, 0, len(e.kinds))
	for _, kind := range models.EntityKinds {
		out = append(out, e.kinds[kind])
	}
	return out
}

// bind derives a context from ctx that is also cancelled when the session
// of ks ends.
func (ks *kindState) bind(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(ks.ctx, cancel)

	return ctx, func() {
		stopAfter()
		cancel()
	}
}
