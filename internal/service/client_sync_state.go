package service

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/adapter"
	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

// kindState owns everything the engine keeps for one entity kind of the
// signed-in user. Kinds never share locks.
//
// Lock order: scheduler.mu -> mu -> queue.mu. cacheMu is never taken while
// holding mu.
type kindState struct {
	kind   models.EntityKind
	userID string

	remote        adapter.RemoteStore
	cache         store.LocalCacheStore
	tempIDs       *utils.TempIDGenerator
	onAuthFailure AuthFailureHandler
	logger        *logger.Logger

	// ctx lives as long as the session
	ctx context.Context
	wg  sync.WaitGroup

	mu       sync.RWMutex
	state    models.SyncState
	loading  bool
	aliases  map[string]string
	inFlight map[string]models.OperationKind
	// touched collects mutations started while a fetch is running; nil
	// outside of a fetch
	touched map[string]models.OperationKind

	entityLocks *keyedMutex
	cacheMu     sync.Mutex

	queue     *pendingQueue
	scheduler *refreshScheduler
	listener  *changeListener
	sub       adapter.Subscription
}

type kindDeps struct {
	remote        adapter.RemoteStore
	cache         store.LocalCacheStore
	tempIDs       *utils.TempIDGenerator
	onAuthFailure AuthFailureHandler
	logger        *logger.Logger
}

func newKindState(ctx context.Context, userID string, kind models.EntityKind, windows config.SyncWindows, deps kindDeps) *kindState {
	log := &logger.Logger{Logger: deps.logger.With().
		Str("user_id", userID).
		Str("entity_kind", kind.String()).
		Logger()}

	ks := &kindState{
		kind:          kind,
		userID:        userID,
		remote:        deps.remote,
		cache:         deps.cache,
		tempIDs:       deps.tempIDs,
		onAuthFailure: deps.onAuthFailure,
		logger:        log,
		ctx:           ctx,
		state:         models.SyncState{Kind: kind},
		aliases:       make(map[string]string),
		inFlight:      make(map[string]models.OperationKind),
		entityLocks:   newKeyedMutex(),
		queue:         newPendingQueue(userID, kind, deps.cache, log),
	}
	ks.scheduler = newRefreshScheduler(ctx, kind, windows.ThrottleWindow, windows.DebounceWindow, ks.fullSync, ks.setSyncing, log)
	ks.listener = newChangeListener(ctx, kind, ks.scheduler, log)

	return ks
}

// entities returns a deep copy of the visible collection.
func (ks *kindState) entities() []models.Entity {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return models.CloneEntities(ks.state.Entities)
}

func (ks *kindState) isLoading() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return ks.loading
}

func (ks *kindState) isSyncing() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return ks.state.SyncInFlight
}

func (ks *kindState) lastError() *models.ErrorKind {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if ks.state.LastError == nil {
		return nil
	}
	return ks.state.LastError.Ptr()
}

func (ks *kindState) lastSync() *time.Time {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if ks.state.LastSyncTimestamp == nil {
		return nil
	}
	t := *ks.state.LastSyncTimestamp
	return &t
}

func (ks *kindState) setLoading(loading bool) {
	ks.mu.Lock()
	ks.loading = loading
	ks.mu.Unlock()
}

func (ks *kindState) setSyncing(inFlight bool) {
	ks.mu.Lock()
	ks.state.SyncInFlight = inFlight
	ks.mu.Unlock()
}

func (ks *kindState) setLastError(kind models.ErrorKind) {
	ks.mu.Lock()
	ks.state.LastError = kind.Ptr()
	ks.mu.Unlock()
}

// clearNetworkError drops a network LastError once the remote store answered.
func (ks *kindState) clearNetworkError() {
	ks.mu.Lock()
	ks.clearNetworkErrorLocked()
	ks.mu.Unlock()
}

func (ks *kindState) clearNetworkErrorLocked() {
	if ks.state.LastError != nil && *ks.state.LastError == models.ErrorKindNetwork {
		ks.state.LastError = nil
	}
}

// restore replaces the in-memory state with a cached snapshot.
func (ks *kindState) restore(snapshot models.Snapshot) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.state.Entities = models.CloneEntities(snapshot.Entities)
	ks.state.LastSyncTimestamp = snapshot.LastSyncTimestamp
}

// persist writes the newest in-memory snapshot. Writers queue on cacheMu and
// each one reads the state only after acquiring it, so a slow writer can
// never overwrite a newer snapshot with an older one. Storage failures
// degrade to in-memory operation.
func (ks *kindState) persist(ctx context.Context) {
	ks.cacheMu.Lock()
	defer ks.cacheMu.Unlock()

	ks.mu.RLock()
	snapshot := models.Snapshot{
		Entities:          models.CloneEntities(ks.state.Entities),
		LastSyncTimestamp: ks.state.LastSyncTimestamp,
		SavedAt:           time.Now().UTC(),
	}
	ks.mu.RUnlock()

	if err := ks.cache.SaveSnapshot(context.WithoutCancel(ctx), ks.userID, ks.kind, snapshot); err != nil {
		ks.logger.Err(err).Str("func", "kindState.persist").Msg("snapshot not persisted, continuing in memory")
	}
}

// resolve follows the alias of a temporary marker whose Create was already
// confirmed.
func (ks *kindState) resolve(id string) string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return ks.resolveLocked(id)
}

func (ks *kindState) resolveLocked(id string) string {
	if real, ok := ks.aliases[id]; ok {
		return real
	}
	return id
}

// lockEntity takes the per-entity lock of id, following aliases that appear
// while waiting, and returns the resolved id with the unlock function.
func (ks *kindState) lockEntity(id string) (string, func()) {
	for {
		key := ks.resolve(id)
		unlock := ks.entityLocks.Lock(key)
		if ks.resolve(id) == key {
			return key, unlock
		}
		unlock()
	}
}

func (ks *kindState) indexLocked(id string) int {
	return slices.IndexFunc(ks.state.Entities, func(e models.Entity) bool { return e.ID == id })
}

// replaceTemp swaps the entry of tempID for the confirmed entity in place
// and records the alias. Readers never observe both ids.
func (ks *kindState) replaceTemp(tempID string, confirmed models.Entity, stillPending bool) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	confirmed.Pending = stillPending
	ks.aliases[tempID] = confirmed.ID

	if i := ks.indexLocked(tempID); i >= 0 {
		ks.state.Entities[i] = confirmed
		// a refresh may have fetched the confirmed entity already
		ks.dedupeLocked(confirmed.ID)
		return
	}
	if ks.indexLocked(confirmed.ID) < 0 {
		ks.state.Entities = slices.Insert(ks.state.Entities, 0, confirmed)
	}
}

// dedupeLocked keeps only the first entry of id.
func (ks *kindState) dedupeLocked(id string) {
	seen := false
	ks.state.Entities = slices.DeleteFunc(ks.state.Entities, func(e models.Entity) bool {
		if e.ID != id {
			return false
		}
		if seen {
			return true
		}
		seen = true
		return false
	})
}

func (ks *kindState) markInFlight(id string, kind models.OperationKind) {
	ks.mu.Lock()
	ks.inFlight[id] = kind
	if ks.touched != nil {
		ks.touched[id] = kind
	}
	ks.mu.Unlock()
}

func (ks *kindState) clearInFlight(id string) {
	ks.mu.Lock()
	delete(ks.inFlight, id)
	ks.mu.Unlock()
}

// beginFetch opens the fetch window. Mutations in flight now, or started
// before the fetched collection is merged, may be missing from it.
func (ks *kindState) beginFetch() {
	ks.mu.Lock()
	ks.touched = make(map[string]models.OperationKind, len(ks.inFlight))
	maps.Copy(ks.touched, ks.inFlight)
	ks.mu.Unlock()
}

func (ks *kindState) endFetch() {
	ks.mu.Lock()
	ks.touched = nil
	ks.mu.Unlock()
}

// untouch forgets a mutation the remote store rejected, so the fetched copy
// wins over the rolled back one.
func (ks *kindState) untouch(id string) {
	ks.mu.Lock()
	delete(ks.touched, id)
	ks.mu.Unlock()
}

// background runs fn on a goroutine bound to the session lifetime.
func (ks *kindState) background(fn func(ctx context.Context)) {
	ks.wg.Add(1)
	go func() {
		defer ks.wg.Done()
		fn(ks.ctx)
	}()
}

// requestResync asks for a forced refresh without blocking the caller. It
// is how optimistic state rejected by the remote store gets discarded.
func (ks *kindState) requestResync() {
	ks.background(func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		if _, err := ks.scheduler.RequestRefresh(ctx, true); err != nil {
			ks.logger.Warn().Err(err).Msg("resync after rejection failed")
		}
	})
}

func (ks *kindState) authFailed(err error) {
	if ks.onAuthFailure != nil {
		ks.onAuthFailure(err)
	}
}
