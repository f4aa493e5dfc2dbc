package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-link-keeper/models"
)

// fullSync fetches the authoritative collection and merges it into the
// visible state. It is only ever run by the scheduler.
func (ks *kindState) fullSync(ctx context.Context) error {
	ks.beginFetch()
	defer ks.endFetch()

	remote, err := ks.remote.FetchAll(ctx, ks.userID, ks.kind)
	if err != nil {
		kind := models.KindOf(err)
		ks.setLastError(kind)
		if kind == models.ErrorKindAuth {
			ks.authFailed(err)
		}
		return err
	}

	ks.awaitCreates()

	now := time.Now().UTC()

	ks.mu.Lock()
	pending := ks.pendingTargetsLocked()
	before := len(ks.state.Entities)
	ks.state.Entities = mergeEntities(ks.state.Entities, remote, pending)
	ks.state.LastSyncTimestamp = &now
	ks.clearNetworkErrorLocked()
	after := len(ks.state.Entities)
	ks.mu.Unlock()

	ks.persist(ctx)

	ks.logger.Info().
		Int("remote", len(remote)).
		Int("before", before).
		Int("after", after).
		Int("pending", len(pending)).
		Msg("collection synchronized")

	return nil
}

// awaitCreates waits for Creates whose remote call is outstanding. Their
// confirmed entity may already be part of the fetched collection, and
// merging before the temporary marker is replaced would show it twice.
func (ks *kindState) awaitCreates() {
	ks.mu.RLock()
	var creating []string
	for id, kind := range ks.inFlight {
		if kind == models.OperationCreate {
			creating = append(creating, id)
		}
	}
	ks.mu.RUnlock()

	for _, id := range creating {
		unlock := ks.entityLocks.Lock(id)
		unlock()
	}
}

// pendingTargetsLocked returns, per entity id, the latest local operation
// the fetched collection cannot be trusted for: mutations confirmed during
// the fetch window, then queued, then in-flight on top.
func (ks *kindState) pendingTargetsLocked() map[string]models.OperationKind {
	pending := make(map[string]models.OperationKind)
	for id, kind := range ks.touched {
		pending[ks.resolveLocked(id)] = kind
	}
	for target, kind := range ks.queue.targets() {
		pending[ks.resolveLocked(target)] = kind
	}
	for id, kind := range ks.inFlight {
		pending[id] = kind
	}
	return pending
}

// mergeEntities combines the fetched collection with local optimistic
// changes the remote store has not seen yet:
//   - entities with a pending Delete stay hidden;
//   - entities with a pending Create or Update keep their local copy;
//   - local-only pending entities (unconfirmed creates) stay on top;
//   - everything else is taken from remote, in remote order.
//
// Local entries without pending work that the remote store no longer
// returns are dropped.
func mergeEntities(local, remote []models.Entity, pending map[string]models.OperationKind) []models.Entity {
	localByID := make(map[string]models.Entity, len(local))
	for _, e := range local {
		localByID[e.ID] = e
	}
	remoteIDs := make(map[string]struct{}, len(remote))
	for _, e := range remote {
		remoteIDs[e.ID] = struct{}{}
	}

	merged := make([]models.Entity, 0, len(remote)+len(pending))
	for _, e := range local {
		kind, ok := pending[e.ID]
		if !ok || kind == models.OperationDelete {
			continue
		}
		if _, known := remoteIDs[e.ID]; known {
			continue
		}
		merged = append(merged, e.Clone())
	}

	for _, e := range remote {
		if kind, ok := pending[e.ID]; ok {
			if kind == models.OperationDelete {
				continue
			}
			if l, found := localByID[e.ID]; found {
				merged = append(merged, l.Clone())
				continue
			}
		}
		e = e.Clone()
		e.Pending = false
		merged = append(merged, e)
	}

	return merged
}
