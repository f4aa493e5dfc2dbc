package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-link-keeper/models"
)

// replayAll sends the pending log in order, removing every operation once
// the remote store acknowledged it. Replay stops at the first failure.
//
// A failure leaves the log untouched, except for a validation or conflict
// rejection: that operation can never succeed, so it is discarded together
// with the queued operations of the same entity, and a forced refresh
// replaces the optimistic state they left behind.
func (ks *kindState) replayAll(ctx context.Context) error {
	if !ks.queue.beginReplay() {
		return nil
	}

	replayed := 0
	for {
		op, ok := ks.queue.next()
		if !ok {
			break
		}

		if err := ks.replayOne(ctx, op); err != nil {
			ks.queue.endReplay()
			return ks.replayFailed(ctx, op, err, replayed)
		}
		replayed++
	}

	if replayed > 0 {
		ks.clearNetworkError()
		ks.persist(ctx)
		ks.logger.Info().Int("replayed", replayed).Msg("pending operations replayed")
	}

	return nil
}

func (ks *kindState) replayOne(ctx context.Context, op models.PendingOperation) error {
	// Creates are locked by their marker, like the pipeline that made them.
	lockID := op.TargetID
	if op.Kind != models.OperationCreate {
		lockID = ks.resolve(op.TargetID)
	}
	unlock := ks.entityLocks.Lock(lockID)
	defer unlock()

	ks.markInFlight(lockID, op.Kind)
	defer ks.clearInFlight(lockID)

	log := ks.logger.With().
		Int64("op_id", op.ID).
		Str("op_kind", string(op.Kind)).
		Str("entity_id", lockID).
		Logger()

	switch op.Kind {
	case models.OperationCreate:
		created, err := ks.remote.Create(ctx, ks.userID, ks.kind, op.Payload)
		if err != nil {
			return err
		}
		ks.queue.complete(ctx, op, created.ID)
		ks.replaceTemp(op.TargetID, created, ks.hasQueued(created.ID))
		log.Debug().Str("remote_id", created.ID).Msg("queued create acknowledged")

	case models.OperationUpdate:
		updated, err := ks.remote.Update(ctx, ks.userID, ks.kind, lockID, op.Payload)
		if err != nil {
			return err
		}
		ks.queue.complete(ctx, op, "")
		if !ks.hasQueued(lockID) {
			updated.Pending = false
			if updated.ID == "" {
				updated.ID = lockID
			}
			ks.mu.Lock()
			if i := ks.indexLocked(lockID); i >= 0 {
				ks.state.Entities[i] = updated.Clone()
			}
			ks.mu.Unlock()
		}
		log.Debug().Msg("queued update acknowledged")

	case models.OperationDelete:
		err := ks.remote.Delete(ctx, ks.userID, ks.kind, lockID)
		if err != nil && models.KindOf(err) != models.ErrorKindConflict {
			return err
		}
		// a conflict means the entity is already gone, which is the goal
		ks.queue.complete(ctx, op, "")
		log.Debug().Msg("queued delete acknowledged")

	default:
		return models.NewSyncError(models.ErrorKindValidation, "replay", fmt.Errorf("%w: %q", ErrUnknownOperation, op.Kind))
	}

	ks.persist(ctx)
	return nil
}

func (ks *kindState) replayFailed(ctx context.Context, op models.PendingOperation, err error, replayed int) error {
	kind := models.KindOf(err)
	ks.setLastError(kind)

	log := ks.logger.With().
		Int64("op_id", op.ID).
		Str("op_kind", string(op.Kind)).
		Str("entity_id", op.TargetID).
		Str("error_kind", string(kind)).
		Int("replayed", replayed).
		Int("remaining", ks.queue.len()).
		Logger()

	if kind == models.ErrorKindAuth {
		log.Warn().Err(err).Msg("replay stopped, session rejected")
		ks.authFailed(err)
		return err
	}
	if kind != models.ErrorKindValidation && kind != models.ErrorKindConflict {
		log.Warn().Err(err).Msg("replay stopped, pending log kept for the next attempt")
		return err
	}

	dropped := ks.queue.discard(ctx, op.TargetID)
	if op.Kind == models.OperationCreate {
		ks.mu.Lock()
		ks.state.Entities = slices.DeleteFunc(ks.state.Entities, func(e models.Entity) bool { return e.ID == op.TargetID })
		ks.mu.Unlock()
	}
	ks.persist(ctx)
	ks.requestResync()

	log.Error().Err(err).Int("discarded", dropped).Msg("replay stopped, operation rejected by remote store")
	return err
}

func (ks *kindState) hasQueued(target string) bool {
	_, ok := ks.queue.targets()[target]
	return ok
}
