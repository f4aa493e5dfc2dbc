package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-link-keeper/models"
)

// create inserts an optimistic entity under a temporary marker, then
// confirms it with the remote store.
func (ks *kindState) create(ctx context.Context, attributes json.RawMessage) (models.Entity, error) {
	tempID := ks.tempIDs.Generate()
	unlock := ks.entityLocks.Lock(tempID)
	defer unlock()

	optimistic := models.Entity{
		ID:         tempID,
		UserID:     ks.userID,
		Attributes: slices.Clone(attributes),
		Pending:    true,
	}

	ks.mu.Lock()
	ks.state.Entities = slices.Insert(ks.state.Entities, 0, optimistic.Clone())
	ks.mu.Unlock()
	ks.persist(ctx)

	op := models.PendingOperation{Kind: models.OperationCreate, TargetID: tempID, Payload: optimistic.Attributes}
	if ks.queue.enqueueIfBusy(ctx, op) {
		return optimistic, nil
	}

	ks.markInFlight(tempID, models.OperationCreate)
	created, err := ks.remote.Create(ctx, ks.userID, ks.kind, optimistic.Attributes)
	ks.clearInFlight(tempID)

	if err != nil {
		rollback := func() {
			ks.mu.Lock()
			ks.state.Entities = slices.DeleteFunc(ks.state.Entities, func(e models.Entity) bool { return e.ID == tempID })
			ks.mu.Unlock()
		}
		if ferr := ks.mutationFailed(ctx, op, err, rollback); ferr != nil {
			return models.Entity{}, ferr
		}
		return optimistic, nil
	}

	ks.replaceTemp(tempID, created, false)
	ks.clearNetworkError()
	ks.persist(ctx)

	ks.logger.Info().Str("entity_id", created.ID).Str("temp_id", tempID).Msg("entity created")

	created.Pending = false
	return created.Clone(), nil
}

// update applies attributes in place, then confirms them with the remote
// store.
func (ks *kindState) update(ctx context.Context, id string, attributes json.RawMessage) (models.Entity, error) {
	target, unlock := ks.lockEntity(id)
	defer unlock()

	ks.mu.Lock()
	i := ks.indexLocked(target)
	if i < 0 {
		ks.mu.Unlock()
		return models.Entity{}, fmt.Errorf("%w: %s %s", ErrEntityNotFound, ks.kind, id)
	}
	previous := ks.state.Entities[i].Clone()
	ks.state.Entities[i].Attributes = slices.Clone(attributes)
	ks.state.Entities[i].Pending = true
	optimistic := ks.state.Entities[i].Clone()
	ks.mu.Unlock()
	ks.persist(ctx)

	op := models.PendingOperation{Kind: models.OperationUpdate, TargetID: target, Payload: optimistic.Attributes}
	if ks.queue.enqueueIfBusy(ctx, op) {
		return optimistic, nil
	}

	ks.markInFlight(target, models.OperationUpdate)
	updated, err := ks.remote.Update(ctx, ks.userID, ks.kind, target, optimistic.Attributes)
	ks.clearInFlight(target)

	if err != nil {
		rollback := func() {
			ks.mu.Lock()
			if j := ks.indexLocked(target); j >= 0 {
				ks.state.Entities[j] = previous
			}
			ks.mu.Unlock()
		}
		if ferr := ks.mutationFailed(ctx, op, err, rollback); ferr != nil {
			return models.Entity{}, ferr
		}
		return optimistic, nil
	}

	updated.Pending = false
	if updated.ID == "" {
		updated.ID = target
	}

	ks.mu.Lock()
	if j := ks.indexLocked(target); j >= 0 {
		ks.state.Entities[j] = updated.Clone()
	}
	ks.clearNetworkErrorLocked()
	ks.mu.Unlock()
	ks.persist(ctx)

	ks.logger.Info().Str("entity_id", target).Msg("entity updated")

	return updated, nil
}

// delete removes the entity immediately, then confirms the removal with the
// remote store.
func (ks *kindState) delete(ctx context.Context, id string) error {
	target, unlock := ks.lockEntity(id)
	defer unlock()

	ks.mu.Lock()
	pos := ks.indexLocked(target)
	if pos < 0 {
		ks.mu.Unlock()
		return fmt.Errorf("%w: %s %s", ErrEntityNotFound, ks.kind, id)
	}
	removed := ks.state.Entities[pos]
	ks.state.Entities = slices.Delete(ks.state.Entities, pos, pos+1)
	ks.mu.Unlock()
	ks.persist(ctx)

	op := models.PendingOperation{Kind: models.OperationDelete, TargetID: target}
	if ks.queue.enqueueIfBusy(ctx, op) {
		return nil
	}

	ks.markInFlight(target, models.OperationDelete)
	err := ks.remote.Delete(ctx, ks.userID, ks.kind, target)
	ks.clearInFlight(target)

	if err != nil {
		rollback := func() {
			ks.mu.Lock()
			if ks.indexLocked(target) < 0 {
				at := min(pos, len(ks.state.Entities))
				ks.state.Entities = slices.Insert(ks.state.Entities, at, removed)
			}
			ks.mu.Unlock()
		}
		return ks.mutationFailed(ctx, op, err, rollback)
	}

	ks.clearNetworkError()
	ks.logger.Info().Str("entity_id", target).Msg("entity deleted")

	return nil
}

// mutationFailed classifies a failed remote call of the pipeline.
// Recoverable failures keep the optimistic state and queue op; every other
// failure runs rollback, persists it and is returned to the caller.
func (ks *kindState) mutationFailed(ctx context.Context, op models.PendingOperation, err error, rollback func()) error {
	kind := models.KindOf(err)
	log := ks.logger.With().
		Str("entity_id", op.TargetID).
		Str("op_kind", string(op.Kind)).
		Str("error_kind", string(kind)).
		Logger()

	if kind.Recoverable() {
		ks.queue.enqueue(ctx, op)
		ks.setLastError(kind)
		log.Warn().Err(err).Msg("remote store unreachable, operation queued")
		return nil
	}

	rollback()
	ks.untouch(op.TargetID)
	ks.setLastError(kind)
	ks.persist(ctx)
	log.Error().Err(err).Msg("mutation rejected, optimistic state rolled back")

	switch kind {
	case models.ErrorKindAuth:
		ks.authFailed(err)
	case models.ErrorKindConflict:
		ks.requestResync()
	}

	return err
}
