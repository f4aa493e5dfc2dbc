package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
	"github.com/MKhiriev/go-link-keeper/models"
)

// pendingQueue is the ordered log of mutations of one entity kind that still
// have to reach the remote store. ops mirrors the durable log in the local
// cache; when the cache cannot be written the queue keeps working in memory
// and marks the operation with a negative id. Durable writes ignore the
// cancellation of the caller: an operation queued because its remote call
// timed out must still reach the log.
type pendingQueue struct {
	userID string
	kind   models.EntityKind
	cache  store.LocalCacheStore
	now    func() time.Time
	logger *logger.Logger

	mu        sync.Mutex
	ops       []models.PendingOperation
	replaying bool
	localSeq  int64
}

func newPendingQueue(userID string, kind models.EntityKind, cache store.LocalCacheStore, log *logger.Logger) *pendingQueue {
	return &pendingQueue{
		userID: userID,
		kind:   kind,
		cache:  cache,
		now:    time.Now,
		logger: log,
	}
}

// load replaces the in-memory log with the durable one. A storage failure
// leaves the queue empty.
func (q *pendingQueue) load(ctx context.Context) {
	ops, err := q.cache.ListOperations(ctx, q.userID, q.kind)
	if err != nil {
		q.logger.Err(err).
			Str("func", "pendingQueue.load").
			Str("entity_kind", q.kind.String()).
			Msg("pending log unavailable, starting with an empty queue")
		ops = nil
	}

	q.mu.Lock()
	q.ops = ops
	q.mu.Unlock()
}

// list returns a copy of the log in replay order.
func (q *pendingQueue) list() []models.PendingOperation {
	q.mu.Lock()
	defer q.mu.Unlock()

	return slices.Clone(q.ops)
}

func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.ops)
}

// targets returns the kind of the last queued operation per target id.
func (q *pendingQueue) targets() map[string]models.OperationKind {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(map[string]models.OperationKind, len(q.ops))
	for _, op := range q.ops {
		out[op.TargetID] = op.Kind
	}
	return out
}

// enqueue appends op to the log, applying the collapse rules:
//   - a Delete whose target still has a queued Create removes every queued
//     operation of that target and is not appended;
//   - an Update whose target still has a queued Create is folded into the
//     Create payload.
//
// It reports whether op was absorbed by a collapse rule.
func (q *pendingQueue) enqueue(ctx context.Context, op models.PendingOperation) (collapsed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.enqueueLocked(ctx, op)
}

// enqueueIfBusy enqueues op when the queue must keep the order of op: a
// replay is running or op's target already has queued operations. Otherwise
// the caller may send op directly and nothing is enqueued.
func (q *pendingQueue) enqueueIfBusy(ctx context.Context, op models.PendingOperation) (queued bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.replaying && !q.hasTargetLocked(op.TargetID) {
		return false
	}

	q.enqueueLocked(ctx, op)
	return true
}

func (q *pendingQueue) enqueueLocked(ctx context.Context, op models.PendingOperation) bool {
	ctx = context.WithoutCancel(ctx)
	op.UserID = q.userID
	op.EntityKind = q.kind
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = q.now().UTC()
	}

	log := q.logger.With().
		Str("entity_kind", q.kind.String()).
		Str("entity_id", op.TargetID).
		Str("op_kind", string(op.Kind)).
		Logger()

	createIdx := q.queuedCreateLocked(op.TargetID)
	switch {
	case op.Kind == models.OperationDelete && createIdx >= 0:
		kept := q.ops[:0]
		for _, queued := range q.ops {
			if queued.TargetID == op.TargetID {
				q.removeDurable(ctx, queued)
				continue
			}
			kept = append(kept, queued)
		}
		q.ops = kept
		log.Debug().Msg("delete collapsed with queued create")
		return true

	case op.Kind == models.OperationUpdate && createIdx >= 0:
		q.ops[createIdx].Payload = op.Payload
		if q.ops[createIdx].ID > 0 {
			if err := q.cache.ReplaceOperation(ctx, q.ops[createIdx]); err != nil {
				log.Err(err).Msg("failed to persist folded create")
			}
		}
		log.Debug().Int64("op_id", q.ops[createIdx].ID).Msg("update folded into queued create")
		return true
	}

	stored, err := q.cache.AppendOperation(ctx, op)
	if err != nil {
		log.Err(err).Msg("pending operation kept in memory only")
		q.localSeq--
		op.ID = q.localSeq
		stored = op
	}
	q.ops = append(q.ops, stored)
	log.Info().Int64("op_id", stored.ID).Int("queue_len", len(q.ops)).Msg("operation enqueued")

	return false
}

// beginReplay marks the queue as replaying. It returns false when another
// replay is already running.
func (q *pendingQueue) beginReplay() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.replaying {
		return false
	}
	q.replaying = true
	return true
}

// next returns the head of the log. When the log is empty the replay ends
// in the same critical section, so no operation can be enqueued behind a
// replay that already decided to stop.
func (q *pendingQueue) next() (models.PendingOperation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.ops) == 0 {
		q.replaying = false
		return models.PendingOperation{}, false
	}
	return q.ops[0], true
}

func (q *pendingQueue) endReplay() {
	q.mu.Lock()
	q.replaying = false
	q.mu.Unlock()
}

// complete removes an acknowledged operation. When a Create was
// acknowledged, queued operations that still name its temporary marker are
// retargeted to remoteID.
func (q *pendingQueue) complete(ctx context.Context, op models.PendingOperation, remoteID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	q.dropLocked(ctx, func(queued models.PendingOperation) bool { return queued.ID == op.ID })

	if op.Kind != models.OperationCreate || remoteID == "" {
		return
	}
	for i := range q.ops {
		if q.ops[i].TargetID != op.TargetID {
			continue
		}
		q.ops[i].TargetID = remoteID
		if q.ops[i].ID > 0 {
			if err := q.cache.ReplaceOperation(ctx, q.ops[i]); err != nil {
				q.logger.Err(err).Int64("op_id", q.ops[i].ID).Msg("failed to persist retargeted operation")
			}
		}
	}
}

// discard removes every queued operation of target. It is used when the
// remote store permanently rejected one of them.
func (q *pendingQueue) discard(ctx context.Context, target string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropLocked(ctx, func(queued models.PendingOperation) bool { return queued.TargetID == target })
}

func (q *pendingQueue) dropLocked(ctx context.Context, match func(models.PendingOperation) bool) int {
	ctx = context.WithoutCancel(ctx)
	kept := q.ops[:0]
	dropped := 0
	for _, queued := range q.ops {
		if match(queued) {
			q.removeDurable(ctx, queued)
			dropped++
			continue
		}
		kept = append(kept, queued)
	}
	q.ops = kept
	return dropped
}

func (q *pendingQueue) removeDurable(ctx context.Context, op models.PendingOperation) {
	if op.ID <= 0 {
		return
	}
	if err := q.cache.RemoveOperation(ctx, q.userID, op.ID); err != nil {
		q.logger.Err(err).Int64("op_id", op.ID).Msg("failed to remove operation from pending log")
	}
}

func (q *pendingQueue) hasTargetLocked(target string) bool {
	for _, op := range q.ops {
		if op.TargetID == target {
			return true
		}
	}
	return false
}

func (q *pendingQueue) queuedCreateLocked(target string) int {
	for i, op := range q.ops {
		if op.Kind == models.OperationCreate && op.TargetID == target {
			return i
		}
	}
	return -1
}
