package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-link-keeper/models"
)

// MemoryDSN selects the in-memory cache store.
const MemoryDSN = ":memory:"

type snapshotKey struct {
	userID string
	kind   models.EntityKind
}

// memoryStore is a process-local [LocalCacheStore]. Nothing survives a
// restart; it backs ephemeral sessions and tests.
type memoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	snapshots map[snapshotKey][]byte
	ops       []models.PendingOperation
}

// NewMemoryStore returns an empty in-memory [LocalCacheStore].
func NewMemoryStore() LocalCacheStore {
	return &memoryStore{
		nextID:    1,
		snapshots: make(map[snapshotKey][]byte),
	}
}

func (m *memoryStore) SaveSnapshot(ctx context.Context, userID string, kind models.EntityKind, snapshot models.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return storageError("save snapshot", err)
	}
	if snapshot.SavedAt.IsZero() {
		snapshot.SavedAt = time.Now().UTC()
	}

	// stored encoded so that callers never share entity buffers with the store
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return storageError("save snapshot", fmt.Errorf("%w: %w", ErrEncodingPayload, err))
	}

	m.mu.Lock()
	m.snapshots[snapshotKey{userID: userID, kind: kind}] = payload
	m.mu.Unlock()

	return nil
}

func (m *memoryStore) LoadSnapshot(ctx context.Context, userID string, kind models.EntityKind) (models.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, false, storageError("load snapshot", err)
	}

	m.mu.RLock()
	payload, ok := m.snapshots[snapshotKey{userID: userID, kind: kind}]
	m.mu.RUnlock()
	if !ok {
		return models.Snapshot{}, false, nil
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return models.Snapshot{}, false, storageError("load snapshot", fmt.Errorf("%w: %w", ErrDecodingPayload, err))
	}
	return snapshot, true, nil
}

func (m *memoryStore) Clear(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return storageError("clear cache", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.snapshots {
		if key.userID == userID {
			delete(m.snapshots, key)
		}
	}

	kept := m.ops[:0]
	for _, op := range m.ops {
		if op.UserID != userID {
			kept = append(kept, op)
		}
	}
	m.ops = kept

	return nil
}

func (m *memoryStore) AppendOperation(ctx context.Context, op models.PendingOperation) (models.PendingOperation, error) {
	if err := ctx.Err(); err != nil {
		return models.PendingOperation{}, storageError("append operation", err)
	}
	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	op.ID = m.nextID
	m.nextID++
	m.ops = append(m.ops, cloneOperation(op))

	return op, nil
}

func (m *memoryStore) ListOperations(ctx context.Context, userID string, kind models.EntityKind) ([]models.PendingOperation, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("list operations", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ops := make([]models.PendingOperation, 0, len(m.ops))
	for _, op := range m.ops {
		if op.UserID == userID && op.EntityKind == kind {
			ops = append(ops, cloneOperation(op))
		}
	}
	return ops, nil
}

func (m *memoryStore) ReplaceOperation(ctx context.Context, op models.PendingOperation) error {
	if err := ctx.Err(); err != nil {
		return storageError("replace operation", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.ops {
		if m.ops[i].ID == op.ID && m.ops[i].UserID == op.UserID {
			m.ops[i].Kind = op.Kind
			m.ops[i].TargetID = op.TargetID
			m.ops[i].Payload = append(json.RawMessage(nil), op.Payload...)
			return nil
		}
	}
	return storageError("replace operation", fmt.Errorf("%w: %d", ErrOperationNotFound, op.ID))
}

func (m *memoryStore) RemoveOperation(ctx context.Context, userID string, id int64) error {
	if err := ctx.Err(); err != nil {
		return storageError("remove operation", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.ops {
		if m.ops[i].ID == id && m.ops[i].UserID == userID {
			m.ops = append(m.ops[:i], m.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}

func cloneOperation(op models.PendingOperation) models.PendingOperation {
	if op.Payload != nil {
		op.Payload = append(json.RawMessage(nil), op.Payload...)
	}
	return op
}
