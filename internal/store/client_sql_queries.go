// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	upsertSnapshot = `
		INSERT INTO snapshots (user_id, entity_kind, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, entity_kind) DO UPDATE
		SET payload = excluded.payload,
			saved_at = excluded.saved_at;`

	getSnapshot = `
		SELECT payload
		FROM snapshots
		WHERE user_id = ? AND entity_kind = ?;`

	deleteUserSnapshots = `
		DELETE FROM snapshots
		WHERE user_id = ?;`

	deleteUserOperations = `
		DELETE FROM pending_operations
		WHERE user_id = ?;`

	insertOperation = `
		INSERT INTO pending_operations (user_id, entity_kind, kind, target_id, payload, enqueued_at)
		VALUES (?, ?, ?, ?, ?, ?);`

	listOperations = `
		SELECT id, user_id, entity_kind, kind, target_id, payload, enqueued_at
		FROM pending_operations
		WHERE user_id = ? AND entity_kind = ?
		ORDER BY id ASC;`

	replaceOperation = `
		UPDATE pending_operations
		SET kind = ?, target_id = ?, payload = ?
		WHERE id = ? AND user_id = ?;`

	removeOperation = `
		DELETE FROM pending_operations
		WHERE id = ? AND user_id = ?;`
)
