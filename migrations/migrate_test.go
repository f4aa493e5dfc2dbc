// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateServer_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // goose talks to the DB itself; no expectations means every query fails

	err = MigrateServer(db)
	if err == nil {
		t.Fatal("expected error from MigrateServer, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	for name, fn := range map[string]func(*sql.DB) error{
		"server": MigrateServer,
		"client": MigrateClient,
	} {
		t.Run(name, func(t *testing.T) {
			err := fn(db)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "db is nil")
		})
	}
}

func TestMigrateClient_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateClient(db))
	// Up is idempotent.
	require.NoError(t, MigrateClient(db))

	for _, table := range []string{"snapshots", "pending_operations"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}
