// Package migrations embeds the goose schema migrations of the remote store
// (Postgres) and of the client-side cache (SQLite).
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed server/*.sql client/*.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

// goose keeps base FS and dialect in package state.
var gooseMu sync.Mutex

// MigrateServer applies the remote store schema to a Postgres database.
func MigrateServer(db *sql.DB) error {
	return migrate(db, "pgx", "server")
}

// MigrateClient applies the local cache schema to a SQLite database.
func MigrateClient(db *sql.DB) error {
	return migrate(db, "sqlite3", "client")
}

func migrate(db *sql.DB, dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
