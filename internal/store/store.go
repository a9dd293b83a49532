// Package store is the persistence layer for tasks: a single-table SQLite
// database behind a repository surface. Every access path to persisted tasks
// goes through [Store]; callers never touch the database directly.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Store owns the single long-lived SQLite handle. It holds no task data
// itself; it translates between [task.Task] and rows and enforces the
// ordering and re-derivation guarantees of the repository surface.
type Store struct {
	path string
	sql  *sql.DB
}

// Open opens (or creates) the task database at path and runs any pending
// forward migrations. The connection is released by exactly one Close call.
func Open(ctx context.Context, path string) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("open store: context is nil")
	}

	if path == "" {
		return nil, errors.New("open store: path is empty")
	}

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return nil, fmt.Errorf("open store: create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open store: ping sqlite: %w", err)
	}

	err = applyPragmas(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open store: %w", err)
	}

	err = migrate(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Store{path: path, sql: db}, nil
}

// sqliteBusyTimeout is the time SQLite waits when another process holds the
// database lock (CLI and desktop shell may be open at once). After this,
// operations return SQLITE_BUSY.
const sqliteBusyTimeout = 10000 // milliseconds

// applyPragmas configures the SQLite connection.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	statements := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", sqliteBusyTimeout),
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}

	for _, stmt := range statements {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply pragma %q: %w", stmt, err)
		}
	}

	return nil
}

// Close releases the SQLite handle opened by Open. Safe to call on a nil or
// already-closed store.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}

	db := s.sql
	s.sql = nil

	err := db.Close()
	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}

	return nil
}
