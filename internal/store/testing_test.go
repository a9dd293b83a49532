package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

// openStore opens a fresh store in a temp dir and returns it with the
// database path for raw inspection.
func openStore(t *testing.T) (*store.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.db")

	s, err := store.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

// openRawDB opens a second connection directly against the database file so
// tests can inspect or doctor rows without going through the repository.
func openRawDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// setCompletedAt pins a completed task's timestamp so ordering and range
// tests are deterministic at second granularity.
func setCompletedAt(t *testing.T, db *sql.DB, id, ts string) {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		"UPDATE tasks SET completed_at = ? WHERE id = ?", ts, id)
	if err != nil {
		t.Fatalf("set completed_at: %v", err)
	}
}

// mustDay parses a day string in task.DayFormat.
func mustDay(t *testing.T, day string) time.Time {
	t.Helper()

	parsed, err := time.Parse(task.DayFormat, day)
	if err != nil {
		t.Fatalf("parse day %q: %v", day, err)
	}

	return parsed
}

// taskIDs projects tasks to their ids for order assertions.
func taskIDs(tasks []*task.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	return ids
}
