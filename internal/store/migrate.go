package store

import (
	"context"
	"database/sql"
	"fmt"

	"taskdeck/internal/task"
)

// schemaVersion is stored in SQLite's user_version pragma. Migrations run
// forward only, each inside its own transaction, gated by the monotonic
// version counter so every step applies at most once.
const schemaVersion = 2

type migration struct {
	version int
	apply   func(ctx context.Context, tx *sql.Tx) error
}

// migrations in ascending version order. Version 1 is the original schema
// without the tags column; version 2 adds tags and backfills legacy rows.
var migrations = []migration{
	{version: 1, apply: migrateCreateTasks},
	{version: 2, apply: migrateAddTags},
}

func migrate(ctx context.Context, db *sql.DB) error {
	version, err := userVersion(ctx, db)
	if err != nil {
		return err
	}

	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}

		err = applyMigration(ctx, db, m)
		if err != nil {
			return fmt.Errorf("migrate to version %d: %w", m.version, err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = m.apply(ctx, tx)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version))
	if err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	committed = true

	return nil
}

// userVersion reads the current SQLite PRAGMA user_version.
func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	row := db.QueryRowContext(ctx, "PRAGMA user_version")

	var version int

	err := row.Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}

	return version, nil
}

// migrateCreateTasks creates the v1 tasks table. The tags column arrives in
// v2, so fresh databases pass through the same path legacy ones took.
func migrateCreateTasks(ctx context.Context, tx *sql.Tx) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			priority INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			completed_at TEXT,
			scheduled_for TEXT,
			updated_at TEXT NOT NULL,
			extracted_urls TEXT NOT NULL DEFAULT '[]'
		)`,
		"CREATE INDEX IF NOT EXISTS idx_tasks_status_priority ON tasks(status, priority)",
		"CREATE INDEX IF NOT EXISTS idx_tasks_completed_at ON tasks(completed_at)",
	}

	for _, stmt := range statements {
		_, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return nil
}

// migrateAddTags adds the tags column and backfills it from content. Rows
// whose content carries no hashtag get a default work tag, with " #work"
// appended to the content so the consistency invariant holds afterwards.
func migrateAddTags(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `ALTER TABLE tasks ADD COLUMN tags TEXT NOT NULL DEFAULT '[]'`)
	if err != nil {
		return fmt.Errorf("add tags column: %w", err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT id, content FROM tasks")
	if err != nil {
		return fmt.Errorf("read legacy rows: %w", err)
	}

	defer func() { _ = rows.Close() }()

	type legacyRow struct {
		id      string
		content string
	}

	legacy := make([]legacyRow, 0)

	for rows.Next() {
		var r legacyRow

		scanErr := rows.Scan(&r.id, &r.content)
		if scanErr != nil {
			return fmt.Errorf("scan legacy row: %w", scanErr)
		}

		legacy = append(legacy, r)
	}

	err = rows.Err()
	if err != nil {
		return fmt.Errorf("read legacy rows: %w", err)
	}

	for _, r := range legacy {
		content := r.content

		tags := task.ExtractTags(content)
		if len(tags) == 0 {
			content += " #work"
			tags = task.ExtractTags(content)
		}

		encoded, encErr := encodeStringList(tags)
		if encErr != nil {
			return fmt.Errorf("encode tags for %s: %w", r.id, encErr)
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE tasks SET content = ?, tags = ? WHERE id = ?",
			content, encoded, r.id)
		if err != nil {
			return fmt.Errorf("backfill tags for %s: %w", r.id, err)
		}
	}

	return nil
}
