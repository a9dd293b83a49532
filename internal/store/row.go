package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"taskdeck/internal/task"
)

// taskColumns is the canonical column order for every SELECT. scanTask must
// stay in sync with it.
const taskColumns = `id, content, priority, status, created_at, completed_at,
	scheduled_for, updated_at, extracted_urls, tags`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask converts a row into a task entity, validating the status against
// the closed enum at the boundary. List columns decode from their stored JSON
// arrays; absent or empty values decode to empty slices, not errors.
func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t            task.Task
		status       string
		createdAt    string
		updatedAt    string
		completedAt  sql.NullString
		scheduledFor sql.NullString
		urlsJSON     string
		tagsJSON     string
	)

	err := row.Scan(
		&t.ID,
		&t.Content,
		&t.Priority,
		&status,
		&createdAt,
		&completedAt,
		&scheduledFor,
		&updatedAt,
		&urlsJSON,
		&tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	t.Status, err = task.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", t.ID, err)
	}

	t.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, fmt.Errorf("row %s: created_at: %w", t.ID, err)
	}

	t.UpdatedAt, err = parseRFC3339(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("row %s: updated_at: %w", t.ID, err)
	}

	if completedAt.Valid && completedAt.String != "" {
		parsed, parseErr := parseRFC3339(completedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("row %s: completed_at: %w", t.ID, parseErr)
		}

		t.CompletedAt = &parsed
	}

	if scheduledFor.Valid {
		t.ScheduledFor = scheduledFor.String
	}

	t.ExtractedURLs, err = decodeStringList(urlsJSON)
	if err != nil {
		return nil, fmt.Errorf("row %s: extracted_urls: %w", t.ID, err)
	}

	t.Tags, err = decodeStringList(tagsJSON)
	if err != nil {
		return nil, fmt.Errorf("row %s: tags: %w", t.ID, err)
	}

	return &t, nil
}

// rowArgs returns the INSERT/UPDATE bind values for t in taskColumns order.
func rowArgs(t *task.Task) ([]any, error) {
	urls, err := encodeStringList(t.ExtractedURLs)
	if err != nil {
		return nil, fmt.Errorf("encode extracted_urls: %w", err)
	}

	tags, err := encodeStringList(t.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	return []any{
		t.ID,
		t.Content,
		t.Priority,
		string(t.Status),
		formatRFC3339(t.CreatedAt),
		nullableTime(t.CompletedAt),
		nullableString(t.ScheduledFor),
		formatRFC3339(t.UpdatedAt),
		urls,
		tags,
	}, nil
}

// encodeStringList serializes values as an order-preserving JSON array of
// strings. A nil slice encodes as the empty array, never as null.
func encodeStringList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal string list: %w", err)
	}

	return string(encoded), nil
}

func decodeStringList(raw string) ([]string, error) {
	if raw == "" || raw == "null" {
		return []string{}, nil
	}

	var values []string

	err := json.Unmarshal([]byte(raw), &values)
	if err != nil {
		return nil, fmt.Errorf("unmarshal string list: %w", err)
	}

	if values == nil {
		values = []string{}
	}

	return values, nil
}

func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseRFC3339(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time: %w", err)
	}

	return t.UTC(), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return formatRFC3339(*t)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}
