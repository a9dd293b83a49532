package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/task"
)

// Direction selects where MoveTask shifts a task inside the active ordering.
type Direction string

// Move directions.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a raw direction string.
func ParseDirection(raw string) (Direction, error) {
	switch Direction(raw) {
	case DirectionUp, DirectionDown:
		return Direction(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// CreateTask constructs a task from content, assigns it the next pending
// priority (max pending priority + 1, or 0 when no pending tasks exist),
// persists it, and returns it. Content is accepted as given: creation does
// not validate emptiness, only updates do.
//
// scheduledFor is an optional day string in [task.DayFormat]; empty means
// unscheduled.
func (s *Store) CreateTask(ctx context.Context, content, scheduledFor string) (*task.Task, error) {
	t := task.New(content)
	t.ScheduledFor = scheduledFor

	row := s.sql.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(priority) + 1, 0) FROM tasks WHERE status = ?",
		string(task.StatusPending))

	err := row.Scan(&t.Priority)
	if err != nil {
		return nil, fmt.Errorf("create task: next priority: %w", err)
	}

	args, err := rowArgs(t)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	_, err = s.sql.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return nil, fmt.Errorf("create task: insert: %w", err)
	}

	return t, nil
}

// GetTaskByID returns the task with the given id, or (nil, nil) when no row
// matches. A missing id is never an error.
func (s *Store) GetTaskByID(ctx context.Context, id string) (*task.Task, error) {
	row := s.sql.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return t, nil
}

// UpdateTaskContent replaces a task's content and re-derives its URLs and
// tags in the same operation, so stale extractions never survive an edit.
//
// Empty or whitespace-only content fails with [ErrEmptyContent] before the
// lookup is even attempted. An unknown id returns (nil, nil).
func (s *Store) UpdateTaskContent(ctx context.Context, id, content string) (*task.Task, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("update task content: %w", ErrEmptyContent)
	}

	t, err := s.GetTaskByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}

	t.SetContent(content)

	urls, err := encodeStringList(t.ExtractedURLs)
	if err != nil {
		return nil, fmt.Errorf("update task content: %w", err)
	}

	tags, err := encodeStringList(t.Tags)
	if err != nil {
		return nil, fmt.Errorf("update task content: %w", err)
	}

	_, err = s.sql.ExecContext(ctx, `
		UPDATE tasks
		SET content = ?, extracted_urls = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		t.Content, urls, tags, formatRFC3339(t.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("update task content: %w", err)
	}

	return t, nil
}

// ChangeTaskStatus transitions the task to status and persists the result.
// Values outside the enum fail with [task.ErrInvalidStatus] before any write.
// An unknown id returns (nil, nil).
func (s *Store) ChangeTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("change task status: %w", task.ErrInvalidStatus)
	}

	t, err := s.GetTaskByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}

	err = t.SetStatus(status)
	if err != nil {
		return nil, fmt.Errorf("change task status: %w", err)
	}

	_, err = s.sql.ExecContext(ctx, `
		UPDATE tasks
		SET status = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		string(t.Status), nullableTime(t.CompletedAt), formatRFC3339(t.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("change task status: %w", err)
	}

	return t, nil
}

// MarkCompleted is sugar for ChangeTaskStatus(id, completed).
func (s *Store) MarkCompleted(ctx context.Context, id string) (*task.Task, error) {
	return s.ChangeTaskStatus(ctx, id, task.StatusCompleted)
}

// MarkInProgress is sugar for ChangeTaskStatus(id, in_progress).
func (s *Store) MarkInProgress(ctx context.Context, id string) (*task.Task, error) {
	return s.ChangeTaskStatus(ctx, id, task.StatusInProgress)
}

// MarkWaiting is sugar for ChangeTaskStatus(id, waiting).
func (s *Store) MarkWaiting(ctx context.Context, id string) (*task.Task, error) {
	return s.ChangeTaskStatus(ctx, id, task.StatusWaiting)
}

// MarkPending is sugar for ChangeTaskStatus(id, pending).
func (s *Store) MarkPending(ctx context.Context, id string) (*task.Task, error) {
	return s.ChangeTaskStatus(ctx, id, task.StatusPending)
}

// ScheduleTask sets the day a task is scheduled for and persists it.
// An unknown id returns (nil, nil).
func (s *Store) ScheduleTask(ctx context.Context, id string, day time.Time) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}

	t.Schedule(day)

	_, err = s.sql.ExecContext(ctx, `
		UPDATE tasks
		SET scheduled_for = ?, updated_at = ?
		WHERE id = ?`,
		nullableString(t.ScheduledFor), formatRFC3339(t.UpdatedAt), id)
	if err != nil {
		return nil, fmt.Errorf("schedule task: %w", err)
	}

	return t, nil
}

// MoveTask shifts a task one slot up or down among the active tasks ordered
// by ascending priority. Boundary moves clamp silently: moving the topmost
// task up (or the bottom task down) returns the task unchanged with zero
// writes. A task absent from the active set, completed tasks included,
// returns (nil, nil).
//
// Any actual move reassigns every active task's priority to its 0-based
// position in one transaction, so priorities stay a dense, gap-free ranking
// of the display order. The freshly reloaded task is returned.
func (s *Store) MoveTask(ctx context.Context, id string, direction Direction) (*task.Task, error) {
	var step int

	switch direction {
	case DirectionUp:
		step = -1
	case DirectionDown:
		step = 1
	default:
		return nil, fmt.Errorf("move task: %w: %q", ErrInvalidDirection, direction)
	}

	active, err := s.GetAllActiveTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("move task: %w", err)
	}

	index := -1

	for i, t := range active {
		if t.ID == id {
			index = i

			break
		}
	}

	if index == -1 {
		return nil, nil
	}

	target := index + step
	if target < 0 {
		target = 0
	}

	if target > len(active)-1 {
		target = len(active) - 1
	}

	if target == index {
		return active[index], nil
	}

	moved := active[index]
	active = append(active[:index], active[index+1:]...)
	active = append(active[:target], append([]*task.Task{moved}, active[target:]...)...)

	err = s.reindexPriorities(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("move task: %w", err)
	}

	return s.GetTaskByID(ctx, id)
}

// reindexPriorities assigns each task's priority to its slice position inside
// a single transaction, so readers never observe a partial reordering.
func (s *Store) reindexPriorities(ctx context.Context, ordered []*task.Task) error {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE tasks SET priority = ?, updated_at = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}

	defer func() { _ = stmt.Close() }()

	now := formatRFC3339(time.Now().UTC())

	for i, t := range ordered {
		_, err = stmt.ExecContext(ctx, i, now, t.ID)
		if err != nil {
			return fmt.Errorf("reindex %s: %w", t.ID, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	committed = true

	return nil
}

// UpdateTaskPriorities sets each task's priority to its position in ids,
// bumping updated_at, atomically. The sequence is applied as given: ids not
// in storage are silent no-ops, and tasks omitted from ids keep their old
// priority, which can leave duplicate or gapped values.
func (s *Store) UpdateTaskPriorities(ctx context.Context, ids []string) error {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update priorities: begin: %w", err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE tasks SET priority = ?, updated_at = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("update priorities: prepare: %w", err)
	}

	defer func() { _ = stmt.Close() }()

	now := formatRFC3339(time.Now().UTC())

	for i, id := range ids {
		_, err = stmt.ExecContext(ctx, i, now, id)
		if err != nil {
			return fmt.Errorf("update priorities: %s: %w", id, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("update priorities: commit: %w", err)
	}

	committed = true

	return nil
}

// DeleteTask hard-deletes a task and reports whether a row was removed.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	res, err := s.sql.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete task: rows affected: %w", err)
	}

	return affected > 0, nil
}
