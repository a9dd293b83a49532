package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"taskdeck/internal/task"
)

// allTasksOrder is the sort contract for "all tasks" views: active tasks by
// ascending priority, completed tasks always after them (synthetic sort key)
// and among themselves by most recent completion first.
const allTasksOrder = ` ORDER BY
	CASE WHEN status = 'completed' THEN 1 ELSE 0 END,
	CASE WHEN status = 'completed' THEN 0 ELSE priority END,
	completed_at DESC`

// queryTasks runs a SELECT returning taskColumns and scans all rows.
func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := s.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	defer func() { _ = rows.Close() }()

	tasks := make([]*task.Task, 0)

	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("query tasks: %w", scanErr)
		}

		tasks = append(tasks, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("query tasks: rows: %w", err)
	}

	return tasks, nil
}

// GetAllTasks returns every task in display order.
func (s *Store) GetAllTasks(ctx context.Context) ([]*task.Task, error) {
	return s.queryTasks(ctx, "SELECT "+taskColumns+" FROM tasks"+allTasksOrder)
}

// GetAllPendingTasks returns pending tasks by ascending priority.
func (s *Store) GetAllPendingTasks(ctx context.Context) ([]*task.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE status = ? ORDER BY priority",
		string(task.StatusPending))
}

// GetAllActiveTasks returns all non-completed tasks by ascending priority.
// This ordering is the basis for MoveTask's positional reindex.
func (s *Store) GetAllActiveTasks(ctx context.Context) ([]*task.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE status != ? ORDER BY priority",
		string(task.StatusCompleted))
}

// GetTasksByStatus returns tasks with the given status: completed ones by
// most recent completion, everything else by ascending priority.
func (s *Store) GetTasksByStatus(ctx context.Context, status task.Status) ([]*task.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("tasks by status: %w", task.ErrInvalidStatus)
	}

	order := " ORDER BY priority"
	if status == task.StatusCompleted {
		order = " ORDER BY completed_at DESC"
	}

	return s.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE status = ?"+order,
		string(status))
}

// GetTasksGroupedByStatus returns all tasks bucketed by status. Every status
// key is present, empty buckets included; order within a bucket follows
// GetAllTasks.
func (s *Store) GetTasksGroupedByStatus(ctx context.Context) (map[task.Status][]*task.Task, error) {
	all, err := s.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	grouped := map[task.Status][]*task.Task{
		task.StatusPending:    {},
		task.StatusInProgress: {},
		task.StatusWaiting:    {},
		task.StatusCompleted:  {},
	}

	for _, t := range all {
		grouped[t.Status] = append(grouped[t.Status], t)
	}

	return grouped, nil
}

// GetCompletedInRange returns tasks completed between start and end,
// inclusive of both bounds, most recent first.
func (s *Store) GetCompletedInRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE status = ? AND completed_at >= ? AND completed_at <= ?
		ORDER BY completed_at DESC`,
		string(task.StatusCompleted), formatRFC3339(start), formatRFC3339(end))
}

// GetTasksFilteredByWorkPersonal returns tasks matching the work/personal
// filter. "both" returns everything. The filter is a substring containment
// check against the serialized tag list, matching the stored JSON encoding,
// not exact set membership.
func (s *Store) GetTasksFilteredByWorkPersonal(ctx context.Context, filter string) ([]*task.Task, error) {
	switch filter {
	case "both":
		return s.GetAllTasks(ctx)
	case "work", "personal":
		return s.queryTasks(ctx,
			"SELECT "+taskColumns+" FROM tasks WHERE tags LIKE ?"+allTasksOrder,
			`%"`+filter+`"%`)
	default:
		return nil, fmt.Errorf("filter tasks: %w: %q", ErrInvalidFilter, filter)
	}
}

// GetTasksByTag returns tasks whose serialized tag list contains tag, in
// display order. Same containment heuristic as the work/personal filter.
func (s *Store) GetTasksByTag(ctx context.Context, tag string) ([]*task.Task, error) {
	return s.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE tags LIKE ?"+allTasksOrder,
		`%"`+tag+`"%`)
}

// GetAllTags returns the distinct tags across all tasks, sorted.
func (s *Store) GetAllTags(ctx context.Context) ([]string, error) {
	rows, err := s.sql.QueryContext(ctx, "SELECT tags FROM tasks")
	if err != nil {
		return nil, fmt.Errorf("all tags: %w", err)
	}

	defer func() { _ = rows.Close() }()

	seen := make(map[string]bool)
	tags := make([]string, 0)

	for rows.Next() {
		var raw string

		scanErr := rows.Scan(&raw)
		if scanErr != nil {
			return nil, fmt.Errorf("all tags: scan: %w", scanErr)
		}

		decoded, decErr := decodeStringList(raw)
		if decErr != nil {
			return nil, fmt.Errorf("all tags: %w", decErr)
		}

		for _, tag := range decoded {
			if seen[tag] {
				continue
			}

			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("all tags: rows: %w", err)
	}

	sort.Strings(tags)

	return tags, nil
}
