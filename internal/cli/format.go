package cli

import (
	"context"
	"fmt"
	"strings"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

const shortIDLen = 8

// statusGlyph maps each status to the checkbox shown in list output.
func statusGlyph(status task.Status) string {
	switch status {
	case task.StatusInProgress:
		return "[>]"
	case task.StatusWaiting:
		return "[~]"
	case task.StatusCompleted:
		return "[x]"
	case task.StatusPending:
		return "[ ]"
	default:
		return "[?]"
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}

	return id[:shortIDLen]
}

func formatTaskLine(tsk *task.Task) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%3d ", tsk.Priority))
	builder.WriteString(statusGlyph(tsk.Status))
	builder.WriteString(" ")
	builder.WriteString(shortID(tsk.ID))
	builder.WriteString("  ")
	builder.WriteString(tsk.Content)

	if tsk.ScheduledFor != "" {
		builder.WriteString(" (scheduled: ")
		builder.WriteString(tsk.ScheduledFor)
		builder.WriteString(")")
	}

	return builder.String()
}

func printTaskDetail(o *IO, tsk *task.Task) {
	o.Println("id:       ", tsk.ID)
	o.Println("content:  ", tsk.Content)
	o.Println("status:   ", string(tsk.Status))
	o.Println("priority: ", tsk.Priority)
	o.Println("created:  ", tsk.CreatedAt.Format("2006-01-02 15:04:05"))
	o.Println("updated:  ", tsk.UpdatedAt.Format("2006-01-02 15:04:05"))

	if tsk.CompletedAt != nil {
		o.Println("completed:", tsk.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	if tsk.ScheduledFor != "" {
		o.Println("scheduled:", tsk.ScheduledFor)
	}

	if len(tsk.Tags) > 0 {
		o.Println("tags:     ", strings.Join(tsk.Tags, ", "))
	}

	for _, url := range tsk.ExtractedURLs {
		o.Println("url:      ", url)
	}
}

// resolveTask looks a task up by full ID first, then by unique ID prefix so
// the short IDs shown in ls output are usable as arguments.
func resolveTask(ctx context.Context, s *store.Store, ref string) (*task.Task, error) {
	if ref == "" {
		return nil, errIDRequired
	}

	exact, err := s.GetTaskByID(ctx, ref)
	if err != nil {
		return nil, err
	}

	if exact != nil {
		return exact, nil
	}

	all, err := s.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	var match *task.Task

	for _, candidate := range all {
		if !strings.HasPrefix(candidate.ID, ref) {
			continue
		}

		if match != nil {
			return nil, fmt.Errorf("ambiguous task id prefix: %s", ref)
		}

		match = candidate
	}

	if match == nil {
		return nil, fmt.Errorf("%w: %s", errTaskNotFound, ref)
	}

	return match, nil
}
