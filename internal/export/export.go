// Package export renders task snapshots to files. Writes go through an
// atomic rename so a crash mid-export never leaves a truncated file.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"taskdeck/internal/task"
)

// Format selects the export rendering.
type Format string

// Supported formats.
const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ErrUnknownFormat reports an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat validates a raw format string.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatCSV, FormatMarkdown, FormatText:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("%w: %q (want csv, markdown, or text)", ErrUnknownFormat, raw)
	}
}

// WriteFile renders tasks in the given format and writes them to path
// atomically.
func WriteFile(path string, format Format, tasks []*task.Task) error {
	content, err := Render(format, tasks)
	if err != nil {
		return err
	}

	err = atomic.WriteFile(path, strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}

	return nil
}

// Render produces the export document for tasks in the given format.
func Render(format Format, tasks []*task.Task) (string, error) {
	switch format {
	case FormatCSV:
		return renderCSV(tasks)
	case FormatMarkdown:
		return renderMarkdown(tasks), nil
	case FormatText:
		return renderText(tasks), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderCSV(tasks []*task.Task) (string, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	header := []string{
		"id", "content", "priority", "status",
		"created_at", "completed_at", "scheduled_for", "tags",
	}

	err := writer.Write(header)
	if err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}

	for _, tsk := range tasks {
		completed := ""
		if tsk.CompletedAt != nil {
			completed = tsk.CompletedAt.UTC().Format(time.RFC3339)
		}

		record := []string{
			tsk.ID,
			tsk.Content,
			strconv.Itoa(tsk.Priority),
			string(tsk.Status),
			tsk.CreatedAt.UTC().Format(time.RFC3339),
			completed,
			tsk.ScheduledFor,
			strings.Join(tsk.Tags, " "),
		}

		err = writer.Write(record)
		if err != nil {
			return "", fmt.Errorf("render csv: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}

	return buf.String(), nil
}

func renderMarkdown(tasks []*task.Task) string {
	var builder strings.Builder

	builder.WriteString("# Tasks\n\n")

	for _, tsk := range tasks {
		box := " "
		if tsk.Status == task.StatusCompleted {
			box = "x"
		}

		builder.WriteString(fmt.Sprintf("- [%s] %s", box, tsk.Content))

		if tsk.Status != task.StatusCompleted && tsk.Status != task.StatusPending {
			builder.WriteString(fmt.Sprintf(" *(%s)*", tsk.Status))
		}

		if tsk.ScheduledFor != "" {
			builder.WriteString(fmt.Sprintf(" (scheduled: %s)", tsk.ScheduledFor))
		}

		builder.WriteString("\n")
	}

	return builder.String()
}

func renderText(tasks []*task.Task) string {
	var builder strings.Builder

	for _, tsk := range tasks {
		builder.WriteString(fmt.Sprintf("%d\t%s\t%s\n", tsk.Priority, tsk.Status, tsk.Content))
	}

	return builder.String()
}
