// Package task holds the task domain entity: content-derived field extraction
// and the status state machine. It is pure; persistence lives in
// internal/store.
package task

import (
	"time"

	"github.com/google/uuid"
)

// DayFormat is the layout for ScheduledFor values (day granularity).
const DayFormat = "2006-01-02"

// Task is the single persisted entity. Content is the source of truth:
// ExtractedURLs and Tags are always exactly the re-derivation of the current
// Content and must never diverge from it at rest. Every path that mutates
// Content re-derives both in the same operation.
type Task struct {
	ID            string     // UUID, immutable, assigned at creation.
	Content       string     // Free text; URLs and tags derive from it.
	Priority      int        // Rank among active tasks, 0 = shown first.
	Status        Status     // One of the four lifecycle states.
	CreatedAt     time.Time  // UTC.
	UpdatedAt     time.Time  // UTC, bumped on every mutation.
	CompletedAt   *time.Time // Present iff Status == StatusCompleted.
	ScheduledFor  string     // Day string (DayFormat), empty when unscheduled.
	ExtractedURLs []string   // Derived from Content, order of appearance.
	Tags          []string   // Derived from Content, lower-cased, order of appearance.
}

// New constructs a task from content. URLs and tags are always recomputed
// from content; callers cannot supply them. Status starts at pending and the
// priority is left at zero for the repository to assign.
func New(content string) *Task {
	now := time.Now().UTC()

	return &Task{
		ID:            uuid.NewString(),
		Content:       content,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		ExtractedURLs: ExtractURLs(content),
		Tags:          ExtractTags(content),
	}
}

// SetStatus transitions the task to status. Every transition between valid
// states is legal, including self-transitions; only values outside the enum
// fail, with [ErrInvalidStatus]. Completing sets CompletedAt; leaving
// completed clears it.
func (t *Task) SetStatus(status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	t.Status = status

	if status == StatusCompleted {
		now := time.Now().UTC()
		t.CompletedAt = &now
	} else if t.CompletedAt != nil {
		t.CompletedAt = nil
	}

	t.UpdatedAt = time.Now().UTC()

	return nil
}

// Complete is shorthand for SetStatus(StatusCompleted).
func (t *Task) Complete() {
	_ = t.SetStatus(StatusCompleted)
}

// SetContent replaces the content and re-derives URLs and tags in the same
// operation so stale extractions never survive an edit. Emptiness is not
// checked here; the repository enforces that on update.
func (t *Task) SetContent(content string) {
	t.Content = content
	t.ExtractedURLs = ExtractURLs(content)
	t.Tags = ExtractTags(content)
	t.UpdatedAt = time.Now().UTC()
}

// Schedule sets the day the task is scheduled for.
func (t *Task) Schedule(day time.Time) {
	t.ScheduledFor = day.Format(DayFormat)
	t.UpdatedAt = time.Now().UTC()
}

// SetPriority sets the ordering rank. Persistence is the repository's job.
func (t *Task) SetPriority(priority int) {
	t.Priority = priority
	t.UpdatedAt = time.Now().UTC()
}
