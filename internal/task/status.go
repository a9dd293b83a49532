package task

import (
	"errors"
	"fmt"
)

// Status is the task lifecycle state. The set is closed; anything outside the
// four constants is rejected at the boundary with [ErrInvalidStatus].
type Status string

// Status constants.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusWaiting    Status = "waiting"
	StatusCompleted  Status = "completed"
)

// ErrInvalidStatus reports a status value outside the four-state enum.
var ErrInvalidStatus = errors.New("invalid status")

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusWaiting, StatusCompleted:
		return true
	default:
		return false
	}
}

// Active reports whether s counts toward priority ordering.
// Completed tasks sort by completion time instead.
func (s Status) Active() bool {
	return s.Valid() && s != StatusCompleted
}

// ParseStatus converts a raw string into a [Status].
// Returns [ErrInvalidStatus] for anything outside the enum.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}

	return s, nil
}
