package cli

import (
	"context"
	"fmt"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

// commandStatus maps status subcommand names to the status they set.
var commandStatus = map[string]task.Status{
	"done":    task.StatusCompleted,
	"start":   task.StatusInProgress,
	"wait":    task.StatusWaiting,
	"pending": task.StatusPending,
}

func cmdSetStatus(ctx context.Context, o *IO, s *store.Store, cmd string, args []string) error {
	status := commandStatus[cmd]

	if hasHelpFlag(args) {
		o.Printf("Usage: td %s <id>\n\n", cmd)
		o.Printf("Set a task's status to %s. Accepts a unique ID prefix.\n", status)

		return nil
	}

	if len(args) == 0 {
		return errIDRequired
	}

	tsk, err := resolveTask(ctx, s, args[0])
	if err != nil {
		return err
	}

	updated, err := s.ChangeTaskStatus(ctx, tsk.ID, status)
	if err != nil {
		return err
	}

	if updated == nil {
		return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
	}

	o.Println(formatTaskLine(updated))

	return nil
}
