package cli

import (
	"context"
	"fmt"

	"taskdeck/internal/store"
)

func cmdRm(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td rm <id>")
		o.Println("")
		o.Println("Delete a task permanently.")

		return nil
	}

	if len(args) == 0 {
		return errIDRequired
	}

	tsk, err := resolveTask(ctx, s, args[0])
	if err != nil {
		return err
	}

	deleted, err := s.DeleteTask(ctx, tsk.ID)
	if err != nil {
		return err
	}

	if !deleted {
		return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
	}

	o.Println("deleted", tsk.ID)

	return nil
}
