package cli

import (
	"context"
	"fmt"

	"taskdeck/internal/store"
)

func cmdMv(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td mv <id> <up|down>")
		o.Println("")
		o.Println("Move an active task one slot in the priority order. Moving past")
		o.Println("the boundary is a no-op.")

		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("mv requires a task id and a direction (up|down)")
	}

	tsk, err := resolveTask(ctx, s, args[0])
	if err != nil {
		return err
	}

	direction, err := store.ParseDirection(args[1])
	if err != nil {
		return err
	}

	moved, err := s.MoveTask(ctx, tsk.ID, direction)
	if err != nil {
		return err
	}

	if moved == nil {
		return fmt.Errorf("%w: %s (completed tasks cannot move)", errTaskNotFound, args[0])
	}

	o.Println(formatTaskLine(moved))

	return nil
}
