package cli

import (
	"context"

	"taskdeck/internal/store"
)

func cmdReorder(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td reorder <id> [id...]")
		o.Println("")
		o.Println("Reassign priorities 0..n-1 in the order given. Accepts unique")
		o.Println("ID prefixes. Tasks not listed keep their current priority.")

		return nil
	}

	if len(args) == 0 {
		return errIDRequired
	}

	ids := make([]string, 0, len(args))

	for _, ref := range args {
		tsk, err := resolveTask(ctx, s, ref)
		if err != nil {
			return err
		}

		ids = append(ids, tsk.ID)
	}

	err := s.UpdateTaskPriorities(ctx, ids)
	if err != nil {
		return err
	}

	active, err := s.GetAllActiveTasks(ctx)
	if err != nil {
		return err
	}

	for _, tsk := range active {
		o.Println(formatTaskLine(tsk))
	}

	return nil
}
