package cli

import (
	"context"

	"taskdeck/internal/store"
)

func cmdShow(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td show <id>")
		o.Println("")
		o.Println("Show full details for one task. Accepts a unique ID prefix.")

		return nil
	}

	if len(args) == 0 {
		return errIDRequired
	}

	tsk, err := resolveTask(ctx, s, args[0])
	if err != nil {
		return err
	}

	printTaskDetail(o, tsk)

	return nil
}
