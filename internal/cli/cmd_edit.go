package cli

import (
	"context"
	"fmt"
	"strings"

	"taskdeck/internal/store"
)

func cmdEdit(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td edit <id> <content>")
		o.Println("")
		o.Println("Replace a task's content. Tags and URLs are re-derived.")

		return nil
	}

	if len(args) == 0 {
		return errIDRequired
	}

	tsk, err := resolveTask(ctx, s, args[0])
	if err != nil {
		return err
	}

	content := strings.Join(args[1:], " ")

	updated, err := s.UpdateTaskContent(ctx, tsk.ID, content)
	if err != nil {
		return err
	}

	if updated == nil {
		return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
	}

	o.Println(formatTaskLine(updated))

	return nil
}
