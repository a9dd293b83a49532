package cli

import (
	"context"
	"fmt"
	"time"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

func cmdSchedule(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td schedule <id> <day>")
		o.Println("")
		o.Println("Schedule a task for a day given as YYYY-MM-DD.")

		return nil
	}

	if len(args) < 2 {
		return fmt.Errorf("schedule requires a task id and a day (YYYY-MM-DD)")
	}

	tsk, err := resolveTask(ctx, s, args[0])
	if err != nil {
		return err
	}

	day, err := time.Parse(task.DayFormat, args[1])
	if err != nil {
		return fmt.Errorf("invalid day %q: want YYYY-MM-DD", args[1])
	}

	updated, err := s.ScheduleTask(ctx, tsk.ID, day)
	if err != nil {
		return err
	}

	if updated == nil {
		return fmt.Errorf("%w: %s", errTaskNotFound, args[0])
	}

	o.Println(formatTaskLine(updated))

	return nil
}
