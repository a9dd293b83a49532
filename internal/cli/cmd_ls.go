package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"

	"taskdeck/internal/config"
	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

type lsOptions struct {
	status string
	tag    string
	filter string
	all    bool
}

func cmdLs(ctx context.Context, o *IO, s *store.Store, cfg config.Config, args []string) error {
	if hasHelpFlag(args) {
		printLsHelp(o)

		return nil
	}

	opts, err := parseLsFlags(args)
	if err != nil {
		return err
	}

	tasks, err := listTasks(ctx, s, cfg, opts)
	if err != nil {
		return err
	}

	for _, tsk := range tasks {
		o.Println(formatTaskLine(tsk))
	}

	return nil
}

// listTasks picks the query matching the flags. Flag precedence when several
// are set: --status, then --tag, then --all, then the work/personal filter.
func listTasks(ctx context.Context, s *store.Store, cfg config.Config, opts lsOptions) ([]*task.Task, error) {
	if opts.status != "" {
		status, err := task.ParseStatus(opts.status)
		if err != nil {
			return nil, err
		}

		return s.GetTasksByStatus(ctx, status)
	}

	if opts.tag != "" {
		return s.GetTasksByTag(ctx, opts.tag)
	}

	if opts.all {
		return s.GetAllTasks(ctx)
	}

	filter := opts.filter
	if filter == "" {
		filter = cfg.DefaultFilter
	}

	if filter == "both" {
		return s.GetAllActiveTasks(ctx)
	}

	return s.GetTasksFilteredByWorkPersonal(ctx, filter)
}

func parseLsFlags(args []string) (lsOptions, error) {
	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	status := flagSet.String("status", "", "Filter by status")
	tag := flagSet.String("tag", "", "Filter by tag")
	filter := flagSet.String("filter", "", "Filter by work/personal/both")
	all := flagSet.BoolP("all", "a", false, "Include completed tasks")

	err := flagSet.Parse(args)
	if err != nil {
		return lsOptions{}, err
	}

	return lsOptions{
		status: *status,
		tag:    *tag,
		filter: *filter,
		all:    *all,
	}, nil
}

func printLsHelp(o *IO) {
	o.Println("Usage: td ls [options]")
	o.Println("")
	o.Println("List active tasks in priority order. Completed tasks are hidden")
	o.Println("unless --all or --status=completed is given.")
	o.Println("")
	o.Println("Options:")
	o.Println("  --status=<status>    Filter by status (pending|in_progress|waiting|completed)")
	o.Println("  --tag=<tag>          Filter by tag")
	o.Println("  --filter=<filter>    Filter by work|personal|both")
	o.Println("  -a, --all            Include completed tasks")
}
