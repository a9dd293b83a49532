package cli

import (
	"context"
	"io"

	flag "github.com/spf13/pflag"

	"taskdeck/internal/export"
	"taskdeck/internal/store"
)

func cmdExport(ctx context.Context, o *IO, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		o.Println("Usage: td export [options]")
		o.Println("")
		o.Println("Export all tasks. Writes to --out atomically, or prints to")
		o.Println("stdout when --out is not given.")
		o.Println("")
		o.Println("Options:")
		o.Println("  --format=<format>    Export format (csv|markdown|text) [default: text]")
		o.Println("  -o, --out <file>     Output file")

		return nil
	}

	flagSet := flag.NewFlagSet("export", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	rawFormat := flagSet.String("format", "text", "Export format (csv|markdown|text)")
	outPath := flagSet.StringP("out", "o", "", "Output file")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(*rawFormat)
	if err != nil {
		return err
	}

	tasks, err := s.GetAllTasks(ctx)
	if err != nil {
		return err
	}

	if *outPath == "" {
		rendered, err := export.Render(format, tasks)
		if err != nil {
			return err
		}

		o.Printf("%s", rendered)

		return nil
	}

	err = export.WriteFile(*outPath, format, tasks)
	if err != nil {
		return err
	}

	o.Println("exported", len(tasks), "tasks to", *outPath)

	return nil
}
