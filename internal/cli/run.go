// Package cli implements the td command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/store"
)

const (
	minArgs      = 2
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Run is the main entry point. Returns exit code.
func Run(ctx context.Context, in io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDir:    flags.workDir,
		ConfigPath: flags.configPath,
		DBOverride: flags.dbPath,
		Env:        env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	cmdArgs := flags.remaining[1:]

	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	o := NewIO(out, errOut)

	// print-config never touches the database.
	if cmd == "print-config" {
		cmdErr := cmdPrintConfig(o, cfg)
		if cmdErr != nil {
			fprintln(errOut, "error:", cmdErr)

			return 1
		}

		return 0
	}

	s, err := store.Open(ctx, cfg.DBPathAbs)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = s.Close() }()

	var cmdErr error

	switch cmd {
	case "add":
		cmdErr = cmdAdd(ctx, o, in, s, cmdArgs)
	case "ls":
		cmdErr = cmdLs(ctx, o, s, cfg, cmdArgs)
	case "show":
		cmdErr = cmdShow(ctx, o, s, cmdArgs)
	case "done", "start", "wait", "pending":
		cmdErr = cmdSetStatus(ctx, o, s, cmd, cmdArgs)
	case "edit":
		cmdErr = cmdEdit(ctx, o, s, cmdArgs)
	case "mv":
		cmdErr = cmdMv(ctx, o, s, cmdArgs)
	case "reorder":
		cmdErr = cmdReorder(ctx, o, s, cmdArgs)
	case "schedule":
		cmdErr = cmdSchedule(ctx, o, s, cmdArgs)
	case "rm":
		cmdErr = cmdRm(ctx, o, s, cmdArgs)
	case "tags":
		cmdErr = cmdTags(ctx, o, s, cmdArgs)
	case "export":
		cmdErr = cmdExport(ctx, o, s, cmdArgs)
	case "serve":
		cmdErr = cmdServe(ctx, o, s, cfg, cmdArgs)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	return 0
}

type globalFlags struct {
	workDir    string
	configPath string
	dbPath     string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a global flag at args[idx]. Returns the number of
// args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if (arg == "-C" || arg == "--cwd") && idx+1 < len(args) {
		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --db flag
	if arg == "--db" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.dbPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--db="); ok {
		flags.dbPath = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}

func cmdPrintConfig(o *IO, cfg config.Config) error {
	o.Println("db_path:", cfg.DBPathAbs)
	o.Println("default_filter:", cfg.DefaultFilter)
	o.Println("listen_addr:", cfg.ListenAddr)

	o.Println("")
	o.Println("# Sources:")

	if cfg.Sources.Global != "" {
		o.Println("#   global:", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("#   project:", cfg.Sources.Project)
	}

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

func printUsage(writer io.Writer) {
	fprintln(writer, `td - local-first task manager

Usage: td [options] <command> [args]

Options:
  -C, --cwd <dir>    Run as if started in <dir>
  -c, --config       Use specified config file
  --db <file>        Use specified database file

Commands:
  add [content]           Create a task, prints ID
  ls [--status=X]         List tasks
  show <id>               Show full task details
  done <id>               Mark a task completed
  start <id>              Mark a task in progress
  wait <id>               Mark a task waiting
  pending <id>            Mark a task pending
  edit <id> <content>     Replace a task's content
  mv <id> <up|down>       Move a task one slot in the pending order
  reorder <id...>         Reassign priorities in the given order
  schedule <id> <day>     Schedule a task for a day (YYYY-MM-DD)
  rm <id>                 Delete a task
  tags                    List all tags in use
  export [--format=X]     Export tasks to a file
  serve                   Run the local HTTP API
  print-config            Show resolved configuration`)
}
