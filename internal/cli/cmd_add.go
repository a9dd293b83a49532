package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

var errContentRequired = errors.New("task content is required")

func cmdAdd(ctx context.Context, o *IO, in io.Reader, s *store.Store, args []string) error {
	if hasHelpFlag(args) {
		printAddHelp(o)

		return nil
	}

	flagSet := flag.NewFlagSet("add", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	day := flagSet.StringP("for", "f", "", "Schedule for a day (YYYY-MM-DD)")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *day != "" {
		_, err = time.Parse(task.DayFormat, *day)
		if err != nil {
			return fmt.Errorf("invalid --for day %q: want YYYY-MM-DD", *day)
		}
	}

	content := strings.Join(flagSet.Args(), " ")
	if content == "" {
		content, err = promptContent(in)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(content) == "" {
		return errContentRequired
	}

	created, err := s.CreateTask(ctx, content, *day)
	if err != nil {
		return err
	}

	o.Println(created.ID)

	return nil
}

// promptContent reads one line of task content. On a real terminal it uses a
// line editor with history keys; piped input falls back to a plain read.
func promptContent(in io.Reader) (string, error) {
	if in == nil {
		return "", errContentRequired
	}

	if isTerminal(in) {
		editor := liner.NewLiner()
		defer func() { _ = editor.Close() }()

		editor.SetCtrlCAborts(true)

		line, err := editor.Prompt("task> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return "", errContentRequired
			}

			return "", fmt.Errorf("read task content: %w", err)
		}

		return line, nil
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read task content: %w", err)
		}

		return "", errContentRequired
	}

	return scanner.Text(), nil
}

func printAddHelp(o *IO) {
	o.Println("Usage: td add [content] [options]")
	o.Println("")
	o.Println("Create a task at the end of the pending queue. Prints the task ID.")
	o.Println("With no content argument, prompts for a line on stdin.")
	o.Println("")
	o.Println("Options:")
	o.Println("  -f, --for <day>    Schedule for a day (YYYY-MM-DD)")
}
