package cli

import "errors"

var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
	errIDRequired      = errors.New("task id is required")
	errTaskNotFound    = errors.New("task not found")
)
