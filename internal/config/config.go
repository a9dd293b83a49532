// Package config loads taskdeck configuration. Config files are JSON with
// optional comments and trailing commas (HuJSON), merged in precedence order:
// defaults, global user config, project config, explicit --config file, then
// CLI overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// FileName is the project-level config file name.
const FileName = ".taskdeck.json"

// Config holds all configuration options.
type Config struct {
	// DBPath is the SQLite database file. Relative paths resolve against
	// the effective working directory.
	DBPath string `json:"db_path,omitempty"`

	// DefaultFilter is the work/personal filter applied when ls is called
	// without --filter: work, personal, or both.
	DefaultFilter string `json:"default_filter,omitempty"`

	// ListenAddr is the address the local API server binds to.
	ListenAddr string `json:"listen_addr,omitempty"`

	// Resolved values (computed, not serialized)
	DBPathAbs string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration. The database lives under the
// user's data directory unless overridden.
func Default(env map[string]string) Config {
	return Config{
		DBPath:        filepath.Join(dataDir(env), "tasks.db"),
		DefaultFilter: "both",
		ListenAddr:    "127.0.0.1:7330",
	}
}

// ErrInvalidConfig reports a config file that failed to parse or validate.
var ErrInvalidConfig = errors.New("invalid config file")

// dataDir returns $XDG_DATA_HOME/taskdeck or ~/.local/share/taskdeck,
// falling back to the current directory when no home is known.
func dataDir(env map[string]string) string {
	if xdg := env["XDG_DATA_HOME"]; xdg != "" {
		return filepath.Join(xdg, "taskdeck")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", "taskdeck")
	}

	return "."
}

// globalConfigPath returns $XDG_CONFIG_HOME/taskdeck/config.json or
// ~/.config/taskdeck/config.json; empty when no home is known.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "taskdeck", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "taskdeck", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDir    string            // effective working directory (empty: os.Getwd)
	ConfigPath string            // explicit --config file, optional
	DBOverride string            // --db flag value; empty means no override
	Env        map[string]string // environment variables
}

// Load merges configuration sources and resolves paths to absolute.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default(input.Env)

	if path := globalConfigPath(input.Env); path != "" {
		loaded, ok, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}

		if ok {
			cfg = merge(cfg, loaded)
			cfg.Sources.Global = path
		}
	}

	projectPath := input.ConfigPath
	if projectPath == "" {
		projectPath = filepath.Join(workDir, FileName)
	}

	loaded, ok, err := loadFile(projectPath)
	if err != nil {
		return Config{}, err
	}

	if !ok && input.ConfigPath != "" {
		return Config{}, fmt.Errorf("%w: %s: file not found", ErrInvalidConfig, input.ConfigPath)
	}

	if ok {
		cfg = merge(cfg, loaded)
		cfg.Sources.Project = projectPath
	}

	if input.DBOverride != "" {
		cfg.DBPath = input.DBOverride
	}

	switch cfg.DefaultFilter {
	case "work", "personal", "both":
	default:
		return Config{}, fmt.Errorf("%w: default_filter must be work, personal, or both", ErrInvalidConfig)
	}

	cfg.DBPathAbs = cfg.DBPath
	if !filepath.IsAbs(cfg.DBPathAbs) {
		cfg.DBPathAbs = filepath.Join(workDir, cfg.DBPathAbs)
	}

	return cfg, nil
}

// loadFile reads a single HuJSON config file. A missing file is not an
// error; ok reports whether the file existed.
func loadFile(path string) (Config, bool, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from config resolution
	if os.IsNotExist(err) {
		return Config{}, false, nil
	}

	if err != nil {
		return Config{}, false, fmt.Errorf("read config %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return cfg, true, nil
}

// merge overlays non-empty fields of override onto base.
func merge(base, override Config) Config {
	if override.DBPath != "" {
		base.DBPath = override.DBPath
	}

	if override.DefaultFilter != "" {
		base.DefaultFilter = override.DefaultFilter
	}

	if override.ListenAddr != "" {
		base.ListenAddr = override.ListenAddr
	}

	return base
}
