package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	require.NoError(t, err)

	err = os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
}

func Test_Load_Uses_Defaults_When_No_Config_Exists(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env:     map[string]string{"HOME": t.TempDir()},
	})
	require.NoError(t, err)

	require.Equal(t, "both", cfg.DefaultFilter)
	require.Equal(t, "127.0.0.1:7330", cfg.ListenAddr)
	require.True(t, filepath.IsAbs(cfg.DBPathAbs))
	require.Empty(t, cfg.Sources.Global)
	require.Empty(t, cfg.Sources.Project)
}

func Test_Load_Project_Config_Overrides_Global(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	workDir := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "taskdeck", "config.json"), `{
		// shared defaults
		"db_path": "global.db",
		"default_filter": "work",
	}`)

	writeFile(t, filepath.Join(workDir, config.FileName), `{
		"db_path": "project.db",
	}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env:     map[string]string{"HOME": home},
	})
	require.NoError(t, err)

	require.Equal(t, "project.db", cfg.DBPath)
	require.Equal(t, filepath.Join(workDir, "project.db"), cfg.DBPathAbs)

	// The global filter survives because the project file does not set one.
	require.Equal(t, "work", cfg.DefaultFilter)
	require.NotEmpty(t, cfg.Sources.Global)
	require.NotEmpty(t, cfg.Sources.Project)
}

func Test_Load_DB_Flag_Wins_Over_All_Files(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{"db_path": "project.db"}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir:    workDir,
		DBOverride: "/tmp/override.db",
		Env:        map[string]string{},
	})
	require.NoError(t, err)

	require.Equal(t, "/tmp/override.db", cfg.DBPathAbs)
}

func Test_Load_Rejects_Missing_Explicit_Config(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	_, err := config.Load(config.LoadInput{
		WorkDir:    workDir,
		ConfigPath: filepath.Join(workDir, "nope.json"),
		Env:        map[string]string{},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func Test_Load_Rejects_Malformed_Config(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{"db_path": `)

	_, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env:     map[string]string{},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func Test_Load_Rejects_Unknown_Default_Filter(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, config.FileName), `{"default_filter": "everything"}`)

	_, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env:     map[string]string{},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func Test_Load_XDG_Config_Home_Takes_Precedence_Over_Home(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	xdg := t.TempDir()
	workDir := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "taskdeck", "config.json"), `{"default_filter": "personal"}`)
	writeFile(t, filepath.Join(xdg, "taskdeck", "config.json"), `{"default_filter": "work"}`)

	cfg, err := config.Load(config.LoadInput{
		WorkDir: workDir,
		Env: map[string]string{
			"HOME":            home,
			"XDG_CONFIG_HOME": xdg,
		},
	})
	require.NoError(t, err)

	require.Equal(t, "work", cfg.DefaultFilter)
}
