package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func assertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

func Test_Run_Without_Command_Prints_Usage(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stdout, _, code := r.Run()
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	assertContains(t, stdout, "Usage: td")
	assertContains(t, stdout, "add [content]")
}

func Test_Run_Rejects_Unknown_Command(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("frobnicate")
	assertContains(t, stderr, "unknown command")
}

func Test_Run_Rejects_Unknown_Global_Flag(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("--bogus", "ls")
	assertContains(t, stderr, "unknown flag")
}

func Test_Run_DB_Flag_Selects_Database_File(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)
	dbPath := filepath.Join(r.Dir, "custom.db")

	r.MustRun("--db", dbPath, "add", "hello")

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created at --db path: %v", err)
	}

	// The task is visible only through the same database.
	stdout := r.MustRun("--db", dbPath, "ls")
	assertContains(t, stdout, "hello")

	other := r.MustRun("ls")
	if strings.Contains(other, "hello") {
		t.Fatal("task leaked into the default database")
	}
}

func Test_Run_Project_Config_Changes_Database(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	configPath := filepath.Join(r.Dir, ".taskdeck.json")

	err := os.WriteFile(configPath, []byte(`{
		// project database
		"db_path": "project.db",
	}`), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	r.MustRun("add", "project task")

	if _, err := os.Stat(filepath.Join(r.Dir, "project.db")); err != nil {
		t.Fatalf("database not created at configured path: %v", err)
	}
}

func Test_PrintConfig_Shows_Resolved_Values_And_Sources(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stdout := r.MustRun("print-config")
	assertContains(t, stdout, "db_path:")
	assertContains(t, stdout, "default_filter: both")
	assertContains(t, stdout, "(using defaults only)")
}
