package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskdeck/internal/export"
	"taskdeck/internal/task"
)

func sampleTasks(t *testing.T) []*task.Task {
	t.Helper()

	pending := task.New("Buy milk #errands")
	pending.Priority = 0

	done := task.New("Ship release #work")
	done.Priority = 0

	err := done.SetStatus(task.StatusCompleted)
	require.NoError(t, err)

	return []*task.Task{pending, done}
}

func Test_ParseFormat_Accepts_Known_Formats(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"csv", "markdown", "text"} {
		format, err := export.ParseFormat(raw)
		require.NoError(t, err)
		require.Equal(t, export.Format(raw), format)
	}

	_, err := export.ParseFormat("xlsx")
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}

func Test_Render_CSV_Quotes_And_Includes_All_Rows(t *testing.T) {
	t.Parallel()

	tasks := sampleTasks(t)
	tasks[0].Content = `Say "hello", then leave #errands`

	out, err := export.Render(export.FormatCSV, tasks)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	require.Equal(t, "id", records[0][0])
	require.Equal(t, `Say "hello", then leave #errands`, records[1][1])
	require.Equal(t, "completed", records[2][3])

	// Completed rows carry an RFC3339 completion timestamp.
	_, err = time.Parse(time.RFC3339, records[2][5])
	require.NoError(t, err)
}

func Test_Render_Markdown_Checks_Completed_Boxes(t *testing.T) {
	t.Parallel()

	out, err := export.Render(export.FormatMarkdown, sampleTasks(t))
	require.NoError(t, err)

	require.Contains(t, out, "- [ ] Buy milk #errands")
	require.Contains(t, out, "- [x] Ship release #work")
}

func Test_WriteFile_Creates_File_Atomically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tasks.txt")

	err := export.WriteFile(path, export.FormatText, sampleTasks(t))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Contains(t, string(content), "Buy milk #errands")
}
