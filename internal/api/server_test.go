package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/api"
	"taskdeck/internal/store"
)

type taskPayload struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Priority     int      `json:"priority"`
	Status       string   `json:"status"`
	CompletedAt  *string  `json:"completed_at"`
	ScheduledFor string   `json:"scheduled_for"`
	Tags         []string `json:"tags"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.db")

	s, err := store.Open(context.Background(), path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	server := httptest.NewServer(api.NewServer(s, zerolog.Nop()).Router())
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeTask(t *testing.T, resp *http.Response) taskPayload {
	t.Helper()

	var payload taskPayload

	err := json.NewDecoder(resp.Body).Decode(&payload)
	require.NoError(t, err)

	return payload
}

func createTask(t *testing.T, server *httptest.Server, content string) taskPayload {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/tasks", map[string]string{"content": content})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decodeTask(t, resp)
}

func Test_CreateTask_Returns_Created_Task_With_Derived_Fields(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	created := createTask(t, server, "Review https://github.com/pr/1 #work")

	require.NotEmpty(t, created.ID)
	require.Equal(t, "pending", created.Status)
	require.Equal(t, 0, created.Priority)
	require.Equal(t, []string{"work"}, created.Tags)
}

func Test_GetTask_Returns_404_For_Unknown_ID(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/tasks/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_UpdateContent_Rejects_Blank_Content(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createTask(t, server, "original")

	resp := doJSON(t, http.MethodPatch, server.URL+"/tasks/"+created.ID+"/content",
		map[string]string{"content": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_UpdateStatus_Completes_And_Reverts_Tasks(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createTask(t, server, "finish me")

	resp := doJSON(t, http.MethodPatch, server.URL+"/tasks/"+created.ID+"/status",
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	completed := decodeTask(t, resp)
	require.Equal(t, "completed", completed.Status)
	require.NotNil(t, completed.CompletedAt)

	resp = doJSON(t, http.MethodPatch, server.URL+"/tasks/"+created.ID+"/status",
		map[string]string{"status": "pending"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reverted := decodeTask(t, resp)
	require.Equal(t, "pending", reverted.Status)
	require.Nil(t, reverted.CompletedAt)
}

func Test_UpdateStatus_Rejects_Unknown_Status(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createTask(t, server, "task")

	resp := doJSON(t, http.MethodPatch, server.URL+"/tasks/"+created.ID+"/status",
		map[string]string{"status": "done"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_MoveTask_Reorders_Active_Tasks(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	_ = createTask(t, server, "first")
	second := createTask(t, server, "second")

	resp := doJSON(t, http.MethodPost, server.URL+"/tasks/"+second.ID+"/move",
		map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	moved := decodeTask(t, resp)
	require.Equal(t, 0, moved.Priority)
}

func Test_MoveTask_Rejects_Unknown_Direction(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createTask(t, server, "task")

	resp := doJSON(t, http.MethodPost, server.URL+"/tasks/"+created.ID+"/move",
		map[string]string{"direction": "sideways"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_ListTasks_Filters_By_Query_Params(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	work := createTask(t, server, "A #work")
	_ = createTask(t, server, "B #personal")

	resp := doJSON(t, http.MethodGet, server.URL+"/tasks?filter=work", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []taskPayload

	err := json.NewDecoder(resp.Body).Decode(&tasks)
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	require.Equal(t, work.ID, tasks[0].ID)

	resp = doJSON(t, http.MethodGet, server.URL+"/tasks?filter=everything", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_ListTasks_Excludes_Completed_By_Default(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	done := createTask(t, server, "done task")
	_ = createTask(t, server, "open task")

	resp := doJSON(t, http.MethodPatch, server.URL+"/tasks/"+done.ID+"/status",
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var active []taskPayload

	err := json.NewDecoder(resp.Body).Decode(&active)
	require.NoError(t, err)

	require.Len(t, active, 1)
	require.Equal(t, "open task", active[0].Content)

	resp = doJSON(t, http.MethodGet, server.URL+"/tasks?all=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var all []taskPayload

	err = json.NewDecoder(resp.Body).Decode(&all)
	require.NoError(t, err)

	require.Len(t, all, 2)
}

func Test_Reorder_Applies_Sequence_And_Returns_Active_List(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	a := createTask(t, server, "a")
	b := createTask(t, server, "b")
	c := createTask(t, server, "c")

	resp := doJSON(t, http.MethodPost, server.URL+"/tasks/reorder",
		map[string][]string{"ids": {c.ID, a.ID, b.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []taskPayload

	err := json.NewDecoder(resp.Body).Decode(&tasks)
	require.NoError(t, err)

	require.Len(t, tasks, 3)
	require.Equal(t, []string{c.ID, a.ID, b.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func Test_DeleteTask_Returns_204_Then_404(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	created := createTask(t, server, "delete me")

	url := fmt.Sprintf("%s/tasks/%s", server.URL, created.ID)

	resp := doJSON(t, http.MethodDelete, url, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, url, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_ListTags_Returns_Sorted_Tags(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	_ = createTask(t, server, "one #zeta")
	_ = createTask(t, server, "two #alpha")

	resp := doJSON(t, http.MethodGet, server.URL+"/tags", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tags []string

	err := json.NewDecoder(resp.Body).Decode(&tags)
	require.NoError(t, err)

	require.Equal(t, []string{"alpha", "zeta"}, tags)
}
