package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskdeck/internal/store"
	"taskdeck/internal/task"
)

// taskPayload is the wire representation of a task.
type taskPayload struct {
	ID            string     `json:"id"`
	Content       string     `json:"content"`
	Priority      int        `json:"priority"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ScheduledFor  string     `json:"scheduled_for,omitempty"`
	ExtractedURLs []string   `json:"extracted_urls"`
	Tags          []string   `json:"tags"`
}

func toPayload(t *task.Task) taskPayload {
	return taskPayload{
		ID:            t.ID,
		Content:       t.Content,
		Priority:      t.Priority,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CompletedAt:   t.CompletedAt,
		ScheduledFor:  t.ScheduledFor,
		ExtractedURLs: t.ExtractedURLs,
		Tags:          t.Tags,
	}
}

func toPayloads(tasks []*task.Task) []taskPayload {
	payloads := make([]taskPayload, 0, len(tasks))
	for _, t := range tasks {
		payloads = append(payloads, toPayload(t))
	}

	return payloads
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

// writeError maps repository sentinels to 400 and everything else to 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, store.ErrEmptyContent),
		errors.Is(err, store.ErrInvalidDirection),
		errors.Is(err, store.ErrInvalidFilter),
		errors.Is(err, task.ErrInvalidStatus):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})

		return false
	}

	return true
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var (
		tasks []*task.Task
		err   error
	)

	switch {
	case query.Get("status") != "":
		var status task.Status

		status, err = task.ParseStatus(query.Get("status"))
		if err == nil {
			tasks, err = s.store.GetTasksByStatus(ctx, status)
		}
	case query.Get("tag") != "":
		tasks, err = s.store.GetTasksByTag(ctx, query.Get("tag"))
	case query.Get("filter") != "":
		tasks, err = s.store.GetTasksFilteredByWorkPersonal(ctx, query.Get("filter"))
	case query.Get("all") == "true":
		tasks, err = s.store.GetAllTasks(ctx)
	default:
		tasks, err = s.store.GetAllActiveTasks(ctx)
	}

	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayloads(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content      string `json:"content"`
		ScheduledFor string `json:"scheduled_for"`
	}

	if !s.decode(w, r, &body) {
		return
	}

	created, err := s.store.CreateTask(r.Context(), body.Content, body.ScheduledFor)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, toPayload(created))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.GetTaskByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	if found == nil {
		s.writeNotFound(w)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayload(found))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.store.DeleteTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	if !deleted {
		s.writeNotFound(w)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}

	if !s.decode(w, r, &body) {
		return
	}

	updated, err := s.store.UpdateTaskContent(r.Context(), chi.URLParam(r, "id"), body.Content)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if updated == nil {
		s.writeNotFound(w)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayload(updated))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}

	if !s.decode(w, r, &body) {
		return
	}

	status, err := task.ParseStatus(body.Status)
	if err != nil {
		s.writeError(w, err)

		return
	}

	updated, err := s.store.ChangeTaskStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if updated == nil {
		s.writeNotFound(w)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayload(updated))
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"`
	}

	if !s.decode(w, r, &body) {
		return
	}

	direction, err := store.ParseDirection(body.Direction)
	if err != nil {
		s.writeError(w, err)

		return
	}

	moved, err := s.store.MoveTask(r.Context(), chi.URLParam(r, "id"), direction)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if moved == nil {
		s.writeNotFound(w)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayload(moved))
}

func (s *Server) handleScheduleTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Day string `json:"day"`
	}

	if !s.decode(w, r, &body) {
		return
	}

	day, err := time.Parse(task.DayFormat, body.Day)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day, want YYYY-MM-DD"})

		return
	}

	updated, err := s.store.ScheduleTask(r.Context(), chi.URLParam(r, "id"), day)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if updated == nil {
		s.writeNotFound(w)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayload(updated))
}

func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}

	if !s.decode(w, r, &body) {
		return
	}

	err := s.store.UpdateTaskPriorities(r.Context(), body.IDs)
	if err != nil {
		s.writeError(w, err)

		return
	}

	active, err := s.store.GetAllActiveTasks(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, toPayloads(active))
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.GetAllTags(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, tags)
}
