// Package api exposes the task repository over a local HTTP interface so
// editor plugins and scripts can talk to the same database as the CLI.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"taskdeck/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves the task API.
type Server struct {
	store *store.Store
	log   zerolog.Logger
}

// NewServer creates a server over the given store.
func NewServer(s *store.Store, log zerolog.Logger) *Server {
	return &Server{store: s, log: log}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleCreateTask)
		r.Post("/reorder", s.handleReorderTasks)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTask)
			r.Delete("/", s.handleDeleteTask)
			r.Patch("/content", s.handleUpdateContent)
			r.Patch("/status", s.handleUpdateStatus)
			r.Post("/move", s.handleMoveTask)
			r.Post("/schedule", s.handleScheduleTask)
		})
	})

	r.Get("/tags", s.handleListTags)

	return r
}

// Serve listens on addr until ctx is canceled. The listener is expected to
// be loopback only; the API has no authentication.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Serve(listener)
	}()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("api listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(wrapped, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
