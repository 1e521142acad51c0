// Package api exposes the read-only mood queries over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rcliao/moodlog/internal/model"
	"github.com/rcliao/moodlog/internal/store"
)

// Store is the read side of the entry store.
type Store interface {
	ListUsers(ctx context.Context) ([]model.UserCount, error)
	QueryEntries(ctx context.Context, p store.QueryParams) ([]model.Entry, error)
	Stats(ctx context.Context, dbPath string) (*store.Stats, error)
}

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr   string
	DBPath string
}

// Server serves the query routes.
type Server struct {
	router chi.Router
	store  Store
	cfg    Config
	logger *slog.Logger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, st Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{router: chi.NewRouter(), store: st, cfg: cfg, logger: logger}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/users", s.handleUsers)
	s.router.Get("/moods", s.handleMoods)
	s.router.Get("/stats", s.handleStats)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api: listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("api: list users", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleMoods treats a missing user as an unknown one and answers [].
func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := store.QueryParams{
		User:      q.Get("user"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if p.User == "" {
		writeJSON(w, http.StatusOK, []model.Entry{})
		return
	}

	entries, err := s.store.QueryEntries(r.Context(), p)
	if err != nil {
		s.logger.Error("api: query entries", "user", p.User, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context(), s.cfg.DBPath)
	if err != nil {
		s.logger.Error("api: stats", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("api: request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", ww.Status(),
			"latency", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
