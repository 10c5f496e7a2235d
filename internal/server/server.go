// Package server exposes a drawing store over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"plan-sketcher/internal/drawing"
)

// DefaultMaxBody limits the size of a create request body.
const DefaultMaxBody = 8 << 20

// Server serves /api/drawings.
type Server struct {
	store   drawing.Store
	log     *slog.Logger
	origins []string
	maxBody int64
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins restricts CORS to the given origins. The default
// allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithMaxBody sets the largest accepted request body in bytes.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a server over store.
func New(store drawing.Store, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   store,
		log:     logger,
		maxBody: DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /api/drawings", s.handleList)
	mux.HandleFunc("POST /api/drawings", s.handleCreate)

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = c.Handler(s.logRequests(mux))
	return s
}

// Handler returns the root handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("API running"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	drawings, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list drawings", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if drawings == nil {
		drawings = []drawing.Drawing{}
	}
	writeJSON(w, http.StatusOK, drawings)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in drawing.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode drawing: %w", err))
		return
	}

	d, err := s.store.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, drawing.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.log.Error("create drawing", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.log.Info("drawing saved", "id", d.ID, "name", d.Name, "shapes", len(d.Shapes))
	writeJSON(w, http.StatusCreated, d)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
