// Package server exposes the pipeline over a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"coldreach/internal/model"
)

// Runner is the single operation the API exposes upward.
type Runner interface {
	Run(ctx context.Context, url string) ([]model.PipelineResult, error)
}

// Server is the HTTP facade over one pipeline.
type Server struct {
	runner Runner
	addr   string
	logger *slog.Logger
	server *http.Server
}

// New creates a server for the given runner.
func New(runner Runner, addr string, logger *slog.Logger) *Server {
	return &Server{
		runner: runner,
		addr:   addr,
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.addr)
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
	}
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Routes builds the router. Exposed separately so tests can drive handlers
// without binding a socket.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Post("/api/v1/generate", s.handleGenerate)
	r.Get("/health", s.handleHealth)
	return r
}

type generateRequest struct {
	URL string `json:"url"`
}

type generateResponse struct {
	Results []resultPayload `json:"results"`
}

type resultPayload struct {
	Job   model.JobRecord `json:"job"`
	Email string          `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url is required"})
		return
	}

	results, err := s.runner.Run(r.Context(), req.URL)
	if err != nil {
		s.logger.Error("run failed", "url", req.URL, "error", err)
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	payload := generateResponse{Results: make([]resultPayload, 0, len(results))}
	for _, res := range results {
		payload.Results = append(payload.Results, resultPayload{Job: res.Job, Email: res.Email})
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps pipeline failures onto response codes: caller-side input
// problems are 4xx, upstream failures 502.
func statusFor(err error) int {
	var fetchErr *model.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway
	}
	var modelErr *model.ModelInvocationError
	if errors.As(err, &modelErr) {
		return http.StatusBadGateway
	}
	var parseErr *model.ExtractionParseError
	if errors.As(err, &parseErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
