package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/me/rosterd/internal/benchmark"
	"github.com/me/rosterd/internal/manager"
	"github.com/me/rosterd/internal/store"
)

// Server is the rosterd REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	manager   *manager.Manager
	validate  *validator.Validate
	startTime time.Time
	archive   store.Store       // optional; backs the /jobs listing
	bench     *benchmark.Runner // optional; /benchmark returns 404 when nil
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithArchive exposes the persisted job history under /jobs.
func WithArchive(st store.Store) Option {
	return func(s *Server) {
		s.archive = st
	}
}

// WithBenchmark enables the /benchmark endpoint.
func WithBenchmark(b *benchmark.Runner) Option {
	return func(s *Server) {
		s.bench = b
	}
}

// New creates a new Server with all routes registered.
func New(mgr *manager.Manager, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		manager:   mgr,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", s.handleSolve)
		r.Put("/analyze", s.handleAnalyze)
		r.Route("/{jobID}", func(r chi.Router) {
			r.Get("/", s.handleGetSchedule)
			r.Delete("/", s.handleTerminateSolving)
		})
	})

	r.Route("/demo-data", func(r chi.Router) {
		r.Get("/", s.handleListDemoData)
		r.Get("/{demoDataID}", s.handleGenerateDemoData)
	})

	r.Post("/benchmark", s.handleBenchmark)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", s.handleListJobs)
		r.Get("/{jobID}", s.handleGetJob)
	})
}

// requestContext bounds archive reads issued on behalf of a request.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}
