// Package server exposes the layout pipeline over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/TFMV/forcegraph/config"
	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/models"
	"github.com/TFMV/forcegraph/physics"
	"github.com/TFMV/forcegraph/render"
	"github.com/TFMV/forcegraph/simulate"
)

// errBadRequest marks malformed query parameters
var errBadRequest = errors.New("bad request")

// Server serves layout requests
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	store  models.LayoutRepository
	router chi.Router
}

// New creates a server. A nil store gets an in-memory one
func New(cfg *config.Config, logger *zap.Logger, store models.LayoutRepository) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
	s.router = s.routes()
	return s
}

// routes registers the HTTP API
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/api/sample", s.handleSample)

	r.Route("/api/layouts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/render", s.handleRender)
		})
	})

	return r
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.Int("port", s.cfg.Server.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreate lays out a scenario posted as JSON
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxRequestSize))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	scenario, err := ingest.NewJSONProcessor().ProcessData(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.runAndStore(w, r, scenario, http.StatusCreated)
}

// handleSample lays out the grouped demo topology
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	scenario, err := ingest.GroupedTopology(s.cfg.Topology.Nodes, s.cfg.Topology.PerGroup)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.runAndStore(w, r, scenario, http.StatusOK)
}

// runAndStore runs the pipeline with request overrides and stores the result
func (s *Server) runAndStore(w http.ResponseWriter, r *http.Request, scenario *models.Scenario, status int) {
	if len(scenario.Nodes) > s.cfg.Server.MaxNodes {
		s.writeError(w, fmt.Errorf("%w: %d nodes exceeds the limit of %d", errBadRequest, len(scenario.Nodes), s.cfg.Server.MaxNodes))
		return
	}

	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := simulate.Run(r.Context(), scenario, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Save(result); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/layouts/"+result.ID)
	writeJSON(w, status, result)
}

// options builds pipeline options from config and the ?steps, ?backend and
// ?placement query parameters
func (s *Server) options(r *http.Request) (simulate.Options, error) {
	q := r.URL.Query()
	opts := simulate.Options{
		Physics:  s.cfg.Physics,
		Backend:  s.cfg.Graph.Backend,
		Capacity: s.cfg.Graph.Capacity,
		Logger:   s.logger,
	}

	if v := q.Get("steps"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil || steps < 0 {
			return opts, fmt.Errorf("%w: steps must be a non-negative integer, got %q", errBadRequest, v)
		}
		if steps > s.cfg.Server.MaxSteps {
			return opts, fmt.Errorf("%w: %d steps exceeds the limit of %d", errBadRequest, steps, s.cfg.Server.MaxSteps)
		}
		opts.Physics.Steps = steps
	}

	if v := q.Get("backend"); v != "" {
		backend := strings.ToLower(v)
		if backend != graph.BackendSet && backend != graph.BackendMatrix {
			return opts, fmt.Errorf("%w: unsupported backend %q", errBadRequest, v)
		}
		if backend != opts.Backend {
			opts.Capacity = 0
		}
		opts.Backend = backend
	}

	strategy := s.cfg.Placement.Strategy
	if v := q.Get("placement"); v != "" {
		strategy = v
	}
	placer, err := physics.NewPlacer(strategy, s.cfg.Placement.Seed)
	if err != nil {
		return opts, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	opts.Placer = placer

	return opts, nil
}

// layoutSummary is one entry of the list endpoint
type layoutSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	Steps     int       `json:"steps"`
	CreatedAt time.Time `json:"created_at"`
}

// handleList lists stored layouts without their traces
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	results := s.store.List()
	summaries := make([]layoutSummary, 0, len(results))
	for _, res := range results {
		summaries = append(summaries, layoutSummary{
			ID:        res.ID,
			Name:      res.Name,
			Nodes:     len(res.Nodes),
			Edges:     len(res.Edges),
			Steps:     res.StepsRun,
			CreatedAt: res.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleGet returns a stored layout
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleDelete removes a stored layout
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRender renders a stored layout in the requested format
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.FindByID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.cfg.Render.Format
	}

	options := render.NewDefaultOptions(format)
	options.Width = s.cfg.Render.Width
	options.Height = s.cfg.Render.Height
	options.ColorScheme = s.cfg.Render.ColorScheme

	if _, err := render.GetRenderer(format); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	output, err := render.GenerateWithOptions(result, options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(output)
}

// statusFor maps pipeline errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, ingest.ErrInvalidScenario),
		errors.Is(err, physics.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, physics.ErrDuplicatePosition),
		errors.Is(err, physics.ErrCoincidentNodes),
		errors.Is(err, physics.ErrNonFinite),
		errors.Is(err, physics.ErrPlacementExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error body
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
