// Package api serves tiling runs over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness check
//	GET  /version      build information
//	POST /v1/tile      run place → analyze → render for a configuration
//	POST /v1/coverage  analyze coverage for a given set of anchors
//
// Errors are returned as {"error": "...", "code": "..."} with the status
// derived from the error code.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/anchortile/pkg/buildinfo"
	"github.com/matzehuels/anchortile/pkg/config"
	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/geom"
	"github.com/matzehuels/anchortile/pkg/observability"
	"github.com/matzehuels/anchortile/pkg/pipeline"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

// maxBodyBytes caps request bodies, matching the config file limit.
const maxBodyBytes = config.MaxFileSize

// DefaultMaxCells caps the area of a request at one square kilometre.
// Placement and coverage work grow with the area, not with the body size.
const DefaultMaxCells = 1_000_000

// Server handles API requests with a shared pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router
	maxCells int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxCells sets the largest region, in 1m² cells, a request may cover.
func WithMaxCells(n int) Option {
	return func(s *Server) { s.maxCells = n }
}

// NewServer builds the router.
func NewServer(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxCells: DefaultMaxCells}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/tile", s.handleTile)
		r.Post("/coverage", s.handleCoverage)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}

// TileRequest is the body of POST /v1/tile. Config uses the same keys as a
// configuration file.
type TileRequest struct {
	Config  json.RawMessage `json:"config"`
	Seed    uint64          `json:"seed,omitempty"`
	Formats []string        `json:"formats,omitempty"`
}

// TileResponse is returned by POST /v1/tile. Artifacts are base64 encoded.
type TileResponse struct {
	RunID      string             `json:"run_id"`
	Seed       uint64             `json:"seed"`
	Anchors    []tiling.Anchor    `json:"anchors"`
	GridPoints int                `json:"grid_points"`
	Log        []string           `json:"log"`
	Histogram  []int              `json:"histogram"`
	Coverage   map[string]float64 `json:"coverage"`
	Artifacts  map[string]string  `json:"artifacts"`
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	var req TileRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Config) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidConfig, "config is required"))
		return
	}
	cfg, err := config.Parse(req.Config, config.FormatJSON)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkArea(cfg.Region()); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Config:  cfg,
		Seed:    req.Seed,
		Formats: req.Formats,
		Logger:  s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts := make(map[string]string, len(res.Artifacts))
	for f, data := range res.Artifacts {
		artifacts[f] = base64.StdEncoding.EncodeToString(data)
	}
	writeJSON(w, http.StatusOK, TileResponse{
		RunID:      res.RunID,
		Seed:       res.Seed,
		Anchors:    res.Placement.Anchors,
		GridPoints: res.Placement.GridPoints,
		Log:        res.Placement.Log,
		Histogram:  res.Histogram.Counts,
		Coverage:   res.Coverage,
		Artifacts:  artifacts,
	})
}

// CoverageRequest is the body of POST /v1/coverage.
type CoverageRequest struct {
	Region  geom.Region     `json:"region"`
	Radius  float64         `json:"radius"`
	Anchors []tiling.Anchor `json:"anchors"`
}

// CoverageResponse is returned by POST /v1/coverage.
type CoverageResponse struct {
	Histogram []int              `json:"histogram"`
	Coverage  map[string]float64 `json:"coverage"`
	Lines     []string           `json:"lines"`
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	var req CoverageRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Region.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.checkArea(req.Region); err != nil {
		writeError(w, err)
		return
	}
	_, hist, err := s.runner.Analyze(r.Context(), req.Anchors, req.Region, req.Radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CoverageResponse{
		Histogram: hist.Counts,
		Coverage:  hist.Percentages(),
		Lines:     hist.Lines(),
	})
}

// checkArea rejects regions larger than the configured cell limit.
func (s *Server) checkArea(r geom.Region) error {
	if area := r.Length * r.Width; area > float64(s.maxCells) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"region %gm x %gm exceeds the limit of %d cells", r.Length, r.Width, s.maxCells)
	}
	return nil
}
