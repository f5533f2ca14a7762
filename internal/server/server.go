// Package server exposes ladder rounds over an HTTP JSON API.
//
// Routes:
//
//	POST /api/rounds                       play a round
//	GET  /api/rounds/{id}                  fetch a round ("latest" allowed)
//	POST /api/rounds/{id}/replay           play again with a new ladder
//	GET  /api/rounds/{id}/paths            traced descents, by start column
//	GET  /api/rounds/{id}/results.csv      standings as CSV
//	GET  /api/rounds/{id}/ladder.svg       ladder drawing
//	GET  /api/rounds/{id}/mapping.svg      start-to-rank diagram
//	POST /api/rosters                      parse an id,name CSV roster
//	GET  /healthz                          liveness and build info
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ghostleg/pkg/ladder"
	"github.com/matzehuels/ghostleg/pkg/observability"
	"github.com/matzehuels/ghostleg/pkg/pipeline"
)

const (
	// DefaultMaxParticipants bounds a single round.
	DefaultMaxParticipants = 500

	// DefaultMaxBodyBytes bounds request bodies.
	DefaultMaxBodyBytes = 1 << 20
)

// Options configures a [Server].
type Options struct {
	// Ladder is applied to rounds whose request leaves generation options unset.
	Ladder ladder.Options

	// Render holds default drawing options.
	Render pipeline.RenderOptions

	// Seed fixes every ladder when nonzero.
	Seed uint64

	MaxParticipants int
	MaxBodyBytes    int64
}

// Server serves the ladder API backed by a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.MaxParticipants == 0 {
		opts.MaxParticipants = DefaultMaxParticipants
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/rosters", s.handleParseRoster)

		r.Route("/rounds", func(r chi.Router) {
			r.Post("/", s.handlePlay)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRound)
				r.Post("/replay", s.handleReplay)
				r.Get("/paths", s.handlePaths)
				r.Get("/results.csv", s.handleResultsCSV)
				r.Get("/ladder.svg", s.handleLadderSVG)
				r.Get("/mapping.svg", s.handleMappingSVG)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// logRequests reports each request to the HTTP hooks and the debug log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
