// Package server exposes wall counting over HTTP.
//
// Routes:
//
//	GET /healthz                          liveness check
//	GET /v1/walls?width=W&height=H        count walls (exact=true for big counts)
//	GET /v1/layers?width=W[&limit=N]      list layers with joints and neighbors
//
// Errors are JSON objects {"code", "error"} where code is one of the
// machine codes of package errors.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	apperr "github.com/matzehuels/crackfree/pkg/errors"
	"github.com/matzehuels/crackfree/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr           string
	MaxWidth       int           // 0 leaves the library bound
	MaxHeight      int           // 0 leaves the library bound
	RequestTimeout time.Duration // 0 disables the per-request deadline
	Workers        int
}

// Server answers count and layer requests with a shared pipeline runner.
// Concurrent requests for the same wall share one computation.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
	group  singleflight.Group
	router chi.Router
}

// New creates a server. A nil logger discards output.
func New(runner *pipeline.Runner, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/walls", s.handleWalls)
		r.Get("/layers", s.handleLayers)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, string(apperr.ErrCodeNotFound), "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. In-flight requests get
// a bounded grace period to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
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
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
