// Package server exposes the placement engine over HTTP.
//
// Routes:
//
//	GET  /healthz        build info
//	GET  /v1/catalog     the served catalog and its fingerprint
//	GET  /v1/positions   allowed offsets per suite and per offset
//	POST /v1/place       {"suites": [...]} -> non-overlapping intervals
//	POST /v1/layout      {"suites": [...]} -> header layout with free gaps
//	GET  /v1/verify      feasibility sweep; ?min=&max=&refresh=true
//
// Errors are JSON objects {"code": ..., "message": ...}. Unplaceable
// subsets answer 422, bad input and unknown suites 400.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cornerstone/pkg/engine"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// Options configures a Server.
type Options struct {
	Runner  *engine.Runner
	Catalog *suite.Catalog
	Logger  *log.Logger

	// Verify holds the default sweep bounds used when a request gives
	// none.
	Verify engine.VerifyOptions

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves one catalog.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds the router. Runner and Catalog are required.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(s.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.opts.Logger, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, s.opts.Logger, errMethod(r))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/positions", s.handlePositions)
		r.Post("/place", s.handlePlace)
		r.Post("/layout", s.handleLayout)
		r.Get("/verify", s.handleVerify)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.opts.Logger.Info("listening", "addr", ln.Addr().String(), "catalog", s.opts.Catalog.Fingerprint()[:12])

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.opts.Logger.Info("server stopped")
	return nil
}
