package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/pipeline"
)

// maxRequestBytes bounds the size of a compare request body.
const maxRequestBytes = 1 << 20

// shutdownTimeout is how long in-flight comparisons may run after the
// server is asked to stop.
const shutdownTimeout = 30 * time.Second

// Server serves the bookdiff HTTP API.
type Server struct {
	// base holds the defaults every request starts from.
	base *config.Config

	comparer *pipeline.Comparer

	// history is the cache database; nil disables the history routes.
	history *cache.Cache

	version string
	logger  *slog.Logger
	router  *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and comparison logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHistory enables the history routes backed by c.
func WithHistory(c *cache.Cache) Option {
	return func(s *Server) {
		s.history = c
	}
}

// WithVersion sets the version reported by /healthz and in reports.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a Server. base supplies the parameters a request leaves out;
// its paths are ignored.
func New(base *config.Config, comparer *pipeline.Comparer, opts ...Option) *Server {
	s := &Server{
		base:     base,
		comparer: comparer,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.router = s.routes()
	return s
}

// routes builds the chi router.
func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleHistory)
			r.Get("/{id}", s.handleHistoryReport)
		})
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// logRequests logs one line per request with slog.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
