// Package server exposes the bot's HTTP surface: health, metrics and the
// Telegram webhook endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edgard/gatebot/internal/metrics"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the HTTP server.
type Options struct {
	Port            int
	ShutdownTimeout time.Duration
	Mode            string       // "webhook" or "polling", reported by /health
	WebhookPath     string       // mounted only when Webhook is set
	Webhook         http.Handler // nil in polling mode
	Database        Pinger
}

// Server is a thin wrapper over chi and http.Server.
type Server struct {
	opts    Options
	mux     *chi.Mux
	srv     *http.Server
	logger  *slog.Logger
	started time.Time
}

// New builds the router and the underlying http.Server.
func New(opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		opts:    opts,
		mux:     chi.NewRouter(),
		logger:  logger.With("component", "http_server"),
		started: time.Now(),
	}
	s.routes()
	s.srv = &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(opts.Port)),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.mux.Use(middleware.RealIP)
	s.mux.Use(middleware.Recoverer)
	s.mux.Use(s.logRequests)

	s.mux.Get("/", s.handleHealth)
	s.mux.Get("/health", s.handleHealth)
	s.mux.Method(http.MethodGet, "/metrics", metrics.Handler())

	if s.opts.Webhook != nil && s.opts.WebhookPath != "" {
		s.mux.Method(http.MethodPost, s.opts.WebhookPath, s.opts.Webhook)
		s.logger.Info("Webhook endpoint mounted", "path", s.opts.WebhookPath)
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the listening address.
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until ctx is cancelled, then shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped.")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
