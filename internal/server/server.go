// Package server exposes the optional status HTTP server that runs
// alongside a batch: liveness, version, and live run statistics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/willf/downlow/internal/core"
	servermw "github.com/willf/downlow/internal/server/middleware"
)

// StatusProvider reports live information about the running batch. The
// engine implements it.
type StatusProvider interface {
	Snapshot() core.Stats
	RunID() string
	StartedAt() time.Time
}

// Server is the status HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	addr     string
	logger   *zap.Logger
	provider StatusProvider
	version  string
}

// New builds a status server bound to addr.
func New(addr string, provider StatusProvider, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(servermw.RequestID)
	r.Use(middleware.Recoverer)

	s := &Server{
		router:   r,
		addr:     addr,
		logger:   logger,
		provider: provider,
		version:  version,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Get("/status", s.handleStatus)
}

// Start runs the server until Shutdown or a listener error. Intended to
// run in its own goroutine while the batch proceeds.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting status server", zap.String("addr", s.addr))
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	s.logger.Info("shutting down status server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
