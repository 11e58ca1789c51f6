package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoopsline/wnba-updates/pkg/handlers/health"
	"github.com/hoopsline/wnba-updates/pkg/logger"
)

// Server exposes health and Prometheus metrics for the cron daemon
type Server struct {
	router *http.ServeMux
	http   *http.Server
	port   string
	logger *logger.Logger
}

// New creates an ops server; jobs lists the registered job names for /healthz
func New(port string, jobs func() []string, log *logger.Logger) *Server {
	s := &Server{
		router: http.NewServeMux(),
		port:   port,
		logger: log,
	}

	healthHandler := health.NewHandler(jobs, log)
	s.router.HandleFunc("/healthz", healthHandler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info().
		Str("action", "server_start").
		Str("port", s.port).
		Msg("Starting metrics server")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start on port %s: %w", s.port, err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight scrapes
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
