package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes Prometheus metrics on a listener separate from
// service traffic.
type Server struct {
	server   *http.Server
	listener net.Listener
	logger   *zap.Logger
}

// Config holds metrics server configuration
type Config struct {
	Addr     string
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewServer creates a new metrics server bound to its address. A bad
// address fails here, before anything is started.
func NewServer(cfg *Config) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	s := &Server{
		server:   &http.Server{Handler: mux},
		listener: listener,
		logger:   cfg.Logger,
	}

	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Start starts the metrics server
func (s *Server) Start() error {
	s.logger.Info("starting metrics server", zap.String("addr", s.Addr()))

	if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve metrics: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown metrics server: %w", err)
	}

	s.logger.Info("metrics server shut down complete")
	return nil
}
