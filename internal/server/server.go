// Package server implements the HTTP surfaces of the pipeline services:
// the invoke endpoint, health checks and metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HealthChecker interface for checking component health.
type HealthChecker interface {
	Liveness() bool
	Readiness(ctx context.Context) bool
	GetStatus() map[string]string
}

// Server represents the HTTP servers of one pipeline service.
type Server struct {
	appServer     *http.Server
	healthServer  *http.Server
	metricsServer *http.Server
	logger        *zap.Logger
}

// NewServer creates the app, health and metrics servers. invokeHandler
// serves POST /invoke on the app server.
func NewServer(
	appPort int,
	healthPort int,
	metricsPort int,
	invokeHandler http.Handler,
	healthChecker HealthChecker,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Server {
	appMux := http.NewServeMux()
	appMux.Handle("POST /invoke", invokeHandler)

	appServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", appPort),
		Handler:      appMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health/live", LivenessHandler(healthChecker, logger))
	healthMux.HandleFunc("/health/ready", ReadinessHandler(healthChecker, logger))

	healthServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", healthPort),
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	metricsServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", metricsPort),
		Handler:      metricsMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return &Server{
		appServer:     appServer,
		healthServer:  healthServer,
		metricsServer: metricsServer,
		logger:        logger,
	}
}

// Start starts all HTTP servers.
func (s *Server) Start() error {
	go func() {
		s.logger.Info("starting app server", zap.String("addr", s.appServer.Addr))
		if err := s.appServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("app server failed", zap.Error(err))
		}
	}()

	go func() {
		s.logger.Info("starting health server", zap.String("addr", s.healthServer.Addr))
		if err := s.healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("health server failed", zap.Error(err))
		}
	}()

	go func() {
		s.logger.Info("starting metrics server", zap.String("addr", s.metricsServer.Addr))
		if err := s.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown gracefully shuts down all servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP servers")

	servers := []*http.Server{s.appServer, s.healthServer, s.metricsServer}
	errChan := make(chan error, len(servers))

	for _, srv := range servers {
		go func(srv *http.Server) {
			errChan <- srv.Shutdown(ctx)
		}(srv)
	}

	var lastErr error
	for range servers {
		if err := <-errChan; err != nil {
			s.logger.Error("error shutting down server", zap.Error(err))
			lastErr = err
		}
	}

	return lastErr
}
