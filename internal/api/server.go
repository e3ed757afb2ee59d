package api

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/catalogr/internal/api/handlers"
	"github.com/amaumene/catalogr/internal/api/middleware"
	"github.com/amaumene/catalogr/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// SyncTrigger lists and starts sync runs
type SyncTrigger interface {
	handlers.Trigger
	handlers.SourceLister
}

// Server represents the HTTP server
type Server struct {
	app    *fiber.App
	addr   string
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, catalog handlers.Counter, trigger SyncTrigger, logger *logrus.Logger) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           15 * time.Second,
			WriteTimeout:          15 * time.Second,
			IdleTimeout:           60 * time.Second,
		}),
		addr:   ":" + cfg.ServerPort,
		logger: logger,
	}

	s.app.Use(middleware.Logging(logger))
	s.setupRoutes(catalog, trigger)

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(catalog handlers.Counter, trigger SyncTrigger) {
	// Health check
	s.app.Get("/health", handlers.NewHealthHandler(s.logger).Handle)

	// Catalog counts and sources
	s.app.Get("/status", handlers.NewStatusHandler(catalog, trigger, s.logger).Handle)

	// Prometheus metrics
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Manual sync trigger
	s.app.Post("/api/sync/:source", handlers.NewSyncHandler(trigger, s.logger).Handle)
}

// App exposes the fiber application, mostly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(s.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithTimeout(10 * time.Second)
}
