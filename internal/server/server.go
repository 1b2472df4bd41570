// Package server exposes validation and prompt composition over HTTP for the
// authoring UI.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/josephgoksu/Guestflow/internal/app"
	"github.com/josephgoksu/Guestflow/internal/logger"
	"github.com/josephgoksu/Guestflow/internal/registry"
)

// maxBodyBytes bounds request documents.
const maxBodyBytes = 1 << 20

// Config configures New.
type Config struct {
	Port           int
	AllowedOrigins []string
	Version        string
	Service        *app.ExperienceService
	Registry       *registry.Registry
	Logger         *logger.Logger
}

type Server struct {
	svc      *app.ExperienceService
	registry *registry.Registry
	log      *logger.Logger
	origins  map[string]struct{}
	version  string
	server   *http.Server
}

func New(cfg Config) *Server {
	if cfg.Registry == nil {
		cfg.Registry = registry.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Service == nil {
		cfg.Service = app.NewExperienceService(app.Options{Registry: cfg.Registry, Logger: cfg.Logger})
	}

	s := &Server{
		svc:      cfg.Service,
		registry: cfg.Registry,
		log:      cfg.Logger,
		origins:  make(map[string]struct{}, len(cfg.AllowedOrigins)),
		version:  cfg.Version,
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = struct{}{}
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.log.Info("API server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
