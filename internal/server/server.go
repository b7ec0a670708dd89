// Package server exposes the layout engine over HTTP.
//
// Routes:
//
//	GET  /healthz                  build info
//	POST /api/v1/pack              pipeline.Options → layout and artifacts
//	GET  /api/v1/aspect/{desc}     normalized aspect and orientation
//	POST /api/v1/rows              row partition with expandable candidates
//	POST /api/v1/carousel/offset   scroll target for one carousel item
//
// Errors are JSON objects with the structured error code; the HTTP status
// comes from errors.HTTPStatus.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/config"
	"github.com/matzehuels/lightbox/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	cfg    config.Config
	model  *aspect.Model
	logger *log.Logger
	router chi.Router
}

// New creates a server. runner does the packing and rendering; cfg supplies
// the grid defaults, carousel geometry and listener settings.
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		cfg:    cfg,
		model:  aspect.New(aspect.WithTolerance(cfg.Grid.Tolerance)),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/pack", s.handlePack)
		r.Get("/aspect/{desc}", s.handleAspect)
		r.Post("/rows", s.handleRows)
		r.Post("/carousel/offset", s.handleCarouselOffset)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: s.cfg.Server.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}
