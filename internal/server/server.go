// Package server exposes the HTTP API: keyword management, insight
// generation, and generated-post retrieval.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"trendpulse/internal/config"
	"trendpulse/internal/core"
	"trendpulse/internal/logger"
	"trendpulse/internal/store"
)

// InsightGenerator runs the generation pipeline for one keyword.
type InsightGenerator interface {
	GenerateByID(ctx context.Context, keywordID string) (*core.Insight, error)
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	store      *store.Store
	generator  InsightGenerator
	config     config.Server
}

// New creates a new HTTP server instance
func New(st *store.Store, generator InsightGenerator, cfg config.Server) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		store:     st,
		generator: generator,
		config:    cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Insight generation can take several provider round trips.
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/status", s.handleStatus)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/keywords", func(r chi.Router) {
			r.Get("/", s.handleListKeywords)
			r.Post("/", s.handleCreateKeyword)
			r.Delete("/{id}", s.handleDeleteKeyword)
			r.Patch("/{id}/toggle", s.handleToggleKeyword)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", s.handleListInsights)
			r.Get("/{id}", s.handleGetInsight)
			r.Post("/generate/{keywordID}", s.handleGenerateInsight)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", s.handleListPosts)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logger.Info("starting http server", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down http server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
