// Package server provides the HTTP API for Pergunta.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/assistant"
	"github.com/hyperjump/pergunta/internal/config"
	"github.com/hyperjump/pergunta/internal/ingest"
	"github.com/hyperjump/pergunta/internal/session"
)

// Server is the HTTP server for the Pergunta API.
type Server struct {
	assistant *assistant.Assistant
	holder    *ingest.Holder
	store     session.Store
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	a *assistant.Assistant,
	holder *ingest.Holder,
	store session.Store,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		assistant: a,
		holder:    holder,
		store:     store,
		config:    cfg,
		logger:    logger,
	}
}

// Routes builds the HTTP handler tree. Exposed for tests that mount the API
// on a test server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/ask", s.handleAsk)
	r.Get("/api/v1/analytics", s.handleAnalytics)
	r.Get("/api/v1/sessions/{id}/messages", s.handleSessionMessages)
	r.Post("/api/v1/dataset/reload", s.handleDatasetReload)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
