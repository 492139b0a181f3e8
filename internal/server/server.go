// Package server wires the HTTP surface: the webhook receiver, the
// manual trigger, and the schedule admin endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ksaito/gomibot/internal/bot/handlers"
	"github.com/ksaito/gomibot/internal/bot/tasks"
	"github.com/ksaito/gomibot/internal/config"
	"github.com/ksaito/gomibot/internal/logger"
)

// Server hosts the bot's HTTP endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the router and returns a server ready to start. The
// reminder task is the same function the cron scheduler runs; the
// trigger endpoint just invokes it on demand.
func New(cfg config.ServerConfig, log *slog.Logger, deps handlers.HandlerDeps, reminder tasks.TaskFunc) *Server {
	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))

	r.Post("/webhook", handlers.NewWebhookHandler(deps))
	r.Post("/trigger", handlers.NewTriggerHandler(deps, reminder))
	r.Get("/schedule", handlers.NewListScheduleHandler(deps))
	r.Put("/schedule/{id}", handlers.NewUpdateItemsHandler(deps))
	r.Get("/healthz", handlers.NewHealthHandler(deps))

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log.With("component", "http_server"),
	}
}

// Start listens and serves until Shutdown is called. It returns nil on
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting up to the context deadline for
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
