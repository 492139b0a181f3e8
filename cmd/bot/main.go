// Package main contains the entrypoint for the garbage reminder bot.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ksaito/gomibot/internal/bot"
	"github.com/ksaito/gomibot/internal/bot/handlers"
	"github.com/ksaito/gomibot/internal/bot/tasks"
	"github.com/ksaito/gomibot/internal/config"
	"github.com/ksaito/gomibot/internal/database"
	"github.com/ksaito/gomibot/internal/line"
	"github.com/ksaito/gomibot/internal/logger"
	"github.com/ksaito/gomibot/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, db, store, LINE
// client, scheduler, HTTP server), blocks until shutdown, and returns
// an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	lineClient, err := line.NewClient(cfg.LINE, log)
	if err != nil {
		log.Error("Failed to create LINE client", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Line:   lineClient,
		Config: cfg,
	}
	hDeps := handlers.HandlerDeps{
		Logger: log,
		Store:  store,
		Line:   lineClient,
		Config: cfg,
	}

	taskMap := tasks.RegisterAllTasks(tDeps)

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	if err := sched.Start(); err != nil {
		log.Error("Failed to start scheduler", "error", err)
		return 1
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Error("Failed to stop scheduler", "error", err)
		}
	}()

	srv := server.New(cfg.Server, log, hDeps, taskMap[tasks.TaskGarbageReminder])

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("HTTP server stopped with error", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
		return 1
	}

	log.Info("Stopped gracefully")
	return 0
}
