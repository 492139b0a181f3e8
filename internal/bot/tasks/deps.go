// Package tasks implements the bot's scheduled tasks: the garbage
// reminder and database maintenance.
package tasks

import (
	"log/slog"
	"time"

	"github.com/ksaito/gomibot/internal/config"
	"github.com/ksaito/gomibot/internal/database"
	"github.com/ksaito/gomibot/internal/line"
)

// TaskDeps contains the dependencies scheduled tasks need. Now may be
// left nil, in which case time.Now is used; tests supply a fixed clock.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Line   line.Client
	Config *config.Config
	Now    func() time.Time
}
