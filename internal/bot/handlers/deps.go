// Package handlers implements the bot's HTTP handlers: the LINE
// webhook receiver, the manual reminder trigger, and the schedule
// admin endpoints.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ksaito/gomibot/internal/config"
	"github.com/ksaito/gomibot/internal/database"
	"github.com/ksaito/gomibot/internal/line"
)

// HandlerDeps contains the dependencies HTTP handlers need. Now may be
// left nil, in which case time.Now is used; tests supply a fixed clock.
type HandlerDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Line   line.Client
	Config *config.Config
	Now    func() time.Time
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
