package handlers

import (
	"net/http"

	"github.com/ksaito/gomibot/internal/bot/tasks"
)

// NewTriggerHandler creates a handler that runs the garbage reminder
// once on demand, outside the cron cadence. The body mirrors the
// status contract of the scheduled run: "OK" on success, 500 "Error"
// on any internal failure.
func NewTriggerHandler(deps HandlerDeps, reminder tasks.TaskFunc) http.HandlerFunc {
	log := deps.Logger.With("handler", "trigger")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := reminder(r.Context()); err != nil {
			log.ErrorContext(r.Context(), "Manual reminder run failed", "error", err)
			http.Error(w, "Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK")) //nolint:errcheck
	}
}
