package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ksaito/gomibot/internal/database"
)

type entryResponse struct {
	ID           int      `json:"id"`
	DayOfWeek    string   `json:"dayOfWeek"`
	Items        []string `json:"items"`
	FinishStatus bool     `json:"finishStatus"`
}

func toEntryResponse(e database.ScheduleEntry) entryResponse {
	return entryResponse{
		ID:           e.ID,
		DayOfWeek:    e.DayOfWeek,
		Items:        e.Items,
		FinishStatus: e.FinishStatus,
	}
}

// NewListScheduleHandler creates the handler serving the full weekly
// schedule.
// GET /schedule
func NewListScheduleHandler(deps HandlerDeps) http.HandlerFunc {
	log := deps.Logger.With("handler", "schedule_list")

	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.Store.ListEntries(r.Context())
		if err != nil {
			log.ErrorContext(r.Context(), "Failed to list schedule entries", "error", err)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]entryResponse, len(entries))
		for i, e := range entries {
			resp[i] = toEntryResponse(e)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type updateItemsReq struct {
	Items []string `json:"items"`
}

// NewUpdateItemsHandler creates the handler that replaces one weekday's
// item list. Days stay fixed at seven rows; only the content changes.
// The [""] sentinel marks a day with no collection.
// PUT /schedule/{id}
func NewUpdateItemsHandler(deps HandlerDeps) http.HandlerFunc {
	log := deps.Logger.With("handler", "schedule_update")

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id < 0 || id > 6 {
			jsonError(w, "id must be a weekday index 0-6", http.StatusBadRequest)
			return
		}

		var req updateItemsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Items) == 0 {
			jsonError(w, `items must not be empty; use [""] for no collection`, http.StatusBadRequest)
			return
		}

		if err := deps.Store.UpdateItems(r.Context(), id, req.Items); err != nil {
			if errors.Is(err, database.ErrEntryNotFound) {
				jsonError(w, "schedule entry not found", http.StatusNotFound)
				return
			}
			log.ErrorContext(r.Context(), "Failed to update items", "day", id, "error", err)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}

		entry, err := deps.Store.GetEntry(r.Context(), id)
		if err != nil {
			log.ErrorContext(r.Context(), "Failed to reload entry after update", "day", id, "error", err)
			jsonError(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEntryResponse(*entry))
	}
}

// NewHealthHandler creates the liveness handler; it pings the store.
// GET /healthz
func NewHealthHandler(deps HandlerDeps) http.HandlerFunc {
	log := deps.Logger.With("handler", "healthz")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Ping(r.Context()); err != nil {
			log.ErrorContext(r.Context(), "Health check failed", "error", err)
			http.Error(w, "unhealthy", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok")) //nolint:errcheck
	}
}
