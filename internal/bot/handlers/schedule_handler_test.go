package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ksaito/gomibot/internal/database"
)

func testRouter(deps HandlerDeps, reminderErr error) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/schedule", NewListScheduleHandler(deps))
	r.Put("/schedule/{id}", NewUpdateItemsHandler(deps))
	r.Get("/healthz", NewHealthHandler(deps))
	r.Post("/trigger", NewTriggerHandler(deps, func(ctx context.Context) error {
		return reminderErr
	}))
	return r
}

func seededFakeStore() *fakeStore {
	entries := make(map[int]*database.ScheduleEntry, 7)
	labels := []string{"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"}
	for i, label := range labels {
		entries[i] = &database.ScheduleEntry{ID: i, DayOfWeek: label, Items: []string{""}}
	}
	return &fakeStore{entries: entries}
}

func TestListScheduleReturnsAllSevenDays(t *testing.T) {
	deps := testDeps(seededFakeStore(), &fakeLine{})
	r := testRouter(deps, nil)

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var entries []entryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(entries) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(entries))
	}
	if entries[0].DayOfWeek != "日曜日" || entries[6].DayOfWeek != "土曜日" {
		t.Errorf("entries out of order: first=%q last=%q", entries[0].DayOfWeek, entries[6].DayOfWeek)
	}
}

func TestUpdateItemsReplacesList(t *testing.T) {
	store := seededFakeStore()
	deps := testDeps(store, &fakeLine{})
	r := testRouter(deps, nil)

	body := `{"items":["燃えるゴミ","プラスチック"]}`
	req := httptest.NewRequest(http.MethodPut, "/schedule/2", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var updated entryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(updated.Items) != 2 || updated.Items[0] != "燃えるゴミ" {
		t.Errorf("unexpected items: %v", updated.Items)
	}
}

func TestUpdateItemsRejectsBadInput(t *testing.T) {
	deps := testDeps(seededFakeStore(), &fakeLine{})
	r := testRouter(deps, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"index out of range", "/schedule/7", `{"items":["x"]}`},
		{"non-numeric index", "/schedule/monday", `{"items":["x"]}`},
		{"empty items", "/schedule/1", `{"items":[]}`},
		{"malformed body", "/schedule/1", `{"items":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestTriggerHandlerStatusContract(t *testing.T) {
	deps := testDeps(seededFakeStore(), &fakeLine{})

	// Success path.
	r := testRouter(deps, nil)
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("success: status=%d body=%q, want 200 OK", w.Code, w.Body.String())
	}

	// Failure path.
	r = testRouter(deps, errors.New("push failed"))
	req = httptest.NewRequest(http.MethodPost, "/trigger", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("failure: status=%d, want 500", w.Code)
	}
}

func TestHealthzReflectsStorePing(t *testing.T) {
	store := seededFakeStore()
	deps := testDeps(store, &fakeLine{})
	r := testRouter(deps, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("healthy: status = %d, want 200", w.Code)
	}

	store.pingErr = errors.New("db closed")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("unhealthy: status = %d, want 500", w.Code)
	}
}
