package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ksaito/gomibot/internal/config"
	"github.com/ksaito/gomibot/internal/database"
	"github.com/ksaito/gomibot/internal/line"
)

var jst = time.FixedZone("JST", 9*3600)

// 2023-04-01 is a Saturday; 10:00 JST keeps it Saturday in JST.
func saturdayClock() func() time.Time {
	return func() time.Time {
		return time.Date(2023, 4, 1, 10, 0, 0, 0, jst)
	}
}

type statusWrite struct {
	id   int
	done bool
}

type fakeStore struct {
	entries      map[int]*database.ScheduleEntry
	statusWrites []statusWrite
	getErr       error
	setErr       error
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) GetEntry(_ context.Context, id int) (*database.ScheduleEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	entry, ok := f.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: day %d", database.ErrEntryNotFound, id)
	}
	return entry, nil
}

func (f *fakeStore) ListEntries(context.Context) ([]database.ScheduleEntry, error) {
	var out []database.ScheduleEntry
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) SetFinishStatus(_ context.Context, id int, done bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.statusWrites = append(f.statusWrites, statusWrite{id, done})
	if e, ok := f.entries[id]; ok {
		e.FinishStatus = done
	}
	return nil
}

func (f *fakeStore) UpdateItems(_ context.Context, id int, items []string) error {
	if e, ok := f.entries[id]; ok {
		e.Items = items
	}
	return nil
}

func (f *fakeStore) RunMaintenance(context.Context) error { return nil }

type pushed struct {
	to       string
	messages []line.Message
}

type fakeLine struct {
	pushes  []pushed
	pushErr error
}

func (f *fakeLine) Push(_ context.Context, to string, messages ...line.Message) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, pushed{to, messages})
	return nil
}

func (f *fakeLine) Reply(context.Context, string, ...line.Message) error { return nil }

func testDeps(store *fakeStore, client *fakeLine) TaskDeps {
	return TaskDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  store,
		Line:   client,
		Config: &config.Config{
			LINE:     config.LINEConfig{UserID: "user-1"},
			Schedule: config.ScheduleConfig{UTCOffsetHours: 9},
		},
		Now: saturdayClock(),
	}
}

func entry(id int, day string, items []string, finished bool) *database.ScheduleEntry {
	return &database.ScheduleEntry{ID: id, DayOfWeek: day, Items: items, FinishStatus: finished}
}

func TestReminderSaturdayWrapsToSundayEntry(t *testing.T) {
	store := &fakeStore{entries: map[int]*database.ScheduleEntry{
		0: entry(0, "日曜日", []string{"burnable", "plastic"}, false),
		6: entry(6, "土曜日", []string{""}, true),
	}}
	client := &fakeLine{}

	task := NewGarbageReminderTask(testDeps(store, client))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	// Today's (Saturday, 6) flag is reset first.
	if len(store.statusWrites) != 1 {
		t.Fatalf("expected 1 status write, got %d", len(store.statusWrites))
	}
	if w := store.statusWrites[0]; w.id != 6 || w.done {
		t.Errorf("expected reset of day 6, got %+v", w)
	}

	// The reminder concerns tomorrow's entry (Sunday, 0).
	if len(client.pushes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(client.pushes))
	}
	p := client.pushes[0]
	if p.to != "user-1" {
		t.Errorf("pushed to %q", p.to)
	}
	confirm, ok := p.messages[0].(line.ConfirmMessage)
	if !ok {
		t.Fatalf("expected confirm message, got %T", p.messages[0])
	}
	if !strings.Contains(confirm.Text, "burnable\nplastic") {
		t.Errorf("items not listed in order: %q", confirm.Text)
	}
	if !strings.Contains(confirm.Text, "日曜日") {
		t.Errorf("day label missing: %q", confirm.Text)
	}
	if confirm.YesLabel != "はい" || confirm.NoLabel != "いいえ" {
		t.Errorf("unexpected option labels: %q / %q", confirm.YesLabel, confirm.NoLabel)
	}
}

func TestReminderSkippedWhenAlreadyAcknowledged(t *testing.T) {
	store := &fakeStore{entries: map[int]*database.ScheduleEntry{
		0: entry(0, "日曜日", []string{"burnable"}, true),
		6: entry(6, "土曜日", []string{""}, false),
	}}
	client := &fakeLine{}

	task := NewGarbageReminderTask(testDeps(store, client))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(client.pushes) != 0 {
		t.Errorf("expected no push for acknowledged entry, got %d", len(client.pushes))
	}
	// The reset of today's flag still happens.
	if len(store.statusWrites) != 1 || store.statusWrites[0].id != 6 {
		t.Errorf("expected today's flag reset, got %+v", store.statusWrites)
	}
}

func TestReminderNoCollectionSendsPlainText(t *testing.T) {
	store := &fakeStore{entries: map[int]*database.ScheduleEntry{
		0: entry(0, "日曜日", []string{""}, false),
		6: entry(6, "土曜日", []string{""}, false),
	}}
	client := &fakeLine{}

	task := NewGarbageReminderTask(testDeps(store, client))
	if err := task(context.Background()); err != nil {
		t.Fatalf("task failed: %v", err)
	}

	if len(client.pushes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(client.pushes))
	}
	text, ok := client.pushes[0].messages[0].(line.TextMessage)
	if !ok {
		t.Fatalf("expected plain text message, got %T", client.pushes[0].messages[0])
	}
	if text.Text != "日曜日のゴミはありません" {
		t.Errorf("unexpected text: %q", text.Text)
	}
}

func TestReminderPropagatesStoreFailure(t *testing.T) {
	store := &fakeStore{
		entries: map[int]*database.ScheduleEntry{},
		getErr:  errors.New("store down"),
	}
	client := &fakeLine{}

	task := NewGarbageReminderTask(testDeps(store, client))
	if err := task(context.Background()); err == nil {
		t.Fatal("expected error from store failure")
	}
	if len(client.pushes) != 0 {
		t.Error("no push should happen after store failure")
	}
}

func TestReminderMissingEntryIsHardError(t *testing.T) {
	store := &fakeStore{entries: map[int]*database.ScheduleEntry{
		6: entry(6, "土曜日", []string{""}, false),
	}}
	client := &fakeLine{}

	task := NewGarbageReminderTask(testDeps(store, client))
	err := task(context.Background())
	if !errors.Is(err, database.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestReminderPropagatesPushFailure(t *testing.T) {
	store := &fakeStore{entries: map[int]*database.ScheduleEntry{
		0: entry(0, "日曜日", []string{"burnable"}, false),
		6: entry(6, "土曜日", []string{""}, false),
	}}
	client := &fakeLine{pushErr: errors.New("gateway down")}

	task := NewGarbageReminderTask(testDeps(store, client))
	if err := task(context.Background()); err == nil {
		t.Fatal("expected error from push failure")
	}
}
