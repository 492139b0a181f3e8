package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrEntryNotFound is returned when a weekday index has no schedule
// row. The table always holds seven rows, so callers treat this as a
// hard error rather than skipping silently.
var ErrEntryNotFound = errors.New("schedule entry not found")

// Store defines the data access operations on the weekly garbage
// schedule. All writes touch exactly one row; there are no multi-row
// transactions and no internal retries — storage faults propagate to
// the caller.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetEntry retrieves the schedule entry for a weekday index.
	GetEntry(ctx context.Context, id int) (*ScheduleEntry, error)

	// ListEntries retrieves all seven entries ordered by weekday index.
	ListEntries(ctx context.Context) ([]ScheduleEntry, error)

	// SetFinishStatus overwrites the finish flag for a weekday index.
	// Idempotent: writing the stored value again is not an error.
	SetFinishStatus(ctx context.Context, id int, done bool) error

	// UpdateItems replaces the item list for a weekday index.
	UpdateItems(ctx context.Context, id int, items []string) error

	// RunMaintenance performs database maintenance (VACUUM and ANALYZE).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func validDayID(id int) error {
	if id < 0 || id > 6 {
		return fmt.Errorf("weekday index %d out of range [0,6]", id)
	}
	return nil
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetEntry(ctx context.Context, id int) (*ScheduleEntry, error) {
	if err := validDayID(id); err != nil {
		return nil, err
	}

	var entry ScheduleEntry
	query := `
        SELECT id, day_of_week, items, finish_status, updated_at
        FROM garbage_schedule
        WHERE id = ?;
    `
	if err := s.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: day %d", ErrEntryNotFound, id)
		}
		s.logger.ErrorContext(ctx, "Error fetching schedule entry", "day", id, "error", err)
		return nil, fmt.Errorf("failed to fetch schedule entry for day %d: %w", id, err)
	}

	return &entry, nil
}

func (s *sqlxStore) ListEntries(ctx context.Context) ([]ScheduleEntry, error) {
	var entries []ScheduleEntry
	query := `
        SELECT id, day_of_week, items, finish_status, updated_at
        FROM garbage_schedule
        ORDER BY id;
    `
	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing schedule entries", "error", err)
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}

	return entries, nil
}

func (s *sqlxStore) SetFinishStatus(ctx context.Context, id int, done bool) error {
	if err := validDayID(id); err != nil {
		return err
	}

	query := `UPDATE garbage_schedule SET finish_status = ?, updated_at = ? WHERE id = ?;`
	result, err := s.db.ExecContext(ctx, query, done, time.Now().UTC(), id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating finish status", "day", id, "done", done, "error", err)
		return fmt.Errorf("failed to update finish status for day %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: day %d", ErrEntryNotFound, id)
	}

	s.logger.DebugContext(ctx, "Finish status updated", "day", id, "done", done)
	return nil
}

func (s *sqlxStore) UpdateItems(ctx context.Context, id int, items []string) error {
	if err := validDayID(id); err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("item list cannot be empty; use the [\"\"] sentinel for no collection")
	}

	query := `UPDATE garbage_schedule SET items = ?, updated_at = ? WHERE id = ?;`
	result, err := s.db.ExecContext(ctx, query, ItemList(items), time.Now().UTC(), id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating items", "day", id, "error", err)
		return fmt.Errorf("failed to update items for day %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("%w: day %d", ErrEntryNotFound, id)
	}

	s.logger.DebugContext(ctx, "Items updated", "day", id, "count", len(items))
	return nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE;"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
