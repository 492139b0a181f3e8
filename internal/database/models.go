package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ItemList is an ordered list of garbage category names, stored in a
// single TEXT column as a JSON array.
type ItemList []string

// NoCollection reports whether the list is the single empty-string
// sentinel meaning no garbage is collected that day.
func (l ItemList) NoCollection() bool {
	return len(l) == 1 && l[0] == ""
}

// Value implements driver.Valuer.
func (l ItemList) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *ItemList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into ItemList", src)
	}
}

// ScheduleEntry is one weekday's garbage schedule. ID is the weekday
// index (0 = Sunday .. 6 = Saturday); exactly seven rows exist, seeded
// by migration. FinishStatus is the only mutable field in the weekly
// cycle: reset by the reminder task, set by an affirmative reply.
type ScheduleEntry struct {
	ID           int       `db:"id"`
	DayOfWeek    string    `db:"day_of_week"`
	Items        ItemList  `db:"items"`
	FinishStatus bool      `db:"finish_status"`
	UpdatedAt    time.Time `db:"updated_at"`
}
