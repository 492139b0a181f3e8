// Package schedule provides the weekday arithmetic shared by the
// reminder task and the webhook handler. The weekday is always computed
// in the user's civil day at a fixed UTC offset, so the result does not
// depend on the timezone the service happens to run in.
package schedule

import "time"

// DayIndex returns the weekday index (0 = Sunday .. 6 = Saturday) of the
// civil day containing t at the given fixed UTC offset.
func DayIndex(t time.Time, utcOffsetHours int) int {
	loc := time.FixedZone("", utcOffsetHours*3600)
	return int(t.In(loc).Weekday())
}

// NextDay returns the weekday index following d. Saturday (6) wraps to
// Sunday (0), never 7.
func NextDay(d int) int {
	return (d + 1) % 7
}
