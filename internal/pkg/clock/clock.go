// Package clock is the single source of "now" for attendance and reporting.
// Every temporal decision goes through a Clock so tests can pin the instant.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock supplies the current instant.
type Clock = clockwork.Clock

// New returns the wall clock.
func New() Clock {
	return clockwork.NewRealClock()
}

// Now returns c's current instant truncated to whole seconds, which is the
// precision attendance timestamps are stored and compared at.
func Now(c Clock) time.Time {
	return c.Now().Truncate(time.Second)
}

// DayBounds returns the inclusive [00:00:00, 23:59:59] window of t's calendar
// day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, d, 23, 59, 59, 0, t.Location())
	return start, end
}

// MonthBounds returns the inclusive window of a month. The last day is day 0
// of the following month, so month lengths and leap years fall out of
// time.Date normalisation.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month+1, 0, 23, 59, 59, 0, loc)
	return start, end
}

// MonthName returns the English name of month 1..12.
func MonthName(month int) string {
	return time.Month(month).String()
}
