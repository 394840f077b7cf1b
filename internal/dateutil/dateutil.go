// Package dateutil provides day-granularity date helpers for assignment
// timelines. All assignment boundary arithmetic goes through DayBefore so the
// forward (complete) and reverse (restore) operations stay in exact agreement.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Truncate drops the time-of-day portion, keeping year/month/day in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayBefore returns the calendar day immediately preceding t.
func DayBefore(t time.Time) time.Time {
	return Truncate(t).AddDate(0, 0, -1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Truncate(a).Equal(Truncate(b))
}

// Format renders t as a calendar-date string.
func Format(t time.Time) string {
	return Truncate(t).Format(Layout)
}

// Parse reads a calendar-date string in the Layout format.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dateutil: parse %q: %w", s, err)
	}
	return t, nil
}

// Today returns the current calendar day.
func Today() time.Time {
	return Truncate(time.Now().UTC())
}
