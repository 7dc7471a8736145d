// Package dateutil provides the civil-date arithmetic shared by every layer
// of the planning engine. A Date identifies a calendar day with no time zone
// or clock component; all comparisons are whole-day comparisons.
package dateutil

import "time"

// Layout is the canonical wire format for calendar dates.
const Layout = "2006-01-02"

// Date represents a single calendar day.
type Date struct {
	t time.Time
}

// Parse interprets value as a canonical "YYYY-MM-DD" date. The second return
// value reports whether the input was well formed; callers decide how a
// malformed date is surfaced.
func Parse(value string) (Date, bool) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, false
	}
	return Date{t: t.UTC()}, true
}

// FromTime truncates an instant to the calendar day it falls on in UTC.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return Date{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// New builds a Date from its components using Go's normalizing calendar
// arithmetic, so New(2025, 2, 30) rolls into March.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String formats the date as zero-padded "YYYY-MM-DD".
func (d Date) String() string {
	return d.t.Format(Layout)
}

// AddDays returns the date n calendar days after d. Negative n moves
// backwards. Month and year boundaries, including leap days, are handled by
// the calendar.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether both values identify the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time exposes the underlying midnight-UTC instant, used when a Date is
// persisted alongside timestamp columns.
func (d Date) Time() time.Time {
	return d.t
}

// DaysBetween counts the calendar days from a to b. The count is zero when
// the dates are equal and negative when b precedes a.
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}
