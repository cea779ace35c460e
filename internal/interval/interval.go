// Package interval provides date-only range arithmetic for lane schedules.
//
// Dates travel as ISO "YYYY-MM-DD" strings. Arithmetic is done on UTC
// midnights so that every day is exactly 24 hours long and DST never shifts
// a span or offset.
package interval

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

const day = 24 * time.Hour

// Parse reads a YYYY-MM-DD date and returns it as a UTC midnight.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("interval: invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// Normalize strips the time-of-day, keeping the calendar date as seen in t's
// own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders t as a YYYY-MM-DD date.
func Format(t time.Time) string {
	return Normalize(t).Format(Layout)
}

// DaySpan returns the number of calendar days covered by [start, end]
// inclusively. A single-day range has span 1.
func DaySpan(start, end time.Time) int {
	return DayOffset(start, end) + 1
}

// DayOffset returns the signed number of days from anchor to date.
func DayOffset(anchor, date time.Time) int {
	return int(Normalize(date).Sub(Normalize(anchor)) / day)
}

// Covers reports whether date lies within [start, end] inclusively. All three
// must be YYYY-MM-DD strings, for which lexical order equals date order.
func Covers(start, end, date string) bool {
	return start <= date && date <= end
}

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one day.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && bStart <= aEnd
}

// SpanOf parses both dates and returns DaySpan.
func SpanOf(start, end string) (int, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	return DaySpan(s, e), nil
}

// OffsetOf parses both dates and returns DayOffset.
func OffsetOf(anchor, date string) (int, error) {
	a, err := Parse(anchor)
	if err != nil {
		return 0, err
	}
	d, err := Parse(date)
	if err != nil {
		return 0, err
	}
	return DayOffset(a, d), nil
}

// Days returns n consecutive dates starting at start.
func Days(start time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	base := Normalize(start)
	out := make([]string, n)
	for i := range n {
		out[i] = base.AddDate(0, 0, i).Format(Layout)
	}
	return out
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}
