// Package datex holds the calendar arithmetic used by reports and
// navigation. Dates are civil days represented as time.Time at midnight UTC.
package datex

import (
	"fmt"
	"time"
)

// Layout is the ISO calendar date format used on the wire and in storage.
const Layout = "2006-01-02"

// Day truncates t to the calendar day it falls on in its own location and
// returns it as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(now.In(loc))
}

// Parse reads an ISO date. Anything after the first ten characters is
// ignored, so timestamps coming back from a DATE column parse too.
func Parse(s string) (time.Time, error) {
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func Format(d time.Time) string {
	return d.Format(Layout)
}

// weekdayMon returns Monday=0 .. Sunday=6.
func weekdayMon(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// WeekSundayStart returns the Sunday that opens the week containing d.
func WeekSundayStart(d time.Time) time.Time {
	d = Day(d)
	return d.AddDate(0, 0, -((weekdayMon(d) + 1) % 7))
}

// WeekMondayStart returns the Monday that opens the week containing d.
func WeekMondayStart(d time.Time) time.Time {
	d = Day(d)
	return d.AddDate(0, 0, -weekdayMon(d))
}

// WeekEnd is the last day of the 7-day window opened by start.
func WeekEnd(start time.Time) time.Time {
	return Day(start).AddDate(0, 0, 6)
}

// Clamp constrains d to [lo, hi]. When lo is after hi, hi wins.
func Clamp(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		d = lo
	}
	if d.After(hi) {
		d = hi
	}
	return d
}

// DaysBetween counts whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Range lists every day from start through end inclusive.
func Range(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil
	}
	out := make([]time.Time, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// FormatMinutes renders a minute count as {H}h{MM}min, e.g. 95 -> "1h35min".
func FormatMinutes(total int) string {
	return fmt.Sprintf("%dh%02dmin", total/60, total%60)
}
