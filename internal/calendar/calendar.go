// Package calendar implements civil-day arithmetic used by recurrence and
// balance computation. Dates are time.Time values at midnight UTC.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for civil dates.
const DateLayout = "2006-01-02"

// Unit is a calendar stepping unit.
type Unit int

const (
	Day Unit = iota
	Week
	Month
)

func (u Unit) String() string {
	switch u {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// Normalize drops the time-of-day and location, keeping the calendar day
// as observed in t's own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a normalized civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return Normalize(t).Format(DateLayout)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddInterval returns the date n units after date. Month steps clamp the
// day-of-month to the last day of the target month (Jan 31 + 1 month is
// Feb 28 or 29).
func AddInterval(date time.Time, unit Unit, n int) time.Time {
	date = Normalize(date)

	switch unit {
	case Day:
		return date.AddDate(0, 0, n)
	case Week:
		return date.AddDate(0, 0, 7*n)
	case Month:
		return addMonths(date, n)
	default:
		return date
	}
}

func addMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()

	// zero-based month index keeps negative steps correct
	idx := int(m) - 1 + n
	y += floorDiv(idx, 12)
	month := time.Month(floorMod(idx, 12) + 1)

	if last := DaysInMonth(y, month); d > last {
		d = last
	}

	return Date(y, month, d)
}

// DaysBetween returns the number of days from a to b (negative when b is
// before a).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// EachDay calls fn for every day in [start, end]. It stops early when fn
// returns false.
func EachDay(start, end time.Time, fn func(day time.Time) bool) {
	end = Normalize(end)
	for d := Normalize(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if !fn(d) {
			return
		}
	}
}

// Before reports whether day a is strictly before day b.
func Before(a, b time.Time) bool {
	return Normalize(a).Before(Normalize(b))
}

// Min returns the earlier of two days.
func Min(a, b time.Time) time.Time {
	if Before(b, a) {
		return Normalize(b)
	}
	return Normalize(a)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
