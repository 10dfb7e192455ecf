package holidays

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

const monthKeyLayout = "2006-01"

// FormatDateKey renders d as a zero-padded YYYY-MM-DD lookup key.
func FormatDateKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseDateKey parses a canonical YYYY-MM-DD key. Non-padded or impossible dates are rejected.
func ParseDateKey(key string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(key))
	if err != nil {
		return civil.Date{}, fmt.Errorf("not a YYYY-MM-DD date: %w", err)
	}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("invalid calendar date %q", key)
	}
	if FormatDateKey(d) != key {
		return civil.Date{}, fmt.Errorf("date key %q is not in canonical YYYY-MM-DD form", key)
	}
	return d, nil
}

// FormatMonthKey renders the month of d as YYYY-MM.
func FormatMonthKey(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// ParseMonthKey parses YYYY-MM into the first day of that month.
func ParseMonthKey(s string) (civil.Date, error) {
	t, err := time.Parse(monthKeyLayout, strings.TrimSpace(s))
	if err != nil {
		return civil.Date{}, fmt.Errorf("not a YYYY-MM month: %w", err)
	}
	return civil.Date{Year: t.Year(), Month: t.Month(), Day: 1}, nil
}

// FormatDateID returns a stable per-day identifier suitable for element ids and list keys.
func FormatDateID(d civil.Date) string {
	return "day-" + FormatDateKey(d)
}

// AddDays is date-only arithmetic; month and year rollover are handled by the calendar.
func AddDays(d civil.Date, n int) civil.Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}

// Weekday returns the day of week of d.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// noon pins a date to 12:00 in loc so DST shifts cannot move it across midnight.
func noon(d civil.Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, loc)
}

// DaysBetween counts whole days from start to end. Both dates are placed at
// local noon in loc and the difference is rounded, so a 23 or 25 hour day
// still counts as one.
func DaysBetween(start, end civil.Date, loc *time.Location) int {
	days, _ := daysBetween(start, end, loc)
	return days
}

func daysBetween(start, end civil.Date, loc *time.Location) (int, time.Duration) {
	if loc == nil {
		loc = time.Local
	}
	diff := noon(end, loc).Sub(noon(start, loc))
	return int(math.Round(diff.Hours() / 24)), diff
}

// FormatDaysUntil renders a day count for display:
// 0 "Today", 1 "Tomorrow", 9 "In 1 week and 2 days".
func FormatDaysUntil(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}

	weeks := days / 7
	rem := days % 7
	switch {
	case weeks == 0:
		return fmt.Sprintf("In %d %s", rem, plural(rem, "day"))
	case rem == 0:
		return fmt.Sprintf("In %d %s", weeks, plural(weeks, "week"))
	default:
		return fmt.Sprintf("In %d %s and %d %s", weeks, plural(weeks, "week"), rem, plural(rem, "day"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// FormatLongDate renders d as "Thursday, July 4, 2024".
func FormatLongDate(d civil.Date) string {
	return d.In(time.UTC).Format("Monday, January 2, 2006")
}
