package holidays

import (
	"time"

	"github.com/golang-sql/civil"

	"aspcal/models"
)

// GridSize is six full weeks.
const GridSize = 42

// BuildMonth returns the 42-day grid for year/month, starting on the Sunday on
// or before the 1st. Days outside the month are included and flagged.
func BuildMonth(s *Store, year int, month time.Month, today civil.Date) models.CalendarMonth {
	first := civil.Date{Year: year, Month: month, Day: 1}
	// Normalize out-of-range months (e.g. 13) the same way time.Date does.
	first = AddDays(first, 0)
	start := AddDays(first, -int(Weekday(first)))

	days := make([]models.CalendarDay, 0, GridSize)
	d := start
	for i := 0; i < GridSize; i++ {
		name, isHoliday := s.LookupDate(d)
		wd := Weekday(d)
		days = append(days, models.CalendarDay{
			Date:           d,
			ID:             FormatDateID(d),
			Day:            d.Day,
			IsCurrentMonth: d.Month == first.Month && d.Year == first.Year,
			IsToday:        d == today,
			IsHoliday:      isHoliday,
			IsWeekend:      wd == time.Saturday || wd == time.Sunday,
			HolidayName:    name,
		})
		d = AddDays(d, 1)
	}

	return models.CalendarMonth{
		Year:      first.Year,
		Month:     int(first.Month),
		MonthName: first.Month.String(),
		Days:      days,
	}
}

// VisibleMonths is how many months the calendar view shows side by side.
const VisibleMonths = 2

// Navigation reports whether the calendar can move a month back or forward
// from base while keeping every visible month inside r.
func Navigation(base civil.Date, r models.DateRange) models.CalendarNavigation {
	first := civil.Date{Year: base.Year, Month: base.Month, Day: 1}
	prev := addMonths(first, -1)
	next := addMonths(first, 1)
	lastVisibleAfterNext := addMonths(first, VisibleMonths)

	return models.CalendarNavigation{
		CanGoBack:    !prev.Before(r.Start),
		CanGoForward: !lastVisibleAfterNext.After(r.End),
		Previous:     FormatMonthKey(prev),
		Next:         FormatMonthKey(next),
	}
}

// Calendar builds the two-month view starting at base's month.
func Calendar(s *Store, base, today civil.Date) models.CalendarResponse {
	first := civil.Date{Year: base.Year, Month: base.Month, Day: 1}
	months := make([]models.CalendarMonth, 0, VisibleMonths)
	for i := 0; i < VisibleMonths; i++ {
		m := addMonths(first, i)
		months = append(months, BuildMonth(s, m.Year, m.Month, today))
	}
	r := s.DateRange()
	return models.CalendarResponse{
		Today:      today,
		Months:     months,
		Navigation: Navigation(first, r),
		Range:      r,
	}
}

// addMonths moves a first-of-month date by n months.
func addMonths(first civil.Date, n int) civil.Date {
	t := time.Date(first.Year, first.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}
