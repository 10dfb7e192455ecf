package holidays

import (
	"errors"
	"sort"
	"time"

	"github.com/golang-sql/civil"

	"aspcal/models"
)

// DefaultUpcomingCount is used when a caller asks for fewer than one holiday.
const DefaultUpcomingCount = 3

// ErrNoUpcomingHolidays means the data ends before tomorrow and needs extending.
var ErrNoUpcomingHolidays = errors.New("no future holidays found")

// IsHolidayToday reports whether today is a suspension day.
func (s *Store) IsHolidayToday(today civil.Date) models.TodayStatus {
	name, ok := s.LookupDate(today)
	return models.TodayStatus{IsHoliday: ok, HolidayName: name}
}

// UpcomingHolidays returns up to count holidays strictly after today, oldest
// first. Today is never included, even when it is a holiday. Day counts are
// computed in loc.
func (s *Store) UpcomingHolidays(today civil.Date, count int, loc *time.Location) ([]models.Holiday, error) {
	if count < 1 {
		count = DefaultUpcomingCount
	}
	tomorrow := AddDays(today, 1)

	// dates is sorted, so the first candidate is found by binary search.
	start := sort.Search(len(s.dates), func(i int) bool {
		return !s.dates[i].Before(tomorrow)
	})
	if start == len(s.dates) {
		return nil, ErrNoUpcomingHolidays
	}

	end := start + count
	if end > len(s.dates) {
		end = len(s.dates)
	}

	result := make([]models.Holiday, 0, end-start)
	for i := start; i < end; i++ {
		d := s.dates[i]
		days := DaysBetween(today, d, loc)
		result = append(result, models.Holiday{
			Date:      d,
			Name:      s.names[s.keys[i]],
			DaysUntil: days,
			DayOfWeek: Weekday(d).String(),
			Label:     FormatDaysUntil(days),
		})
	}
	return result, nil
}

// upcomingDiagnostics describes the day-count calculation for the first upcoming holiday.
func upcomingDiagnostics(today civil.Date, next models.Holiday, loc *time.Location) *models.UpcomingDiagnostics {
	days, raw := daysBetween(today, next.Date, loc)
	return &models.UpcomingDiagnostics{
		NextHolidayDate: FormatDateKey(next.Date),
		CalculatedDays:  days,
		RawTimeDiffMs:   raw.Milliseconds(),
		RawTimeDiffDays: raw.Hours() / 24,
	}
}

// DayDetails describes a single selected day.
func (s *Store) DayDetails(d civil.Date) models.DayDetails {
	details := models.DayDetails{
		Date:        d,
		DisplayDate: FormatLongDate(d),
	}
	if name, ok := s.LookupDate(d); ok {
		details.IsHoliday = true
		details.HolidayName = name
		details.Headline = "ASP Rules Suspended"
		details.Message = "Alternate Side Parking rules are suspended on this date. You do not need to move your vehicle for street cleaning."
		return details
	}
	details.Headline = "Regular ASP Rules in Effect"
	details.Message = "Please check street signs for specific times."
	return details
}
