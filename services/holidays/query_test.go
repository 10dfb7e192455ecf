package holidays

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpcomingHolidays_FewerThanRequested(t *testing.T) {
	s, err := FromMap(map[string]string{
		"2024-01-01": "New Year's Day",
		"2024-07-04": "Independence Day",
	})
	require.NoError(t, err)

	got, err := s.UpcomingHolidays(civil.Date{Year: 2024, Month: 6, Day: 27}, 3, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Independence Day", got[0].Name)
	assert.Equal(t, civil.Date{Year: 2024, Month: 7, Day: 4}, got[0].Date)
	assert.Equal(t, 7, got[0].DaysUntil)
	assert.Equal(t, "Thursday", got[0].DayOfWeek)
	assert.Equal(t, "In 1 week", got[0].Label)
}

func TestUpcomingHolidays_ExcludesToday(t *testing.T) {
	s := testStore(t)

	got, err := s.UpcomingHolidays(civil.Date{Year: 2024, Month: 7, Day: 4}, 1, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Christmas Day", got[0].Name)
	assert.True(t, s.IsHolidayToday(civil.Date{Year: 2024, Month: 7, Day: 4}).IsHoliday)
}

func TestUpcomingHolidays_OrderedAndStrictlyFuture(t *testing.T) {
	s := testStore(t)
	today := civil.Date{Year: 2024, Month: 1, Day: 15}

	got, err := s.UpcomingHolidays(today, 10, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 4)

	prev := today
	for _, h := range got {
		assert.True(t, h.Date.After(prev), "%s should be after %s", h.Date, prev)
		assert.Equal(t, h.Date.DaysSince(today), h.DaysUntil)
		assert.GreaterOrEqual(t, h.DaysUntil, 1)
		prev = h.Date
	}
}

func TestUpcomingHolidays_DefaultCount(t *testing.T) {
	s := testStore(t)
	got, err := s.UpcomingHolidays(civil.Date{Year: 2023, Month: 12, Day: 1}, 0, time.UTC)
	require.NoError(t, err)
	assert.Len(t, got, DefaultUpcomingCount)
	assert.Equal(t, "New Year's Day", got[0].Name)
}

func TestUpcomingHolidays_Tomorrow(t *testing.T) {
	s := testStore(t)
	got, err := s.UpcomingHolidays(civil.Date{Year: 2024, Month: 7, Day: 3}, 1, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].DaysUntil)
	assert.Equal(t, "Tomorrow", got[0].Label)
}

func TestUpcomingHolidays_NoneLeft(t *testing.T) {
	s := testStore(t)

	for _, today := range []civil.Date{
		{Year: 2024, Month: 12, Day: 25},
		{Year: 2025, Month: 6, Day: 1},
	} {
		got, err := s.UpcomingHolidays(today, 3, time.UTC)
		assert.Nil(t, got)
		assert.True(t, errors.Is(err, ErrNoUpcomingHolidays), "today=%s err=%v", today, err)
	}
}

func TestUpcomingHolidays_SevenDaysAcrossDST(t *testing.T) {
	ny := loadZone(t, "America/New_York")
	s, err := FromMap(map[string]string{"2024-03-14": "Purim"})
	require.NoError(t, err)

	got, err := s.UpcomingHolidays(civil.Date{Year: 2024, Month: 3, Day: 7}, 3, ny)
	require.NoError(t, err)
	assert.Equal(t, 7, got[0].DaysUntil)
}

func TestIsHolidayToday(t *testing.T) {
	s := testStore(t)

	status := s.IsHolidayToday(civil.Date{Year: 2024, Month: 12, Day: 25})
	assert.True(t, status.IsHoliday)
	assert.Equal(t, "Christmas Day", status.HolidayName)

	status = s.IsHolidayToday(civil.Date{Year: 2024, Month: 12, Day: 26})
	assert.False(t, status.IsHoliday)
	assert.Empty(t, status.HolidayName)

	for _, key := range s.SortedKeys() {
		d, err := ParseDateKey(key)
		require.NoError(t, err)
		assert.True(t, s.IsHolidayToday(d).IsHoliday, key)
	}
}

func TestDayDetails(t *testing.T) {
	s := testStore(t)

	d := s.DayDetails(civil.Date{Year: 2024, Month: 7, Day: 4})
	assert.True(t, d.IsHoliday)
	assert.Equal(t, "Independence Day", d.HolidayName)
	assert.Equal(t, "Thursday, July 4, 2024", d.DisplayDate)
	assert.Equal(t, "ASP Rules Suspended", d.Headline)

	d = s.DayDetails(civil.Date{Year: 2024, Month: 7, Day: 5})
	assert.False(t, d.IsHoliday)
	assert.Equal(t, "Regular ASP Rules in Effect", d.Headline)
}
