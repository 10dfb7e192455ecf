package seed

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspcal/services/holidays"
)

func TestFederalHolidays_2024(t *testing.T) {
	got := FederalHolidays(2024)

	keys := []string{
		"2024-01-01", // New Year's Day
		"2024-01-15", // Martin Luther King Jr. Day
		"2024-02-12", // Lincoln's Birthday
		"2024-02-19", // Presidents' Day
		"2024-05-27", // Memorial Day
		"2024-06-19", // Juneteenth
		"2024-07-04", // Independence Day
		"2024-09-02", // Labor Day
		"2024-10-14", // Columbus Day
		"2024-11-11", // Veterans Day
		"2024-11-28", // Thanksgiving
		"2024-12-25", // Christmas
	}
	assert.Len(t, got, len(keys))
	for _, key := range keys {
		_, ok := got[key]
		assert.True(t, ok, "missing %s", key)
	}
	assert.Equal(t, "Lincoln's Birthday", got["2024-02-12"])
}

func TestFederalHolidays_UsesActualDates(t *testing.T) {
	// July 4 2026 is a Saturday; ASP is suspended on the day itself.
	got := FederalHolidays(2026)
	_, ok := got["2026-07-04"]
	assert.True(t, ok)
	_, ok = got["2026-07-03"]
	assert.False(t, ok)
}

func TestFederalHolidays_IsValidHolidayData(t *testing.T) {
	s, err := holidays.FromMap(FederalHolidays(2027, 2028))
	require.NoError(t, err)
	assert.Equal(t, 24, s.Len())
}

func TestMerge_KeepsExistingNames(t *testing.T) {
	existing := map[string]string{"2027-01-01": "New Year's Day (observed by DOT)", "2027-03-22": "Purim"}
	generated := map[string]string{"2027-01-01": "New Year's Day", "2027-12-25": "Christmas Day"}

	got := Merge(existing, generated)
	assert.Equal(t, map[string]string{
		"2027-01-01": "New Year's Day (observed by DOT)",
		"2027-03-22": "Purim",
		"2027-12-25": "Christmas Day",
	}, got)
	assert.Len(t, existing, 2)
	assert.Len(t, generated, 2)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"2027-12-25": "Christmas Day", "2027-01-01": "New Year's Day"}))

	out := buf.String()
	assert.Less(t, strings.Index(out, "2027-01-01"), strings.Index(out, "2027-12-25"))

	var back map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Len(t, back, 2)

	assert.Error(t, WriteJSON(&buf, map[string]string{"2027-02-30": "Nope"}))
}

func TestParseYears(t *testing.T) {
	got, err := ParseYears("2028, 2027-2029,2027")
	require.NoError(t, err)
	assert.Equal(t, []int{2027, 2028, 2029}, got)

	for _, bad := range []string{"", "soon", "2030-2027", "27", "2027-"} {
		_, err := ParseYears(bad)
		assert.Error(t, err, bad)
	}
}
