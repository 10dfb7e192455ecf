package holidays

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-sql/civil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := FromMap(map[string]string{
		"2024-01-01": "New Year's Day",
		"2024-07-04": "Independence Day",
		"2024-12-25": "Christmas Day",
		"2024-02-12": "Lincoln's Birthday",
		"2024-03-14": "Purim",
	})
	require.NoError(t, err)
	return s
}

func TestFromMap_SortsKeys(t *testing.T) {
	s := testStore(t)

	assert.Equal(t, []string{"2024-01-01", "2024-02-12", "2024-03-14", "2024-07-04", "2024-12-25"}, s.SortedKeys())
	assert.Equal(t, 5, s.Len())

	name, ok := s.Lookup("2024-07-04")
	assert.True(t, ok)
	assert.Equal(t, "Independence Day", name)

	_, ok = s.Lookup("2024-07-05")
	assert.False(t, ok)
}

func TestFromMap_SortedKeysIsACopy(t *testing.T) {
	s := testStore(t)
	keys := s.SortedKeys()
	keys[0] = "mutated"
	assert.Equal(t, "2024-01-01", s.SortedKeys()[0])
}

func TestFromMap_Rejects(t *testing.T) {
	tests := map[string]map[string]string{
		"empty":          {},
		"not a date":     {"tomorrow": "Holiday"},
		"impossible day": {"2023-02-29": "Holiday"},
		"unpadded":       {"2024-7-4": "Holiday"},
		"with time":      {"2024-07-04T00:00:00Z": "Holiday"},
		"empty name":     {"2024-07-04": "   "},
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := FromMap(raw)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, errors.Is(err, ErrConfiguration), "expected ErrConfiguration, got %v", err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestFromMap_AcceptsLeapDay(t *testing.T) {
	s, err := FromMap(map[string]string{"2024-02-29": "Leap Day"})
	require.NoError(t, err)
	name, ok := s.LookupDate(civil.Date{Year: 2024, Month: 2, Day: 29})
	assert.True(t, ok)
	assert.Equal(t, "Leap Day", name)
}

func TestDateRange(t *testing.T) {
	s := testStore(t)
	r := s.DateRange()
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 1}, r.Start)
	assert.Equal(t, civil.Date{Year: 2024, Month: 12, Day: 1}, r.End)
}

func TestLoad_JSONAndYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/holidays.json",
		[]byte(`{"2025-01-01": "New Year's Day", "2025-07-04": "Independence Day"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/holidays.yml",
		[]byte("\"2025-01-01\": New Year's Day\n\"2025-12-25\": Christmas Day\n"), 0o644))

	s, err := Load(fs, "/data/holidays.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-07-04"}, s.SortedKeys())

	s, err = Load(fs, "/data/holidays.yml")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-12-25"}, s.SortedKeys())
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{"2025-01-01": `), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/empty.json", []byte(`{}`), 0o644))

	for _, path := range []string{"/missing.json", "/bad.json", "/empty.json"} {
		t.Run(path, func(t *testing.T) {
			_, err := Load(fs, path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.True(t, strings.Contains(err.Error(), path), "error should name the file: %v", err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("x.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("X.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("x.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("x"))
}
