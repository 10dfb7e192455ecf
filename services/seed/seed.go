// Package seed generates holiday data for years the published calendar does
// not cover yet, from the US federal holidays on which ASP is suspended.
package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"aspcal/services/holidays"
)

// LincolnsBirthday is a New York State holiday that suspends ASP.
var LincolnsBirthday = &cal.Holiday{
	Name:  "Lincoln's Birthday",
	Type:  cal.ObservancePublic,
	Month: time.February,
	Day:   12,
	Func:  cal.CalcDayOfMonth,
}

// suspensionHolidays are observed on their actual date, never a substitute weekday.
var suspensionHolidays = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	LincolnsBirthday,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ColumbusDay,
	us.VeteransDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// FederalHolidays returns date key -> name for every suspension holiday in years.
func FederalHolidays(years ...int) map[string]string {
	out := make(map[string]string)
	for _, year := range years {
		for _, h := range suspensionHolidays {
			actual, _ := h.Calc(year)
			if actual.IsZero() {
				continue
			}
			key := actual.Format("2006-01-02")
			if name, ok := out[key]; ok {
				out[key] = name + " / " + h.Name
				continue
			}
			out[key] = h.Name
		}
	}
	return out
}

// Merge adds generated entries to existing. Dates already present keep their
// existing name. Neither input is modified.
func Merge(existing, generated map[string]string) map[string]string {
	out := make(map[string]string, len(existing)+len(generated))
	for k, v := range generated {
		out[k] = v
	}
	for k, v := range existing {
		out[k] = v
	}
	return out
}

// WriteJSON validates m as holiday data and writes it as indented JSON with
// keys in date order.
func WriteJSON(w io.Writer, m map[string]string) error {
	if _, err := holidays.FromMap(m); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ParseYears accepts "2027", "2027,2028" or "2027-2030".
func ParseYears(s string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to := part, part
		if i := strings.Index(part, "-"); i > 0 {
			from, to = part[:i], part[i+1:]
		}
		start, err := parseYear(from)
		if err != nil {
			return nil, err
		}
		end, err := parseYear(to)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("invalid year range %q", part)
		}
		for y := start; y <= end; y++ {
			seen[y] = true
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no years given")
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1900 || y > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return y, nil
}
