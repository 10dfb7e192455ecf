package models

import "github.com/golang-sql/civil"

// Holiday represents an upcoming ASP suspension day relative to a given "today".
type Holiday struct {
	Date      civil.Date `json:"date"`      // YYYY-MM-DD
	Name      string     `json:"name"`
	DaysUntil int        `json:"daysUntil"` // whole days from today, always >= 1 for upcoming entries
	DayOfWeek string     `json:"dayOfWeek"` // English weekday name, e.g. "Thursday"
	Label     string     `json:"label"`     // human form of DaysUntil, e.g. "In 1 week"
}

// CalendarDay is one cell of a 6x7 month grid.
type CalendarDay struct {
	Date           civil.Date `json:"date"`
	ID             string     `json:"id"`
	Day            int        `json:"day"`
	IsCurrentMonth bool       `json:"isCurrentMonth"`
	IsToday        bool       `json:"isToday"`
	IsHoliday      bool       `json:"isHoliday"`
	IsWeekend      bool       `json:"isWeekend"`
	HolidayName    string     `json:"holidayName,omitempty"`
}

// CalendarMonth is a single rendered month.
type CalendarMonth struct {
	Year      int           `json:"year"`
	Month     int           `json:"month"` // 1-12
	MonthName string        `json:"monthName"`
	Days      []CalendarDay `json:"days"`
}

// DateRange bounds calendar navigation: first of the earliest and latest holiday months.
type DateRange struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// CalendarNavigation describes which neighbouring months can be browsed to.
type CalendarNavigation struct {
	CanGoBack    bool   `json:"canGoBack"`
	CanGoForward bool   `json:"canGoForward"`
	Previous     string `json:"previous"` // YYYY-MM
	Next         string `json:"next"`     // YYYY-MM
}

// CalendarResponse is the API response for the two-month calendar view.
type CalendarResponse struct {
	Today      civil.Date         `json:"today"`
	Months     []CalendarMonth    `json:"months"`
	Navigation CalendarNavigation `json:"navigation"`
	Range      DateRange          `json:"range"`
}

// TodayStatus answers whether a given day is a suspension day.
type TodayStatus struct {
	IsHoliday   bool   `json:"isHoliday"`
	HolidayName string `json:"holidayName,omitempty"`
}

// DateDiagnostics explains how "today" was derived from the request instant.
type DateDiagnostics struct {
	InputInstant         string  `json:"inputInstant"` // RFC3339
	NormalizedDate       string  `json:"normalizedDate"`
	LocalZone            string  `json:"localZone"`
	ReferenceZone        string  `json:"referenceZone,omitempty"`
	IsReferenceZone      bool    `json:"isReferenceZone"`
	LocalOffsetHours     float64 `json:"localOffsetHours"`
	ReferenceOffsetHours float64 `json:"referenceOffsetHours"`
	AdjustmentHours      float64 `json:"adjustmentHours"`
	Fallback             bool    `json:"fallback"`
}

// UpcomingDiagnostics explains the day-count calculation for the next holiday.
type UpcomingDiagnostics struct {
	NextHolidayDate string  `json:"nextHolidayDate"`
	CalculatedDays  int     `json:"calculatedDays"`
	RawTimeDiffMs   int64   `json:"rawTimeDiffMs"`
	RawTimeDiffDays float64 `json:"rawTimeDiffDays"`
}

// Diagnostics is returned alongside a status evaluation when requested.
type Diagnostics struct {
	Date     DateDiagnostics      `json:"date"`
	Upcoming *UpcomingDiagnostics `json:"upcoming,omitempty"`
}

// StatusResponse is the API response for the status endpoint.
type StatusResponse struct {
	Today         civil.Date   `json:"today"`
	IsHoliday     bool         `json:"isHoliday"`
	HolidayName   string       `json:"holidayName,omitempty"`
	Upcoming      []Holiday    `json:"upcoming"`
	UpcomingError string       `json:"upcomingError,omitempty"`
	Diagnostics   *Diagnostics `json:"diagnostics,omitempty"`
}

// DayDetails is the content shown when a single calendar day is selected.
type DayDetails struct {
	Date        civil.Date `json:"date"`
	DisplayDate string     `json:"displayDate"` // e.g. "Thursday, July 4, 2024"
	IsHoliday   bool       `json:"isHoliday"`
	HolidayName string     `json:"holidayName,omitempty"`
	Headline    string     `json:"headline"`
	Message     string     `json:"message"`
}
