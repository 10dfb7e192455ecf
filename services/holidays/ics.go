package holidays

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
)

// WriteICS writes every holiday in s as an all-day iCalendar event.
// stamp is used as DTSTAMP so the output is reproducible for a given instant.
func WriteICS(w io.Writer, s *Store, stamp time.Time) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//aspcal//NYC ASP suspension calendar//EN")
	cal.SetXWRCalName("NYC Alternate Side Parking Suspensions")

	for i, key := range s.keys {
		d := s.dates[i]
		start := d.In(time.UTC)

		event := cal.AddEvent("asp-" + key + "@aspcal")
		event.SetDtStampTime(stamp.UTC())
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary("ASP suspended: " + s.names[key])
		event.SetDescription("Alternate Side Parking rules are suspended for " + s.names[key] + ".")
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}
