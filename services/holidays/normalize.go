package holidays

import (
	"log"
	"time"

	"github.com/golang-sql/civil"

	"aspcal/models"
)

// DefaultReferenceZone is the civil timezone the NYC suspension calendar is defined in.
const DefaultReferenceZone = "America/New_York"

// Normalizer turns an instant into the canonical calendar date used by every query.
type Normalizer struct {
	local         *time.Location
	reference     *time.Location // nil: local calendar date is canonical
	referenceName string
	fallback      bool
}

// NewNormalizer builds a Normalizer. An empty referenceZone selects local-only
// mode. A reference zone that cannot be loaded degrades to local-only mode.
func NewNormalizer(referenceZone string, local *time.Location) *Normalizer {
	if local == nil {
		local = time.Local
	}
	n := &Normalizer{local: local, referenceName: referenceZone}
	if referenceZone == "" {
		return n
	}

	ref, err := time.LoadLocation(referenceZone)
	if err != nil {
		log.Printf("[holidays] reference timezone %q unavailable, using local calendar date: %v", referenceZone, err)
		n.fallback = true
		return n
	}
	n.reference = ref
	return n
}

// Local is the zone canonical dates are materialized in for day arithmetic.
func (n *Normalizer) Local() *time.Location {
	return n.local
}

// Reference returns the reference zone, or nil in local-only mode.
func (n *Normalizer) Reference() *time.Location {
	return n.reference
}

// Today restates now as a calendar date. In reference mode the local wall
// clock is shifted by the offset difference between the two zones at now, so
// the result is the date an observer in the reference zone would see.
func (n *Normalizer) Today(now time.Time) (civil.Date, models.DateDiagnostics) {
	local := now.In(n.local)
	localName, localOff := local.Zone()

	diag := models.DateDiagnostics{
		InputInstant:     now.Format(time.RFC3339),
		LocalZone:        localName,
		ReferenceZone:    n.referenceName,
		LocalOffsetHours: offsetHours(localOff),
		Fallback:         n.fallback,
	}

	if n.reference == nil {
		d := civil.DateOf(local)
		diag.IsReferenceZone = n.referenceName == ""
		diag.ReferenceOffsetHours = diag.LocalOffsetHours
		diag.NormalizedDate = FormatDateKey(d)
		return d, diag
	}

	_, refOff := now.In(n.reference).Zone()
	adjust := time.Duration(refOff-localOff) * time.Second

	// Shift the wall clock, not the instant, so a DST change in the local
	// zone between the two readings cannot move the result by an hour.
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, time.UTC).Add(adjust)
	d := civil.DateOf(wall)

	diag.ReferenceOffsetHours = offsetHours(refOff)
	diag.AdjustmentHours = adjust.Hours()
	diag.IsReferenceZone = adjust == 0
	diag.NormalizedDate = FormatDateKey(d)
	return d, diag
}

func offsetHours(seconds int) float64 {
	return float64(seconds) / 3600
}
