package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"
	"github.com/gorilla/mux"

	"aspcal/models"
	"aspcal/services/holidays"
)

// maxUpcoming caps the count query parameter.
const maxUpcoming = 20

// HolidaysHandler serves the holiday and calendar API endpoints.
type HolidaysHandler struct {
	Service       *holidays.Service
	UpcomingCount int
	// Now is the request clock. Every handler reads it exactly once.
	Now func() time.Time
}

// NewHolidaysHandler creates a new HolidaysHandler using the wall clock.
func NewHolidaysHandler(service *holidays.Service, upcomingCount int) *HolidaysHandler {
	if upcomingCount < 1 {
		upcomingCount = holidays.DefaultUpcomingCount
	}
	return &HolidaysHandler{
		Service:       service,
		UpcomingCount: upcomingCount,
		Now:           time.Now,
	}
}

// Register mounts the API routes on r.
func (h *HolidaysHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/status", h.GetStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/holidays/upcoming", h.GetUpcoming).Methods(http.MethodGet)
	r.HandleFunc("/api/holidays/range", h.GetRange).Methods(http.MethodGet)
	r.HandleFunc("/api/holidays.ics", h.GetICS).Methods(http.MethodGet)
	r.HandleFunc("/api/holidays/{date}", h.GetDay).Methods(http.MethodGet)
	r.HandleFunc("/api/calendar", h.GetCalendar).Methods(http.MethodGet)
	r.HandleFunc("/api/calendar/{year:[0-9]+}/{month:[0-9]+}", h.GetCalendar).Methods(http.MethodGet)
	r.HandleFunc("/api/worker", h.GetWorkerStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/worker/reload", h.Reload).Methods(http.MethodPost)
}

type UpcomingResponse struct {
	Today    civil.Date       `json:"today"`
	Holidays []models.Holiday `json:"holidays"`
}

type RangeResponse struct {
	models.DateRange
	Holidays int `json:"holidays"`
}

// GetStatus returns today's status, the next holidays and, with ?debug=1, diagnostics.
func (h *HolidaysHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	count := h.countParam(r)
	debug := isTruthy(r.URL.Query().Get("debug"))

	writeJSON(w, http.StatusOK, h.Service.Evaluate(h.Now(), count, debug))
}

// GetUpcoming returns the next holidays strictly after today. 404 when none remain.
func (h *HolidaysHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	count := h.countParam(r)
	store := h.Service.Snapshot()
	today := h.Service.Today(h.Now())

	upcoming, err := store.UpcomingHolidays(today, count, h.Service.Normalizer().Local())
	if err != nil {
		log.Printf("[holidays] upcoming after %s: %v", holidays.FormatDateKey(today), err)
		writeError(w, http.StatusNotFound, "no upcoming holidays")
		return
	}

	writeJSON(w, http.StatusOK, UpcomingResponse{Today: today, Holidays: upcoming})
}

// GetRange returns the months that have holiday data.
func (h *HolidaysHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	store := h.Service.Snapshot()
	writeJSON(w, http.StatusOK, RangeResponse{
		DateRange: store.DateRange(),
		Holidays:  store.Len(),
	})
}

// GetDay returns the details for one date (YYYY-MM-DD).
func (h *HolidaysHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(mux.Vars(r)["date"])
	d, err := holidays.ParseDateKey(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+raw)
		return
	}

	writeJSON(w, http.StatusOK, h.Service.Snapshot().DayDetails(d))
}

// GetCalendar returns the two-month calendar view starting at the requested
// month (path /{year}/{month} or ?month=YYYY-MM), defaulting to the current month.
func (h *HolidaysHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	today := h.Service.Today(h.Now())

	base, err := calendarBase(r, today)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, holidays.Calendar(h.Service.Snapshot(), base, today))
}

// GetICS returns every holiday as an iCalendar feed.
func (h *HolidaysHandler) GetICS(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := holidays.WriteICS(&buf, h.Service.Snapshot(), h.Now()); err != nil {
		log.Printf("[holidays] ics export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build calendar feed")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="nyc-asp-holidays.ics"`)
	buf.WriteTo(w)
}

// GetWorkerStatus returns the state of the holiday data reload worker.
func (h *HolidaysHandler) GetWorkerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.GetStatus())
}

// Reload asks the reload worker to re-read the holiday file now.
func (h *HolidaysHandler) Reload(w http.ResponseWriter, r *http.Request) {
	status := h.Service.GetStatus()
	if !status.Running {
		writeError(w, http.StatusConflict, "holiday reload is not enabled")
		return
	}
	h.Service.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload requested"})
}

// countParam parses ?count=, falling back to the configured default.
func (h *HolidaysHandler) countParam(r *http.Request) int {
	count := h.UpcomingCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			count = parsed
		}
	}
	if count > maxUpcoming {
		count = maxUpcoming
	}
	return count
}

// calendarBase resolves the first visible month of a calendar request.
func calendarBase(r *http.Request, today civil.Date) (civil.Date, error) {
	vars := mux.Vars(r)
	if y, m := vars["year"], vars["month"]; y != "" || m != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1 || year > 9999 {
			return civil.Date{}, fmt.Errorf("invalid year: %s", y)
		}
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			return civil.Date{}, fmt.Errorf("invalid month: %s", m)
		}
		return civil.Date{Year: year, Month: time.Month(month), Day: 1}, nil
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		base, err := holidays.ParseMonthKey(raw)
		if err != nil {
			return civil.Date{}, fmt.Errorf("invalid month: %s", raw)
		}
		return base, nil
	}

	return civil.Date{Year: today.Year, Month: today.Month, Day: 1}, nil
}

func isTruthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
