package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-sql/civil"

	"aspcal/models"
	"aspcal/services/holidays"
)

//go:embed templates/*.gohtml
var pageTemplates embed.FS

// OfficialInfoURL is the NYC 311 article on alternate side parking rules.
const OfficialInfoURL = "https://portal.311.nyc.gov/article/?kanumber=KA-01011"

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var pageFuncs = template.FuncMap{
	"dateKey":   holidays.FormatDateKey,
	"monthKey":  holidays.FormatMonthKey,
	"longDate":  holidays.FormatLongDate,
	"daysUntil": holidays.FormatDaysUntil,
	"weekdays":  func() []string { return weekdayHeaders },
	"hours": func(h float64) string {
		return strconv.FormatFloat(h, 'f', -1, 64)
	},
	"pageURL": pageURL,
}

// PageData is what the page template renders.
type PageData struct {
	Status      models.StatusResponse
	Calendar    models.CalendarResponse
	Selected    *models.DayDetails
	Month       string // first visible month, YYYY-MM
	Debug       bool
	Version     string
	OfficialURL string
}

// PageHandler renders the HTML status page.
type PageHandler struct {
	Service       *holidays.Service
	UpcomingCount int
	Now           func() time.Time
	tmpl          *template.Template
}

// NewPageHandler parses the embedded page templates.
func NewPageHandler(service *holidays.Service, upcomingCount int) (*PageHandler, error) {
	tmpl, err := template.New("page").Funcs(pageFuncs).ParseFS(pageTemplates, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	if upcomingCount < 1 {
		upcomingCount = holidays.DefaultUpcomingCount
	}
	return &PageHandler{
		Service:       service,
		UpcomingCount: upcomingCount,
		Now:           time.Now,
		tmpl:          tmpl,
	}, nil
}

// ServeHTTP renders the page for ?month=YYYY-MM, ?date=YYYY-MM-DD and ?debug=1.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	debug := isTruthy(q.Get("debug"))

	// One instant and one store for the whole page.
	now := h.Now()
	status := h.Service.Evaluate(now, h.UpcomingCount, debug)
	store := h.Service.Snapshot()
	today := status.Today

	base := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	if raw := strings.TrimSpace(q.Get("month")); raw != "" {
		parsed, err := holidays.ParseMonthKey(raw)
		if err != nil {
			http.Error(w, "invalid month: "+raw, http.StatusBadRequest)
			return
		}
		base = parsed
	}

	data := PageData{
		Status:      status,
		Calendar:    holidays.Calendar(store, base, today),
		Month:       holidays.FormatMonthKey(base),
		Debug:       debug,
		Version:     GetVersion(),
		OfficialURL: OfficialInfoURL,
	}

	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		d, err := holidays.ParseDateKey(raw)
		if err != nil {
			http.Error(w, "invalid date: "+raw, http.StatusBadRequest)
			return
		}
		details := store.DayDetails(d)
		data.Selected = &details
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page", data); err != nil {
		log.Printf("[page] render failed: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// pageURL builds a link back to the page keeping the month and debug flag.
func pageURL(month string, date string, debug bool) string {
	v := url.Values{}
	if month != "" {
		v.Set("month", month)
	}
	if date != "" {
		v.Set("date", date)
	}
	if debug {
		v.Set("debug", "1")
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}
