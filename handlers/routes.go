package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"aspcal/api"
	"aspcal/services/holidays"
	"aspcal/utils"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
	UpcomingCount  int
	// Limiter is optional; nil disables rate limiting.
	Limiter *api.IPRateLimiter
	// Now overrides the request clock. Nil means time.Now.
	Now func() time.Time
}

// NewRouter wires every HTTP route of the service.
func NewRouter(svc *holidays.Service, opts RouterOptions) (*mux.Router, error) {
	r := utils.NewRouter(opts.AllowedOrigins)
	r.Use(api.RequestIDMiddleware())
	r.Use(api.AccessLogMiddleware())
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware())
	}

	holidaysHandler := NewHolidaysHandler(svc, opts.UpcomingCount)
	page, err := NewPageHandler(svc, opts.UpcomingCount)
	if err != nil {
		return nil, err
	}
	if opts.Now != nil {
		holidaysHandler.Now = opts.Now
		page.Now = opts.Now
	}

	holidaysHandler.Register(r)
	r.HandleFunc("/version", GetVersionHandler).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(NewStaticHandler("/static/")).Methods(http.MethodGet)
	r.Handle("/", page).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r, nil
}
