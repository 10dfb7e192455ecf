package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ContextKey is the type used for context keys
type ContextKey string

// ContextKeyRequestID is the key for the request id in the context
const ContextKeyRequestID ContextKey = "requestID"

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// GetRequestID retrieves the request id from the request context.
func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware tags every request with an id. A well-formed incoming
// X-Request-ID is reused, otherwise a new UUID is generated.
func RequestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// AccessLogMiddleware logs one line per request. Health checks are skipped.
func AccessLogMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			log.Printf("[http] %s %s %d %dB %s id=%s ip=%s",
				r.Method, r.URL.RequestURI(), rec.status, rec.bytes,
				time.Since(start).Round(time.Microsecond), GetRequestID(r), getClientIP(r))
		})
	}
}
