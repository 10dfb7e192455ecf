package api

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a UUID in context, got %q", seen)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("response header %q does not match context id %q", got, seen)
	}
}

func TestRequestIDMiddleware_ReusesValidID(t *testing.T) {
	id := uuid.NewString()
	handler := RequestIDMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != id {
		t.Fatalf("expected %q, got %q", id, got)
	}
}

func TestRequestIDMiddleware_ReplacesGarbage(t *testing.T) {
	handler := RequestIDMiddleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got == "<script>" {
		t.Fatal("expected untrusted request id to be replaced")
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil)); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestAccessLogMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	handler := RequestIDMiddleware()(AccessLogMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"x"}`))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/holidays/2024-07-05", nil)
	req.RemoteAddr = "10.1.1.1:5555"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{"[http]", "GET /api/holidays/2024-07-05", " 404 ", "13B", "ip=10.1.1.1"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}

	buf.Reset()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if buf.Len() != 0 {
		t.Errorf("health check should not be logged, got %q", buf.String())
	}
}
