package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	rl := NewIPRateLimiter(60, 5)
	defer rl.Close()
	handler := rl.Middleware()(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_BlocksExcessRequests(t *testing.T) {
	// 1 per minute, burst 2
	rl := NewIPRateLimiter(1, 2)
	defer rl.Close()
	handler := rl.Middleware()(okHandler())

	// Exhaust burst
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/calendar", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "too many requests" {
		t.Fatalf("expected 'too many requests', got %q", body["error"])
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected Retry-After: 60, got %q", got)
	}
}

func TestRateLimit_HealthIsExempt(t *testing.T) {
	rl := NewIPRateLimiter(1, 1)
	defer rl.Close()
	handler := rl.Middleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.9:1"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("health request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	rl := NewIPRateLimiter(1, 1)
	defer rl.Close()
	handler := rl.Middleware()(okHandler())

	// IP A exhausts its limit
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "1.1.1.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("IP A first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("IP A second request: expected 429, got %d", rec.Code)
	}

	// IP B should still be allowed
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "2.2.2.2:1234"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("IP B first request: expected 200, got %d", rec2.Code)
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	rl := NewIPRateLimiter(0, 0)
	defer rl.Close()
	handler := rl.Middleware()(okHandler())

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "3.3.3.3:1"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_EvictsIdleClients(t *testing.T) {
	rl := NewIPRateLimiter(60, 1)
	defer rl.Close()

	rl.getLimiter("1.2.3.4")
	rl.getLimiter("5.6.7.8")
	if got := rl.clients(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	rl.evictIdle(time.Now().Add(11 * time.Minute))
	if got := rl.clients(); got != 0 {
		t.Fatalf("expected idle clients evicted, got %d", got)
	}
}

func TestGetClientIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18")
	if ip := getClientIP(req); ip != "203.0.113.50" {
		t.Fatalf("expected 203.0.113.50, got %q", ip)
	}
}

func TestGetClientIP_XRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.10")
	if ip := getClientIP(req); ip != "198.51.100.10" {
		t.Fatalf("expected 198.51.100.10, got %q", ip)
	}
}

func TestGetClientIP_RemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:54321"
	if ip := getClientIP(req); ip != "192.0.2.1" {
		t.Fatalf("expected 192.0.2.1, got %q", ip)
	}
}
