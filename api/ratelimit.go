package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// ipLimiterEntry holds a rate limiter and last-seen timestamp for cleanup.
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
	rate     rate.Limit
	interval time.Duration // between tokens; zero when unlimited
	burst    int
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter creates a limiter allowing perMinute requests per client IP
// with the given burst. Idle clients are forgotten after ten minutes.
// A perMinute of zero or less disables limiting.
func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	limit := rate.Inf
	var interval time.Duration
	if perMinute > 0 {
		interval = time.Minute / time.Duration(perMinute)
		limit = rate.Every(interval)
	}
	rl := &IPRateLimiter{
		limiters: make(map[string]*ipLimiterEntry),
		rate:     limit,
		interval: interval,
		burst:    burst,
		idle:     10 * time.Minute,
		stopCh:   make(chan struct{}),
	}
	go rl.cleanup(time.Minute)
	return rl
}

// Close stops the cleanup goroutine.
func (rl *IPRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// getLimiter returns the rate limiter for the given IP, creating one if needed.
func (rl *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[ip] = &ipLimiterEntry{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// clients reports how many IPs are currently tracked.
func (rl *IPRateLimiter) clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *IPRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limiters, ip)
		}
	}
}

func (rl *IPRateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			rl.evictIdle(now)
		case <-rl.stopCh:
			return
		}
	}
}

// retryAfter is the whole number of seconds until one more token is available.
func (rl *IPRateLimiter) retryAfter() string {
	secs := int(math.Ceil(rl.interval.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// getClientIP extracts the client IP, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// Middleware applies per-IP rate limiting to every route except /health.
// Returns 429 Too Many Requests when the limit is exceeded.
func (rl *IPRateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if !rl.getLimiter(getClientIP(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", rl.retryAfter())
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
