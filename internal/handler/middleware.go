package handler

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SecurityHeaders adds response headers for a JSON/CSV API that never serves markup.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RateLimiter limits requests per client IP over a sliding one-minute window.
type RateLimiter struct {
	maxPerMinute      int
	trustedProxyCount int
	now               func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
	stop    chan struct{}
	once    sync.Once
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithTrustedProxies sets how many reverse proxies append to X-Forwarded-For. 0 ignores the header.
func WithTrustedProxies(n int) RateLimiterOption {
	return func(rl *RateLimiter) { rl.trustedProxyCount = n }
}

// WithLimiterClock replaces time.Now.
func WithLimiterClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) { rl.now = now }
}

// NewRateLimiter creates a limiter allowing maxPerMinute requests per IP.
// One trusted proxy is assumed unless WithTrustedProxies says otherwise.
func NewRateLimiter(maxPerMinute int, opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		maxPerMinute:      maxPerMinute,
		trustedProxyCount: 1,
		now:               time.Now,
		clients:           make(map[string][]time.Time),
		stop:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.prune()
		}
	}
}

// prune drops every client whose window is empty.
func (rl *RateLimiter) prune() {
	windowStart := rl.now().Add(-time.Minute)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, stamps := range rl.clients {
		if stamps = inWindow(stamps, windowStart); len(stamps) == 0 {
			delete(rl.clients, ip)
		} else {
			rl.clients[ip] = stamps
		}
	}
}

// inWindow filters stamps in place, keeping those after start.
func inWindow(stamps []time.Time, start time.Time) []time.Time {
	valid := stamps[:0]
	for _, ts := range stamps {
		if ts.After(start) {
			valid = append(valid, ts)
		}
	}
	return valid
}

// allow records a hit for ip and reports whether it fits in the window.
// When it does not, the returned duration is how long until it would.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stamps := inWindow(rl.clients[ip], now.Add(-time.Minute))
	if len(stamps) >= rl.maxPerMinute {
		rl.clients[ip] = stamps
		return false, stamps[0].Add(time.Minute).Sub(now)
	}
	rl.clients[ip] = append(stamps, now)
	return true, 0
}

// Middleware enforces the limit, answering 429 with Retry-After.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		ok, retryAfter := rl.allow(ip)
		if !ok {
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate_limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Seconds()) + 1
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP reads the X-Forwarded-For entry appended by the outermost trusted
// proxy; entries left of it are client-controlled.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxyCount > 0 {
		parts := strings.Split(xff, ",")
		if idx := len(parts) - rl.trustedProxyCount; idx >= 0 {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
