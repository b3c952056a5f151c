package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/tags", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(rec, req)

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: want %q, got %q", name, want, got)
		}
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected pass-through 200, got %d", rec.Code)
	}
}

func postFrom(h http.Handler, remote, xff string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/messages", nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()
	h := rl.Middleware(okHandler)

	for i := 0; i < 3; i++ {
		if rec := postFrom(h, "192.168.1.1:12345", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	rec := postFrom(h, "192.168.1.1:12345", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on 4th request, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if rec := postFrom(h, "192.168.1.2:12345", ""); rec.Code != http.StatusOK {
		t.Errorf("different IP should not be limited, got %d", rec.Code)
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, WithLimiterClock(func() time.Time { return now }))
	defer rl.Stop()
	h := rl.Middleware(okHandler)

	postFrom(h, "10.0.0.1:1", "")
	if rec := postFrom(h, "10.0.0.1:1", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	now = now.Add(61 * time.Second)
	if rec := postFrom(h, "10.0.0.1:1", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200 after the window passed, got %d", rec.Code)
	}

	now = now.Add(2 * time.Minute)
	rl.prune()
	if n := len(rl.clients); n != 0 {
		t.Errorf("expected idle clients to be pruned, %d left", n)
	}
}

func TestRateLimiter_XForwardedFor(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Stop()
	h := rl.Middleware(okHandler)

	if rec := postFrom(h, "10.0.0.99:1234", "203.0.113.50"); rec.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", rec.Code)
	}
	// A spoofed leftmost entry must not give the same client a fresh window.
	if rec := postFrom(h, "10.0.0.99:1234", "9.9.9.9, 203.0.113.50"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 for same real client IP, got %d", rec.Code)
	}
}

func TestRateLimiter_NoTrustedProxies(t *testing.T) {
	rl := NewRateLimiter(1, WithTrustedProxies(0))
	defer rl.Stop()
	h := rl.Middleware(okHandler)

	postFrom(h, "10.0.0.5:1", "1.1.1.1")
	if rec := postFrom(h, "10.0.0.5:1", "2.2.2.2"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("X-Forwarded-For must be ignored without trusted proxies, got %d", rec.Code)
	}
}
