package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders_SetsAllHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"X-XSS-Protection":       "0",
		"Permissions-Policy":     "camera=(), microphone=(), geolocation=()",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: want %q, got %q", name, want, got)
		}
	}
	if hsts := rec.Header().Get("Strict-Transport-Security"); !strings.Contains(hsts, "max-age=") {
		t.Errorf("HSTS missing max-age: %q", hsts)
	}
}

func TestSecurityHeaders_CSP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, req)

	csp := rec.Header().Get("Content-Security-Policy")
	for _, d := range []string{"default-src 'self'", "script-src 'self'", "img-src 'self' https://images.unsplash.com", "frame-ancestors 'none'"} {
		if !strings.Contains(csp, d) {
			t.Errorf("CSP missing directive %q: %s", d, csp)
		}
	}
}

func TestSecurityHeaders_PassesThrough(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(inner).ServeHTTP(rec, req)

	if !called {
		t.Error("inner handler was not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rec.Code)
	}
}

func post(h http.Handler, remoteAddr, xff string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/contact", nil)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newMemoryLimited(t *testing.T, limit int) http.Handler {
	t.Helper()
	rl := NewMemoryLimiter(limit)
	t.Cleanup(rl.Close)
	return RateLimit(rl, 1)(okHandler())
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	h := newMemoryLimited(t, 5)
	for i := 0; i < 5; i++ {
		if rec := post(h, "192.168.1.1:12345", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	h := newMemoryLimited(t, 5)
	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = post(h, "192.168.1.1:12345", "")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on 6th request, got %d", last.Code)
	}
	if ra := last.Header().Get("Retry-After"); ra == "" {
		t.Error("expected Retry-After header on 429 response")
	}
	if !strings.Contains(last.Body.String(), "rate_limit_exceeded") {
		t.Errorf("unexpected body: %s", last.Body.String())
	}
}

func TestRateLimit_DifferentIPsAreIndependent(t *testing.T) {
	h := newMemoryLimited(t, 2)
	post(h, "10.0.0.1:1234", "")
	post(h, "10.0.0.1:1234", "")

	if rec := post(h, "10.0.0.2:1234", ""); rec.Code != http.StatusOK {
		t.Errorf("different IP should not be rate limited, got %d", rec.Code)
	}
}

func TestRateLimit_XForwardedFor_SpoofedLeftmostIgnored(t *testing.T) {
	h := newMemoryLimited(t, 1)

	if rec := post(h, "10.0.0.99:1234", "203.0.113.50"); rec.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", rec.Code)
	}
	// The proxy appends the real client last; a prepended address is ignored.
	if rec := post(h, "10.0.0.99:1234", "9.9.9.9, 203.0.113.50"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("spoofed leftmost IP should not bypass rate limit, got %d", rec.Code)
	}
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	rl := NewMemoryLimiter(1)
	t.Cleanup(rl.Close)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ctx := context.Background()
	if ok, _, _ := rl.Allow(ctx, "a"); !ok {
		t.Fatal("first request should pass")
	}
	ok, retry, _ := rl.Allow(ctx, "a")
	if ok {
		t.Fatal("second request should be limited")
	}
	if retry != time.Minute {
		t.Errorf("expected retry after 1m, got %v", retry)
	}

	now = now.Add(time.Minute + time.Second)
	if ok, _, _ := rl.Allow(ctx, "a"); !ok {
		t.Error("request after the window should pass")
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("redis: connection refused")
}

func TestRateLimit_LimiterErrorFailsOpen(t *testing.T) {
	h := RateLimit(failingLimiter{}, 1)(okHandler())
	if rec := post(h, "10.0.0.1:1234", ""); rec.Code != http.StatusOK {
		t.Errorf("expected request through on limiter error, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		remote  string
		xff     string
		proxies int
		want    string
	}{
		{"remote addr", "10.0.0.1:1234", "", 1, "10.0.0.1"},
		{"single xff", "10.0.0.99:1234", "203.0.113.50", 1, "203.0.113.50"},
		{"rightmost trusted", "10.0.0.99:1234", "1.2.3.4, 203.0.113.50", 1, "203.0.113.50"},
		{"no trusted proxy", "10.0.0.99:1234", "203.0.113.50", 0, "10.0.0.99"},
		{"remote without port", "10.0.0.1", "", 1, "10.0.0.1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = tc.remote
		if tc.xff != "" {
			req.Header.Set("X-Forwarded-For", tc.xff)
		}
		if got := clientIP(req, tc.proxies); got != tc.want {
			t.Errorf("%s: want %q, got %q", tc.name, tc.want, got)
		}
	}
}
