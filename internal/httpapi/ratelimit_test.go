package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenLimiterRefills(t *testing.T) {
	now := time.Date(2024, 10, 20, 10, 0, 0, 0, time.UTC)
	limiter := newTokenLimiter(60, 2, func() time.Time { return now })

	if !limiter.allow("a") || !limiter.allow("a") {
		t.Fatalf("expected burst of 2 to pass")
	}
	if limiter.allow("a") {
		t.Fatalf("expected third request to be limited")
	}
	if !limiter.allow("b") {
		t.Fatalf("expected separate key to have its own bucket")
	}
	now = now.Add(time.Second)
	if !limiter.allow("a") {
		t.Fatalf("expected refill after one second")
	}
}

func TestRateLimiterWritesPerToken(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{PerMinute: 600, Burst: 100, WritePerMinute: 1})
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	put := func(path string) int {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(`{}`)))
		return rec.Code
	}
	if code := put("/console/tokens/7"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := put("/console/tokens/7"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if code := put("/console/tokens/8"); code != http.StatusOK {
		t.Fatalf("expected other token to pass, got %d", code)
	}
}

func TestTokenIDFromPath(t *testing.T) {
	cases := map[string]string{
		"/console/tokens/7":         "7",
		"/console/tokens/7/history": "7",
		"/console/tokens":           "",
		"/console/passengers":       "",
	}
	for path, want := range cases {
		if got := tokenIDFromPath(path); got != want {
			t.Fatalf("%s: expected %q, got %q", path, want, got)
		}
	}
}
