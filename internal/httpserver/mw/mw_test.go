package mw

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func serve(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitRefills(t *testing.T) {
	clock := &manualClock{t: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}
	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerMin: 60, Now: clock.Now})(ok)

	for i := 0; i < 2; i++ {
		if rec := serve(h, "1.1.1.1:1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
	}

	rec := serve(h, "1.1.1.1:1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}

	// other clients have their own bucket
	if rec := serve(h, "2.2.2.2:1"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}

	clock.Advance(time.Second)
	if rec := serve(h, "1.1.1.1:1"); rec.Code != http.StatusOK {
		t.Errorf("after refill status = %d, want 200", rec.Code)
	}
}

func TestRateLimitSweepsIdleClients(t *testing.T) {
	clock := &manualClock{t: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerMin: 1, IdleTTL: time.Minute, SweepInterval: time.Minute, Now: clock.Now})

	l.take("a", clock.Now())
	clock.Advance(2 * time.Minute)
	l.take("b", clock.Now())

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, found := l.buckets["a"]; found {
		t.Error("idle bucket should have been swept")
	}
	if _, found := l.buckets["b"]; !found {
		t.Error("active bucket should remain")
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"bot.example.com", "*.internal.lan"}, logger.NewNop())(ok)

	tests := []struct {
		host string
		want int
	}{
		{"bot.example.com", http.StatusOK},
		{"BOT.example.com:8080", http.StatusOK},
		{"api.internal.lan", http.StatusOK},
		{"internal.lan", http.StatusForbidden},
		{"evil.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tt.host
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("Host %q: status = %d, want %d", tt.host, rec.Code, tt.want)
		}
	}
}

func TestPassthroughWhenUnconfigured(t *testing.T) {
	log := logger.NewNop()
	for name, m := range map[string]func(http.Handler) http.Handler{
		"hosts": EnforceHost(nil, log),
		"cidrs": AllowOnlyCIDRS(nil, false, log),
	} {
		if rec := serve(m(ok), "8.8.8.8:1"); rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", name, rec.Code)
		}
	}
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, true, logger.NewNop())(ok)

	if rec := serve(h, "10.2.3.4:1"); rec.Code != http.StatusOK {
		t.Errorf("allowed ip: status = %d", rec.Code)
	}
	if rec := serve(h, "172.16.0.1:1"); rec.Code != http.StatusForbidden {
		t.Errorf("rejected ip: status = %d", rec.Code)
	}
}
