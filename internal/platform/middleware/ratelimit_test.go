package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oncolife/oncolife/internal/platform/fault"
)

// doRateLimited runs one request through the middleware and returns the
// committed response. The deny path reports through c.Error rather than the
// middleware's return value, so assertions go against the recorder.
func doRateLimited(t *testing.T, mw echo.MiddlewareFunc, ip string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = fault.HTTPErrorHandler(zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", ip)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 5})

	for i := 0; i < 5; i++ {
		if rec := doRateLimited(t, mw, "10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	for i := 0; i < 2; i++ {
		if rec := doRateLimited(t, mw, "10.0.0.2"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}

	rec := doRateLimited(t, mw, "10.0.0.2")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("rejected response missing Retry-After")
	}
}

func TestRateLimit_KeysByClientIP(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	if rec := doRateLimited(t, mw, "10.0.0.3"); rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec := doRateLimited(t, mw, "10.0.0.3"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request from same IP: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec := doRateLimited(t, mw, "10.0.0.4"); rec.Code != http.StatusOK {
		t.Errorf("request from different IP: status = %d, want %d", rec.Code, http.StatusOK)
	}
}
