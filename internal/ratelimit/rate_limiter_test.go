package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := New(rate.Every(time.Hour), 2)

	handler := limiter.Middleware(RemoteAddr)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec.Code
	}

	expected := []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}

	for i, e := range expected {
		if g := serve("192.0.2.1:1234"); e != g {
			t.Errorf("request #%d: expected '%v', got '%v'", i, e, g)
		}
	}

	if e, g := http.StatusNoContent, serve("192.0.2.2:1234"); e != g {
		t.Errorf("other client: expected '%v', got '%v'", e, g)
	}

	if e, g := http.StatusInternalServerError, serve("invalid"); e != g {
		t.Errorf("invalid remote address: expected '%v', got '%v'", e, g)
	}
}
