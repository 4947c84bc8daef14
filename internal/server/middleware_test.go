package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-linktrack/internal/server"
	"go-linktrack/pkg/problemdetails"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func newLimiter(t *testing.T, rpm int) *server.RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return server.NewRateLimiter(ctx, rpm)
}

// TestRateLimiter_Middleware_WithinLimit_Returns200 verifies requests within limit succeed
func TestRateLimiter_Middleware_WithinLimit_Returns200(t *testing.T) {
	handler := newLimiter(t, 100).Middleware(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/track/click", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "Request %d should succeed", i+1)
		assert.Equal(t, "100", rr.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Remaining"))
	}
}

// TestRateLimiter_Middleware_ExceedsLimit_Returns429 verifies rate limit enforcement
func TestRateLimiter_Middleware_ExceedsLimit_Returns429(t *testing.T) {
	handler := newLimiter(t, 2).Middleware(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/track/click", nil)
		// Same IP on a different source port
		req.RemoteAddr = "192.168.1.1:" + []string{"1000", "1001", "1002"}[i]
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if i < 2 {
			assert.Equal(t, http.StatusOK, rr.Code, "Request %d should succeed", i+1)
			continue
		}

		assert.Equal(t, http.StatusTooManyRequests, rr.Code, "Request %d should be rate limited", i+1)
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
		assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Reset"))

		var problem problemdetails.ProblemDetail
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&problem))
		assert.Equal(t, http.StatusTooManyRequests, problem.Status)
		assert.Contains(t, problem.Type, problemdetails.TypeRateLimitExceeded)
	}
}

// TestRateLimiter_Middleware_DifferentIPs_IndependentLimits verifies per-IP isolation
func TestRateLimiter_Middleware_DifferentIPs_IndependentLimits(t *testing.T) {
	handler := newLimiter(t, 1).Middleware(okHandler())

	req1 := httptest.NewRequest(http.MethodPost, "/", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req1)
	assert.Equal(t, http.StatusOK, rr1.Code, "First IP should succeed")

	req2 := httptest.NewRequest(http.MethodPost, "/", nil)
	req2.RemoteAddr = "10.0.0.2:5678"
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)
	assert.Equal(t, http.StatusOK, rr2.Code, "Second IP should succeed independently")
}

func TestNewRateLimiter_NonPositiveFallsBackToDefault(t *testing.T) {
	handler := newLimiter(t, 0).Middleware(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, "60", rr.Header().Get("X-RateLimit-Limit"))
}

func TestLoggerMiddleware_LogsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := server.LoggerMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abc", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http request", entry.Message)
	assert.Equal(t, int64(http.StatusTeapot), entry.ContextMap()["status"])
	assert.Equal(t, "/abc", entry.ContextMap()["path"])
}
