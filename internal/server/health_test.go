package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-linktrack/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() server.Pinger { return pingerFunc(func(context.Context) error { return nil }) }

func TestHealthz_AlwaysOK(t *testing.T) {
	h := server.NewHealthHandler(map[string]server.Pinger{
		"postgres": pingerFunc(func(context.Context) error { return errors.New("down") }),
	})
	rr := httptest.NewRecorder()

	h.Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReadyz_AllDependenciesUp(t *testing.T) {
	h := server.NewHealthHandler(map[string]server.Pinger{"postgres": healthy(), "clickhouse": healthy()})
	rr := httptest.NewRecorder()

	h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body server.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "ready", body.Status)
}

func TestReadyz_DependencyDown_Returns503(t *testing.T) {
	h := server.NewHealthHandler(map[string]server.Pinger{
		"clickhouse": pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
		"postgres":   healthy(),
	})
	rr := httptest.NewRecorder()

	h.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	var body server.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Contains(t, body.Reason, "clickhouse")
}
