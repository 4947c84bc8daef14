package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	clickshttp "go-linktrack/internal/clicks/delivery/http"
	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/metrics"
	"go-linktrack/internal/clicks/testutil/mocks"
	"go-linktrack/internal/conf"
	"go-linktrack/internal/folders"
	"go-linktrack/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type routerFixture struct {
	handler  http.Handler
	links    *mocks.MockLinkStore
	recorder *mocks.MockClickRecorder
}

func newRouterFixture(t *testing.T) *routerFixture {
	links := mocks.NewMockLinkStore(t)
	recorder := mocks.NewMockClickRecorder(t)
	clicks := clickshttp.NewHandler(recorder, links, time.Second, zap.NewNop(),
		clickshttp.WithAsyncRunner(func(fn func()) { fn() }),
	)
	folderHandler := folders.NewHandler(folders.NewService(nil, zap.NewNop()), zap.NewNop())
	reg := prometheus.NewRegistry()
	metrics.NewClickMetrics(reg)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &routerFixture{
		handler: server.NewRouter(
			clicks,
			folderHandler,
			server.NewHealthHandler(map[string]server.Pinger{"postgres": healthy()}),
			server.NewRateLimiter(ctx, 100),
			reg,
			zap.NewNop(),
		),
		links:    links,
		recorder: recorder,
	}
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t)
	rr := httptest.NewRecorder()

	f.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	f := newRouterFixture(t)
	rr := httptest.NewRecorder()

	f.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RedirectRoute(t *testing.T) {
	f := newRouterFixture(t)
	rr := httptest.NewRecorder()

	f.links.On("FindLinkByDomainKey", mock.Anything, "dub.sh", "abc").
		Return(&domain.Link{ID: "link_1", Domain: "dub.sh", Key: "abc", URL: "https://example.com"}, nil).Once()
	f.recorder.On("RecordClick", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	f.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://dub.sh/abc", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://example.com", rr.Header().Get("Location"))
}

func TestRouter_TrackIsRateLimited(t *testing.T) {
	f := newRouterFixture(t)
	rr := httptest.NewRecorder()

	f.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/track/click", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "100", rr.Header().Get("X-RateLimit-Limit"))
}

func TestNewHTTPServer_ServesRouter(t *testing.T) {
	f := newRouterFixture(t)
	srv := server.NewHTTPServer(&conf.Config{Port: 18080, HTTPTimeout: time.Second}, f.handler)
	rr := httptest.NewRecorder()

	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}
