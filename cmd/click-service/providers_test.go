package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-linktrack/internal/clicks/requestctx"
	"go-linktrack/internal/clicks/usecase"
	"go-linktrack/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideEnricher_StripsControlParams(t *testing.T) {
	enricher := provideEnricher(&conf.Config{NoTrackParam: "dub-no-track"})
	req := httptest.NewRequest(http.MethodGet, "/abc?qr=1&bot=1&dub-no-track=1&utm=x", nil)

	event := enricher.BuildEvent(req, usecase.EventIdentity{
		ClickID: "clk_1",
		LinkID:  "link_1",
		URL:     "https://example.com/land",
	}, requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

	assert.Equal(t, "https://example.com/land?utm=x", event.URL)
	assert.True(t, event.QR)
}

func TestProvideExtractor(t *testing.T) {
	tests := []struct {
		mode string
		want requestctx.RuntimeExtractor
	}{
		{conf.RuntimeLocal, &requestctx.StaticExtractor{}},
		{conf.RuntimeHosted, &requestctx.HeaderGeoExtractor{}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			extractor, cleanup, err := provideExtractor(&conf.Config{RuntimeMode: tt.mode, EdgeRegion: "fra1"}, zap.NewNop())
			require.NoError(t, err)
			defer cleanup()

			assert.IsType(t, tt.want, extractor)
		})
	}
}

func TestProvideExtractor_HostedUsesEdgeCountry(t *testing.T) {
	extractor, cleanup, err := provideExtractor(&conf.Config{RuntimeMode: conf.RuntimeHosted}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	req := httptest.NewRequest(http.MethodGet, "/abc", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	req.Header.Set(requestctx.HeaderCountry, "DE")

	event := provideEnricher(&conf.Config{}).BuildEvent(req, usecase.EventIdentity{ClickID: "clk_1", LinkID: "link_1"},
		extractor.Extract(req), requestctx.UserAgent{}, "hash")

	assert.Equal(t, "DE", event.Country)
	assert.Empty(t, event.IP)
}

func TestProvideExtractor_MissingGeoIPDatabase(t *testing.T) {
	_, _, err := provideExtractor(&conf.Config{RuntimeMode: conf.RuntimeHosted, GeoIPDBPath: "/nonexistent.mmdb"}, zap.NewNop())

	assert.Error(t, err)
}
