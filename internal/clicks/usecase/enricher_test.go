package usecase_test

import (
	"testing"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/requestctx"
	"go-linktrack/internal/clicks/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseIdentity() usecase.EventIdentity {
	return usecase.EventIdentity{
		ClickID: "clk_1",
		LinkID:  "link_1",
		Domain:  "dub.sh",
		Key:     "abc",
		URL:     "https://example.com/landing",
	}
}

func TestBuildEvent_PrivacyRegulatedCountry_DropsIP(t *testing.T) {
	// Setup
	enricher := usecase.NewEnricher()
	req := newVisit("/abc")
	rc := requestctx.RuntimeContext{IP: "85.10.1.1", Geo: requestctx.Geo{Country: "DE", City: "Berlin"}}

	// Act
	event := enricher.BuildEvent(req, baseIdentity(), rc, requestctx.ParseUserAgent(chromeUA), "hash")

	// Assert
	assert.Empty(t, event.IP)
	assert.Equal(t, "DE", event.Country)
	assert.Equal(t, "Berlin", event.City)
}

func TestBuildEvent_EdgeReportedRegulatedCountry_DropsIP(t *testing.T) {
	// Setup
	enricher := usecase.NewEnricher()
	req := newVisit("/abc")
	req.RemoteAddr = "203.0.113.9:4000"
	req.Header.Set(requestctx.HeaderCountry, "DE")
	req.Header.Set(requestctx.HeaderContinent, "EU")
	rc := requestctx.NewHeaderGeoExtractor(nil, "fra1").Extract(req)

	// Act
	event := enricher.BuildEvent(req, baseIdentity(), rc, requestctx.ParseUserAgent(chromeUA), "hash")

	// Assert
	assert.Empty(t, event.IP)
	assert.Equal(t, "DE", event.Country)
	assert.Equal(t, "EU", event.Continent)
	assert.Equal(t, "fra1", event.EdgeRegion)
}

func TestBuildEvent_UnregulatedCountry_KeepsIP(t *testing.T) {
	enricher := usecase.NewEnricher()
	rc := requestctx.RuntimeContext{IP: "8.8.8.8", Geo: requestctx.Geo{Country: "US"}}

	event := enricher.BuildEvent(newVisit("/abc"), baseIdentity(), rc, requestctx.UserAgent{}, "hash")

	assert.Equal(t, "8.8.8.8", event.IP)
}

func TestBuildEvent_RefererHeader_Normalized(t *testing.T) {
	// Setup
	enricher := usecase.NewEnricher()
	req := newVisit("/abc")
	req.Header.Set("Referer", "https://www.example.com/page")

	// Act
	event := enricher.BuildEvent(req, baseIdentity(), requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

	// Assert
	assert.Equal(t, "example.com", event.Referer)
	assert.Equal(t, "https://www.example.com/page", event.RefererURL)
}

func TestBuildEvent_NoReferer_IsDirect(t *testing.T) {
	enricher := usecase.NewEnricher()

	event := enricher.BuildEvent(newVisit("/abc"), baseIdentity(), requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

	assert.Equal(t, domain.DirectReferrer, event.Referer)
	assert.Equal(t, domain.DirectReferrer, event.RefererURL)
}

func TestBuildEvent_ExplicitReferrer_WinsOverHeader(t *testing.T) {
	enricher := usecase.NewEnricher()
	req := newVisit("/abc")
	req.Header.Set("Referer", "https://header.example")
	id := baseIdentity()
	id.Referrer = "https://www.twitter.com/post/1"

	event := enricher.BuildEvent(req, id, requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

	assert.Equal(t, "twitter.com", event.Referer)
	assert.Equal(t, "https://www.twitter.com/post/1", event.RefererURL)
}

func TestBuildEvent_MissingAttributes_UseDefaults(t *testing.T) {
	// Setup
	enricher := usecase.NewEnricher()
	req := newVisit("/abc")
	req.Header.Del("User-Agent")

	// Act
	event := enricher.BuildEvent(req, baseIdentity(), requestctx.RuntimeContext{}, requestctx.ParseUserAgent(""), "hash")

	// Assert
	assert.Equal(t, "Desktop", event.Device)
	assert.Empty(t, event.Continent)
	assert.Empty(t, event.EdgeRegion)
	assert.Empty(t, event.AliasLinkID)
	for name, value := range map[string]string{
		"country":          event.Country,
		"region":           event.Region,
		"city":             event.City,
		"latitude":         event.Latitude,
		"longitude":        event.Longitude,
		"device_vendor":    event.DeviceVendor,
		"device_model":     event.DeviceModel,
		"browser":          event.Browser,
		"browser_version":  event.BrowserVersion,
		"engine":           event.Engine,
		"engine_version":   event.EngineVersion,
		"os":               event.OS,
		"os_version":       event.OSVersion,
		"cpu_architecture": event.CPUArchitecture,
		"ua":               event.UA,
	} {
		assert.Equal(t, domain.Unknown, value, name)
	}
	assert.False(t, event.Bot)
	assert.False(t, event.QR)
}

func TestBuildEvent_DeviceClassCapitalized(t *testing.T) {
	enricher := usecase.NewEnricher()

	event := enricher.BuildEvent(newVisit("/abc"), baseIdentity(), requestctx.RuntimeContext{}, requestctx.UserAgent{DeviceType: "mobile"}, "hash")

	assert.Equal(t, "Mobile", event.Device)
}

func TestBuildEvent_QRAndFinalURL(t *testing.T) {
	// Setup
	enricher := usecase.NewEnricher(requestctx.ControlParams("dub-no-track")...)
	req := newVisit("/abc?qr=1&utm_source=flyer")

	// Act
	event := enricher.BuildEvent(req, baseIdentity(), requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

	// Assert
	assert.True(t, event.QR)
	assert.Equal(t, "https://example.com/landing?utm_source=flyer", event.URL)
}

func TestBuildEvent_NoDestination_EmptyURL(t *testing.T) {
	enricher := usecase.NewEnricher()
	id := baseIdentity()
	id.URL = ""

	event := enricher.BuildEvent(newVisit("/abc?utm_source=x"), id, requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

	assert.Empty(t, event.URL)
}

func TestBuildEvent_Timestamp(t *testing.T) {
	enricher := usecase.NewEnricher()

	t.Run("generated in millisecond UTC layout", func(t *testing.T) {
		event := enricher.BuildEvent(newVisit("/abc"), baseIdentity(), requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

		parsed, err := time.Parse(domain.TimestampLayout, event.Timestamp)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), parsed, time.Minute)
	})

	t.Run("caller supplied is kept", func(t *testing.T) {
		id := baseIdentity()
		id.Timestamp = "2024-05-01T10:00:00.000Z"

		event := enricher.BuildEvent(newVisit("/abc"), id, requestctx.RuntimeContext{}, requestctx.UserAgent{}, "hash")

		assert.Equal(t, "2024-05-01T10:00:00.000Z", event.Timestamp)
	})
}

func TestBuildEvent_CopiesIdentityAndAgent(t *testing.T) {
	enricher := usecase.NewEnricher()
	rc := requestctx.RuntimeContext{IP: "8.8.8.8", Geo: requestctx.Geo{Continent: "NA", Country: "US", EdgeRegion: "iad1"}}
	agent := requestctx.ParseUserAgent(chromeUA)

	event := enricher.BuildEvent(newVisit("/abc"), baseIdentity(), rc, agent, requestctx.IdentityHash("8.8.8.8", chromeUA))

	assert.Equal(t, "clk_1", event.ClickID)
	assert.Equal(t, "link_1", event.LinkID)
	assert.Equal(t, "dub.sh", event.Domain)
	assert.Equal(t, "abc", event.Key)
	assert.Equal(t, "NA", event.Continent)
	assert.Equal(t, "iad1", event.EdgeRegion)
	assert.Equal(t, "Chrome", event.Browser)
	assert.Equal(t, "Desktop", event.Device)
	assert.Equal(t, chromeUA, event.UA)
	assert.Len(t, event.IdentityHash, 64)
}
