package requestctx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainWithoutWWW(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.example.com/page", "example.com"},
		{"https://Example.COM", "example.com"},
		{"http://blog.example.com/a?b=c", "blog.example.com"},
		{"example.com/page", "example.com"},
		{"www.twitter.com", "twitter.com"},
		{"", ""},
		{"not a url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainWithoutWWW(tt.input))
		})
	}
}

func TestFinalURL(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		destination string
		excluded    []string
		want        string
	}{
		{
			name:        "no visit params keeps destination untouched",
			target:      "/abc",
			destination: "https://example.com/landing?ref=x",
			want:        "https://example.com/landing?ref=x",
		},
		{
			name:        "visit params merged",
			target:      "/abc?utm_source=mail",
			destination: "https://example.com/landing",
			want:        "https://example.com/landing?utm_source=mail",
		},
		{
			name:        "visit params override destination",
			target:      "/abc?ref=visit",
			destination: "https://example.com/?ref=dest&x=1",
			want:        "https://example.com/?ref=visit&x=1",
		},
		{
			name:        "excluded params dropped",
			target:      "/abc?dub-no-track=1",
			destination: "https://example.com",
			excluded:    []string{"dub-no-track"},
			want:        "https://example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.want, FinalURL(req, tt.destination, tt.excluded...))
		})
	}
}

func TestDefaultBotDetector(t *testing.T) {
	tests := []struct {
		name   string
		target string
		ua     string
		want   bool
	}{
		{name: "desktop chrome", target: "/", ua: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36", want: false},
		{name: "no user agent", target: "/", ua: "", want: false},
		{name: "googlebot", target: "/", ua: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", want: true},
		{name: "bingbot", target: "/", ua: "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)", want: true},
		{name: "whatsapp preview", target: "/", ua: "WhatsApp/2.23.20.0", want: true},
		{name: "chatgpt", target: "/", ua: "Mozilla/5.0 AppleWebKit/537.36 (KHTML, like Gecko); compatible; ChatGPT-User/1.0", want: true},
		{name: "bot query parameter", target: "/?bot=1", ua: "Mozilla/5.0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.ua != "" {
				req.Header.Set("User-Agent", tt.ua)
			}
			assert.Equal(t, tt.want, DefaultBotDetector{}.IsBot(req))
		})
	}
}

func TestIsQR(t *testing.T) {
	assert.True(t, IsQR(httptest.NewRequest(http.MethodGet, "/abc?qr=1", nil)))
	assert.False(t, IsQR(httptest.NewRequest(http.MethodGet, "/abc?qr=0", nil)))
	assert.False(t, IsQR(httptest.NewRequest(http.MethodGet, "/abc", nil)))
}

func TestIdentityHash(t *testing.T) {
	hash := IdentityHash("1.2.3.4", "curl/8.0")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, IdentityHash("1.2.3.4", "curl/8.0"))
	assert.NotEqual(t, hash, IdentityHash("1.2.3.5", "curl/8.0"))
	// sha256("")
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", IdentityHash("", ""))
}

func TestParseUserAgent(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, UserAgent{}, ParseUserAgent(""))
	})

	t.Run("desktop chrome", func(t *testing.T) {
		ua := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		assert.Equal(t, "Chrome", ua.BrowserName)
		assert.Equal(t, "Windows", ua.OSName)
		assert.Empty(t, ua.DeviceType)
		assert.Equal(t, "amd64", ua.CPUArch)
		assert.False(t, ua.IsBot)
		assert.NotEmpty(t, ua.EngineName)
	})

	t.Run("iphone safari", func(t *testing.T) {
		ua := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

		assert.Equal(t, "mobile", ua.DeviceType)
		assert.Equal(t, "Apple", ua.DeviceVendor)
	})

	t.Run("ipad", func(t *testing.T) {
		ua := ParseUserAgent("Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1")

		assert.Equal(t, "tablet", ua.DeviceType)
	})
}

func TestNewLocalhostExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4000"

	rc := NewLocalhostExtractor().Extract(req)

	assert.Equal(t, LocalhostIP, rc.IP)
	assert.Equal(t, LocalhostGeo, rc.Geo)
	assert.Equal(t, "37.7695", rc.Geo.Latitude)
	assert.Equal(t, "-122.385", rc.Geo.Longitude)
}

func TestHeaderGeoExtractor_ReadsEdgeHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	req.Header.Set(HeaderCountry, "de")
	req.Header.Set(HeaderContinent, "EU")
	req.Header.Set(HeaderRegion, "BE")
	req.Header.Set(HeaderCity, "Frankfurt%20am%20Main")
	req.Header.Set(HeaderLatitude, "50.1109")
	req.Header.Set(HeaderLongitude, "8.6821")
	req.Header.Set(HeaderRequestID, "fra1::iad1::abc-123")

	rc := NewHeaderGeoExtractor(nil, "default").Extract(req)

	assert.Equal(t, "203.0.113.9", rc.IP)
	assert.Equal(t, Geo{
		Continent:  "EU",
		Country:    "DE",
		Region:     "BE",
		City:       "Frankfurt am Main",
		Latitude:   "50.1109",
		Longitude:  "8.6821",
		EdgeRegion: "fra1",
	}, rc.Geo)
}

func TestHeaderGeoExtractor_NoHeadersNoDatabase(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:4000"

	rc := NewHeaderGeoExtractor(nil, "fra1").Extract(req)

	assert.Equal(t, "203.0.113.9", rc.IP)
	assert.Equal(t, Geo{EdgeRegion: "fra1"}, rc.Geo)
}

func TestRequestRegion(t *testing.T) {
	assert.Equal(t, "cdg1", requestRegion("cdg1::sfo1::xyz"))
	assert.Equal(t, "", requestRegion("no-region"))
	assert.Equal(t, "", requestRegion(""))
}

func TestControlParams(t *testing.T) {
	assert.Equal(t, []string{"qr", "bot", "dub-no-track"}, ControlParams("dub-no-track"))
	assert.Equal(t, []string{"qr", "bot"}, ControlParams(""))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", ClientIP(req))

	req.RemoteAddr = "198.51.100.7"
	assert.Equal(t, "198.51.100.7", ClientIP(req))
}

func TestNewGeoIPResolver_MissingFile(t *testing.T) {
	_, err := NewGeoIPResolver("/nonexistent/GeoLite2-City.mmdb")
	require.Error(t, err)
}
