// Package requestctx derives everything the click pipeline needs from an
// inbound visit: client IP, geo, user agent, bot and QR flags.
package requestctx

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// LocalhostIP is the client address reported in local mode.
const LocalhostIP = "127.0.0.1"

// Geo holds location attributes. Empty strings mean unknown.
type Geo struct {
	Continent  string
	Country    string
	Region     string
	City       string
	Latitude   string
	Longitude  string
	EdgeRegion string
}

// LocalhostGeo is the fixed location reported in local mode.
var LocalhostGeo = Geo{
	Continent: "NA",
	Country:   "US",
	Region:    "CA",
	City:      "San Francisco",
	Latitude:  "37.7695",
	Longitude: "-122.385",
}

// RuntimeContext is the client IP and geo of one visit.
type RuntimeContext struct {
	IP  string
	Geo Geo
}

// RuntimeExtractor resolves the RuntimeContext of a request.
type RuntimeExtractor interface {
	Extract(r *http.Request) RuntimeContext
}

var (
	_ RuntimeExtractor = (*StaticExtractor)(nil)
	_ RuntimeExtractor = (*HeaderGeoExtractor)(nil)
)

// StaticExtractor reports the same context for every request. Used for local runs.
type StaticExtractor struct {
	Context RuntimeContext
}

// NewLocalhostExtractor returns the extractor used outside hosted deployments.
func NewLocalhostExtractor() *StaticExtractor {
	return &StaticExtractor{Context: RuntimeContext{IP: LocalhostIP, Geo: LocalhostGeo}}
}

func (e *StaticExtractor) Extract(*http.Request) RuntimeContext {
	return e.Context
}

// Geo headers set by the edge network in front of hosted deployments.
const (
	HeaderCountry   = "X-Vercel-IP-Country"
	HeaderRegion    = "X-Vercel-IP-Country-Region"
	HeaderCity      = "X-Vercel-IP-City"
	HeaderContinent = "X-Vercel-IP-Continent"
	HeaderLatitude  = "X-Vercel-IP-Latitude"
	HeaderLongitude = "X-Vercel-IP-Longitude"
	HeaderRequestID = "X-Vercel-Id"
)

// HeaderGeoExtractor trusts the edge's geo headers and falls back to a
// GeoIP2 lookup when they carry no country. The client IP comes from
// RemoteAddr, which RealIP has already rewritten.
type HeaderGeoExtractor struct {
	resolver   *GeoIPResolver
	edgeRegion string
}

// NewHeaderGeoExtractor creates an extractor. resolver may be nil. edgeRegion
// is used when the request id does not name the serving region.
func NewHeaderGeoExtractor(resolver *GeoIPResolver, edgeRegion string) *HeaderGeoExtractor {
	return &HeaderGeoExtractor{resolver: resolver, edgeRegion: edgeRegion}
}

func (e *HeaderGeoExtractor) Extract(r *http.Request) RuntimeContext {
	ip := ClientIP(r)

	geo := headerGeo(r.Header)
	if geo.Country == "" && e.resolver != nil {
		geo = e.resolver.Resolve(ip)
	}

	geo.EdgeRegion = e.edgeRegion
	if region := requestRegion(r.Header.Get(HeaderRequestID)); region != "" {
		geo.EdgeRegion = region
	}

	return RuntimeContext{IP: ip, Geo: geo}
}

func headerGeo(h http.Header) Geo {
	city := h.Get(HeaderCity)
	if decoded, err := url.QueryUnescape(city); err == nil {
		city = decoded
	}
	return Geo{
		Continent: h.Get(HeaderContinent),
		Country:   strings.ToUpper(h.Get(HeaderCountry)),
		Region:    h.Get(HeaderRegion),
		City:      city,
		Latitude:  h.Get(HeaderLatitude),
		Longitude: h.Get(HeaderLongitude),
	}
}

// requestRegion returns the serving region from an id like "fra1::iad1::abc-123".
func requestRegion(requestID string) string {
	region, _, found := strings.Cut(requestID, ":")
	if !found {
		return ""
	}
	return region
}

// ClientIP strips the port from RemoteAddr.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
