package usecase

import (
	"net/http"
	"strings"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/requestctx"
)

// EventIdentity carries the caller-supplied parts of a click event.
type EventIdentity struct {
	ClickID   string
	LinkID    string
	Domain    string
	Key       string
	URL       string // destination; empty when the link has none
	Timestamp string // optional, already in domain.TimestampLayout
	Referrer  string // optional, wins over the Referer header
}

// Enricher builds click events. It performs no I/O.
type Enricher struct {
	notForwarded []string
	now          func() time.Time
}

// NewEnricher creates an Enricher. notForwarded lists visit query parameters
// that are not copied onto the destination URL.
func NewEnricher(notForwarded ...string) *Enricher {
	return &Enricher{notForwarded: notForwarded, now: time.Now}
}

// BuildEvent assembles the event of one accepted visit. Missing attributes
// fall back to domain.Unknown; it never fails.
func (e *Enricher) BuildEvent(r *http.Request, id EventIdentity, rc requestctx.RuntimeContext, agent requestctx.UserAgent, identityHash string) domain.ClickEvent {
	geo := rc.Geo

	timestamp := id.Timestamp
	if timestamp == "" {
		timestamp = domain.FormatTimestamp(e.now())
	}

	finalURL := ""
	if id.URL != "" {
		finalURL = requestctx.FinalURL(r, id.URL, e.notForwarded...)
	}

	referrer := id.Referrer
	if referrer == "" {
		referrer = r.Header.Get("Referer")
	}

	return domain.ClickEvent{
		Timestamp:    timestamp,
		IdentityHash: identityHash,
		ClickID:      id.ClickID,
		LinkID:       id.LinkID,
		AliasLinkID:  "",
		Domain:       id.Domain,
		Key:          id.Key,
		URL:          finalURL,

		IP:         retainedIP(rc.IP, geo.Country),
		Continent:  geo.Continent,
		Country:    orUnknown(geo.Country),
		Region:     orUnknown(geo.Region),
		City:       orUnknown(geo.City),
		Latitude:   orUnknown(geo.Latitude),
		Longitude:  orUnknown(geo.Longitude),
		EdgeRegion: geo.EdgeRegion,

		Device:          deviceClass(agent.DeviceType),
		DeviceVendor:    orUnknown(agent.DeviceVendor),
		DeviceModel:     orUnknown(agent.DeviceModel),
		Browser:         orUnknown(agent.BrowserName),
		BrowserVersion:  orUnknown(agent.BrowserVersion),
		Engine:          orUnknown(agent.EngineName),
		EngineVersion:   orUnknown(agent.EngineVersion),
		OS:              orUnknown(agent.OSName),
		OSVersion:       orUnknown(agent.OSVersion),
		CPUArchitecture: orUnknown(agent.CPUArch),
		UA:              orUnknown(agent.Raw),
		Bot:             agent.IsBot,
		QR:              requestctx.IsQR(r),

		Referer:    refererDomain(referrer),
		RefererURL: orDirect(referrer),
	}
}

// retainedIP drops the address when it is blank or the visitor is in a
// privacy-regulated country.
func retainedIP(ip, country string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || domain.IsPrivacyRegulated(country) {
		return ""
	}
	return ip
}

func refererDomain(referrer string) string {
	if referrer == "" {
		return domain.DirectReferrer
	}
	return orDirect(requestctx.DomainWithoutWWW(referrer))
}

func deviceClass(deviceType string) string {
	if deviceType == "" {
		return "Desktop"
	}
	return strings.ToUpper(deviceType[:1]) + deviceType[1:]
}

func orUnknown(s string) string {
	if s == "" {
		return domain.Unknown
	}
	return s
}

func orDirect(s string) string {
	if s == "" {
		return domain.DirectReferrer
	}
	return s
}
