package domain

import (
	"fmt"
	"time"
)

// Unknown is the placeholder stored for any attribute the request did not carry.
const Unknown = "Unknown"

// DirectReferrer marks a visit without a usable referrer.
const DirectReferrer = "(direct)"

// TimestampLayout is the textual form of ClickEvent.Timestamp (millisecond ISO-8601, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ClickEvent is one accepted visit. Field names are the analytics store contract.
type ClickEvent struct {
	Timestamp    string `json:"timestamp"`
	IdentityHash string `json:"identity_hash"`
	ClickID      string `json:"click_id"`
	LinkID       string `json:"link_id"`
	AliasLinkID  string `json:"alias_link_id"`
	Domain       string `json:"domain"`
	Key          string `json:"key"`
	URL          string `json:"url"`

	IP         string `json:"ip"`
	Continent  string `json:"continent"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	City       string `json:"city"`
	Latitude   string `json:"latitude"`
	Longitude  string `json:"longitude"`
	EdgeRegion string `json:"edge_region"`

	Device          string `json:"device"`
	DeviceVendor    string `json:"device_vendor"`
	DeviceModel     string `json:"device_model"`
	Browser         string `json:"browser"`
	BrowserVersion  string `json:"browser_version"`
	Engine          string `json:"engine"`
	EngineVersion   string `json:"engine_version"`
	OS              string `json:"os"`
	OSVersion       string `json:"os_version"`
	CPUArchitecture string `json:"cpu_architecture"`
	UA              string `json:"ua"`
	Bot             bool   `json:"bot"`
	QR              bool   `json:"qr"`

	Referer    string `json:"referer"`
	RefererURL string `json:"referer_url"`
}

// FormatTimestamp renders t the way ClickEvent.Timestamp expects it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NormalizeTimestamp parses an RFC 3339 timestamp, with or without
// fractional seconds, and reformats it in TimestampLayout.
func NormalizeTimestamp(s string) (string, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("%w: timestamp %q is not RFC 3339", ErrInvalidEvent, s)
	}
	return FormatTimestamp(t), nil
}

// Validate reports whether the identifiers every sink keys on are present.
func (e ClickEvent) Validate() error {
	if e.ClickID == "" || e.LinkID == "" {
		return ErrInvalidEvent
	}
	return nil
}
