package domain

import "time"

// DefaultDedupTTL is how long a visitor's click on a link suppresses further clicks.
const DefaultDedupTTL = time.Hour

// DedupKey addresses the marker of one visitor's click on one link.
func DedupKey(domain, key, ip string) string {
	return "recordClick:" + domain + ":" + key + ":" + ip
}

// WebhookKey addresses a cached webhook subscription.
func WebhookKey(id string) string {
	return "webhook:" + id
}

// regulatedCountries are ISO codes whose visitors' IPs are never stored.
var regulatedCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {}, "EE": {},
	"FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {}, "IT": {}, "LV": {},
	"LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {}, "PT": {}, "RO": {}, "SK": {},
	"SI": {}, "ES": {}, "SE": {},
	// EEA and aligned regimes
	"IS": {}, "LI": {}, "NO": {}, "GB": {}, "CH": {},
}

// IsPrivacyRegulated reports whether IP addresses from country must be dropped.
func IsPrivacyRegulated(country string) bool {
	_, ok := regulatedCountries[country]
	return ok
}
