package requestctx

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"regexp"
)

// Query parameters that steer tracking and are not part of the destination.
const (
	QRParam  = "qr"
	BotParam = "bot"
)

// ControlParams lists the tracking-control parameters, including the
// deployment's no-track parameter, that are never forwarded.
func ControlParams(noTrackParam string) []string {
	params := []string{QRParam, BotParam}
	if noTrackParam != "" {
		params = append(params, noTrackParam)
	}
	return params
}

var botPattern = regexp.MustCompile(`(?i)bot|chatgpt|facebookexternalhit|WhatsApp|google|baidu|bing|msn|duckduckbot|teoma|slurp|yandex|MetaInspector`)

// BotDetector classifies requests as automated traffic.
type BotDetector interface {
	IsBot(r *http.Request) bool
}

// DefaultBotDetector flags a request as a bot when it carries a `bot` query
// parameter, its User-Agent matches a crawler pattern, or the UA parser
// recognises it as a bot.
type DefaultBotDetector struct{}

func (DefaultBotDetector) IsBot(r *http.Request) bool {
	if r.URL.Query().Get(BotParam) != "" {
		return true
	}

	raw := r.Header.Get("User-Agent")
	if raw == "" {
		return false
	}
	if botPattern.MatchString(raw) {
		return true
	}
	return ParseUserAgent(raw).IsBot
}

// IsQR reports whether the visit came from a scanned QR code.
func IsQR(r *http.Request) bool {
	return r.URL.Query().Get(QRParam) == "1"
}

// IdentityHash fingerprints a visitor as the hex SHA-256 of IP and User-Agent.
func IdentityHash(ip, userAgent string) string {
	sum := sha256.Sum256([]byte(ip + userAgent))
	return hex.EncodeToString(sum[:])
}
