package requestctx

import (
	"net/http"
	"net/url"
	"strings"
)

// DomainWithoutWWW returns the lowercased host of rawURL without a leading
// "www.". Scheme-less values such as "example.com/page" are accepted.
// Returns "" when no host can be found.
func DomainWithoutWWW(rawURL string) string {
	hostname := hostOf(rawURL)
	if hostname == "" && !strings.Contains(rawURL, "://") && strings.Contains(rawURL, ".") {
		hostname = hostOf("https://" + rawURL)
	}
	return strings.TrimPrefix(hostname, "www.")
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// FinalURL returns destination with the visit's query parameters merged in.
// Visit parameters override the destination's; excluded names are dropped.
func FinalURL(r *http.Request, destination string, excluded ...string) string {
	dest, err := url.Parse(destination)
	if err != nil {
		return destination
	}

	incoming := r.URL.Query()
	for _, name := range excluded {
		incoming.Del(name)
	}
	if len(incoming) == 0 {
		return destination
	}

	query := dest.Query()
	for name, values := range incoming {
		query[name] = values
	}
	dest.RawQuery = query.Encode()

	return dest.String()
}
