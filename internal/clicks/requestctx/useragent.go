package requestctx

import (
	"regexp"
	"strings"

	ua "github.com/mileusna/useragent"
	mssola "github.com/mssola/useragent"
)

// UserAgent is the parsed form of a User-Agent header. Empty strings mean unknown.
type UserAgent struct {
	Raw            string
	DeviceType     string // "mobile", "tablet" or empty for desktop
	DeviceVendor   string
	DeviceModel    string
	BrowserName    string
	BrowserVersion string
	EngineName     string
	EngineVersion  string
	OSName         string
	OSVersion      string
	CPUArch        string
	IsBot          bool
}

// ParseUserAgent parses raw. Browser, OS and device class come from
// mileusna/useragent; rendering engine and device model come from mssola/useragent.
func ParseUserAgent(raw string) UserAgent {
	if raw == "" {
		return UserAgent{}
	}

	parsed := ua.Parse(raw)
	detail := mssola.New(raw)

	out := UserAgent{
		Raw:            raw,
		BrowserName:    parsed.Name,
		BrowserVersion: parsed.Version,
		OSName:         parsed.OS,
		OSVersion:      parsed.OSVersion,
		DeviceModel:    parsed.Device,
		CPUArch:        cpuArchitecture(raw),
		IsBot:          parsed.Bot || detail.Bot(),
	}

	switch {
	case parsed.Tablet:
		out.DeviceType = "tablet"
	case parsed.Mobile:
		out.DeviceType = "mobile"
	}

	out.EngineName, out.EngineVersion = detail.Engine()
	if out.DeviceModel == "" {
		out.DeviceModel = detail.Model()
	}
	out.DeviceVendor = deviceVendor(out.DeviceModel, out.OSName)

	return out
}

func deviceVendor(model, os string) string {
	switch {
	case strings.HasPrefix(model, "iPhone"), strings.HasPrefix(model, "iPad"), strings.HasPrefix(model, "iPod"):
		return "Apple"
	case os == "iOS":
		return "Apple"
	case strings.HasPrefix(model, "SM-"), strings.HasPrefix(model, "GT-"):
		return "Samsung"
	case strings.HasPrefix(model, "Pixel"):
		return "Google"
	}
	return ""
}

var cpuPatterns = []struct {
	arch string
	re   *regexp.Regexp
}{
	{"amd64", regexp.MustCompile(`(?i)\b(x86_64|x86-64|win64|wow64|x64|amd64)\b`)},
	{"arm64", regexp.MustCompile(`(?i)\b(arm64|aarch64)\b`)},
	{"arm", regexp.MustCompile(`(?i)\barmv?[5-7]`)},
	{"ia32", regexp.MustCompile(`(?i)\b(i[3-6]86|x86)\b`)},
}

func cpuArchitecture(raw string) string {
	for _, p := range cpuPatterns {
		if p.re.MatchString(raw) {
			return p.arch
		}
	}
	return ""
}
