package hardware

import (
	"regexp"

	"github.com/mssola/useragent"
)

// Device extension for vendor specific user agents such as
// "Mujin/1.2.0 (pendantV2)".
var vendorDeviceRegex = regexp.MustCompile(`(Mujin)/[\d.]+ \((pendant|hmi)\w+\)`)

// CPU architecture tokens, tried in order.
var archRegexes = []struct {
	arch  string
	regex *regexp.Regexp
}{
	{"amd64", regexp.MustCompile(`(?i)(?:amd|x(?:(?:86|64)[-_])?|wow|win)64[;)]`)},
	{"ia32", regexp.MustCompile(`(?i)(?:ia32;|(?:i[346]|x)86[;)])`)},
	{"arm64", regexp.MustCompile(`(?i)\b(?:aarch64|arm(?:v?8e?l?|_?64))\b`)},
	{"armhf", regexp.MustCompile(`(?i)\barm(?:v[67])?ht?n?[fl]p?\b`)},
}

// Detect browser, OS, device and CPU details from a user agent string.
func FromUserAgent(uaString string) Report {
	ua := useragent.New(uaString)

	var r Report
	r.BrowserName, r.BrowserVersion = ua.Browser()
	r.EngineName, _ = ua.Engine()

	osInfo := ua.OSInfo()
	r.OSName, r.OSVersion = osInfo.Name, osInfo.Version

	r.DeviceVendor, r.DeviceModel, r.DeviceType = detectDevice(ua)
	if match := vendorDeviceRegex.FindStringSubmatch(uaString); match != nil {
		r.DeviceVendor, r.DeviceModel = match[1], match[2]
	}

	for _, spec := range archRegexes {
		if spec.regex.MatchString(uaString) {
			r.CPUArchitecture = spec.arch
			break
		}
	}

	return r
}

func detectDevice(ua *useragent.UserAgent) (vendor, model, devType string) {
	switch ua.Platform() {
	case "iPhone", "iPod":
		return "Apple", ua.Platform(), "mobile"
	case "iPad":
		return "Apple", ua.Platform(), "tablet"
	case "Macintosh":
		vendor, model = "Apple", "Macintosh"
	}

	if ua.Mobile() {
		devType = "mobile"
	}
	return vendor, model, devType
}
