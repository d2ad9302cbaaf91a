package hardware

import (
	"runtime"
	"testing"

	"github.com/achilleasa/polaris-bench/display"
)

func TestFromUserAgent(t *testing.T) {
	specs := []struct {
		descr string
		ua    string
		check func(r Report) bool
	}{
		{
			"chrome on windows",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36",
			func(r Report) bool {
				return r.BrowserName == "Chrome" &&
					r.BrowserVersion == "118.0.0.0" &&
					r.EngineName == "AppleWebKit" &&
					r.OSName == "Windows" &&
					r.CPUArchitecture == "amd64" &&
					r.DeviceType == ""
			},
		},
		{
			"firefox on linux",
			"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
			func(r Report) bool {
				return r.BrowserName == "Firefox" &&
					r.BrowserVersion == "115.0" &&
					r.EngineName == "Gecko" &&
					r.CPUArchitecture == "amd64"
			},
		},
		{
			"safari on iphone",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			func(r Report) bool {
				return r.BrowserName == "Safari" &&
					r.DeviceVendor == "Apple" &&
					r.DeviceModel == "iPhone" &&
					r.DeviceType == "mobile"
			},
		},
		{
			"vendor pendant",
			"Mozilla/5.0 (X11; Linux aarch64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.110 Safari/537.36 Mujin/1.4.2 (pendantV2)",
			func(r Report) bool {
				return r.DeviceVendor == "Mujin" &&
					r.DeviceModel == "pendant" &&
					r.CPUArchitecture == "arm64"
			},
		},
		{
			"vendor hmi",
			"Mozilla/5.0 (X11; Linux x86_64) Chrome/96.0 Safari/537.36 Mujin/2.0 (hmiTouch)",
			func(r Report) bool {
				return r.DeviceVendor == "Mujin" && r.DeviceModel == "hmi"
			},
		},
		{
			"unknown device suffix",
			"Mozilla/5.0 (X11; Linux x86_64) Chrome/96.0 Safari/537.36 Mujin/2.0 (kiosk)",
			func(r Report) bool {
				return r.DeviceVendor == "" && r.DeviceModel == ""
			},
		},
	}

	for _, spec := range specs {
		r := FromUserAgent(spec.ua)
		if !spec.check(r) {
			t.Errorf("[%s] unexpected report: %s", spec.descr, r)
		}
	}
}

func TestHost(t *testing.T) {
	r := Host()

	if r.OSName != runtime.GOOS {
		t.Fatalf("expected OS %q; got %q", runtime.GOOS, r.OSName)
	}
	if r.CPUArchitecture == "" || r.LogicalCores <= 0 {
		t.Fatalf("expected CPU details; got %s", r)
	}
	if r.BrowserVersion != runtime.Version() {
		t.Fatalf("expected runtime version %q; got %q", runtime.Version(), r.BrowserVersion)
	}
}

func TestCardsWithGPUDetectionGap(t *testing.T) {
	r := Report{
		BrowserName:     "Chrome",
		BrowserVersion:  "118.0",
		EngineName:      "Blink",
		OSName:          "Linux",
		OSVersion:       "6.1",
		DeviceVendor:    "Mujin",
		DeviceModel:     "pendant",
		DeviceType:      "embedded",
		CPUArchitecture: "arm64",
		CPUModel:        "Cortex-A72",
		LogicalCores:    4,
	}.WithGPU("", "")

	cards := r.Cards()
	expTitles := []string{"browser", "OS", "Device", "CPU", "GPU"}
	if len(cards) != len(expTitles) {
		t.Fatalf("expected %d cards; got %d", len(expTitles), len(cards))
	}

	for index, card := range cards {
		if card.Title != expTitles[index] {
			t.Fatalf("expected card %d to be %q; got %q", index, expTitles[index], card.Title)
		}
		for _, item := range card.Items {
			isPlaceholder := item.Value == display.Placeholder
			if card.Title == "GPU" && !isPlaceholder {
				t.Errorf("expected placeholder for GPU %s; got %q", item.Label, item.Value)
			}
			if card.Title != "GPU" && isPlaceholder {
				t.Errorf("expected %s/%s to be populated", card.Title, item.Label)
			}
		}
	}

	gpu := r.WithGPU("Mesa Intel(R) UHD Graphics 620", "").Cards()[4]
	if model, _ := gpu.Get("model"); model != "Mesa Intel(R) UHD Graphics 620" {
		t.Fatalf("expected GPU model to be populated; got %q", model)
	}
	if tier, _ := gpu.Get("tier"); tier != display.Placeholder {
		t.Fatalf("expected GPU tier placeholder; got %q", tier)
	}
}

func TestArchName(t *testing.T) {
	specs := map[string]string{
		"386":   "ia32",
		"arm":   "armhf",
		"amd64": "amd64",
		"arm64": "arm64",
	}
	for goarch, exp := range specs {
		if got := archName(goarch); got != exp {
			t.Errorf("[%s] expected %q; got %q", goarch, exp, got)
		}
	}
}
