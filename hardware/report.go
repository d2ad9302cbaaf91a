package hardware

import (
	"encoding/json"
	"strconv"

	"github.com/achilleasa/polaris-bench/display"
)

// A Report describes the software and hardware a benchmark runs on. Fields
// that could not be detected are left empty.
type Report struct {
	BrowserName    string `json:"browserName,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	EngineName     string `json:"engineName,omitempty"`

	OSName    string `json:"osName,omitempty"`
	OSVersion string `json:"osVersion,omitempty"`

	DeviceVendor string `json:"deviceVendor,omitempty"`
	DeviceModel  string `json:"deviceModel,omitempty"`
	DeviceType   string `json:"deviceType,omitempty"`

	CPUArchitecture string `json:"cpuArchitecture,omitempty"`
	CPUModel        string `json:"cpuModel,omitempty"`
	LogicalCores    int    `json:"logicalCores,omitempty"`

	GPUModel string `json:"gpuModel,omitempty"`
	GPUTier  string `json:"gpuTier,omitempty"`
}

// Return a copy of the report with the GPU fields set.
func (r Report) WithGPU(model, tier string) Report {
	r.GPUModel = model
	r.GPUTier = tier
	return r
}

// Build the hardware cards. Missing values are shown as placeholders.
func (r Report) Cards() []display.Card {
	var cores string
	if r.LogicalCores > 0 {
		cores = strconv.Itoa(r.LogicalCores)
	}

	return []display.Card{
		display.NewCard("browser",
			display.Item{Label: "Name", Value: r.BrowserName},
			display.Item{Label: "Version", Value: r.BrowserVersion},
			display.Item{Label: "Engine", Value: r.EngineName},
		),
		display.NewCard("OS",
			display.Item{Label: "Name", Value: r.OSName},
			display.Item{Label: "Version", Value: r.OSVersion},
		),
		display.NewCard("Device",
			display.Item{Label: "Vendor", Value: r.DeviceVendor},
			display.Item{Label: "Model", Value: r.DeviceModel},
			display.Item{Label: "Type", Value: r.DeviceType},
		),
		display.NewCard("CPU",
			display.Item{Label: "architecture", Value: r.CPUArchitecture},
			display.Item{Label: "model", Value: r.CPUModel},
			display.Item{Label: "cores", Value: cores},
		),
		display.NewCard("GPU",
			display.Item{Label: "model", Value: r.GPUModel},
			display.Item{Label: "tier", Value: r.GPUTier},
		),
	}
}

func (r Report) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}
