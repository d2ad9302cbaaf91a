package hardware

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Describe the machine running this process. The browser card reports the
// Go runtime.
func Host() Report {
	r := Report{
		BrowserName:     "Go",
		BrowserVersion:  runtime.Version(),
		EngineName:      runtime.Compiler,
		OSName:          runtime.GOOS,
		OSVersion:       osVersion(),
		CPUArchitecture: archName(runtime.GOARCH),
		CPUModel:        cpuid.CPU.BrandName,
		LogicalCores:    cpuid.CPU.LogicalCores,
	}
	if r.LogicalCores == 0 {
		r.LogicalCores = runtime.NumCPU()
	}
	if cpuid.CPU.VendorString != "" {
		r.DeviceVendor = cpuid.CPU.VendorString
	}
	return r
}

// Map GOARCH values to the names used for user agent architectures.
func archName(goarch string) string {
	switch goarch {
	case "386":
		return "ia32"
	case "arm":
		return "armhf"
	}
	return goarch
}
