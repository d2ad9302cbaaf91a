package renderer

import (
	"runtime"
	"time"
)

type Options struct {
	// Frame dims used while the surface reports a zero size.
	FrameW uint32
	FrameH uint32

	// Minimum time between two frames of the render loop; zero renders as
	// fast as the device allows.
	FrameInterval time.Duration

	// Number of go-routines sharing the per-pixel background pass.
	Workers int
}

// Default engine options.
func DefaultOptions() Options {
	return Options{
		FrameW:  800,
		FrameH:  600,
		Workers: runtime.NumCPU(),
	}
}
