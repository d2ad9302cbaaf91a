package benchmark

import (
	"github.com/achilleasa/polaris-bench/renderer"
	"github.com/achilleasa/polaris-bench/scene"
)

// Accessor is a read-only view of the five counters sampled by the benchmark.
type Accessor interface {
	FrameTimeCounter() *renderer.PerfCounter
	RenderTimeCounter() *renderer.PerfCounter
	CameraRenderTimeCounter() *renderer.PerfCounter
	ActiveMeshesEvaluationTimeCounter() *renderer.PerfCounter
	RenderTargetsRenderTimeCounter() *renderer.PerfCounter
}

var _ Accessor = (*renderer.Instrumentation)(nil)

// Attach an instrumentation to sc capturing all sampled counters.
func AttachInstrumentation(sc *scene.Scene) *renderer.Instrumentation {
	in := renderer.NewInstrumentation(sc)
	in.SetCaptureFrameTime(true)
	in.SetCaptureCameraRenderTime(true)
	in.SetCaptureRenderTime(true)
	in.SetCaptureActiveMeshesEvaluationTime(true)
	in.SetCaptureRenderTargetsRenderTime(true)
	return in
}
