package renderer

import (
	"sync"

	"github.com/achilleasa/polaris-bench/scene"
)

// A capture measures the time between two scene observables.
type capture struct {
	counter    PerfCounter
	begin, end *scene.Observable
	beginObs   *scene.Observer
	endObs     *scene.Observer
}

func (c *capture) enabled() bool {
	return c.beginObs != nil
}

func (c *capture) enable() {
	if c.enabled() {
		return
	}
	c.beginObs = c.begin.Add(c.counter.BeginMonitoring)
	c.endObs = c.end.Add(c.counter.EndMonitoring)
}

func (c *capture) disable() {
	if !c.enabled() {
		return
	}
	c.begin.Remove(c.beginObs)
	c.end.Remove(c.endObs)
	c.beginObs, c.endObs = nil, nil
}

// Instrumentation collects timing counters for a scene by hooking into the
// observables fired by the engine. Every counter is disabled until its
// capture flag is set.
type Instrumentation struct {
	mu       sync.Mutex
	scene    *scene.Scene
	disposed bool

	frameTime         capture
	renderTime        capture
	cameraRenderTime  capture
	activeMeshesTime  capture
	renderTargetsTime capture

	disposeObs *scene.Observer
}

// Create an instrumentation bound to sc. It disposes itself along with the scene.
func NewInstrumentation(sc *scene.Scene) *Instrumentation {
	in := &Instrumentation{
		scene: sc,
		frameTime: capture{
			begin: &sc.OnBeginFrame,
			end:   &sc.OnEndFrame,
		},
		renderTime: capture{
			begin: &sc.OnBeforeActiveMeshesEvaluation,
			end:   &sc.OnAfterRender,
		},
		cameraRenderTime: capture{
			begin: &sc.OnBeforeCameraRender,
			end:   &sc.OnAfterCameraRender,
		},
		activeMeshesTime: capture{
			begin: &sc.OnBeforeActiveMeshesEvaluation,
			end:   &sc.OnAfterActiveMeshesEvaluation,
		},
		renderTargetsTime: capture{
			begin: &sc.OnBeforeRenderTargets,
			end:   &sc.OnAfterRenderTargets,
		},
	}
	in.disposeObs = sc.OnDispose.Add(in.Dispose)
	return in
}

func (in *Instrumentation) setCapture(c *capture, enabled bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.disposed {
		return
	}
	if enabled {
		c.enable()
	} else {
		c.disable()
	}
}

func (in *Instrumentation) isCapturing(c *capture) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return c.enabled()
}

func (in *Instrumentation) SetCaptureFrameTime(enabled bool) {
	in.setCapture(&in.frameTime, enabled)
}

func (in *Instrumentation) SetCaptureRenderTime(enabled bool) {
	in.setCapture(&in.renderTime, enabled)
}

func (in *Instrumentation) SetCaptureCameraRenderTime(enabled bool) {
	in.setCapture(&in.cameraRenderTime, enabled)
}

func (in *Instrumentation) SetCaptureActiveMeshesEvaluationTime(enabled bool) {
	in.setCapture(&in.activeMeshesTime, enabled)
}

func (in *Instrumentation) SetCaptureRenderTargetsRenderTime(enabled bool) {
	in.setCapture(&in.renderTargetsTime, enabled)
}

func (in *Instrumentation) CaptureFrameTime() bool  { return in.isCapturing(&in.frameTime) }
func (in *Instrumentation) CaptureRenderTime() bool { return in.isCapturing(&in.renderTime) }
func (in *Instrumentation) CaptureCameraRenderTime() bool {
	return in.isCapturing(&in.cameraRenderTime)
}
func (in *Instrumentation) CaptureActiveMeshesEvaluationTime() bool {
	return in.isCapturing(&in.activeMeshesTime)
}
func (in *Instrumentation) CaptureRenderTargetsRenderTime() bool {
	return in.isCapturing(&in.renderTargetsTime)
}

// Time spent between the beginning and the end of a frame, including presentation.
func (in *Instrumentation) FrameTimeCounter() *PerfCounter { return &in.frameTime.counter }

// Time spent rendering the scene.
func (in *Instrumentation) RenderTimeCounter() *PerfCounter { return &in.renderTime.counter }

// Time spent in the active camera pass.
func (in *Instrumentation) CameraRenderTimeCounter() *PerfCounter {
	return &in.cameraRenderTime.counter
}

// Time spent computing world matrices and culling meshes.
func (in *Instrumentation) ActiveMeshesEvaluationTimeCounter() *PerfCounter {
	return &in.activeMeshesTime.counter
}

// Time spent rendering offscreen targets such as the ground mirror.
func (in *Instrumentation) RenderTargetsRenderTimeCounter() *PerfCounter {
	return &in.renderTargetsTime.counter
}

// Detach from the scene. Counters keep their last values. Safe to call more
// than once.
func (in *Instrumentation) Dispose() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.disposed {
		return
	}
	in.disposed = true

	for _, c := range []*capture{&in.frameTime, &in.renderTime, &in.cameraRenderTime, &in.activeMeshesTime, &in.renderTargetsTime} {
		c.disable()
	}
	in.scene.OnDispose.Remove(in.disposeObs)
}
