package renderer

import (
	"testing"

	"github.com/achilleasa/polaris-bench/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func TestPerfCounter(t *testing.T) {
	var c PerfCounter
	if stats := c.Stats(); stats != (CounterStats{}) {
		t.Fatalf("expected an empty counter to report zeros; got %+v", stats)
	}

	for _, v := range []float64{1, 3, 2} {
		c.AddValue(v)
	}

	exp := CounterStats{Current: 2, Average: 2, Min: 1, Max: 3, Count: 3}
	if stats := c.Stats(); stats != exp {
		t.Fatalf("expected %+v; got %+v", exp, stats)
	}

	// Unbalanced end calls are ignored
	c.EndMonitoring()
	if c.Count() != 3 {
		t.Fatalf("expected 3 samples; got %d", c.Count())
	}
	c.BeginMonitoring()
	c.EndMonitoring()
	if c.Count() != 4 {
		t.Fatalf("expected 4 samples; got %d", c.Count())
	}

	c.Reset()
	if c.Count() != 0 || c.Average() != 0 || c.Max() != 0 {
		t.Fatal("expected counter to be reset")
	}
}

func TestInstrumentation(t *testing.T) {
	sc := scene.New()
	sc.NewArcRotateCamera("camera1", 0, 1, 10, mgl32.Vec3{})
	in := NewInstrumentation(sc)

	in.SetCaptureFrameTime(true)
	in.SetCaptureRenderTime(true)
	in.SetCaptureCameraRenderTime(true)
	in.SetCaptureActiveMeshesEvaluationTime(true)
	if !in.CaptureFrameTime() || in.CaptureRenderTargetsRenderTime() {
		t.Fatal("unexpected capture flags")
	}

	// Simulate the hooks of a frame
	for _, o := range []*scene.Observable{
		&sc.OnBeginFrame,
		&sc.OnBeforeActiveMeshesEvaluation,
		&sc.OnAfterActiveMeshesEvaluation,
		&sc.OnBeforeRenderTargets,
		&sc.OnAfterRenderTargets,
		&sc.OnBeforeCameraRender,
		&sc.OnAfterCameraRender,
		&sc.OnAfterRender,
		&sc.OnEndFrame,
	} {
		o.Notify()
	}

	specs := []struct {
		name    string
		counter *PerfCounter
		exp     uint64
	}{
		{"frame", in.FrameTimeCounter(), 1},
		{"render", in.RenderTimeCounter(), 1},
		{"camera", in.CameraRenderTimeCounter(), 1},
		{"active meshes", in.ActiveMeshesEvaluationTimeCounter(), 1},
		{"render targets", in.RenderTargetsRenderTimeCounter(), 0},
	}
	for _, spec := range specs {
		if got := spec.counter.Count(); got != spec.exp {
			t.Errorf("[%s] expected %d samples; got %d", spec.name, spec.exp, got)
		}
	}

	in.SetCaptureFrameTime(false)
	if in.CaptureFrameTime() || sc.OnBeginFrame.Len() != 0 {
		t.Fatal("expected frame time capture to be detached")
	}

	// Disposing the scene detaches the instrumentation
	sc.Dispose()
	if in.CaptureRenderTime() || in.CaptureCameraRenderTime() || in.CaptureActiveMeshesEvaluationTime() {
		t.Fatal("expected instrumentation to be disposed along with the scene")
	}
	in.SetCaptureFrameTime(true)
	if in.CaptureFrameTime() {
		t.Fatal("expected a disposed instrumentation to ignore capture flags")
	}
	in.Dispose()
}
