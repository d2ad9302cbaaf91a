package renderer

import (
	"image"
	"testing"
	"time"

	"github.com/achilleasa/polaris-bench/scene"
	"github.com/go-gl/mathgl/mgl32"
)

func sum(heights []uint32) uint32 {
	var total uint32
	for _, h := range heights {
		total += h
	}
	return total
}

func TestBandSchedulerEvenSplit(t *testing.T) {
	var s bandScheduler

	heights := s.schedule(4, 10, nil)
	exp := []uint32{3, 3, 2, 2}
	for index := range exp {
		if heights[index] != exp[index] {
			t.Fatalf("expected heights %v; got %v", exp, heights)
		}
	}

	// More workers than rows
	if heights = s.schedule(8, 3, nil); len(heights) != 3 || sum(heights) != 3 {
		t.Fatalf("expected 3 single row bands; got %v", heights)
	}

	if heights = s.schedule(0, 5, nil); len(heights) != 1 || heights[0] != 5 {
		t.Fatalf("expected a single band; got %v", heights)
	}
}

func TestBandSchedulerUsesFeedback(t *testing.T) {
	var s bandScheduler
	s.schedule(2, 100, nil)

	// Worker 0 was three times faster than worker 1
	last := []bandStats{
		{rows: 50, elapsed: 10 * time.Millisecond},
		{rows: 50, elapsed: 30 * time.Millisecond},
	}
	heights := s.schedule(2, 100, last)
	if sum(heights) != 100 || heights[0] < 74 || heights[0] > 76 {
		t.Fatalf("expected about a 75/25 split; got %v", heights)
	}

	// A worker without timing info resets to an even split
	last[1].elapsed = 0
	heights = s.schedule(2, 100, last)
	if heights[0] != 50 || heights[1] != 50 {
		t.Fatalf("expected even split; got %v", heights)
	}
}

func TestBandSchedulerKeepsMinimumRows(t *testing.T) {
	var s bandScheduler
	s.schedule(3, 4, nil)

	last := []bandStats{
		{rows: 2, elapsed: time.Nanosecond},
		{rows: 1, elapsed: time.Hour},
		{rows: 1, elapsed: time.Hour},
	}
	heights := s.schedule(3, 4, last)
	if sum(heights) != 4 {
		t.Fatalf("expected heights to add up to 4; got %v", heights)
	}
	for index, h := range heights {
		if h == 0 {
			t.Fatalf("expected band %d to have at least one row; got %v", index, heights)
		}
	}
}

func TestBandedBackgroundMatchesSinglePass(t *testing.T) {
	sc := scene.New()
	camera := sc.NewArcRotateCamera("camera1", 0.3, 1.2, 10, mgl32.Vec3{})
	sc.CreateSphere("sphere", scene.SphereOptions{Diameter: 2, Segments: 4})
	sc.CreateDefaultEnvironment(scene.EnvironmentOptions{})

	const w, h = 40, 30
	view := camera.ViewMatrix()
	proj := camera.ProjectionMatrix(float32(w) / float32(h))
	pass := newViewPass(camera, view, proj, w, h)

	single := image.NewRGBA(image.Rect(0, 0, w, h))
	singleDepth := make([]float32, w*h)
	drawBackgroundRows(single, singleDepth, sc, pass, 0, h)

	e := &Engine{
		options: Options{Workers: 7},
		frame:   image.NewRGBA(image.Rect(0, 0, w, h)),
		depth:   make([]float32, w*h),
	}
	for frame := 0; frame < 3; frame++ {
		e.drawBackground(sc, pass)
	}

	for index := range single.Pix {
		if single.Pix[index] != e.frame.Pix[index] {
			t.Fatalf("pixel data differs at offset %d", index)
		}
	}
	for index := range singleDepth {
		if singleDepth[index] != e.depth[index] {
			t.Fatalf("depth differs at %d", index)
		}
	}
	if len(e.bandStats) != 7 || sum(e.bands.heights) != h {
		t.Fatalf("expected 7 bands covering %d rows; got %v", h, e.bands.heights)
	}
}
