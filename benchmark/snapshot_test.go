package benchmark

import (
	"testing"
	"time"

	"github.com/achilleasa/polaris-bench/display"
	"github.com/achilleasa/polaris-bench/scene"
)

func TestTakeSnapshot(t *testing.T) {
	in := AttachInstrumentation(scene.New())
	in.FrameTimeCounter().AddValue(10)
	in.FrameTimeCounter().AddValue(20)
	in.RenderTargetsRenderTimeCounter().AddValue(1.5)

	now := time.Now()
	snap := TakeSnapshot(in, 3, now)

	if snap.Seq != 3 || !snap.Time.Equal(now) {
		t.Fatalf("unexpected snapshot header: %d %v", snap.Seq, snap.Time)
	}
	exp := Metric{Average: 15, Min: 10, Max: 20, Count: 2}
	if snap.FrameTime != exp {
		t.Fatalf("expected frame time %+v; got %+v", exp, snap.FrameTime)
	}
	if snap.RenderTargetTime.Average != 1.5 {
		t.Fatalf("expected render target average 1.5; got %f", snap.RenderTargetTime.Average)
	}
	if snap.RenderTime != (Metric{}) {
		t.Fatalf("expected empty render time; got %+v", snap.RenderTime)
	}

	// Snapshots are copies
	in.FrameTimeCounter().AddValue(90)
	if snap.FrameTime.Max != 20 {
		t.Fatal("expected snapshot to be unaffected by later samples")
	}
}

func TestMetricCards(t *testing.T) {
	expTitles := []string{
		"Render time",
		"Frame time",
		"Camera render time",
		"Mesh evaluation time",
		"Render target time",
	}

	specs := []struct {
		descr string
		snap  *Snapshot
		exp   [3]string
	}{
		{"no snapshot", nil, [3]string{display.Placeholder, display.Placeholder, display.Placeholder}},
		{"snapshot", &Snapshot{
			RenderTime:         Metric{Average: 1.234, Max: 5, Min: 0.5},
			FrameTime:          Metric{Average: 1.234, Max: 5, Min: 0.5},
			CameraRenderTime:   Metric{Average: 1.234, Max: 5, Min: 0.5},
			MeshEvaluationTime: Metric{Average: 1.234, Max: 5, Min: 0.5},
			RenderTargetTime:   Metric{Average: 1.234, Max: 5, Min: 0.5},
		}, [3]string{"1.23", "5.00", "0.50"}},
	}

	for _, spec := range specs {
		cards := MetricCards(spec.snap)
		if len(cards) != len(expTitles) {
			t.Fatalf("[%s] expected %d cards; got %d", spec.descr, len(expTitles), len(cards))
		}
		for index, card := range cards {
			if card.Title != expTitles[index] {
				t.Fatalf("[%s] expected card %d to be %q; got %q", spec.descr, index, expTitles[index], card.Title)
			}
			for itemIndex, label := range []string{"Average", "Max", "Min"} {
				item := card.Items[itemIndex]
				if item.Label != label || item.Value != spec.exp[itemIndex] {
					t.Fatalf("[%s] %s: expected %s=%s; got %s=%s", spec.descr, card.Title, label, spec.exp[itemIndex], item.Label, item.Value)
				}
			}
		}
	}
}
