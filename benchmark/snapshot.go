package benchmark

import (
	"time"

	"github.com/achilleasa/polaris-bench/display"
	"github.com/achilleasa/polaris-bench/renderer"
)

// Summary of a counter in milliseconds.
type Metric struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   uint64  `json:"count"`
}

func metricOf(c *renderer.PerfCounter) Metric {
	stats := c.Stats()
	return Metric{
		Average: stats.Average,
		Min:     stats.Min,
		Max:     stats.Max,
		Count:   stats.Count,
	}
}

// A Snapshot is a point in time read of all sampled counters.
type Snapshot struct {
	// Increases by one for each published snapshot of a controller.
	Seq  uint64    `json:"seq"`
	Time time.Time `json:"time"`

	// Identifies the run that produced the snapshot.
	RunID string `json:"runId"`

	RenderTime         Metric `json:"renderTime"`
	FrameTime          Metric `json:"frameTime"`
	CameraRenderTime   Metric `json:"cameraRenderTime"`
	MeshEvaluationTime Metric `json:"meshEvaluationTime"`
	RenderTargetTime   Metric `json:"renderTargetTime"`
}

// Read all counters exposed by acc.
func TakeSnapshot(acc Accessor, seq uint64, now time.Time) Snapshot {
	return Snapshot{
		Seq:                seq,
		Time:               now,
		RenderTime:         metricOf(acc.RenderTimeCounter()),
		FrameTime:          metricOf(acc.FrameTimeCounter()),
		CameraRenderTime:   metricOf(acc.CameraRenderTimeCounter()),
		MeshEvaluationTime: metricOf(acc.ActiveMeshesEvaluationTimeCounter()),
		RenderTargetTime:   metricOf(acc.RenderTargetsRenderTimeCounter()),
	}
}

// Build the metric cards for snap. A nil snapshot yields placeholder values.
func MetricCards(snap *Snapshot) []display.Card {
	titles := []string{
		"Render time",
		"Frame time",
		"Camera render time",
		"Mesh evaluation time",
		"Render target time",
	}

	var metrics []Metric
	if snap != nil {
		metrics = []Metric{
			snap.RenderTime,
			snap.FrameTime,
			snap.CameraRenderTime,
			snap.MeshEvaluationTime,
			snap.RenderTargetTime,
		}
	}

	cards := make([]display.Card, len(titles))
	for index, title := range titles {
		var avg, max, min string
		if metrics != nil {
			m := metrics[index]
			avg, max, min = display.Millis(m.Average), display.Millis(m.Max), display.Millis(m.Min)
		}
		cards[index] = display.NewCard(title,
			display.Item{Label: "Average", Value: avg},
			display.Item{Label: "Max", Value: max},
			display.Item{Label: "Min", Value: min},
		)
	}
	return cards
}
