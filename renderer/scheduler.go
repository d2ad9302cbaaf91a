package renderer

import (
	"math"
	"sync"
	"time"

	"github.com/achilleasa/polaris-bench/scene"
)

// Rows rendered by a background worker and the time it took.
type bandStats struct {
	rows    uint32
	elapsed time.Duration
}

// The bandScheduler splits the frame into horizontal bands, one per worker.
// It assumes the per-row cost of two subsequent frames is about the same and
// sizes each band by the throughput its worker achieved on the last frame.
type bandScheduler struct {
	heights []uint32
}

// Assign a band height to each worker. Heights always add up to frameH and
// every band holds at least one row. Without usable feedback from the last
// frame the rows are split evenly.
//
// For worker w the next band height is:
// h_w = frameH * (rows_w / time_w) / Σ(rows_i / time_i)
func (s *bandScheduler) schedule(workers int, frameH uint32, last []bandStats) []uint32 {
	if workers < 1 {
		workers = 1
	}
	if uint32(workers) > frameH {
		workers = int(frameH)
	}

	if len(s.heights) != workers || !usableFeedback(last, workers) {
		s.heights = make([]uint32, workers)
		base, rem := frameH/uint32(workers), frameH%uint32(workers)
		for index := range s.heights {
			s.heights[index] = base
			if uint32(index) < rem {
				s.heights[index]++
			}
		}
		return s.heights
	}

	var total float64
	for _, st := range last {
		total += float64(st.rows) / float64(st.elapsed)
	}
	scaler := float64(frameH) / total

	var scheduled uint32
	for index, st := range last {
		s.heights[index] = uint32(math.Max(1, math.Floor(float64(st.rows)/float64(st.elapsed)*scaler)))
		scheduled += s.heights[index]
	}

	// Floor leaves a few rows unassigned; give them to the first band
	if scheduled < frameH {
		s.heights[0] += frameH - scheduled
	}

	// Bands bumped to the one row minimum may overshoot; take the excess
	// from the tallest bands
	for ; scheduled > frameH; scheduled-- {
		tallest := 0
		for index, h := range s.heights {
			if h > s.heights[tallest] {
				tallest = index
			}
		}
		s.heights[tallest]--
	}

	return s.heights
}

func usableFeedback(last []bandStats, workers int) bool {
	if len(last) != workers {
		return false
	}
	for _, st := range last {
		if st.rows == 0 || st.elapsed <= 0 {
			return false
		}
	}
	return true
}

// Render the backdrop using one go-routine per band and record the time
// each band took for scheduling the next frame.
func (e *Engine) drawBackground(sc *scene.Scene, pass viewPass) {
	heights := e.bands.schedule(e.options.Workers, uint32(e.frame.Rect.Dy()), e.bandStats)
	if len(e.bandStats) != len(heights) {
		e.bandStats = make([]bandStats, len(heights))
	}

	var wg sync.WaitGroup
	y0 := 0
	for index, h := range heights {
		y1 := y0 + int(h)
		wg.Add(1)
		go func(index, y0, y1 int) {
			defer wg.Done()
			start := time.Now()
			drawBackgroundRows(e.frame, e.depth, sc, pass, y0, y1)
			e.bandStats[index] = bandStats{rows: uint32(y1 - y0), elapsed: time.Since(start)}
		}(index, y0, y1)
		y0 = y1
	}
	wg.Wait()
}
