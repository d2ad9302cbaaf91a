package renderer

import (
	"sync"
	"time"
)

// Summary of a PerfCounter. All values are expressed in milliseconds.
type CounterStats struct {
	Current float64
	Average float64
	Min     float64
	Max     float64
	Count   uint64
}

// A PerfCounter accumulates duration samples. It can be safely read from
// any go-routine while samples are added by the render loop.
type PerfCounter struct {
	mu      sync.RWMutex
	current float64
	total   float64
	min     float64
	max     float64
	count   uint64

	started time.Time
}

// Record a sample expressed in milliseconds.
func (c *PerfCounter) AddValue(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = ms
	c.total += ms
	if c.count == 0 || ms < c.min {
		c.min = ms
	}
	if c.count == 0 || ms > c.max {
		c.max = ms
	}
	c.count++
}

// Record the elapsed time between a BeginMonitoring and EndMonitoring call.
func (c *PerfCounter) BeginMonitoring() {
	c.mu.Lock()
	c.started = time.Now()
	c.mu.Unlock()
}

func (c *PerfCounter) EndMonitoring() {
	c.mu.Lock()
	started := c.started
	c.started = time.Time{}
	c.mu.Unlock()

	if started.IsZero() {
		return
	}
	c.AddValue(float64(time.Since(started)) / float64(time.Millisecond))
}

// Get a consistent view of the counter. An empty counter reports zeros.
func (c *PerfCounter) Stats() CounterStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CounterStats{
		Current: c.current,
		Min:     c.min,
		Max:     c.max,
		Count:   c.count,
	}
	if c.count != 0 {
		stats.Average = c.total / float64(c.count)
	}
	return stats
}

func (c *PerfCounter) Current() float64 { return c.Stats().Current }
func (c *PerfCounter) Average() float64 { return c.Stats().Average }
func (c *PerfCounter) Min() float64     { return c.Stats().Min }
func (c *PerfCounter) Max() float64     { return c.Stats().Max }
func (c *PerfCounter) Count() uint64    { return c.Stats().Count }

// Discard all samples.
func (c *PerfCounter) Reset() {
	c.mu.Lock()
	c.current, c.total, c.min, c.max, c.count = 0, 0, 0, 0, 0
	c.started = time.Time{}
	c.mu.Unlock()
}

type FrameStats struct {
	// Number of frames rendered by the engine.
	Frames uint64

	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Meshes that survived frustum culling in the last frame.
	ActiveMeshes int

	// Total render time for the last frame.
	RenderTime time.Duration
}
