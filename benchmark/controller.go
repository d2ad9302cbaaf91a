package benchmark

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/achilleasa/polaris-bench/log"
	"github.com/achilleasa/polaris-bench/renderer"
	"github.com/achilleasa/polaris-bench/scene"
	"github.com/achilleasa/polaris-bench/surface"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type State uint8

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "unknown"
}

// EngineFactory creates the engine for a run.
type EngineFactory func(surf surface.Surface, opts renderer.Options) (*renderer.Engine, error)

type Option func(c *Controller)

// Use factory to create engines.
func WithEngineFactory(factory EngineFactory) Option {
	return func(c *Controller) {
		c.newEngine = factory
	}
}

// Set the snapshot publishing period.
func WithSampleInterval(interval time.Duration) Option {
	return func(c *Controller) {
		c.interval = interval
	}
}

// Set the textures and mirror settings of the scene environment.
func WithEnvironment(env scene.EnvironmentOptions) Option {
	return func(c *Controller) {
		c.env = env
	}
}

// Set the options passed to the engine factory.
func WithRendererOptions(opts renderer.Options) Option {
	return func(c *Controller) {
		c.engineOpts = opts
	}
}

// Seed the random source used for the scene colors and positions. Each run
// reseeds it so runs are reproducible.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.seed = &seed
	}
}

// The resources held while running. They are allocated and released as a set.
type run struct {
	id string

	engine       *renderer.Engine
	scene        *scene.Scene
	instr        *renderer.Instrumentation
	removeResize func()

	cancelSampler context.CancelFunc
	samplerDone   chan struct{}
}

// A Controller drives the benchmark lifecycle. Start and Stop are safe to
// call from any go-routine and any number of times.
type Controller struct {
	logger log.Logger

	surfaceFn  func() surface.Surface
	newEngine  EngineFactory
	interval   time.Duration
	env        scene.EnvironmentOptions
	engineOpts renderer.Options
	seed       *int64

	// Serializes Start and Stop.
	mu    sync.Mutex
	state State
	run   *run

	subscribers surface.Callbacks[func(Snapshot)]

	latestMu  sync.RWMutex
	latest    Snapshot
	hasLatest bool
	seq       uint64
}

// Create a controller that renders into the surface returned by surfaceFn.
// A nil surface makes Start a no-op.
func NewController(surfaceFn func() surface.Surface, opts ...Option) *Controller {
	c := &Controller{
		logger:     log.New("benchmark"),
		surfaceFn:  surfaceFn,
		newEngine:  renderer.NewEngine,
		interval:   time.Second,
		engineOpts: renderer.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.interval <= 0 {
		c.interval = time.Second
	}
	return c
}

// Register a callback for published snapshots. Callbacks run on the sampler
// go-routine and must not call Start or Stop. A slow callback delays the
// next snapshot and Stop, so callbacks doing I/O should hand the snapshot
// off to their own go-routine.
func (c *Controller) Subscribe(fn func(Snapshot)) (remove func()) {
	return c.subscribers.Add(fn)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Running() bool {
	return c.State() == Running
}

// Get the id of the current run or an empty string while idle.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.run == nil {
		return ""
	}
	return c.run.id
}

// Get the last published snapshot. Returns false if nothing was published yet.
func (c *Controller) Latest() (Snapshot, bool) {
	c.latestMu.RLock()
	defer c.latestMu.RUnlock()
	return c.latest, c.hasLatest
}

// Set up the engine, scene and instrumentation, then start the render loop
// and the snapshot sampler. Calling Start while running or while no surface
// is available does nothing.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Running {
		c.logger.Debug("benchmark already running")
		return nil
	}

	var surf surface.Surface
	if c.surfaceFn != nil {
		surf = c.surfaceFn()
	}
	if surf == nil {
		c.logger.Debug("no drawable surface available; not starting")
		return nil
	}

	eng, err := c.newEngine(surf, c.engineOpts)
	if err != nil {
		return errors.Wrap(err, "benchmark: could not create engine")
	}

	r := &run{id: uuid.NewString(), engine: eng}
	r.removeResize = surf.OnResize(func(_, _ uint32) { eng.Resize() })
	r.scene = BuildSceneWithRand(eng, surf, c.env, c.newRand())
	r.instr = AttachInstrumentation(r.scene)

	c.logger.Noticef("start benchmarking render loop (run %s)", r.id)
	var lastErr error
	err = eng.RunRenderLoop(func() {
		err := eng.Render(r.scene)
		if err != nil && (lastErr == nil || err.Error() != lastErr.Error()) {
			c.logger.Warningf("render failed: %v", err)
		}
		lastErr = err
	})
	if err != nil {
		r.release()
		return errors.Wrap(err, "benchmark: could not start render loop")
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancelSampler = cancel
	r.samplerDone = make(chan struct{})
	go c.sample(ctx, r.id, r.instr, r.samplerDone)

	c.run = r
	c.state = Running
	return nil
}

// Tear down the current run. Calling Stop while idle does nothing. When Stop
// returns no frame, snapshot or resize reaction of the run fires again.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		return
	}

	c.logger.Notice("tearing down benchmark setup")
	c.run.release()
	c.run = nil
	c.state = Idle
}

// Close is the teardown hook for hosts; it is equivalent to Stop.
func (c *Controller) Close() {
	c.Stop()
}

func (c *Controller) newRand() *rand.Rand {
	seed := time.Now().UnixNano()
	if c.seed != nil {
		seed = *c.seed
	}
	return rand.New(rand.NewSource(seed))
}

// Publish a snapshot every interval until ctx is cancelled.
func (c *Controller) sample(ctx context.Context, runID string, acc Accessor, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.latestMu.Lock()
			c.seq++
			snap := TakeSnapshot(acc, c.seq, now)
			snap.RunID = runID
			c.latest, c.hasLatest = snap, true
			c.latestMu.Unlock()

			for _, fn := range c.subscribers.Snapshot() {
				fn(snap)
			}
		}
	}
}

// Release run resources in dependency order.
func (r *run) release() {
	if r.cancelSampler != nil {
		r.cancelSampler()
		<-r.samplerDone
	}
	r.engine.StopRenderLoop()
	r.instr.Dispose()
	r.scene.Dispose()
	r.removeResize()
	r.engine.Dispose()
}
