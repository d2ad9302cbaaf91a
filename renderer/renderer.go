package renderer

import (
	"image"
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/polaris-bench/log"
	"github.com/achilleasa/polaris-bench/scene"
	"github.com/achilleasa/polaris-bench/surface"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// An Engine renders scenes into a frame buffer and presents it to the
// surface it is bound to. Frames are produced by a render loop running on
// its own go-routine.
type Engine struct {
	logger log.Logger

	// Guards the frame buffers and the engine state. Held for the duration
	// of a frame.
	sync.Mutex

	surface surface.Surface
	options Options

	frame  *image.RGBA
	depth  []float32
	active []activeMesh
	stats  FrameStats

	// Background pass work split.
	bands     bandScheduler
	bandStats []bandStats

	disposed bool

	scenesMutex sync.Mutex
	scenes      []*scene.Scene

	// Render loop state; guarded by loopMutex.
	loopMutex sync.Mutex
	wg        sync.WaitGroup
	closeChan chan struct{}
}

// Create an engine bound to surf.
func NewEngine(surf surface.Surface, opts Options) (*Engine, error) {
	if surf == nil {
		return nil, ErrNoSurface
	}

	defaults := DefaultOptions()
	if opts.FrameW == 0 || opts.FrameH == 0 {
		opts.FrameW, opts.FrameH = defaults.FrameW, defaults.FrameH
	}
	if opts.Workers < 1 {
		opts.Workers = defaults.Workers
	}

	e := &Engine{
		logger:  log.New("engine"),
		surface: surf,
		options: opts,
		scenes:  make([]*scene.Scene, 0),
	}
	e.resize()

	e.logger.Debugf("bound to %dx%d surface", e.stats.FrameW, e.stats.FrameH)
	return e, nil
}

// Create a scene owned by this engine. Disposing the engine disposes all of
// its scenes.
func (e *Engine) NewScene() *scene.Scene {
	sc := scene.New()
	sc.OnDispose.Add(func() { e.removeScene(sc) })

	e.scenesMutex.Lock()
	e.scenes = append(e.scenes, sc)
	e.scenesMutex.Unlock()
	return sc
}

// Match the frame buffer to the current surface size.
func (e *Engine) Resize() {
	e.Lock()
	defer e.Unlock()

	if e.disposed {
		return
	}
	e.resize()
}

func (e *Engine) resize() {
	w, h := e.surface.Size()
	if w == 0 || h == 0 {
		w, h = e.options.FrameW, e.options.FrameH
	}
	if e.frame != nil && uint32(e.frame.Rect.Dx()) == w && uint32(e.frame.Rect.Dy()) == h {
		return
	}

	e.frame = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	e.depth = make([]float32, int(w)*int(h))
	e.stats.FrameW, e.stats.FrameH = w, h
	e.logger.Debugf("frame buffer resized to %dx%d", w, h)
}

// Get the frame buffer dims.
func (e *Engine) FrameSize() (uint32, uint32) {
	e.Lock()
	defer e.Unlock()
	return e.stats.FrameW, e.stats.FrameH
}

// Get render statistics.
func (e *Engine) Stats() FrameStats {
	e.Lock()
	defer e.Unlock()
	return e.stats
}

// Spawn a go-routine that keeps invoking fn until StopRenderLoop is called.
// If the surface owns a graphics context, the go-routine acquires it with
// its OS thread locked.
func (e *Engine) RunRenderLoop(fn func()) error {
	e.Lock()
	disposed := e.disposed
	e.Unlock()
	if disposed {
		return ErrDisposed
	}

	e.loopMutex.Lock()
	defer e.loopMutex.Unlock()

	if e.closeChan != nil {
		return ErrLoopRunning
	}
	e.closeChan = make(chan struct{}, 0)

	readyChan := make(chan struct{}, 0)
	e.wg.Add(1)
	go func(closeChan chan struct{}) {
		defer e.wg.Done()
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if owner, isOwner := e.surface.(surface.ContextOwner); isOwner {
			if err := owner.Acquire(); err != nil {
				e.logger.Errorf("could not acquire surface context: %v", err)
				close(readyChan)
				<-closeChan
				closeChan <- struct{}{}
				return
			}
			defer owner.Release()
		}

		var tick <-chan time.Time
		if e.options.FrameInterval > 0 {
			ticker := time.NewTicker(e.options.FrameInterval)
			defer ticker.Stop()
			tick = ticker.C
		}

		close(readyChan)
		for {
			select {
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			default:
			}

			fn()

			if tick != nil {
				select {
				case <-closeChan:
					closeChan <- struct{}{}
					return
				case <-tick:
				}
			}
		}
	}(e.closeChan)

	// Wait for go-routine to start
	<-readyChan
	return nil
}

// Stop the render loop and wait for the frame in flight to complete. It is
// a no-op if the loop is not running.
func (e *Engine) StopRenderLoop() {
	e.loopMutex.Lock()
	defer e.loopMutex.Unlock()

	if e.closeChan == nil {
		return
	}

	e.closeChan <- struct{}{}

	// wait for worker to ack close and shutdown channel
	<-e.closeChan
	close(e.closeChan)
	e.closeChan = nil
	e.wg.Wait()
}

// Returns true while the render loop is running.
func (e *Engine) Running() bool {
	e.loopMutex.Lock()
	defer e.loopMutex.Unlock()
	return e.closeChan != nil
}

// Render a frame of sc and present it to the surface.
func (e *Engine) Render(sc *scene.Scene) error {
	e.Lock()
	defer e.Unlock()

	if e.disposed {
		return ErrDisposed
	}
	if sc.Disposed() {
		return ErrSceneDisposed
	}
	camera := sc.ActiveCamera
	if camera == nil {
		return ErrCameraNotDefined
	}

	start := time.Now()
	sc.OnBeginFrame.Notify()
	sc.OnBeforeRender.Notify()

	// Frame hooks may have disposed the scene
	if sc.Disposed() {
		return ErrSceneDisposed
	}

	frameW, frameH := e.frame.Rect.Dx(), e.frame.Rect.Dy()
	view := camera.ViewMatrix()
	proj := camera.ProjectionMatrix(float32(frameW) / float32(frameH))
	pass := newViewPass(camera, view, proj, frameW, frameH)

	sc.OnBeforeActiveMeshesEvaluation.Notify()
	e.evaluateActiveMeshes(sc, sc.NextRenderID(), pass)
	sc.OnAfterActiveMeshesEvaluation.Notify()

	sc.OnBeforeRenderTargets.Notify()
	for _, rt := range sc.RenderTargets {
		e.renderTarget(sc, rt, camera, view, proj)
	}
	sc.OnAfterRenderTargets.Notify()

	sc.OnBeforeCameraRender.Notify()
	e.renderCamera(sc, pass)
	sc.OnAfterCameraRender.Notify()

	sc.OnAfterRender.Notify()

	err := e.surface.Present(e.frame)
	sc.OnEndFrame.Notify()

	e.stats.Frames++
	e.stats.ActiveMeshes = len(e.active)
	e.stats.RenderTime = time.Since(start)
	return err
}

// Stop the render loop, dispose all scenes owned by the engine and release
// the frame buffers. Safe to call more than once.
func (e *Engine) Dispose() {
	e.StopRenderLoop()

	e.Lock()
	if e.disposed {
		e.Unlock()
		return
	}
	e.disposed = true
	e.frame = nil
	e.depth = nil
	e.active = nil
	e.Unlock()

	e.scenesMutex.Lock()
	scenes := append([]*scene.Scene(nil), e.scenes...)
	e.scenesMutex.Unlock()

	for _, sc := range scenes {
		sc.Dispose()
	}
	e.logger.Debug("disposed")
}

// Returns true once Dispose has been called.
func (e *Engine) Disposed() bool {
	e.Lock()
	defer e.Unlock()
	return e.disposed
}

// Number of live scenes owned by the engine.
func (e *Engine) Scenes() int {
	e.scenesMutex.Lock()
	defer e.scenesMutex.Unlock()
	return len(e.scenes)
}

func (e *Engine) removeScene(sc *scene.Scene) {
	e.scenesMutex.Lock()
	defer e.scenesMutex.Unlock()
	for index, owned := range e.scenes {
		if owned == sc {
			e.scenes = append(e.scenes[:index], e.scenes[index+1:]...)
			return
		}
	}
}

// Compute world matrices and collect the meshes whose bounding sphere
// intersects the view frustum.
func (e *Engine) evaluateActiveMeshes(sc *scene.Scene, renderID uint64, pass viewPass) {
	e.active = e.active[:0]
	ambient := mgl32.Vec3{1, 1, 1}
	if sc.Environment != nil {
		ambient = sc.Environment.Ambient
	}

	for _, mesh := range sc.Meshes {
		if !mesh.Visible || mesh.Geometry == nil {
			continue
		}

		world := mesh.ComputeWorldMatrix(renderID)
		center := world.Col(3).Vec3()
		radius := mesh.Geometry.BoundingRadius * maxScale(world)

		sp, visible := pass.project(center, radius)
		if !visible {
			continue
		}
		sp.base, sp.lit = shade(mesh.Material, ambient)

		e.active = append(e.active, activeMesh{
			mesh:   mesh,
			center: center,
			radius: radius,
			splat:  sp,
		})
	}
}

// Render the active meshes reflected about the mirror plane of rt.
func (e *Engine) renderTarget(sc *scene.Scene, rt *scene.RenderTarget, camera *scene.Camera, view, proj mgl32.Mat4) {
	rtW := int(math32.Ceil(float32(e.frame.Rect.Dx()) * rt.Ratio))
	rtH := int(math32.Ceil(float32(e.frame.Rect.Dy()) * rt.Ratio))
	if rtW <= 0 || rtH <= 0 {
		return
	}
	if rt.Frame == nil || rt.Frame.Rect.Dx() != rtW || rt.Frame.Rect.Dy() != rtH {
		rt.Frame = image.NewRGBA(image.Rect(0, 0, rtW, rtH))
		rt.Depth = make([]float32, rtW*rtH)
	}

	clearTarget(rt.Frame, rt.Depth)
	pass := newViewPass(camera, view, proj, rtW, rtH)
	for _, am := range e.active {
		reflected := mgl32.Vec3{am.center.X(), 2*rt.MirrorY - am.center.Y(), am.center.Z()}
		sp, visible := pass.project(reflected, am.radius)
		if !visible {
			continue
		}
		sp.base = am.splat.base.Mul(mirrorAttenuation)
		sp.lit = am.splat.lit.Mul(mirrorAttenuation)
		drawSplat(rt.Frame, rt.Depth, sp)
	}
}

// Render the environment and the active meshes into the frame buffer.
func (e *Engine) renderCamera(sc *scene.Scene, pass viewPass) {
	e.drawBackground(sc, pass)
	for _, am := range e.active {
		drawSplat(e.frame, e.depth, am.splat)
	}
}

func maxScale(m mgl32.Mat4) float32 {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	return math32.Max(sx, math32.Max(sy, sz))
}
