package window

import (
	"image"
	"runtime"
	"sync"

	"github.com/achilleasa/polaris-bench/surface"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

var (
	_ surface.Surface      = (*Window)(nil)
	_ surface.ContextOwner = (*Window)(nil)
)

// Information about the GL device backing a window.
type GPUInfo struct {
	Vendor   string
	Renderer string
	Version  string
}

// A Window is a glfw window whose framebuffer is filled by blitting each
// presented frame through an OpenGL texture.
//
// NewWindow, PollEvents and Close must be called from the main goroutine
// with the OS thread locked.
type Window struct {
	mu sync.Mutex

	window *glfw.Window
	width  uint32
	height uint32
	closed bool
	gpu    GPUInfo

	// opengl handles
	fbTexture uint32
	texFbo    uint32
	texW      int32
	texH      int32

	// drag state
	lastCursorX  float64
	lastCursorY  float64
	mousePressed bool

	resizeCb surface.Callbacks[func(uint32, uint32)]
	dragCb   surface.Callbacks[func(float32, float32)]
}

// Create a resizable window with an OpenGL 2.1 context.
func NewWindow(width, height uint32, title string) (*Window, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "surface: failed to initialize glfw")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	window, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "surface: could not create opengl window")
	}
	window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, errors.Wrap(err, "surface: could not init opengl")
	}

	// Disable vsync so the render loop runs as fast as the device allows
	glfw.SwapInterval(0)

	w := &Window{
		window: window,
		gpu: GPUInfo{
			Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
			Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
			Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		},
	}

	fbW, fbH := window.GetFramebufferSize()
	w.width, w.height = uint32(fbW), uint32(fbH)

	// Bind event callbacks
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetFramebufferSizeCallback(w.onFramebufferSize)
	window.SetKeyCallback(w.onKeyEvent)
	window.SetMouseButtonCallback(w.onMouseEvent)
	window.SetCursorPosCallback(w.onCursorPosEvent)

	// The context is re-acquired by the goroutine that presents frames
	glfw.DetachCurrentContext()

	return w, nil
}

// Get the GL vendor, renderer and version strings.
func (w *Window) GPUInfo() GPUInfo {
	return w.gpu
}

func (w *Window) Size() (uint32, uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Window) OnResize(fn func(width, height uint32)) func() {
	return w.resizeCb.Add(fn)
}

func (w *Window) OnDrag(fn func(dx, dy float32)) func() {
	return w.dragCb.Add(fn)
}

// Make the GL context current on the calling OS thread.
func (w *Window) Acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return surface.ErrClosed
	}
	w.window.MakeContextCurrent()
	return nil
}

// Detach the GL context from the calling OS thread.
func (w *Window) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.deleteGLObjects()
	glfw.DetachCurrentContext()
}

// Upload the frame to the backing texture and blit it to the window
// framebuffer. Must be called between Acquire and Release.
func (w *Window) Present(frame *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return surface.ErrClosed
	}

	frameW, frameH := int32(frame.Bounds().Dx()), int32(frame.Bounds().Dy())
	if frameW == 0 || frameH == 0 {
		return nil
	}
	if frameW != w.texW || frameH != w.texH {
		w.allocGLObjects(frameW, frameH)
	}

	gl.BindTexture(gl.TEXTURE_2D, w.fbTexture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, frameW, frameH, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))

	// Frames are stored top row first; flip Y while copying
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.texFbo)
	gl.BlitFramebuffer(0, 0, frameW, frameH, 0, frameH, frameW, 0, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	w.window.SwapBuffers()
	return nil
}

// Process pending window events.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Returns true if the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

// Destroy the window and terminate glfw.
func (w *Window) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.closed = true
	w.window.Destroy()
	glfw.Terminate()
}

func (w *Window) allocGLObjects(frameW, frameH int32) {
	w.deleteGLObjects()

	// Setup texture for image data
	gl.GenTextures(1, &w.fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, frameW, frameH, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &w.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, w.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, w.fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	w.texW, w.texH = frameW, frameH
}

func (w *Window) deleteGLObjects() {
	if w.texFbo != 0 {
		gl.DeleteFramebuffers(1, &w.texFbo)
		w.texFbo = 0
	}
	if w.fbTexture != 0 {
		gl.DeleteTextures(1, &w.fbTexture)
		w.fbTexture = 0
	}
	w.texW, w.texH = 0, 0
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	w.mu.Lock()
	w.width, w.height = uint32(width), uint32(height)
	w.mu.Unlock()

	for _, fn := range w.resizeCb.Snapshot() {
		fn(uint32(width), uint32(height))
	}
}

func (w *Window) onKeyEvent(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action == glfw.Press && key == glfw.KeyEscape {
		w.window.SetShouldClose(true)
	}
}

func (w *Window) onMouseEvent(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}

	w.mousePressed = action == glfw.Press
	if w.mousePressed {
		w.lastCursorX, w.lastCursorY = win.GetCursorPos()
	}
}

func (w *Window) onCursorPosEvent(_ *glfw.Window, xPos, yPos float64) {
	if !w.mousePressed {
		return
	}

	dx, dy := float32(xPos-w.lastCursorX), float32(yPos-w.lastCursorY)
	w.lastCursorX, w.lastCursorY = xPos, yPos

	for _, fn := range w.dragCb.Snapshot() {
		fn(dx, dy)
	}
}
