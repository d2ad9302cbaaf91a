package surface

import (
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/pkg/errors"
)

var _ Surface = (*Offscreen)(nil)

// An Offscreen surface keeps the last presented frame in memory. It is used
// for headless runs and tests.
type Offscreen struct {
	mu       sync.Mutex
	width    uint32
	height   uint32
	frames   uint64
	last     *image.RGBA
	closed   bool
	resizeCb Callbacks[func(uint32, uint32)]
	dragCb   Callbacks[func(float32, float32)]
}

// Create an offscreen surface with the given size.
func NewOffscreen(width, height uint32) *Offscreen {
	return &Offscreen{
		width:  width,
		height: height,
	}
}

func (s *Offscreen) Size() (uint32, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Copy the frame into the surface's back buffer.
func (s *Offscreen) Present(frame *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	bounds := frame.Bounds()
	if uint32(bounds.Dx()) != s.width || uint32(bounds.Dy()) != s.height {
		return ErrFrameMismatch
	}

	if s.last == nil || s.last.Bounds() != bounds {
		s.last = image.NewRGBA(bounds)
	}
	copy(s.last.Pix, frame.Pix)
	s.frames++
	return nil
}

func (s *Offscreen) OnResize(fn func(width, height uint32)) func() {
	return s.resizeCb.Add(fn)
}

func (s *Offscreen) OnDrag(fn func(dx, dy float32)) func() {
	return s.dragCb.Add(fn)
}

// Change the surface size and notify resize listeners.
func (s *Offscreen) SetSize(width, height uint32) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()

	for _, fn := range s.resizeCb.Snapshot() {
		fn(width, height)
	}
}

// Emit a pointer drag.
func (s *Offscreen) Drag(dx, dy float32) {
	for _, fn := range s.dragCb.Snapshot() {
		fn(dx, dy)
	}
}

// Number of frames presented so far.
func (s *Offscreen) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Get a copy of the last presented frame or nil if nothing was presented.
func (s *Offscreen) LastFrame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return nil
	}
	out := image.NewRGBA(s.last.Bounds())
	copy(out.Pix, s.last.Pix)
	return out
}

// Number of registered resize and drag listeners.
func (s *Offscreen) Listeners() (resize, drag int) {
	return s.resizeCb.Len(), s.dragCb.Len()
}

// Write the last presented frame to a png file.
func (s *Offscreen) SavePNG(imgFile string) error {
	frame := s.LastFrame()
	if frame == nil {
		return errors.New("surface: no frame has been presented")
	}

	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = png.Encode(f, frame); err != nil {
		return errors.Wrapf(err, "surface: could not encode %s", imgFile)
	}
	return nil
}

// Reject further frames.
func (s *Offscreen) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
