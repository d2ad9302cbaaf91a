package surface

import (
	"errors"
	"image"
	"sync"
)

var (
	ErrClosed        = errors.New("surface: surface closed")
	ErrFrameMismatch = errors.New("surface: frame size does not match surface size")
)

// A Surface is a drawable region with a pixel size that an engine can be
// bound to.
type Surface interface {
	// Current size in pixels.
	Size() (width, height uint32)

	// Display a rendered frame.
	Present(frame *image.RGBA) error

	// Register a callback for size changes. The returned function removes it.
	OnResize(fn func(width, height uint32)) (remove func())

	// Register a callback for pointer drags (deltas in pixels). The returned
	// function removes it.
	OnDrag(fn func(dx, dy float32)) (remove func())
}

// Surfaces backed by a thread-affine graphics context implement
// ContextOwner. The engine acquires the context on the goroutine that
// presents frames (with the OS thread locked) and releases it when done.
type ContextOwner interface {
	Acquire() error
	Release()
}

// A set of callbacks that can be removed individually. The zero value is
// ready to use.
type Callbacks[F any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]F
}

// Register a callback; the returned function removes it.
func (l *Callbacks[F]) Add(fn F) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]F)
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// Get the registered callbacks in registration order.
func (l *Callbacks[F]) Snapshot() []F {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]F, 0, len(l.fns))
	for id := 0; id < l.nextID; id++ {
		if fn, ok := l.fns[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// Number of registered callbacks.
func (l *Callbacks[F]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
