package scene

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Coefficients for converting delta cursor movements to alpha/beta camera angles.
	mouseSensitivityX float32 = 0.005
	mouseSensitivityY float32 = 0.005

	// Keep beta away from the poles to avoid a degenerate view matrix.
	betaEpsilon float32 = 0.01
)

// A DragSource emits pointer drag deltas (in pixels).
type DragSource interface {
	OnDrag(fn func(dx, dy float32)) (remove func())
}

// An orbit camera that rotates around a target point. Alpha is the
// longitudinal and Beta the latitudinal rotation; Radius is the distance to
// the target.
type Camera struct {
	Name string

	mu     sync.Mutex
	alpha  float32
	beta   float32
	radius float32
	target mgl32.Vec3

	// Vertical field of view in radians and clip planes.
	FOV  float32
	MinZ float32
	MaxZ float32

	detachFn func()
}

func newArcRotateCamera(name string, alpha, beta, radius float32, target mgl32.Vec3) *Camera {
	return &Camera{
		Name:   name,
		alpha:  alpha,
		beta:   clampBeta(beta),
		radius: radius,
		target: target,
		FOV:    0.8,
		MinZ:   1,
		MaxZ:   10000,
	}
}

// Get the current orbit angles and radius.
func (c *Camera) Orbit() (alpha, beta, radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alpha, c.beta, c.radius
}

// Get the camera eye position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *Camera) position() mgl32.Vec3 {
	sinA, cosA := math.Sincos(float64(c.alpha))
	sinB, cosB := math.Sincos(float64(c.beta))
	return c.target.Add(mgl32.Vec3{
		c.radius * float32(cosA*sinB),
		c.radius * float32(cosB),
		c.radius * float32(sinA*sinB),
	})
}

// Get the view matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.LookAtV(c.position(), c.target, mgl32.Vec3{0, 1, 0})
}

// Get the projection matrix for the given aspect ratio.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, aspect, c.MinZ, c.MaxZ)
}

// Rotate the camera around its target.
func (c *Camera) Rotate(deltaAlpha, deltaBeta float32) {
	c.mu.Lock()
	c.alpha += deltaAlpha
	c.beta = clampBeta(c.beta + deltaBeta)
	c.mu.Unlock()
}

// Let pointer drags on src orbit the camera. Any previous control is detached.
func (c *Camera) AttachControl(src DragSource) {
	c.DetachControl()

	remove := src.OnDrag(func(dx, dy float32) {
		c.Rotate(-dx*mouseSensitivityX, -dy*mouseSensitivityY)
	})

	c.mu.Lock()
	c.detachFn = remove
	c.mu.Unlock()
}

// Stop reacting to pointer drags.
func (c *Camera) DetachControl() {
	c.mu.Lock()
	detachFn := c.detachFn
	c.detachFn = nil
	c.mu.Unlock()

	if detachFn != nil {
		detachFn()
	}
}

func (c *Camera) String() string {
	alpha, beta, radius := c.Orbit()
	return fmt.Sprintf("camera %q (alpha: %3.3f, beta: %3.3f, radius: %3.1f)", c.Name, alpha, beta, radius)
}

func clampBeta(beta float32) float32 {
	if beta < betaEpsilon {
		return betaEpsilon
	}
	if beta > math.Pi-betaEpsilon {
		return math.Pi - betaEpsilon
	}
	return beta
}
