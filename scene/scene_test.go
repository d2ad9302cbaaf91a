package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSetParentKeepsAbsolutePosition(t *testing.T) {
	sc := New()
	parent := sc.CreateSphere("parent", SphereOptions{Diameter: 2, Segments: 4})
	parent.Position = mgl32.Vec3{5, -3, 2}
	child := sc.CreateSphere("child", SphereOptions{Diameter: 2, Segments: 4})
	child.Position = mgl32.Vec3{1, 1, 1}

	child.SetParent(parent)

	if child.Parent() != parent || len(parent.Children()) != 1 {
		t.Fatal("expected child to be attached to parent")
	}
	if !near(child.AbsolutePosition(), mgl32.Vec3{1, 1, 1}, 1e-4) {
		t.Fatalf("expected absolute position to be preserved; got %v", child.AbsolutePosition())
	}
	if !near(child.Position, mgl32.Vec3{-4, 4, -1}, 1e-4) {
		t.Fatalf("expected local position to be relative to parent; got %v", child.Position)
	}

	child.SetParent(nil)
	if child.Parent() != nil || len(parent.Children()) != 0 {
		t.Fatal("expected child to be detached")
	}
	if !near(child.Position, mgl32.Vec3{1, 1, 1}, 1e-4) {
		t.Fatalf("expected detached mesh to keep its absolute position; got %v", child.Position)
	}
}

func TestSetParentRejectsCycles(t *testing.T) {
	sc := New()
	a := sc.CreateSphere("a", SphereOptions{Diameter: 1, Segments: 2})
	b := sc.CreateSphere("b", SphereOptions{Diameter: 1, Segments: 2})
	b.SetParent(a)
	a.SetParent(b)

	if a.Parent() != nil {
		t.Fatal("expected cyclic parent assignment to be ignored")
	}
}

func TestWorldMatrixPropagatesParentRotation(t *testing.T) {
	sc := New()
	parent := sc.CreateSphere("parent", SphereOptions{Diameter: 2, Segments: 4})
	child := sc.CreateSphere("child", SphereOptions{Diameter: 2, Segments: 4})
	child.Position = mgl32.Vec3{1, 0, 0}
	child.SetParent(parent)

	parent.Rotation[1] = math.Pi / 2
	world := child.ComputeWorldMatrix(sc.NextRenderID())
	pos := world.Col(3).Vec3()

	// A quarter turn about +Y maps +X to -Z
	if !near(pos, mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Fatalf("expected child to orbit its parent; got %v", pos)
	}

	// Cached for the same render id
	parent.Rotation[1] = 0
	cached := child.ComputeWorldMatrix(sc.renderID)
	if !near(cached.Col(3).Vec3(), pos, 1e-6) {
		t.Fatal("expected world matrix to be cached per render id")
	}
}

func TestSphereGeometryIsShared(t *testing.T) {
	sc := New()
	a := sc.CreateSphere("sphere", SphereOptions{Diameter: 2, Segments: 32})
	b := sc.CreateSphere("sphere", SphereOptions{Diameter: 2, Segments: 32})
	c := sc.CreateSphere("sphere", SphereOptions{Diameter: 2, Segments: 8})

	if a.Geometry != b.Geometry {
		t.Fatal("expected identical spheres to share geometry")
	}
	if a.Geometry == c.Geometry {
		t.Fatal("expected different tessellations to use different geometry")
	}

	// 34 rings x 68 slices
	expVerts := 35 * 69
	if a.Geometry.Vertices() != expVerts {
		t.Fatalf("expected %d vertices; got %d", expVerts, a.Geometry.Vertices())
	}
	if len(a.Geometry.Indices) != 34*68*6 {
		t.Fatalf("expected %d indices; got %d", 34*68*6, len(a.Geometry.Indices))
	}
	if a.Geometry.BoundingRadius != 1 {
		t.Fatalf("expected bounding radius 1; got %f", a.Geometry.BoundingRadius)
	}
	if a.ID != 0 || b.ID != 1 || c.ID != 2 {
		t.Fatal("expected mesh ids to follow creation order")
	}
}

func TestStats(t *testing.T) {
	sc := New()
	sc.NewArcRotateCamera("camera1", 0, 1, 10, mgl32.Vec3{})
	sc.NewPBRMaterial("mat 0")
	var prev *Mesh
	for i := 0; i < 6; i++ {
		mesh := sc.CreateSphere("sphere", SphereOptions{Diameter: 2, Segments: 2})
		if i%3 != 0 {
			mesh.SetParent(prev)
		}
		prev = mesh
	}

	stats := sc.Stats()
	if stats.Cameras != 1 || stats.Materials != 1 || stats.Meshes != 6 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.RootMeshes != 2 || stats.MaxDepth != 2 {
		t.Fatalf("expected 2 roots with max depth 2; got %+v", stats)
	}
	if stats.String() == "" {
		t.Fatal("expected stats text")
	}
}

func TestEnvironmentSizesToContent(t *testing.T) {
	sc := New()
	a := sc.CreateSphere("a", SphereOptions{Diameter: 2, Segments: 2})
	a.Position = mgl32.Vec3{-10, -5, 0}
	b := sc.CreateSphere("b", SphereOptions{Diameter: 2, Segments: 2})
	b.Position = mgl32.Vec3{10, 5, 4}

	env := sc.CreateDefaultEnvironment(EnvironmentOptions{MirrorRatio: 0.25})
	if env.Skybox == nil || env.Ground == nil || env.Reflection == nil {
		t.Fatal("expected default textures")
	}
	if math.Abs(float64(env.GroundY+6.01)) > 1e-4 {
		t.Fatalf("expected ground just below the lowest mesh; got %f", env.GroundY)
	}
	if math.Abs(float64(env.GroundSize-33)) > 1e-4 {
		t.Fatalf("expected ground size 33; got %f", env.GroundSize)
	}
	if len(sc.RenderTargets) != 1 || sc.RenderTargets[0] != env.Mirror {
		t.Fatal("expected the ground mirror to be registered as a render target")
	}

	sc.CreateDefaultEnvironment(EnvironmentOptions{})
	if len(sc.RenderTargets) != 0 {
		t.Fatal("expected replaced environment to drop its mirror")
	}
}

func TestDispose(t *testing.T) {
	sc := New()
	src := &mockDragSource{}
	camera := sc.NewArcRotateCamera("camera1", 0, 1, 10, mgl32.Vec3{})
	camera.AttachControl(src)
	sc.NewPBRMaterial("mat 0")
	sc.CreateSphere("sphere", SphereOptions{Diameter: 2, Segments: 2})
	sc.CreateDefaultEnvironment(EnvironmentOptions{MirrorRatio: 0.5})
	sc.RegisterBeforeRender(func() {})

	disposeCount := 0
	sc.OnDispose.Add(func() { disposeCount++ })

	sc.Dispose()
	sc.Dispose()

	if !sc.Disposed() {
		t.Fatal("expected scene to be marked as disposed")
	}
	if disposeCount != 1 {
		t.Fatalf("expected OnDispose to fire once; got %d", disposeCount)
	}
	if len(sc.Meshes) != 0 || len(sc.Materials) != 0 || sc.Environment != nil || len(sc.RenderTargets) != 0 {
		t.Fatal("expected scene content to be released")
	}
	if sc.OnBeforeRender.Len() != 0 {
		t.Fatal("expected frame hooks to be removed")
	}
	if src.listeners != 0 {
		t.Fatal("expected camera control to be detached")
	}
}

func TestCameraDragControl(t *testing.T) {
	sc := New()
	src := &mockDragSource{}
	camera := sc.NewArcRotateCamera("camera1", math.Pi/2, math.Pi/2, 80, mgl32.Vec3{})

	if !near(camera.Position(), mgl32.Vec3{0, 0, 80}, 1e-3) {
		t.Fatalf("expected camera on the +Z axis; got %v", camera.Position())
	}

	camera.AttachControl(src)
	src.drag(100, 0)
	alpha, beta, _ := camera.Orbit()
	if math.Abs(float64(alpha-(math.Pi/2-0.5))) > 1e-5 || math.Abs(float64(beta-math.Pi/2)) > 1e-5 {
		t.Fatalf("expected horizontal drag to change alpha only; got alpha %f beta %f", alpha, beta)
	}

	// Beta is clamped away from the poles
	src.drag(0, 10000)
	_, beta, _ = camera.Orbit()
	if beta != betaEpsilon {
		t.Fatalf("expected beta to be clamped to %f; got %f", betaEpsilon, beta)
	}

	camera.DetachControl()
	src.drag(100, 0)
	if a, _, _ := camera.Orbit(); a != alpha {
		t.Fatal("expected detached camera to ignore drags")
	}
}

func TestObservable(t *testing.T) {
	var o Observable
	var calls []int
	first := o.Add(func() { calls = append(calls, 1) })
	o.Add(func() { calls = append(calls, 2) })

	o.Notify()
	o.Remove(first)
	o.Remove(first)
	o.Remove(nil)
	o.Notify()

	exp := []int{1, 2, 2}
	if len(calls) != len(exp) {
		t.Fatalf("expected calls %v; got %v", exp, calls)
	}
	for i := range exp {
		if calls[i] != exp[i] {
			t.Fatalf("expected calls %v; got %v", exp, calls)
		}
	}
}

// Compare vectors with an absolute tolerance; mgl32's threshold helpers
// scale the tolerance down for components near zero.
func near(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() < eps
}

type mockDragSource struct {
	listeners int
	fn        func(dx, dy float32)
}

func (m *mockDragSource) OnDrag(fn func(dx, dy float32)) func() {
	m.listeners++
	m.fn = fn
	return func() {
		m.listeners--
		m.fn = nil
	}
}

func (m *mockDragSource) drag(dx, dy float32) {
	if m.fn != nil {
		m.fn(dx, dy)
	}
}
