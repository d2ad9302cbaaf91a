package scene

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Options for CreateSphere.
type SphereOptions struct {
	Diameter float32
	Segments int
}

// A Scene owns a camera, materials, meshes and an optional environment, plus
// the observables fired by the engine while rendering it. Scene content must
// only be mutated from the goroutine driving the render loop or while the
// loop is stopped.
type Scene struct {
	ActiveCamera *Camera
	Cameras      []*Camera

	Materials []*Material
	Meshes    []*Mesh

	Environment   *Environment
	RenderTargets []*RenderTarget

	ClearColor mgl32.Vec3

	// Render pipeline hooks, in firing order.
	OnBeginFrame                   Observable
	OnBeforeRender                 Observable
	OnBeforeActiveMeshesEvaluation Observable
	OnAfterActiveMeshesEvaluation  Observable
	OnBeforeRenderTargets          Observable
	OnAfterRenderTargets           Observable
	OnBeforeCameraRender           Observable
	OnAfterCameraRender            Observable
	OnAfterRender                  Observable
	OnEndFrame                     Observable

	// Fired once when the scene is disposed.
	OnDispose Observable

	renderID   uint64
	geometries map[sphereKey]*Geometry
	disposed   atomic.Bool
}

func New() *Scene {
	return &Scene{
		Cameras:    make([]*Camera, 0),
		Materials:  make([]*Material, 0),
		Meshes:     make([]*Mesh, 0),
		ClearColor: mgl32.Vec3{0.2, 0.2, 0.3},
		geometries: make(map[sphereKey]*Geometry),
	}
}

// Create an orbit camera. The first camera created becomes the active camera.
func (s *Scene) NewArcRotateCamera(name string, alpha, beta, radius float32, target mgl32.Vec3) *Camera {
	camera := newArcRotateCamera(name, alpha, beta, radius, target)
	s.Cameras = append(s.Cameras, camera)
	if s.ActiveCamera == nil {
		s.ActiveCamera = camera
	}
	return camera
}

// Create a PBR material.
func (s *Scene) NewPBRMaterial(name string) *Material {
	mat := newPBRMaterial(name)
	s.Materials = append(s.Materials, mat)
	return mat
}

// Create a sphere mesh. Spheres with the same diameter and tessellation share
// their vertex data.
func (s *Scene) CreateSphere(name string, opts SphereOptions) *Mesh {
	key := sphereKey{diameter: opts.Diameter, segments: opts.Segments}
	geom, ok := s.geometries[key]
	if !ok {
		geom = newSphereGeometry(opts.Diameter, opts.Segments)
		s.geometries[key] = geom
	}

	mesh := newMesh(name, len(s.Meshes), geom)
	s.Meshes = append(s.Meshes, mesh)
	return mesh
}

// Create the default environment around the current scene content. Calling
// it again replaces the previous environment.
func (s *Scene) CreateDefaultEnvironment(opts EnvironmentOptions) *Environment {
	if s.Environment != nil && s.Environment.Mirror != nil {
		s.removeRenderTarget(s.Environment.Mirror)
	}

	s.Environment = newEnvironment(s, opts)
	if s.Environment.Mirror != nil {
		s.RenderTargets = append(s.RenderTargets, s.Environment.Mirror)
	}
	return s.Environment
}

// Register a callback that runs before every frame.
func (s *Scene) RegisterBeforeRender(fn func()) *Observer {
	return s.OnBeforeRender.Add(fn)
}

// Advance and return the render id used for caching world matrices.
func (s *Scene) NextRenderID() uint64 {
	s.renderID++
	return s.renderID
}

// Returns true once Dispose has been called.
func (s *Scene) Disposed() bool {
	return s.disposed.Load()
}

// Release all scene content and hooks. Safe to call more than once.
func (s *Scene) Dispose() {
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}

	s.OnDispose.Notify()

	for _, camera := range s.Cameras {
		camera.DetachControl()
	}
	for _, mesh := range s.Meshes {
		mesh.dispose()
	}

	s.ActiveCamera = nil
	s.Cameras = nil
	s.Meshes = nil
	s.Materials = nil
	s.Environment = nil
	s.RenderTargets = nil
	s.geometries = nil

	for _, o := range s.observables() {
		o.Clear()
	}
}

// Structural statistics about the scene.
type Stats struct {
	Cameras   int
	Materials int
	Meshes    int

	// Meshes without a parent and the deepest hierarchy level.
	RootMeshes int
	MaxDepth   int

	Vertices int
	Indices  int
}

// Collect structural statistics.
func (s *Scene) Stats() Stats {
	stats := Stats{
		Cameras:   len(s.Cameras),
		Materials: len(s.Materials),
		Meshes:    len(s.Meshes),
	}

	for _, mesh := range s.Meshes {
		depth := mesh.Depth()
		if depth == 0 {
			stats.RootMeshes++
		}
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		if mesh.Geometry != nil {
			stats.Vertices += mesh.Geometry.Vertices()
			stats.Indices += len(mesh.Geometry.Indices)
		}
	}

	return stats
}

func (st Stats) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Cameras:     %d\n", st.Cameras))
	buf.WriteString(fmt.Sprintf("Materials:   %d\n", st.Materials))
	buf.WriteString(fmt.Sprintf("Meshes:      %d (%d roots, max depth %d)\n", st.Meshes, st.RootMeshes, st.MaxDepth))
	buf.WriteString(fmt.Sprintf("Vertices:    %d\n", st.Vertices))
	buf.WriteString(fmt.Sprintf("Indices:     %d", st.Indices))
	return buf.String()
}

func (s *Scene) removeRenderTarget(rt *RenderTarget) {
	for index, target := range s.RenderTargets {
		if target == rt {
			s.RenderTargets = append(s.RenderTargets[:index], s.RenderTargets[index+1:]...)
			return
		}
	}
}

func (s *Scene) observables() []*Observable {
	return []*Observable{
		&s.OnBeginFrame,
		&s.OnBeforeRender,
		&s.OnBeforeActiveMeshesEvaluation,
		&s.OnAfterActiveMeshesEvaluation,
		&s.OnBeforeRenderTargets,
		&s.OnAfterRenderTargets,
		&s.OnBeforeCameraRender,
		&s.OnAfterCameraRender,
		&s.OnAfterRender,
		&s.OnEndFrame,
		&s.OnDispose,
	}
}
