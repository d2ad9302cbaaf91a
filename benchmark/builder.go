package benchmark

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/achilleasa/polaris-bench/scene"
	"github.com/achilleasa/polaris-bench/surface"
	"github.com/go-gl/mathgl/mgl32"
)

// Workload shape.
const (
	NumMaterials = 50
	NumMeshes    = 2500

	// Meshes are grouped in parent/child chains of this length.
	ChainLength = 5

	// Meshes are scattered in [-spread, spread] along each axis.
	spread float32 = 20

	sphereDiameter float32 = 2
	sphereSegments         = 32

	cameraRadius float32 = 80

	// Rotation (in radians) applied to every mesh per frame.
	rotationStep float32 = 0.01
)

// SceneEngine creates the scenes populated by the builder.
type SceneEngine interface {
	NewScene() *scene.Scene
}

// Populate a new scene with the benchmark workload. Camera controls are
// bound to surf if it is not nil.
func BuildScene(eng SceneEngine, surf surface.Surface, env scene.EnvironmentOptions) *scene.Scene {
	return BuildSceneWithRand(eng, surf, env, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// Populate a new scene drawing material colors and mesh positions from rng.
func BuildSceneWithRand(eng SceneEngine, surf surface.Surface, env scene.EnvironmentOptions, rng *rand.Rand) *scene.Scene {
	sc := eng.NewScene()

	camera := sc.NewArcRotateCamera("camera1", math.Pi/2, math.Pi/2, cameraRadius, mgl32.Vec3{})
	if surf != nil {
		camera.AttachControl(surf)
	}

	materials := make([]*scene.Material, NumMaterials)
	for i := range materials {
		mat := sc.NewPBRMaterial(fmt.Sprintf("mat %d", i))
		mat.Emissive = mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		materials[i] = mat
	}

	opts := scene.SphereOptions{Diameter: sphereDiameter, Segments: sphereSegments}
	meshes := make([]*scene.Mesh, NumMeshes)
	for i := range meshes {
		mesh := sc.CreateSphere("sphere", opts)
		mesh.Position = mgl32.Vec3{
			spread - rng.Float32()*2*spread,
			spread - rng.Float32()*2*spread,
			spread - rng.Float32()*2*spread,
		}
		mesh.Material = materials[i%NumMaterials]
		meshes[i] = mesh
	}

	// Chain heads stay unparented
	for i, mesh := range meshes {
		if i%ChainLength != 0 {
			mesh.SetParent(meshes[i-1])
		}
	}

	sc.CreateDefaultEnvironment(env)

	sc.RegisterBeforeRender(func() {
		for _, mesh := range meshes {
			mesh.Rotation[1] += rotationStep
		}
	})

	return sc
}
