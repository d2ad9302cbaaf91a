package scene

import (
	"image"
	"math"

	"github.com/achilleasa/polaris-bench/asset/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Options for the default environment. Nil textures are replaced with the
// built-in procedural ones.
type EnvironmentOptions struct {
	SkyboxTexture      *texture.Texture
	GroundTexture      *texture.Texture
	EnvironmentTexture *texture.Texture

	// Ratio of the mirror render target size to the frame size. Zero disables
	// the ground mirror.
	MirrorRatio float32
}

// The default backdrop: a skybox, a textured ground plane below the scene
// content and an ambient reflection map. The ground mirror is rendered into
// its own render target every frame.
type Environment struct {
	Skybox     *texture.Texture
	Ground     *texture.Texture
	Reflection *texture.Texture

	// Average color of the reflection map; used as the ambient light term.
	Ambient mgl32.Vec3

	// Ground plane height and edge length.
	GroundY    float32
	GroundSize float32

	Mirror *RenderTarget
}

// An offscreen buffer rendered before the main camera pass.
type RenderTarget struct {
	Name string

	// Size relative to the frame buffer.
	Ratio float32

	// Meshes are reflected about the y = MirrorY plane.
	MirrorY float32

	// Allocated and resized by the engine.
	Frame *image.RGBA
	Depth []float32
}

// Calculate the world space bounds of all visible meshes. Returns false if
// the scene holds no visible meshes.
func (s *Scene) Extents() (min, max mgl32.Vec3, ok bool) {
	min = mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max = mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}

	for _, mesh := range s.Meshes {
		if !mesh.Visible || mesh.Geometry == nil {
			continue
		}
		pos := mesh.AbsolutePosition()
		r := mesh.Geometry.BoundingRadius
		for axis := 0; axis < 3; axis++ {
			if pos[axis]-r < min[axis] {
				min[axis] = pos[axis] - r
			}
			if pos[axis]+r > max[axis] {
				max[axis] = pos[axis] + r
			}
		}
		ok = true
	}

	return min, max, ok
}

func newEnvironment(s *Scene, opts EnvironmentOptions) *Environment {
	env := &Environment{
		Skybox:     opts.SkyboxTexture,
		Ground:     opts.GroundTexture,
		Reflection: opts.EnvironmentTexture,
		GroundSize: 15,
	}
	if env.Skybox == nil {
		env.Skybox = texture.DefaultSkybox()
	}
	if env.Ground == nil {
		env.Ground = texture.DefaultGround()
	}
	if env.Reflection == nil {
		env.Reflection = texture.DefaultEnvironment()
	}

	avg := env.Reflection.Average()
	env.Ambient = mgl32.Vec3{avg[0], avg[1], avg[2]}

	// Size the ground to the scene content and place it just below it
	if min, max, ok := s.Extents(); ok {
		extent := max.Sub(min)
		env.GroundY = min.Y() - 0.01
		env.GroundSize = 1.5 * float32(math.Max(float64(extent.X()), float64(extent.Z())))
	}

	if opts.MirrorRatio > 0 {
		env.Mirror = &RenderTarget{
			Name:    "groundMirror",
			Ratio:   opts.MirrorRatio,
			MirrorY: env.GroundY,
		}
	}

	return env
}
