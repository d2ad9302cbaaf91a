package renderer

import (
	"image"

	"github.com/achilleasa/polaris-bench/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Fraction of the lit color kept by reflected meshes.
	mirrorAttenuation float32 = 0.6

	// Maximum contribution of the mirror target to the ground color.
	mirrorLevel float32 = 0.4

	// Minimum splat radius in pixels; smaller spheres would fall between
	// pixel centers.
	minSplatRadius float32 = 0.5
)

var infDepth = math32.Inf(1)

// A mesh that survived culling along with its screen space footprint.
type activeMesh struct {
	mesh   *scene.Mesh
	center mgl32.Vec3
	radius float32
	splat  splat
}

// A sphere projected to screen space.
type splat struct {
	// Center and radius in pixels.
	x, y, r float32

	// View space depth of the center and world space radius.
	depth, radius float32

	// Unlit and lit color terms.
	base, lit mgl32.Vec3
}

// The per-pass view parameters.
type viewPass struct {
	viewProj mgl32.Mat4
	projY    float32
	minZ     float32
	maxZ     float32

	width, height int

	eye                mgl32.Vec3
	right, up, forward mgl32.Vec3
	tanHalfX, tanHalfY float32
}

func newViewPass(camera *scene.Camera, view, proj mgl32.Mat4, width, height int) viewPass {
	tanHalfY := math32.Tan(camera.FOV / 2)
	return viewPass{
		viewProj: proj.Mul4(view),
		projY:    proj[5],
		minZ:     camera.MinZ,
		maxZ:     camera.MaxZ,
		width:    width,
		height:   height,
		eye:      camera.Position(),
		right:    view.Row(0).Vec3(),
		up:       view.Row(1).Vec3(),
		forward:  view.Row(2).Vec3().Mul(-1),
		tanHalfX: tanHalfY * float32(width) / float32(height),
		tanHalfY: tanHalfY,
	}
}

// Project a bounding sphere to screen space. Returns false if the sphere lies
// outside the view frustum.
func (p viewPass) project(center mgl32.Vec3, radius float32) (splat, bool) {
	clip := p.viewProj.Mul4x1(center.Vec4(1))
	w := clip.W()
	if w <= p.minZ || w-radius > p.maxZ {
		return splat{}, false
	}

	fw, fh := float32(p.width), float32(p.height)
	sp := splat{
		x:      (clip.X()/w*0.5 + 0.5) * fw,
		y:      (0.5 - clip.Y()/w*0.5) * fh,
		r:      radius * p.projY / w * 0.5 * fh,
		depth:  w,
		radius: radius,
	}
	if sp.r < minSplatRadius {
		sp.r = minSplatRadius
	}
	if sp.x+sp.r < 0 || sp.x-sp.r > fw || sp.y+sp.r < 0 || sp.y-sp.r > fh {
		return splat{}, false
	}
	return sp, true
}

// Get the emissive and ambient-lit color terms for a material.
func shade(mat *scene.Material, ambient mgl32.Vec3) (base, lit mgl32.Vec3) {
	if mat == nil {
		return mgl32.Vec3{}, ambient.Mul(0.8)
	}
	diffuse := 1 - 0.5*mat.Metallic
	lit = mgl32.Vec3{
		mat.Albedo[0] * ambient[0] * diffuse,
		mat.Albedo[1] * ambient[1] * diffuse,
		mat.Albedo[2] * ambient[2] * diffuse,
	}
	return mat.Emissive, lit
}

// Rasterize a shaded sphere impostor with depth testing.
func drawSplat(frame *image.RGBA, depth []float32, sp splat) {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	minX := clampInt(int(math32.Floor(sp.x-sp.r)), 0, w)
	maxX := clampInt(int(math32.Ceil(sp.x+sp.r)), 0, w)
	minY := clampInt(int(math32.Floor(sp.y-sp.r)), 0, h)
	maxY := clampInt(int(math32.Ceil(sp.y+sp.r)), 0, h)

	invR := 1 / sp.r
	for y := minY; y < maxY; y++ {
		dy := (float32(y) + 0.5 - sp.y) * invR
		for x := minX; x < maxX; x++ {
			dx := (float32(x) + 0.5 - sp.x) * invR
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}

			nz := math32.Sqrt(1 - d2)
			z := sp.depth - nz*sp.radius
			index := y*w + x
			if z >= depth[index] {
				continue
			}
			depth[index] = z

			light := 0.35 + 0.65*nz
			setPixel(frame, x, y, mgl32.Vec3{
				sp.base[0] + sp.lit[0]*light,
				sp.base[1] + sp.lit[1]*light,
				sp.base[2] + sp.lit[2]*light,
			}, 255)
		}
	}
}

// Fill the frame with the skybox and ground plane by casting a ray per
// pixel. Resets the depth buffer.
// Fill rows [y0, y1) with the environment backdrop and reset their depth.
// Calls for disjoint row ranges may run concurrently.
func drawBackgroundRows(frame *image.RGBA, depth []float32, sc *scene.Scene, pass viewPass, y0, y1 int) {
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	env := sc.Environment

	if env == nil {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				setPixel(frame, x, y, sc.ClearColor, 255)
				depth[y*w+x] = infDepth
			}
		}
		return
	}

	halfSize := env.GroundSize / 2
	var mirror *image.RGBA
	var mirrorRatio float32
	if env.Mirror != nil && env.Mirror.Frame != nil {
		mirror, mirrorRatio = env.Mirror.Frame, env.Mirror.Ratio
	}

	for y := y0; y < y1; y++ {
		ndcY := 1 - 2*(float32(y)+0.5)/float32(h)
		for x := 0; x < w; x++ {
			ndcX := 2*(float32(x)+0.5)/float32(w) - 1
			index := y*w + x
			depth[index] = infDepth

			// The ray direction has a unit projection on the forward axis so
			// the ray parameter at a hit equals the view depth.
			dir := pass.forward.
				Add(pass.right.Mul(ndcX * pass.tanHalfX)).
				Add(pass.up.Mul(ndcY * pass.tanHalfY))

			color := skyColor(env, dir)

			if dir[1] != 0 {
				t := (env.GroundY - pass.eye[1]) / dir[1]
				if t > pass.minZ {
					hit := pass.eye.Add(dir.Mul(t))
					if math32.Abs(hit[0]) <= halfSize && math32.Abs(hit[2]) <= halfSize {
						texel := env.Ground.Sample(hit[0]/env.GroundSize+0.5, hit[2]/env.GroundSize+0.5)
						alpha := texel[3]
						color = lerp(color, mgl32.Vec3{texel[0], texel[1], texel[2]}, alpha)

						if mirror != nil {
							if reflected, coverage := sampleMirror(mirror, mirrorRatio, x, y); coverage > 0 {
								color = lerp(color, reflected, mirrorLevel*alpha*coverage)
							}
						}
						depth[index] = t
					}
				}
			}

			setPixel(frame, x, y, color, 255)
		}
	}
}

func skyColor(env *scene.Environment, dir mgl32.Vec3) mgl32.Vec3 {
	l := dir.Len()
	u := math32.Atan2(dir[2], dir[0])/(2*math32.Pi) + 0.5
	v := math32.Acos(dir[1]/l) / math32.Pi
	texel := env.Skybox.Sample(u, v)
	return mgl32.Vec3{texel[0], texel[1], texel[2]}
}

func sampleMirror(mirror *image.RGBA, ratio float32, x, y int) (mgl32.Vec3, float32) {
	mx := clampInt(int(float32(x)*ratio), 0, mirror.Rect.Dx()-1)
	my := clampInt(int(float32(y)*ratio), 0, mirror.Rect.Dy()-1)
	off := mirror.PixOffset(mx, my)
	px := mirror.Pix[off : off+4 : off+4]
	if px[3] == 0 {
		return mgl32.Vec3{}, 0
	}
	return mgl32.Vec3{
		float32(px[0]) / 255,
		float32(px[1]) / 255,
		float32(px[2]) / 255,
	}, float32(px[3]) / 255
}

// Reset a render target to transparent black and an empty depth buffer.
func clearTarget(frame *image.RGBA, depth []float32) {
	for index := range frame.Pix {
		frame.Pix[index] = 0
	}
	for index := range depth {
		depth[index] = infDepth
	}
}

func setPixel(frame *image.RGBA, x, y int, c mgl32.Vec3, alpha uint8) {
	off := frame.PixOffset(x, y)
	px := frame.Pix[off : off+4 : off+4]
	px[0] = toByte(c[0])
	px[1] = toByte(c[1])
	px[2] = toByte(c[2])
	px[3] = alpha
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
