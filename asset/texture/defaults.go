package texture

import (
	"image"
	"image/color"
	"math"

	"github.com/achilleasa/polaris-bench/asset"
)

// Locations of the three environment textures. Empty entries fall back to
// the built-in procedural textures.
type Paths struct {
	Skybox      string `yaml:"skybox"`
	Ground      string `yaml:"ground"`
	Environment string `yaml:"environment"`
}

// The textures backing the default environment.
type Set struct {
	Skybox      *Texture
	Ground      *Texture
	Environment *Texture
}

// Load the environment textures. Relative paths are resolved against relTo
// when it is not nil.
func LoadSet(paths Paths, relTo *asset.Resource) (Set, error) {
	var (
		set Set
		err error
	)

	if set.Skybox, err = loadOrDefault(paths.Skybox, relTo, DefaultSkybox); err != nil {
		return Set{}, err
	}
	if set.Ground, err = loadOrDefault(paths.Ground, relTo, DefaultGround); err != nil {
		return Set{}, err
	}
	if set.Environment, err = loadOrDefault(paths.Environment, relTo, DefaultEnvironment); err != nil {
		return Set{}, err
	}

	return set, nil
}

// The built-in texture set.
func DefaultSet() Set {
	return Set{
		Skybox:      DefaultSkybox(),
		Ground:      DefaultGround(),
		Environment: DefaultEnvironment(),
	}
}

func loadOrDefault(path string, relTo *asset.Resource, fallback func() *Texture) (*Texture, error) {
	if path == "" {
		return fallback(), nil
	}
	return Load(path, relTo)
}

// A horizon-to-zenith gradient.
func DefaultSkybox() *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 128))
	for y := 0; y < 128; y++ {
		t := float64(y) / 127
		c := color.NRGBA{
			R: uint8(40 + 150*t),
			G: uint8(70 + 140*t),
			B: uint8(140 + 100*t),
			A: 255,
		}
		for x := 0; x < 256; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	tex, _ := FromImage("backgroundSkybox", img)
	return tex
}

// A checkered disc that fades out towards its rim.
func DefaultGround() *Texture {
	const size = 128
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)/size-0.5, float64(y)/size-0.5
			fade := 1 - math.Min(1, math.Sqrt(dx*dx+dy*dy)*2)
			shade := 90.0
			if (x/16+y/16)%2 == 0 {
				shade = 120
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(shade),
				G: uint8(shade),
				B: uint8(shade + 10),
				A: uint8(255 * fade),
			})
		}
	}
	tex, _ := FromImage("backgroundGround", img)
	return tex
}

// A low resolution high-precision reflection map.
func DefaultEnvironment() *Texture {
	img := image.NewNRGBA64(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		t := float64(y) / 31
		c := color.NRGBA64{
			R: uint16(0xffff * (0.55 - 0.25*t)),
			G: uint16(0xffff * (0.6 - 0.25*t)),
			B: uint16(0xffff * (0.7 - 0.2*t)),
			A: 0xffff,
		}
		for x := 0; x < 64; x++ {
			img.SetNRGBA64(x, y, c)
		}
	}
	tex, _ := FromImage("environmentSpecular", img)
	return tex
}
