package scene

import "github.com/go-gl/mathgl/mgl32"

// A physically based material. Only the terms consumed by the rasterizer
// are modelled.
type Material struct {
	Name string

	// Base color.
	Albedo mgl32.Vec3

	// Emissive color; added on top of the lit albedo.
	Emissive mgl32.Vec3

	Metallic  float32
	Roughness float32
}

func newPBRMaterial(name string) *Material {
	return &Material{
		Name:      name,
		Albedo:    mgl32.Vec3{1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
}
