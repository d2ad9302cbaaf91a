package scene

import "math"

// Vertex data for a mesh. Positions and normals are packed xyz triples.
type Geometry struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32

	// Radius of the bounding sphere around the local origin.
	BoundingRadius float32
}

// Vertex count.
func (g *Geometry) Vertices() int {
	return len(g.Positions) / 3
}

type sphereKey struct {
	diameter float32
	segments int
}

// Tessellate a UV sphere. The number of rings is segments+2 and the number of
// slices is twice that.
func newSphereGeometry(diameter float32, segments int) *Geometry {
	if segments < 1 {
		segments = 1
	}
	radius := diameter / 2
	rings := segments + 2
	slices := 2 * rings

	geom := &Geometry{
		Positions:      make([]float32, 0, (rings+1)*(slices+1)*3),
		Normals:        make([]float32, 0, (rings+1)*(slices+1)*3),
		Indices:        make([]uint32, 0, rings*slices*6),
		BoundingRadius: radius,
	}

	for ring := 0; ring <= rings; ring++ {
		theta := math.Pi * float64(ring) / float64(rings)
		sinT, cosT := math.Sincos(theta)
		for slice := 0; slice <= slices; slice++ {
			phi := 2 * math.Pi * float64(slice) / float64(slices)
			sinP, cosP := math.Sincos(phi)

			nx, ny, nz := float32(cosP*sinT), float32(cosT), float32(sinP*sinT)
			geom.Normals = append(geom.Normals, nx, ny, nz)
			geom.Positions = append(geom.Positions, nx*radius, ny*radius, nz*radius)
		}
	}

	stride := uint32(slices + 1)
	for ring := uint32(0); ring < uint32(rings); ring++ {
		for slice := uint32(0); slice < uint32(slices); slice++ {
			a := ring*stride + slice
			b := a + stride
			geom.Indices = append(geom.Indices, a, b, a+1, b, b+1, a+1)
		}
	}

	return geom
}
