package scene

import "github.com/go-gl/mathgl/mgl32"

// A renderable object. Its world transform is the parent's world transform
// followed by the local translation, rotation (yaw/pitch/roll) and scaling.
type Mesh struct {
	Name string

	// Unique id within the owning scene; assigned in creation order.
	ID int

	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scaling  mgl32.Vec3

	Material *Material
	Geometry *Geometry

	// Invisible meshes are skipped during active mesh evaluation.
	Visible bool

	parent   *Mesh
	children []*Mesh

	world         mgl32.Mat4
	worldRenderID uint64
}

func newMesh(name string, id int, geom *Geometry) *Mesh {
	return &Mesh{
		Name:     name,
		ID:       id,
		Scaling:  mgl32.Vec3{1, 1, 1},
		Geometry: geom,
		Visible:  true,
	}
}

// Get the parent mesh or nil if this is a root mesh.
func (m *Mesh) Parent() *Mesh {
	return m.parent
}

// Get the direct children of this mesh.
func (m *Mesh) Children() []*Mesh {
	return m.children
}

// Depth of this mesh in the hierarchy; root meshes have depth 0.
func (m *Mesh) Depth() int {
	depth := 0
	for p := m.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Re-parent the mesh while keeping its absolute position. Passing nil
// detaches the mesh from its current parent. Rotation and scaling stay
// relative to the new parent. Requests that would introduce a cycle are
// ignored.
func (m *Mesh) SetParent(parent *Mesh) {
	if parent == m.parent {
		return
	}
	for p := parent; p != nil; p = p.parent {
		if p == m {
			return
		}
	}

	absPos := m.localToWorld().Col(3).Vec3()

	if m.parent != nil {
		m.parent.removeChild(m)
	}
	m.parent = parent

	if parent == nil {
		m.Position = absPos
	} else {
		parent.children = append(parent.children, m)
		m.Position = parent.localToWorld().Inv().Mul4x1(absPos.Vec4(1)).Vec3()
	}
	m.worldRenderID = 0
}

// Get the world position computed without using cached matrices.
func (m *Mesh) AbsolutePosition() mgl32.Vec3 {
	return m.localToWorld().Col(3).Vec3()
}

// Compute the world matrix for the given render pass. The result is cached
// per render id so each mesh in a hierarchy is evaluated once per frame.
func (m *Mesh) ComputeWorldMatrix(renderID uint64) mgl32.Mat4 {
	if renderID != 0 && m.worldRenderID == renderID {
		return m.world
	}

	local := m.localMatrix()
	if m.parent != nil {
		local = m.parent.ComputeWorldMatrix(renderID).Mul4(local)
	}

	m.world = local
	m.worldRenderID = renderID
	return local
}

func (m *Mesh) localMatrix() mgl32.Mat4 {
	rot := mgl32.AnglesToQuat(m.Rotation.Y(), m.Rotation.X(), m.Rotation.Z(), mgl32.YXZ).Mat4()
	return mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(m.Scaling.X(), m.Scaling.Y(), m.Scaling.Z()))
}

func (m *Mesh) localToWorld() mgl32.Mat4 {
	mat := m.localMatrix()
	for p := m.parent; p != nil; p = p.parent {
		mat = p.localMatrix().Mul4(mat)
	}
	return mat
}

func (m *Mesh) removeChild(child *Mesh) {
	for index, c := range m.children {
		if c == child {
			m.children = append(m.children[:index], m.children[index+1:]...)
			return
		}
	}
}

func (m *Mesh) dispose() {
	m.parent = nil
	m.children = nil
	m.Material = nil
	m.Geometry = nil
}
