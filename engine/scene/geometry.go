package scene

import (
	"unsafe"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Vertex is the layout shared by every scene mesh. It matches VertexInput in the scene shaders.
// Size: 32 bytes.
type Vertex struct {
	Position common.Vec3 // location 0
	// Seed is the per-element random value in [0, 1). Every vertex of one element carries the same seed.
	Seed  float32     // location 1
	Color common.Vec3 // location 2
	// Along runs from 0 at a streak's head to 1 at its tail. On the road it flags scrolling markings.
	Along float32 // location 3
}

// VertexSize is the stride of Vertex in bytes.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Mesh is CPU-side geometry ready for upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Topology wgpu.PrimitiveTopology
}

// VertexBytes returns the vertex data as bytes for upload.
func (m *Mesh) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index data as bytes for upload.
func (m *Mesh) IndexBytes() []byte {
	return common.SliceToBytes(m.Indices)
}

// Segments returns the number of drawn primitives: lines for a line list, triangles otherwise.
func (m *Mesh) Segments() int {
	if m.Topology == wgpu.PrimitiveTopologyLineList {
		return len(m.Indices) / 2
	}
	return len(m.Indices) / 3
}

// addLine appends one segment from a to b.
func (m *Mesh) addLine(a, b Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, a, b)
	m.Indices = append(m.Indices, base, base+1)
}

// addQuad appends a flat quad on the y=height plane spanning [x0, x1] by [z0, z1].
func (m *Mesh) addQuad(x0, x1, z0, z1, height float32, color common.Vec3, along float32) {
	base := uint32(len(m.Vertices))
	v := func(x, z float32) Vertex {
		return Vertex{Position: common.Vec3{x, height, z}, Color: color, Along: along}
	}
	m.Vertices = append(m.Vertices, v(x0, z0), v(x1, z0), v(x1, z1), v(x0, z1))
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
}
