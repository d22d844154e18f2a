package mesh

import "github.com/Faultbox/meshload/pkg/math"

// Builder accumulates vertices and triangles during a parse pass.
// It satisfies formats.GeometrySink.
type Builder struct {
	scale   float32
	verts   []float32
	tris    []int32
	dropped int
}

// NewBuilder returns a Builder that multiplies every vertex by scale.
// A scale of 0 is treated as 1.
func NewBuilder(scale float32) *Builder {
	if scale == 0 {
		scale = 1
	}
	return &Builder{scale: scale}
}

// AddVertex appends a vertex position.
func (b *Builder) AddVertex(x, y, z float32) {
	v := math.Vec3{X: x, Y: y, Z: z}.Scale(b.scale)
	b.verts = append(b.verts, v.X, v.Y, v.Z)
}

// AddTriangle appends a triangle without validating its indices.
func (b *Builder) AddTriangle(v0, v1, v2 int32) {
	b.tris = append(b.tris, v0, v1, v2)
}

// AddFace fan-triangulates a polygon around its first vertex, emitting
// (face[0], face[i-1], face[i]) for i in [2, len(face)). A triangle that
// references an index outside [0, VertexCount()) is dropped on its own; the
// rest of the fan is still added. It returns the number of triangles added.
func (b *Builder) AddFace(face []int) int {
	added := 0
	for i := 2; i < len(face); i++ {
		v0, v1, v2 := face[0], face[i-1], face[i]
		if !b.validIndex(v0) || !b.validIndex(v1) || !b.validIndex(v2) {
			b.dropped++
			continue
		}
		b.AddTriangle(int32(v0), int32(v1), int32(v2))
		added++
	}
	return added
}

func (b *Builder) validIndex(i int) bool {
	return i >= 0 && i < b.VertexCount()
}

// VertexCount returns the number of vertices added so far.
func (b *Builder) VertexCount() int {
	return len(b.verts) / 3
}

// TriangleCount returns the number of triangles added so far.
func (b *Builder) TriangleCount() int {
	return len(b.tris) / 3
}

// Dropped returns the number of fan triangles rejected for out-of-range indices.
func (b *Builder) Dropped() int {
	return b.dropped
}

// Build computes the face normals and returns the finished mesh.
// The Builder must not be used afterwards.
func (b *Builder) Build(filename string) *Mesh {
	m := &Mesh{
		verts:    b.verts,
		tris:     b.tris,
		normals:  ComputeNormals(b.verts, b.tris),
		filename: filename,
	}
	b.verts, b.tris = nil, nil
	return m
}
