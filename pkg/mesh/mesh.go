// Package mesh builds triangle meshes with per-face normals from OBJ sources
// and their binary caches.
package mesh

import (
	"github.com/Faultbox/meshload/pkg/math"
)

// Mesh is a loaded triangle mesh. All arrays are flat: three floats per
// vertex, three indices per triangle and one normal (three floats) per
// triangle. A Mesh is not modified after it is returned by a loader.
type Mesh struct {
	verts    []float32
	tris     []int32
	normals  []float32
	filename string
}

// VertCount returns the number of vertices.
func (m *Mesh) VertCount() int {
	return len(m.verts) / 3
}

// TriCount returns the number of triangles.
func (m *Mesh) TriCount() int {
	return len(m.tris) / 3
}

// Verts returns vertex positions as x,y,z triples.
func (m *Mesh) Verts() []float32 {
	return m.verts
}

// Tris returns triangle vertex indices as a,b,c triples.
func (m *Mesh) Tris() []int32 {
	return m.tris
}

// Normals returns one unit normal per triangle, aligned with Tris.
func (m *Mesh) Normals() []float32 {
	return m.normals
}

// FileName returns the path the mesh was loaded from.
func (m *Mesh) FileName() string {
	return m.filename
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.tris) == 0
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty mesh reports zero vectors.
func (m *Mesh) Bounds() (bmin, bmax math.Vec3) {
	if len(m.verts) < 3 {
		return math.Vec3{}, math.Vec3{}
	}
	bmin = math.Vec3At(m.verts, 0)
	bmax = bmin
	for i := 3; i+2 < len(m.verts); i += 3 {
		v := math.Vec3At(m.verts, i)
		bmin = bmin.Min(v)
		bmax = bmax.Max(v)
	}
	return bmin, bmax
}
