package mesh

import (
	"github.com/Faultbox/meshload/pkg/math"
)

// ComputeNormals returns one normal per triangle, laid out like tris.
// Each normal is the normalized cross product of the triangle's edges
// (v1-v0)×(v2-v0). Degenerate triangles get the zero vector.
func ComputeNormals(verts []float32, tris []int32) []float32 {
	normals := make([]float32, len(tris)/3*3)
	for i := 0; i+2 < len(tris); i += 3 {
		v0 := math.Vec3At(verts, int(tris[i])*3)
		v1 := math.Vec3At(verts, int(tris[i+1])*3)
		v2 := math.Vec3At(verts, int(tris[i+2])*3)

		e0 := v1.Sub(v0)
		e1 := v2.Sub(v0)
		e0.Cross(e1).Normalize().Put(normals[i:])
	}
	return normals
}

// DegenerateCount returns the number of zero normals in a normal array.
func DegenerateCount(normals []float32) int {
	count := 0
	for i := 0; i+2 < len(normals); i += 3 {
		if normals[i] == 0 && normals[i+1] == 0 && normals[i+2] == 0 {
			count++
		}
	}
	return count
}
