package geometry

import (
	"fmt"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultSDFCells is the marching cubes resolution along the longest axis
const DefaultSDFCells = 64

// NewTriangleMeshFromSDF tessellates a signed distance field with uniform
// marching cubes. Vertices that land on the same position are welded so
// adjacent triangles share edges exactly.
func NewTriangleMeshFromSDF(s sdf.SDF3, cells int, objectToWorld core.Transform, opts *TriangleMeshOptions) (*TriangleMesh, error) {
	if cells <= 0 {
		cells = DefaultSDFCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdf produced no triangles at %d cells", cells)
	}

	welded := make(map[v3.Vec]int)
	var positions []core.Vec3
	indices := make([]int, 0, 3*len(triangles))
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			idx, ok := welded[v]
			if !ok {
				idx = len(positions)
				welded[v] = idx
				positions = append(positions, core.NewVec3(v.X, v.Y, v.Z))
			}
			indices = append(indices, idx)
		}
	}
	return NewTriangleMesh(objectToWorld, indices, positions, opts)
}
