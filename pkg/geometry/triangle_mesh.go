package geometry

import (
	"fmt"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/samber/lo"
)

// TriangleMesh holds the vertex data shared by all triangles of a mesh.
// Vertex attributes are stored in world space and never change after
// construction, so triangles from one mesh can be intersected concurrently.
type TriangleMesh struct {
	NTriangles    int
	VertexIndices []int
	P             []core.Vec3 // World-space positions
	N             []core.Vec3 // Optional per-vertex normals
	S             []core.Vec3 // Optional per-vertex tangents
	UV            []core.Vec2 // Optional per-vertex parameterization
	FaceIndices   []int       // Optional per-face ids, copied into hits

	AlphaMask       material.FloatTexture
	ShadowAlphaMask material.FloatTexture

	ObjectToWorld            core.Transform
	WorldToObject            core.Transform
	ReverseOrientation       bool
	TransformSwapsHandedness bool
}

// TriangleMeshOptions contains optional per-vertex data for mesh creation.
// Every slice is either empty or has one entry per vertex (per face for
// FaceIndices).
type TriangleMeshOptions struct {
	N                  []core.Vec3
	S                  []core.Vec3
	UV                 []core.Vec2
	FaceIndices        []int
	AlphaMask          material.FloatTexture
	ShadowAlphaMask    material.FloatTexture
	ReverseOrientation bool
}

// NewTriangleMesh creates a mesh from object-space positions and a flat
// index list (three indices per triangle). Positions, normals and tangents
// are transformed to world space once here.
func NewTriangleMesh(objectToWorld core.Transform, indices []int, p []core.Vec3, opts *TriangleMeshOptions) (*TriangleMesh, error) {
	if opts == nil {
		opts = &TriangleMeshOptions{}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("vertex index count %d is not a multiple of 3", len(indices))
	}
	nTriangles := len(indices) / 3
	nVertices := len(p)

	if bad, found := lo.Find(indices, func(i int) bool { return i < 0 || i >= nVertices }); found {
		return nil, fmt.Errorf("vertex index %d out of range for %d vertices", bad, nVertices)
	}
	if len(opts.N) != 0 && len(opts.N) != nVertices {
		return nil, fmt.Errorf("got %d normals for %d vertices", len(opts.N), nVertices)
	}
	if len(opts.S) != 0 && len(opts.S) != nVertices {
		return nil, fmt.Errorf("got %d tangents for %d vertices", len(opts.S), nVertices)
	}
	if len(opts.UV) != 0 && len(opts.UV) != nVertices {
		return nil, fmt.Errorf("got %d uvs for %d vertices", len(opts.UV), nVertices)
	}
	if len(opts.FaceIndices) != 0 && len(opts.FaceIndices) != nTriangles {
		return nil, fmt.Errorf("got %d face indices for %d triangles", len(opts.FaceIndices), nTriangles)
	}

	mesh := &TriangleMesh{
		NTriangles:               nTriangles,
		VertexIndices:            append([]int(nil), indices...),
		P:                        lo.Map(p, func(v core.Vec3, _ int) core.Vec3 { return objectToWorld.Point(v) }),
		UV:                       append([]core.Vec2(nil), opts.UV...),
		FaceIndices:              append([]int(nil), opts.FaceIndices...),
		AlphaMask:                opts.AlphaMask,
		ShadowAlphaMask:          opts.ShadowAlphaMask,
		ObjectToWorld:            objectToWorld,
		WorldToObject:            objectToWorld.Inverse(),
		ReverseOrientation:       opts.ReverseOrientation,
		TransformSwapsHandedness: objectToWorld.SwapsHandedness(),
	}
	if len(opts.N) > 0 {
		mesh.N = lo.Map(opts.N, func(n core.Vec3, _ int) core.Vec3 { return objectToWorld.Normal(n) })
	}
	if len(opts.S) > 0 {
		mesh.S = lo.Map(opts.S, func(s core.Vec3, _ int) core.Vec3 { return objectToWorld.Vector(s) })
	}
	return mesh, nil
}

// Triangles returns one shape per face, all sharing the mesh. The material
// override is left unset.
func (m *TriangleMesh) Triangles() []*Triangle {
	return lo.Times(m.NTriangles, func(i int) *Triangle {
		return NewTriangle(m, i)
	})
}

// Bounds returns the world-space bounds of every vertex
func (m *TriangleMesh) Bounds() core.AABB {
	return core.NewAABBFromPoints(m.P...)
}
