package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
)

func TestNewTriangleMesh_Validation(t *testing.T) {
	p := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name    string
		indices []int
		opts    *TriangleMeshOptions
		wantErr bool
	}{
		{"Valid", []int{0, 1, 2}, nil, false},
		{"Index count not a multiple of 3", []int{0, 1}, nil, true},
		{"Index out of range", []int{0, 1, 3}, nil, true},
		{"Negative index", []int{0, -1, 2}, nil, true},
		{"Normals length mismatch", []int{0, 1, 2}, &TriangleMeshOptions{N: []core.Vec3{{}}}, true},
		{"Tangents length mismatch", []int{0, 1, 2}, &TriangleMeshOptions{S: []core.Vec3{{}, {}}}, true},
		{"UV length mismatch", []int{0, 1, 2}, &TriangleMeshOptions{UV: []core.Vec2{{}}}, true},
		{"Face indices length mismatch", []int{0, 1, 2}, &TriangleMeshOptions{FaceIndices: []int{1, 2}}, true},
		{"Full attribute set", []int{0, 1, 2}, &TriangleMeshOptions{
			N:           []core.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
			S:           []core.Vec3{{X: 1}, {X: 1}, {X: 1}},
			UV:          []core.Vec2{{}, {X: 1}, {Y: 1}},
			FaceIndices: []int{7},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := NewTriangleMesh(core.IdentityTransform(), tt.indices, p, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err == nil && mesh.NTriangles != len(tt.indices)/3 {
				t.Errorf("Expected %d triangles, got %d", len(tt.indices)/3, mesh.NTriangles)
			}
		})
	}
}

func TestNewTriangleMesh_WorldSpace(t *testing.T) {
	objectToWorld := core.Translate(core.NewVec3(0, 0, -3)).Compose(core.Scale(2, 2, 2))
	mesh, err := NewTriangleMesh(objectToWorld, []int{0, 1, 2},
		[]core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)},
		&TriangleMeshOptions{
			N:           []core.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
			FaceIndices: []int{42},
		})
	if err != nil {
		t.Fatal(err)
	}

	if mesh.P[1].Subtract(core.NewVec3(2, 0, -3)).Length() > 1e-12 {
		t.Errorf("Expected world position (2,0,-3), got %v", mesh.P[1])
	}
	if mesh.TransformSwapsHandedness {
		t.Error("Uniform scale should not swap handedness")
	}

	triangles := mesh.Triangles()
	if len(triangles) != 1 {
		t.Fatalf("Expected 1 triangle, got %d", len(triangles))
	}
	tHit, si, hit := triangles[0].Intersect(core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(0, 0, -1)), true)
	if !hit {
		t.Fatal("Expected hit on transformed mesh")
	}
	if math.Abs(tHit-3) > 1e-12 {
		t.Errorf("Expected t=3, got %f", tHit)
	}
	if si.FaceIndex != 42 {
		t.Errorf("Expected face index 42, got %d", si.FaceIndex)
	}
	if si.Shading.N.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected world shading normal +Z, got %v", si.Shading.N)
	}
}

func TestNewTriangleMesh_MirrorSwapsHandedness(t *testing.T) {
	mesh, err := NewTriangleMesh(core.Scale(-1, 1, 1), []int{0, 1, 2},
		[]core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !mesh.TransformSwapsHandedness {
		t.Fatal("Expected a mirror transform to swap handedness")
	}

	// The mirrored winding flips the cross product, the handedness flag flips it back
	_, si, hit := NewTriangle(mesh, 0).Intersect(core.NewRay(core.NewVec3(-0.25, 0.25, 1), core.NewVec3(0, 0, -1)), true)
	if !hit {
		t.Fatal("Expected hit")
	}
	if si.N.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected normal +Z, got %v", si.N)
	}
}

func TestTriangleMesh_Bounds(t *testing.T) {
	mesh, err := NewTriangleMesh(core.IdentityTransform(), []int{0, 1, 2},
		[]core.Vec3{core.NewVec3(-1, 0, 2), core.NewVec3(1, 3, 0), core.NewVec3(0, 1, -4)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := mesh.Bounds()
	if b.Min != core.NewVec3(-1, 0, -4) || b.Max != core.NewVec3(1, 3, 2) {
		t.Errorf("Unexpected bounds %v", b)
	}
}
