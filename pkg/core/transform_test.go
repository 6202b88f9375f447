package core

import (
	"math"
	"testing"
)

func vecNear(a, b Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestTransform_PointVectorNormal(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
		point     Vec3
		expected  Vec3
	}{
		{"Identity", IdentityTransform(), NewVec3(1, 2, 3), NewVec3(1, 2, 3)},
		{"Translate", Translate(NewVec3(1, -1, 2)), NewVec3(1, 2, 3), NewVec3(2, 1, 5)},
		{"Scale", Scale(2, 3, 4), NewVec3(1, 1, 1), NewVec3(2, 3, 4)},
		{"Rotate Z 90", Rotate(math.Pi/2, NewVec3(0, 0, 1)), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"Rotate X 90", Rotate(math.Pi/2, NewVec3(1, 0, 0)), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"Compose translate after scale", Translate(NewVec3(1, 0, 0)).Compose(Scale(2, 2, 2)), NewVec3(1, 1, 1), NewVec3(3, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transform.Point(tt.point)
			if !vecNear(got, tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			back := tt.transform.Inverse().Point(got)
			if !vecNear(back, tt.point, 1e-9) {
				t.Errorf("Inverse round trip: expected %v, got %v", tt.point, back)
			}
		})
	}
}

func TestTransform_NormalStaysPerpendicular(t *testing.T) {
	tr := Scale(1, 4, 1).Compose(Rotate(0.3, NewVec3(1, 1, 0)))
	tangent := NewVec3(1, 0, 0)
	normal := NewVec3(0, 1, 0)

	tt := tr.Vector(tangent)
	tn := tr.Normal(normal)
	if math.Abs(tt.Dot(tn)) > 1e-9 {
		t.Errorf("Transformed normal not perpendicular to transformed tangent: %f", tt.Dot(tn))
	}
}

func TestNewTransform_Singular(t *testing.T) {
	m := Identity4()
	m[2][2] = 0
	if _, err := NewTransform(m); err == nil {
		t.Error("Expected error for singular matrix")
	}

	m = Identity4()
	m[0][3] = 5
	tr, err := NewTransform(m)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := tr.Inverse().Point(NewVec3(5, 0, 0)); !vecNear(got, NewVec3(0, 0, 0), 1e-12) {
		t.Errorf("Expected origin, got %v", got)
	}
}

func TestTransform_SwapsHandedness(t *testing.T) {
	if IdentityTransform().SwapsHandedness() {
		t.Error("Identity should not swap handedness")
	}
	if !Scale(-1, 1, 1).SwapsHandedness() {
		t.Error("Mirror scale should swap handedness")
	}
	if Rotate(1, NewVec3(0, 1, 0)).SwapsHandedness() {
		t.Error("Rotation should not swap handedness")
	}
}

func TestTransform_AABB(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	got := Rotate(math.Pi/4, NewVec3(0, 0, 1)).AABB(box)
	s := math.Sqrt2
	if !vecNear(got.Min, NewVec3(-s, -s, -1), 1e-9) || !vecNear(got.Max, NewVec3(s, s, 1), 1e-9) {
		t.Errorf("Unexpected rotated bound %v", got)
	}
}

func TestTransform_RayKeepsTime(t *testing.T) {
	ray := NewRayAt(NewVec3(0, 0, 0), NewVec3(0, 0, 1), 0.7)
	ray.TMax = 10
	got := Translate(NewVec3(0, 0, 5)).Ray(ray)
	if got.Time != 0.7 {
		t.Errorf("Expected time 0.7, got %f", got.Time)
	}
	if got.TMax > 10 || got.TMax < 10-1e-9 {
		t.Errorf("Expected TMax just below 10, got %f", got.TMax)
	}
	if !vecNear(got.Origin, NewVec3(0, 0, 5), 1e-9) {
		t.Errorf("Expected origin (0,0,5), got %v", got.Origin)
	}
}
