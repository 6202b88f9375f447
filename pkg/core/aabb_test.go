package core

import (
	"math"
	"testing"
)

func TestAABBIntersect(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		t0, t1  float64
	}{
		{"Through the center", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), true, 4, 6},
		{"Origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0)), true, 0, 1},
		{"Pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), false, 0, 0},
		{"Parallel outside slab", NewRay(NewVec3(2, 0, 5), NewVec3(0, 0, -1)), false, 0, 0},
		{"Parallel on the face", NewRay(NewVec3(1, 0, 5), NewVec3(0, 0, -1)), true, 4, 6},
		{"Diagonal miss", NewRay(NewVec3(3, 0, 0), NewVec3(0, 1, 0)), false, 0, 0},
		{"Segment too short", Ray{Origin: NewVec3(0, 0, 5), Direction: NewVec3(0, 0, -1), TMax: 3.5}, false, 0, 0},
		{"Segment ends inside", Ray{Origin: NewVec3(0, 0, 5), Direction: NewVec3(0, 0, -1), TMax: 5}, true, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, hit := box.Intersect(tt.ray)
			if hit != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, hit)
			}
			if box.IntersectP(tt.ray) != hit {
				t.Errorf("IntersectP disagrees with Intersect")
			}
			if !hit {
				return
			}
			if math.Abs(t0-tt.t0) > 1e-9 || math.Abs(t1-tt.t1) > 1e-9 {
				t.Errorf("Expected range [%f, %f], got [%f, %f]", tt.t0, tt.t1, t0, t1)
			}
		})
	}
}

func TestAABBHelpers(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, 0, 2), NewVec3(-1, 4, 0), NewVec3(0, 1, 1))
	if !box.Min.Equals(NewVec3(-1, 0, 0)) || !box.Max.Equals(NewVec3(1, 4, 2)) {
		t.Fatalf("Unexpected bounds %v", box)
	}
	if box.LongestAxis() != 1 {
		t.Errorf("Expected Y as the longest axis, got %d", box.LongestAxis())
	}
	if got := box.Offset(NewVec3(0, 1, 2)); !got.Equals(NewVec3(0.5, 0.25, 1)) {
		t.Errorf("Expected offset (0.5, 0.25, 1), got %v", got)
	}
	center, radius := box.BoundingSphere()
	if !center.Equals(NewVec3(0, 2, 1)) || math.Abs(radius-math.Sqrt(6)) > 1e-12 {
		t.Errorf("Expected sphere at (0, 2, 1) radius √6, got %v %f", center, radius)
	}
	for _, c := range box.Corners() {
		if !box.Inside(c) {
			t.Errorf("Corner %v outside its own box", c)
		}
	}
	if (AABB{Min: NewVec3(1, 0, 0)}).IsValid() {
		t.Error("Expected an inverted box to be invalid")
	}
	if _, r := (AABB{Min: NewVec3(1, 0, 0)}).BoundingSphere(); r != 0 {
		t.Errorf("Expected radius 0 for an invalid box, got %f", r)
	}
	grown := box.Expand(1).Union(NewAABB(NewVec3(0, 0, 0), NewVec3(0, 10, 0)))
	if !grown.Min.Equals(NewVec3(-2, -1, -1)) || !grown.Max.Equals(NewVec3(2, 10, 3)) {
		t.Errorf("Unexpected expanded union %v", grown)
	}
}
