package core

import (
	"math"
	"testing"
)

func TestVec3_Permute(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		x, y, z  int
		expected Vec3
	}{
		{"Identity", NewVec3(1, 2, 3), 0, 1, 2, NewVec3(1, 2, 3)},
		{"Rotate left", NewVec3(1, 2, 3), 1, 2, 0, NewVec3(2, 3, 1)},
		{"Rotate right", NewVec3(1, 2, 3), 2, 0, 1, NewVec3(3, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Permute(tt.x, tt.y, tt.z)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_MaxDimension(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected int
	}{
		{"X largest", NewVec3(3, 1, 2), 0},
		{"Y largest", NewVec3(1, 3, 2), 1},
		{"Z largest", NewVec3(1, 2, 3), 2},
		{"Tie goes to Z", NewVec3(1, 1, 1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vector.MaxDimension(); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCoordinateSystem_Orthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(1, 0, 0),
		NewVec3(0, -1, 0),
		NewVec3(1, 2, 3).Normalize(),
		NewVec3(-0.3, 0.1, -0.9).Normalize(),
	}

	const tolerance = 1e-9
	for _, n := range normals {
		s, u := CoordinateSystem(n)
		if math.Abs(s.Length()-1) > tolerance || math.Abs(u.Length()-1) > tolerance {
			t.Errorf("Basis for %v is not unit length: %v %v", n, s, u)
		}
		if math.Abs(s.Dot(n)) > tolerance || math.Abs(u.Dot(n)) > tolerance || math.Abs(s.Dot(u)) > tolerance {
			t.Errorf("Basis for %v is not orthogonal: %v %v", n, s, u)
		}
	}
}

func TestVec3_FaceForward(t *testing.T) {
	n := NewVec3(0, 0, 1)
	if got := n.FaceForward(NewVec3(0, 0, -1)); got != NewVec3(0, 0, -1) {
		t.Errorf("Expected flipped normal, got %v", got)
	}
	if got := n.FaceForward(NewVec3(0, 1, 1)); got != n {
		t.Errorf("Expected unchanged normal, got %v", got)
	}
}
