package core

import (
	"math"
	"testing"
)

func TestGamma_Monotonic(t *testing.T) {
	prev := 0.0
	for n := 1; n <= 7; n++ {
		g := Gamma(n)
		if g <= prev {
			t.Errorf("Gamma(%d) = %g is not larger than Gamma(%d) = %g", n, g, n-1, prev)
		}
		if g < float64(n)*MachineEpsilon {
			t.Errorf("Gamma(%d) = %g is below n*eps", n, g)
		}
		prev = g
	}
}

func TestNextFloat(t *testing.T) {
	tests := []float64{0, 1, -1, 1e-300, -3.5, 1e10}
	for _, v := range tests {
		if up := NextFloatUp(v); up <= v {
			t.Errorf("NextFloatUp(%g) = %g is not above", v, up)
		}
		if down := NextFloatDown(v); down >= v {
			t.Errorf("NextFloatDown(%g) = %g is not below", v, down)
		}
	}
	if !math.IsInf(NextFloatUp(math.Inf(1)), 1) {
		t.Error("NextFloatUp(+Inf) should stay +Inf")
	}
}

func TestOffsetRayOrigin_LeavesErrorBox(t *testing.T) {
	p := NewVec3(1, 1, 1)
	pError := NewVec3(1e-6, 1e-6, 1e-6)
	n := NewVec3(0, 0, 1)

	tests := []struct {
		name string
		w    Vec3
		up   bool
	}{
		{"Leaving front side", NewVec3(0, 0, 1), true},
		{"Leaving back side", NewVec3(0, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := OffsetRayOrigin(p, pError, n, tt.w)
			if tt.up && o.Z <= p.Z+pError.Z {
				t.Errorf("Expected origin above error box, got %v", o)
			}
			if !tt.up && o.Z >= p.Z-pError.Z {
				t.Errorf("Expected origin below error box, got %v", o)
			}
			if o.X != p.X || o.Y != p.Y {
				t.Errorf("Offset should only move along the normal, got %v", o)
			}
		})
	}
}

func TestAABB_HitAndCorners(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	ray := NewRay(NewVec3(0.5, 0.5, -1), NewVec3(0, 0, 1))
	if !box.IntersectP(ray) {
		t.Error("Expected ray through box to hit")
	}
	ray.TMax = 0.5
	if box.IntersectP(ray) {
		t.Error("Expected short ray to stop before box")
	}

	corners := box.Corners()
	for _, c := range corners {
		if !box.Inside(c) {
			t.Errorf("Corner %v reported outside", c)
		}
	}
	if corners[0] != box.Min || corners[7] != box.Max {
		t.Errorf("Expected first and last corners to be Min and Max, got %v %v", corners[0], corners[7])
	}
}
