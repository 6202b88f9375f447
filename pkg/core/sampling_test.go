package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestCosineSampleHemisphere_UpperHemisphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		d := CosineSampleHemisphere(sampler.Get2D())
		if d.Z < 0 {
			t.Fatalf("Sample %d below hemisphere: %v", i, d)
		}
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Fatalf("Sample %d not unit length: %v (len %f)", i, d, d.Length())
		}
	}
}

func TestSampleCosineHemisphere_AroundNormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(1, 1, -1).Normalize(),
	}
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))

	for _, n := range normals {
		for i := 0; i < 200; i++ {
			d := SampleCosineHemisphere(n, sampler.Get2D())
			if d.Dot(n) < -1e-9 {
				t.Fatalf("Direction %v is not in hemisphere of %v", d, n)
			}
		}
	}
}

func TestUniformSampleSphere_MeanIsZero(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(1)))

	const n = 20000
	var sum Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(UniformSampleSphere(sampler.Get2D()))
	}
	mean := sum.Multiply(1.0 / n)
	if mean.Length() > 0.03 {
		t.Errorf("Expected mean direction near zero, got %v", mean)
	}
}

func TestConcentricSampleDisk(t *testing.T) {
	tests := []struct {
		name     string
		sample   Vec2
		expected Vec2
	}{
		{"Center", NewVec2(0.5, 0.5), NewVec2(0, 0)},
		{"Right edge", NewVec2(1, 0.5), NewVec2(1, 0)},
		{"Top edge", NewVec2(0.5, 1), NewVec2(0, 1)},
		{"Left edge", NewVec2(0, 0.5), NewVec2(-1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConcentricSampleDisk(tt.sample)
			if math.Abs(got.X-tt.expected.X) > 1e-9 || math.Abs(got.Y-tt.expected.Y) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUniformSampleTriangle_InsideTriangle(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(3)))

	for i := 0; i < 1000; i++ {
		b := UniformSampleTriangle(sampler.Get2D())
		b2 := 1 - b.X - b.Y
		if b.X < 0 || b.Y < 0 || b2 < -1e-12 {
			t.Fatalf("Barycentrics outside triangle: %v, %f", b, b2)
		}
	}
}

func TestPowerHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		fPdf, gPdf float64
		expected   float64
	}{
		{"Equal pdfs", 1, 1, 0.5},
		{"Only f", 2, 0, 1},
		{"Only g", 0, 2, 0},
		{"Both zero", 0, 0, 0},
		{"Three to one", 3, 1, 0.9},
		{"Infinite f", math.Inf(1), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PowerHeuristic(1, tt.fPdf, 1, tt.gPdf)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestRandomSampler_Get2DArray(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(5)))
	if n := sampler.Request2DArray(16); n != 16 {
		t.Fatalf("Expected requested count to be kept, got %d", n)
	}

	samples := sampler.Get2DArray(16)
	if len(samples) != 16 {
		t.Fatalf("Expected 16 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if s.X < 0 || s.X >= 1 || s.Y < 0 || s.Y >= 1 {
			t.Errorf("Sample out of [0,1): %v", s)
		}
	}
}
