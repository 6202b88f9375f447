package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

func TestUniformInfiniteLight_SampleLi(t *testing.T) {
	light := NewUniformInfiniteLight(core.NewVec3(0.5, 0.7, 1))
	light.Preprocess(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))

	ref := &material.Interaction{P: core.Vec3{}, N: core.NewVec3(0, 1, 0)}
	random := rand.New(rand.NewSource(4))

	// Cosine-weighted irradiance from a uniform environment is πL
	sum := 0.0
	const n = 40000
	for i := 0; i < n; i++ {
		ls := light.SampleLi(ref, core.NewVec2(random.Float64(), random.Float64()))
		if math.Abs(ls.Pdf-1/(4*math.Pi)) > 1e-12 {
			t.Fatalf("Expected uniform sphere pdf, got %f", ls.Pdf)
		}
		if ls.Vis.P1.P.Length() < 2*math.Sqrt(3)-1e-9 {
			t.Fatalf("Visibility endpoint %v inside the scene bounds", ls.Vis.P1.P)
		}
		if cos := ls.Wi.Dot(ref.N); cos > 0 {
			sum += ls.Li.X * cos / ls.Pdf
		}
	}
	if estimate := sum / n; math.Abs(estimate-0.5*math.Pi) > 0.05 {
		t.Errorf("Expected irradiance %f, got %f", 0.5*math.Pi, estimate)
	}
}

func TestUniformInfiniteLight_Emission(t *testing.T) {
	light := NewUniformInfiniteLight(core.NewSpectrum(2))
	light.Preprocess(core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1)))

	if le := light.Le(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))); le != core.NewSpectrum(2) {
		t.Errorf("Expected constant emission, got %v", le)
	}
	if light.Flags() != Infinite {
		t.Errorf("Expected infinite flag, got %d", light.Flags())
	}

	radius := math.Sqrt(3)
	random := rand.New(rand.NewSource(8))
	for i := 0; i < 100; i++ {
		es := light.SampleLe(core.NewVec2(random.Float64(), random.Float64()),
			core.NewVec2(random.Float64(), random.Float64()), 0)
		// Every emitted ray passes within the bounding sphere
		toCenter := es.Ray.Origin.Negate()
		closest := toCenter.Subtract(es.Ray.Direction.Multiply(toCenter.Dot(es.Ray.Direction)))
		if closest.Length() > radius+1e-9 {
			t.Fatalf("Emitted ray misses the scene sphere by %f", closest.Length()-radius)
		}
		if math.Abs(es.PdfPos-1/(math.Pi*radius*radius)) > 1e-12 {
			t.Fatalf("Unexpected position pdf %f", es.PdfPos)
		}
	}
}
