package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
)

// newFlatInteraction creates a hit on the z=0 plane with normal +Z
func newFlatInteraction(wo core.Vec3) *SurfaceInteraction {
	return NewSurfaceInteraction(
		core.NewVec3(0, 0, 0), core.Vec3{}, core.NewVec2(0.5, 0.5), wo,
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.Vec3{}, core.Vec3{},
		0, false, 0)
}

func TestMatte_EvaluateAndSample(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.5, 0.2)
	matte := NewMatte(albedo)
	arena := NewArena()

	wo := core.NewVec3(0, 0, 1)
	si := newFlatInteraction(wo)
	matte.ComputeScatteringFunctions(si, arena, Radiance, true)
	if si.BSDF == nil {
		t.Fatal("Expected BSDF")
	}

	// BRDF: albedo / π (proper energy conservation)
	wi := core.NewVec3(1, 0, 1).Normalize()
	f := si.BSDF.F(wo, wi, BSDFAll)
	expected := albedo.Multiply(1 / math.Pi)
	if f.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected f=%v, got %v", expected, f)
	}

	// Below the surface nothing is reflected
	if f := si.BSDF.F(wo, core.NewVec3(0, 0, -1), BSDFAll); !f.IsBlack() {
		t.Errorf("Expected black transmission, got %v", f)
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 100; i++ {
		f, wi, pdf, sampledType := si.BSDF.SampleF(wo, sampler.Get2D(), BSDFAll)
		if pdf <= 0 {
			t.Fatalf("Expected positive pdf, got %f", pdf)
		}
		if wi.Z < 0 {
			t.Fatalf("Sampled direction below surface: %v", wi)
		}
		// Cosine-weighted hemisphere sampling: cos(θ) / π
		if math.Abs(pdf-wi.Z/math.Pi) > 1e-9 {
			t.Errorf("Expected pdf %f, got %f", wi.Z/math.Pi, pdf)
		}
		if sampledType != BSDFReflection|BSDFDiffuse {
			t.Errorf("Unexpected sampled type %b", sampledType)
		}
		if f.Subtract(expected).Length() > 1e-9 {
			t.Errorf("Expected f=%v, got %v", expected, f)
		}
	}
}

func TestMatte_BlackHasNoLobes(t *testing.T) {
	si := newFlatInteraction(core.NewVec3(0, 0, 1))
	NewMatte(core.Vec3{}).ComputeScatteringFunctions(si, NewArena(), Radiance, true)
	if n := si.BSDF.NumComponents(BSDFAll); n != 0 {
		t.Errorf("Expected no lobes for black albedo, got %d", n)
	}
}

// rampTexture displaces linearly in u
type rampTexture struct{ slope float64 }

func (r rampTexture) Evaluate(si *SurfaceInteraction) float64 {
	return r.slope * si.UV.X
}

func TestBump_TiltsShadingNormal(t *testing.T) {
	si := newFlatInteraction(core.NewVec3(0, 0, 1))
	Bump(rampTexture{slope: 1}, si)

	// Height h(u) = u over a surface with dpdu = +X tilts the normal toward -X
	expected := core.NewVec3(-1, 0, 1).Normalize()
	if si.Shading.N.Subtract(expected).Length() > 1e-6 {
		t.Errorf("Expected shading normal %v, got %v", expected, si.Shading.N)
	}
	if si.N.Dot(si.Shading.N) < 0 {
		t.Error("Shading normal left the geometric hemisphere")
	}
}

func TestBump_FlippedSurfaceKeepsHemisphere(t *testing.T) {
	si := NewSurfaceInteraction(
		core.NewVec3(0, 0, 0), core.Vec3{}, core.NewVec2(0.5, 0.5), core.NewVec3(0, 0, -1),
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.Vec3{}, core.Vec3{},
		0, true, 0)
	if si.N.Z >= 0 {
		t.Fatalf("Expected flipped geometric normal, got %v", si.N)
	}
	Bump(rampTexture{slope: 5}, si)
	if si.N.Dot(si.Shading.N) < 0 {
		t.Errorf("Shading normal %v points away from geometric normal %v", si.Shading.N, si.N)
	}
}
