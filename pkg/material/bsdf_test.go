package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
)

func TestBSDF_LocalFrameRoundTrip(t *testing.T) {
	si := NewSurfaceInteraction(
		core.NewVec3(1, 2, 3), core.Vec3{}, core.NewVec2(0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(1, 1, 0), core.NewVec3(0, 0, 1), core.Vec3{}, core.Vec3{},
		0, false, 0)
	bsdf := NewBSDF(si, 1)

	v := core.NewVec3(0.3, -0.5, 0.8)
	back := bsdf.LocalToWorld(bsdf.WorldToLocal(v))
	if back.Subtract(v).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", v, back)
	}
	if local := bsdf.WorldToLocal(si.Shading.N); local.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Shading normal should map to +Z, got %v", local)
	}
}

func TestBSDF_NumComponentsAndOverflow(t *testing.T) {
	bsdf := NewBSDF(newFlatInteraction(core.NewVec3(0, 0, 1)), 1)
	bsdf.Add(&LambertianReflection{R: core.NewSpectrum(0.5)})
	bsdf.Add(&SpecularReflection{R: core.NewSpectrum(1), Fresnel: FresnelNoOp{}})

	tests := []struct {
		name     string
		flags    BxDFType
		expected int
	}{
		{"All", BSDFAll, 2},
		{"Non-specular", BSDFAll &^ BSDFSpecular, 1},
		{"Transmission only", BSDFTransmission | BSDFSpecular, 0},
		{"Reflection", BSDFReflection | BSDFDiffuse | BSDFSpecular, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bsdf.NumComponents(tt.flags); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic when adding a ninth lobe")
		}
	}()
	for i := 0; i < MaxBxDFs; i++ {
		bsdf.Add(&LambertianReflection{})
	}
}

func TestBSDF_SampleFPdfMatchesPdf(t *testing.T) {
	si := newFlatInteraction(core.NewVec3(0, 0, 1))
	bsdf := NewBSDF(si, 1)
	bsdf.Add(&LambertianReflection{R: core.NewSpectrum(0.3)})
	bsdf.Add(&LambertianReflection{R: core.NewSpectrum(0.4)})

	wo := core.NewVec3(0.2, 0.1, 0.9).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(9)))
	for i := 0; i < 50; i++ {
		f, wi, pdf, _ := bsdf.SampleF(wo, sampler.Get2D(), BSDFAll)
		if math.Abs(pdf-bsdf.Pdf(wo, wi, BSDFAll)) > 1e-9 {
			t.Fatalf("Sampled pdf %f differs from Pdf %f", pdf, bsdf.Pdf(wo, wi, BSDFAll))
		}
		if expected := bsdf.F(wo, wi, BSDFAll); f.Subtract(expected).Length() > 1e-9 {
			t.Fatalf("Sampled f %v differs from F %v", f, expected)
		}
	}
}

func TestMix_ScalesBothMaterials(t *testing.T) {
	mix := NewMix(NewMatte(core.NewSpectrum(1)), NewMirror(core.NewSpectrum(1)), 0.25)
	si := newFlatInteraction(core.NewVec3(0, 0, 1))
	mix.ComputeScatteringFunctions(si, NewArena(), Radiance, true)

	if n := si.BSDF.NumComponents(BSDFAll); n != 2 {
		t.Fatalf("Expected 2 scaled lobes, got %d", n)
	}
	f := si.BSDF.F(core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 1).Normalize(), BSDFAll)
	expected := core.NewSpectrum(0.25 / math.Pi)
	if f.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Expected diffuse part scaled to %v, got %v", expected, f)
	}

	_, _, pdf, sampledType := si.BSDF.SampleF(core.NewVec3(0, 0, 1), core.NewVec2(0.9, 0.5), BSDFAll)
	if !sampledType.Has(BSDFSpecular) {
		t.Fatalf("Expected the second lobe to be the mirror, got type %b", sampledType)
	}
	if math.Abs(pdf-0.5) > 1e-9 {
		t.Errorf("Expected specular pdf 1/2 after lobe selection, got %f", pdf)
	}
}

func TestArena_ResetReusesChunks(t *testing.T) {
	arena := NewArena()
	si := newFlatInteraction(core.NewVec3(0, 0, 1))

	var first *BSDF
	for i := 0; i < arenaChunkSize+5; i++ {
		b := arena.NewBSDF(si, 1)
		b.Add(&LambertianReflection{})
		if i == 0 {
			first = b
		}
	}
	if arena.Len() != arenaChunkSize+5 {
		t.Errorf("Expected %d allocations, got %d", arenaChunkSize+5, arena.Len())
	}
	// Growing must not move earlier allocations
	if first.NumComponents(BSDFAll) != 1 {
		t.Error("First BSDF lost its lobe after the arena grew")
	}

	arena.Reset()
	if arena.Len() != 0 {
		t.Errorf("Expected empty arena after reset, got %d", arena.Len())
	}
	again := arena.NewBSDF(si, 1)
	if again != first {
		t.Error("Expected the first slot to be reused after reset")
	}
	if again.NumComponents(BSDFAll) != 0 {
		t.Error("Reused BSDF should start empty")
	}
}
