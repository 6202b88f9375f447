package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/geometry"
	"github.com/df07/go-pbr-core/pkg/material"
)

// newCeilingTriangle creates a right triangle at height y=2 with legs of
// length 1, facing down
func newCeilingTriangle(t *testing.T) *geometry.Triangle {
	t.Helper()
	mesh, err := geometry.NewTriangleMesh(core.IdentityTransform(), []int{0, 1, 2},
		[]core.Vec3{core.NewVec3(0, 2, 0), core.NewVec3(1, 2, 0), core.NewVec3(0, 2, 1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return geometry.NewTriangle(mesh, 0)
}

func TestDiffuseAreaLight_Power(t *testing.T) {
	tri := newCeilingTriangle(t)
	tests := []struct {
		name     string
		twoSided bool
		expected float64
	}{
		{"One-sided", false, 3 * 0.5 * math.Pi},
		{"Two-sided", true, 2 * 3 * 0.5 * math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			light := NewDiffuseAreaLight(core.NewSpectrum(3), tri, 1, tt.twoSided)
			if got := light.Power(); math.Abs(got.X-tt.expected) > 1e-9 {
				t.Errorf("Expected power %f, got %f", tt.expected, got.X)
			}
		})
	}
}

func TestDiffuseAreaLight_EmitsOnNormalSide(t *testing.T) {
	tri := newCeilingTriangle(t)
	oneSided := NewDiffuseAreaLight(core.NewSpectrum(1), tri, 1, false)
	twoSided := NewDiffuseAreaLight(core.NewSpectrum(1), tri, 1, true)

	it := &material.Interaction{P: core.NewVec3(0.2, 2, 0.2), N: core.NewVec3(0, -1, 0)}
	down, up := core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)

	if oneSided.L(it, down).IsBlack() {
		t.Error("Expected emission along the normal")
	}
	if !oneSided.L(it, up).IsBlack() {
		t.Error("Expected no emission behind a one-sided light")
	}
	if twoSided.L(it, up).IsBlack() {
		t.Error("Expected emission behind a two-sided light")
	}
}

func TestDiffuseAreaLight_SampleLi(t *testing.T) {
	tri := newCeilingTriangle(t)
	light := NewDiffuseAreaLight(core.NewSpectrum(2), tri, 4, false)
	if light.NSamples() != 4 || light.Flags() != Area || light.Flags().IsDelta() {
		t.Fatalf("Unexpected light description: n=%d flags=%d", light.NSamples(), light.Flags())
	}

	ref := &material.Interaction{P: core.NewVec3(0.3, 0, 0.3), N: core.NewVec3(0, 1, 0)}
	random := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		ls := light.SampleLi(ref, core.NewVec2(random.Float64(), random.Float64()))
		if ls.Pdf <= 0 {
			t.Fatalf("Expected positive pdf, got %f", ls.Pdf)
		}
		if ls.Wi.Y <= 0 {
			t.Fatalf("Expected direction toward the ceiling, got %v", ls.Wi)
		}
		if ls.Li != core.NewSpectrum(2) {
			t.Fatalf("Expected Lemit from below, got %v", ls.Li)
		}
		if pdf := light.PdfLi(ref, ls.Wi); math.Abs(pdf-ls.Pdf) > 1e-6*ls.Pdf {
			t.Fatalf("SampleLi pdf %f differs from PdfLi %f", ls.Pdf, pdf)
		}
		if math.Abs(ls.Vis.P1.P.Y-2) > 1e-12 {
			t.Fatalf("Visibility endpoint %v not on the light", ls.Vis.P1.P)
		}
	}

	// Irradiance estimate converges to the analytic value for a small
	// emitter: E ≈ L A cos θ cos θ' / r²
	sum := 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		ls := light.SampleLi(ref, core.NewVec2(random.Float64(), random.Float64()))
		if ls.Pdf > 0 {
			sum += ls.Li.X * ls.Wi.Dot(ref.N) / ls.Pdf
		}
	}
	estimate := sum / n
	if estimate <= 0 || estimate > 2*0.5*math.Pi {
		t.Errorf("Irradiance estimate %f outside plausible range", estimate)
	}
}

func TestDiffuseAreaLight_SampleLe(t *testing.T) {
	tri := newCeilingTriangle(t)
	random := rand.New(rand.NewSource(2))

	for _, twoSided := range []bool{false, true} {
		light := NewDiffuseAreaLight(core.NewSpectrum(1), tri, 1, twoSided)
		sawBack := false
		for i := 0; i < 200; i++ {
			es := light.SampleLe(core.NewVec2(random.Float64(), random.Float64()),
				core.NewVec2(random.Float64(), random.Float64()), 0.5)
			if es.PdfPos != 2 {
				t.Fatalf("Expected position pdf 1/area = 2, got %f", es.PdfPos)
			}
			if es.Ray.Time != 0.5 {
				t.Fatalf("Expected ray time 0.5, got %f", es.Ray.Time)
			}
			cos := es.NLight.Dot(es.Ray.Direction.Normalize())
			if cos < 0 {
				sawBack = true
				if !twoSided {
					t.Fatalf("One-sided light emitted backwards: %v", es.Ray.Direction)
				}
			}
			pdfPos, pdfDir := light.PdfLe(es.Ray, es.NLight)
			if math.Abs(pdfPos-es.PdfPos) > 1e-12 || math.Abs(pdfDir-es.PdfDir) > 1e-9 {
				t.Fatalf("PdfLe (%f, %f) differs from sampled (%f, %f)", pdfPos, pdfDir, es.PdfPos, es.PdfDir)
			}
			if es.Le.IsBlack() {
				t.Fatal("Expected emission along the sampled ray")
			}
		}
		if twoSided && !sawBack {
			t.Error("Two-sided light never emitted backwards")
		}
	}
}
