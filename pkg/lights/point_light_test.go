package lights

import (
	"math"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

func TestPointLight_SampleLi(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 4, 0), core.NewSpectrum(8))
	ref := &material.Interaction{P: core.NewVec3(0, 2, 0), Time: 0.25}

	ls := light.SampleLi(ref, core.NewVec2(0.3, 0.9))
	if ls.Pdf != 1 {
		t.Errorf("Expected pdf 1 for a delta light, got %f", ls.Pdf)
	}
	if ls.Wi != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected direction +Y, got %v", ls.Wi)
	}
	if ls.Li != core.NewSpectrum(2) {
		t.Errorf("Expected inverse square falloff I/4 = 2, got %v", ls.Li)
	}
	if ls.Vis.P1.Time != 0.25 {
		t.Errorf("Expected the reference time on the light end, got %f", ls.Vis.P1.Time)
	}
	if pdf := light.PdfLi(ref, ls.Wi); pdf != 0 {
		t.Errorf("Expected PdfLi 0, got %f", pdf)
	}
	if !light.Flags().IsDelta() {
		t.Error("Expected point light to be a delta light")
	}
}

func TestPointLight_PowerAndEmission(t *testing.T) {
	light := NewPointLight(core.Vec3{}, core.NewSpectrum(1))
	if p := light.Power(); math.Abs(p.X-4*math.Pi) > 1e-12 {
		t.Errorf("Expected power 4π, got %f", p.X)
	}
	es := light.SampleLe(core.NewVec2(0.1, 0.7), core.NewVec2(0.5, 0.5), 0)
	if math.Abs(es.Ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit emission direction, got %v", es.Ray.Direction)
	}
	if math.Abs(es.PdfDir-1/(4*math.Pi)) > 1e-12 {
		t.Errorf("Expected uniform sphere pdf, got %f", es.PdfDir)
	}
}
