package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// Mix blends two materials by a spectrum-valued amount. Both materials are
// evaluated and their lobes are kept side by side, scaled by s and 1-s.
type Mix struct {
	Material1 Material
	Material2 Material
	Amount    SpectrumTexture // Weight of Material1; Material2 gets 1 - Amount
}

// NewMix creates a new mix material with a constant amount
func NewMix(material1, material2 Material, amount float64) *Mix {
	// Clamp amount to valid range
	amount = math.Max(0.0, math.Min(amount, 1.0))

	return &Mix{
		Material1: material1,
		Material2: material2,
		Amount:    NewConstantSpectrum(core.NewSpectrum(amount)),
	}
}

// ComputeScatteringFunctions implements the Material interface for mix material
func (m *Mix) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	s1 := m.Amount.Evaluate(si).Clamp(0, math.Inf(1))
	s2 := core.NewSpectrum(1).Subtract(s1).Clamp(0, math.Inf(1))

	// The second material works on its own copy of the hit
	si2 := *si
	si2.BSDF = nil
	si2.BSSRDF = nil

	m.Material1.ComputeScatteringFunctions(si, arena, mode, allowMultipleLobes)
	m.Material2.ComputeScatteringFunctions(&si2, arena, mode, allowMultipleLobes)

	bsdf1, bsdf2 := si.BSDF, si2.BSDF
	si.BSDF = arena.NewBSDF(si, 1)
	if bsdf1 == nil || bsdf2 == nil {
		return
	}
	for _, bxdf := range bsdf1.BxDFs() {
		si.BSDF.Add(&ScaledBxDF{BxDF: bxdf, Scale: s1})
	}
	for _, bxdf := range bsdf2.BxDFs() {
		si.BSDF.Add(&ScaledBxDF{BxDF: bxdf, Scale: s2})
	}
}
