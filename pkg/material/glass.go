package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// Glass represents a transparent material like glass that can both reflect and refract
type Glass struct {
	Kr  SpectrumTexture // Reflection tint
	Kt  SpectrumTexture // Transmission tint
	Eta float64         // Index of refraction (e.g., 1.5 for glass)
}

// NewGlass creates clear glass with the given index of refraction
func NewGlass(eta float64) *Glass {
	white := NewConstantSpectrum(core.NewSpectrum(1))
	return &Glass{Kr: white, Kt: white, Eta: eta}
}

// ComputeScatteringFunctions implements the Material interface for dielectric scattering.
// With allowMultipleLobes the two specular lobes are merged into one
// FresnelSpecular lobe that picks between them by reflectance.
func (g *Glass) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	si.BSDF = arena.NewBSDF(si, g.Eta)

	r := g.Kr.Evaluate(si).Clamp(0, math.Inf(1))
	t := g.Kt.Evaluate(si).Clamp(0, math.Inf(1))
	if r.IsBlack() && t.IsBlack() {
		return
	}

	if allowMultipleLobes {
		si.BSDF.Add(&FresnelSpecular{R: r, T: t, EtaA: 1, EtaB: g.Eta, Mode: mode})
		return
	}
	if !r.IsBlack() {
		si.BSDF.Add(&SpecularReflection{R: r, Fresnel: FresnelDielectric{EtaI: 1, EtaT: g.Eta}})
	}
	if !t.IsBlack() {
		si.BSDF.Add(NewSpecularTransmission(t, 1, g.Eta, mode))
	}
}
