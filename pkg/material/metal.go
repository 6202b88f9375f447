package material

import (
	"github.com/df07/go-pbr-core/pkg/core"
)

// Metal is a rough conductor described by its complex index of refraction
type Metal struct {
	Eta        SpectrumTexture // Real part of the index of refraction
	K          SpectrumTexture // Absorption coefficient
	Roughness  FloatTexture    // Isotropic roughness, used when URoughness or VRoughness is nil
	URoughness FloatTexture
	VRoughness FloatTexture
	Bump       FloatTexture

	// RemapRoughness treats roughness as perceptual and maps it to the
	// distribution's alpha
	RemapRoughness bool
}

// Copper's index of refraction and absorption, reduced to RGB
var (
	CopperEta = core.NewVec3(0.200438, 0.924033, 1.10221)
	CopperK   = core.NewVec3(3.91295, 2.45285, 2.14219)
)

// NewMetal creates an isotropic metal with constant optical constants
func NewMetal(eta, k core.Vec3, roughness float64) *Metal {
	return &Metal{
		Eta:            NewConstantSpectrum(eta),
		K:              NewConstantSpectrum(k),
		Roughness:      NewConstantFloat(roughness),
		RemapRoughness: true,
	}
}

// NewCopper creates copper with the given roughness
func NewCopper(roughness float64) *Metal {
	return NewMetal(CopperEta, CopperK, roughness)
}

// ComputeScatteringFunctions implements the Material interface for glossy conductors
func (m *Metal) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	if m.Bump != nil {
		Bump(m.Bump, si)
	}
	si.BSDF = arena.NewBSDF(si, 1)

	uRough, vRough := m.roughness(si)
	if m.RemapRoughness {
		uRough = RoughnessToAlpha(uRough)
		vRough = RoughnessToAlpha(vRough)
	}
	fresnel := FresnelConductor{EtaI: core.NewSpectrum(1), EtaT: m.Eta.Evaluate(si), K: m.K.Evaluate(si)}
	si.BSDF.Add(&MicrofacetReflection{
		R:            core.NewSpectrum(1),
		Distribution: TrowbridgeReitz{AlphaX: uRough, AlphaY: vRough},
		Fresnel:      fresnel,
	})
}

func (m *Metal) roughness(si *SurfaceInteraction) (float64, float64) {
	u, v := m.URoughness, m.VRoughness
	if u == nil {
		u = m.Roughness
	}
	if v == nil {
		v = m.Roughness
	}
	return u.Evaluate(si), v.Evaluate(si)
}
