package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// Mirror represents a perfect specular reflector
type Mirror struct {
	Kr SpectrumTexture // Reflectance
}

// NewMirror creates a new mirror with a solid reflectance
func NewMirror(kr core.Vec3) *Mirror {
	return &Mirror{Kr: NewConstantSpectrum(kr)}
}

// ComputeScatteringFunctions implements the Material interface for mirror reflection
func (m *Mirror) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	si.BSDF = arena.NewBSDF(si, 1)
	r := m.Kr.Evaluate(si).Clamp(0, math.Inf(1))
	if !r.IsBlack() {
		si.BSDF.Add(&SpecularReflection{R: r, Fresnel: FresnelNoOp{}})
	}
}
