package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// Matte represents a perfectly diffuse material
type Matte struct {
	Kd   SpectrumTexture // Base color/reflectance (can be solid or textured)
	Bump FloatTexture    // Optional displacement for bump mapping
}

// NewMatte creates a new matte material with solid color
func NewMatte(kd core.Vec3) *Matte {
	return &Matte{Kd: NewConstantSpectrum(kd)}
}

// NewTexturedMatte creates a new matte material with texture
func NewTexturedMatte(kd SpectrumTexture) *Matte {
	return &Matte{Kd: kd}
}

// ComputeScatteringFunctions implements the Material interface for diffuse scattering
func (m *Matte) ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	if m.Bump != nil {
		Bump(m.Bump, si)
	}
	si.BSDF = arena.NewBSDF(si, 1)

	// Sample texture at UV coordinates to get albedo
	r := m.Kd.Evaluate(si).Clamp(0, math.Inf(1))
	if !r.IsBlack() {
		si.BSDF.Add(&LambertianReflection{R: r})
	}
}

// bumpDelta is the finite-difference step in u and v for bump mapping
const bumpDelta = 0.0005

// Bump perturbs si's shading geometry by the displacement texture d,
// estimating its derivatives by forward differences in u and v
func Bump(d FloatTexture, si *SurfaceInteraction) {
	displace := d.Evaluate(si)

	// Shift in u
	siEval := *si
	siEval.P = si.P.Add(si.Shading.Dpdu.Multiply(bumpDelta))
	siEval.UV = si.UV.Add(core.NewVec2(bumpDelta, 0))
	siEval.N = si.Shading.Dpdu.Cross(si.Shading.Dpdv).Add(si.Dndu.Multiply(bumpDelta)).Normalize()
	uDisplace := d.Evaluate(&siEval)

	// Shift in v
	siEval.P = si.P.Add(si.Shading.Dpdv.Multiply(bumpDelta))
	siEval.UV = si.UV.Add(core.NewVec2(0, bumpDelta))
	siEval.N = si.Shading.Dpdu.Cross(si.Shading.Dpdv).Add(si.Dndv.Multiply(bumpDelta)).Normalize()
	vDisplace := d.Evaluate(&siEval)

	dpdu := si.Shading.Dpdu.
		Add(si.Shading.N.Multiply((uDisplace - displace) / bumpDelta)).
		Add(si.Shading.Dndu.Multiply(displace))
	dpdv := si.Shading.Dpdv.
		Add(si.Shading.N.Multiply((vDisplace - displace) / bumpDelta)).
		Add(si.Shading.Dndv.Multiply(displace))

	si.SetShadingGeometry(dpdu, dpdv, si.Shading.Dndu, si.Shading.Dndv, false)
}
