package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// MaxBxDFs is the number of lobes a BSDF can hold
const MaxBxDFs = 8

// BSDF is a collection of BxDF lobes in the shading frame of one surface
// point. Directions passed in and out are in world space.
type BSDF struct {
	Eta float64 // Relative index of refraction across the boundary, 1 for opaque surfaces

	ns, ng core.Vec3
	ss, ts core.Vec3

	bxdfs  [MaxBxDFs]BxDF
	nBxDFs int
}

// NewBSDF creates an empty BSDF for si. Prefer Arena.NewBSDF in render loops.
func NewBSDF(si *SurfaceInteraction, eta float64) *BSDF {
	b := &BSDF{}
	b.init(si, eta)
	return b
}

func (b *BSDF) init(si *SurfaceInteraction, eta float64) {
	b.Eta = eta
	b.ns = si.Shading.N
	b.ng = si.N

	// Orthonormal frame around the shading normal, aligned with dpdu
	ss := si.Shading.Dpdu.Subtract(b.ns.Multiply(b.ns.Dot(si.Shading.Dpdu)))
	if ss.LengthSquared() == 0 {
		b.ss, b.ts = core.CoordinateSystem(b.ns)
	} else {
		b.ss = ss.Normalize()
		b.ts = b.ns.Cross(b.ss)
	}
	b.nBxDFs = 0
}

// Add appends a lobe; more than MaxBxDFs lobes panics
func (b *BSDF) Add(bxdf BxDF) {
	if b.nBxDFs >= MaxBxDFs {
		panic(fmt.Sprintf("BSDF holds at most %d BxDFs", MaxBxDFs))
	}
	b.bxdfs[b.nBxDFs] = bxdf
	b.nBxDFs++
}

// BxDFs returns the lobes held by the BSDF
func (b *BSDF) BxDFs() []BxDF {
	return b.bxdfs[:b.nBxDFs]
}

// NumComponents counts the lobes whose type matches flags
func (b *BSDF) NumComponents(flags BxDFType) int {
	n := 0
	for i := 0; i < b.nBxDFs; i++ {
		if b.bxdfs[i].Type().MatchesFlags(flags) {
			n++
		}
	}
	return n
}

// WorldToLocal expresses v in the shading frame
func (b *BSDF) WorldToLocal(v core.Vec3) core.Vec3 {
	return core.NewVec3(v.Dot(b.ss), v.Dot(b.ts), v.Dot(b.ns))
}

// LocalToWorld expresses a shading-frame vector in world space
func (b *BSDF) LocalToWorld(v core.Vec3) core.Vec3 {
	return b.ss.Multiply(v.X).Add(b.ts.Multiply(v.Y)).Add(b.ns.Multiply(v.Z))
}

// F evaluates the lobes matching flags. Reflection versus transmission is
// decided by the geometric normal so that shading normals cannot leak
// light through the surface.
func (b *BSDF) F(woW, wiW core.Vec3, flags BxDFType) core.Vec3 {
	wi := b.WorldToLocal(wiW)
	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return core.Vec3{}
	}
	reflect := wiW.Dot(b.ng)*woW.Dot(b.ng) > 0

	var f core.Vec3
	for i := 0; i < b.nBxDFs; i++ {
		bxdf := b.bxdfs[i]
		t := bxdf.Type()
		if !t.MatchesFlags(flags) {
			continue
		}
		if (reflect && t.Has(BSDFReflection)) || (!reflect && t.Has(BSDFTransmission)) {
			f = f.Add(bxdf.F(wo, wi))
		}
	}
	return f
}

// SampleF picks one matching lobe with u.X, samples it and returns the
// BSDF value, the world-space incident direction, the combined pdf and the
// sampled lobe type. A zero pdf means no direction was produced.
func (b *BSDF) SampleF(woW core.Vec3, u core.Vec2, flags BxDFType) (core.Vec3, core.Vec3, float64, BxDFType) {
	matching := b.NumComponents(flags)
	if matching == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	comp := min(int(math.Floor(u.X*float64(matching))), matching-1)

	// Find the comp-th matching lobe
	var bxdf BxDF
	count := comp
	for i := 0; i < b.nBxDFs; i++ {
		if b.bxdfs[i].Type().MatchesFlags(flags) {
			if count == 0 {
				bxdf = b.bxdfs[i]
				break
			}
			count--
		}
	}

	// Remap the sample to [0,1)^2 within the chosen lobe
	uRemapped := core.NewVec2(math.Min(u.X*float64(matching)-float64(comp), core.OneMinusEpsilon), u.Y)

	wo := b.WorldToLocal(woW)
	if wo.Z == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	f, wi, pdf, sampledType := bxdf.SampleF(wo, uRemapped)
	if pdf == 0 {
		return core.Vec3{}, core.Vec3{}, 0, 0
	}
	wiW := b.LocalToWorld(wi)

	// Add the pdfs of the other matching lobes unless this one is a delta
	if !bxdf.Type().Has(BSDFSpecular) && matching > 1 {
		for i := 0; i < b.nBxDFs; i++ {
			if b.bxdfs[i] != bxdf && b.bxdfs[i].Type().MatchesFlags(flags) {
				pdf += b.bxdfs[i].Pdf(wo, wi)
			}
		}
	}
	if matching > 1 {
		pdf /= float64(matching)
	}

	// Non-delta lobes see the full BSDF value
	if !bxdf.Type().Has(BSDFSpecular) {
		reflect := wiW.Dot(b.ng)*woW.Dot(b.ng) > 0
		f = core.Vec3{}
		for i := 0; i < b.nBxDFs; i++ {
			t := b.bxdfs[i].Type()
			if t.MatchesFlags(flags) &&
				((reflect && t.Has(BSDFReflection)) || (!reflect && t.Has(BSDFTransmission))) {
				f = f.Add(b.bxdfs[i].F(wo, wi))
			}
		}
	}
	return f, wiW, pdf, sampledType
}

// Pdf returns the average pdf of the matching lobes for sampling wiW
func (b *BSDF) Pdf(woW, wiW core.Vec3, flags BxDFType) float64 {
	if b.nBxDFs == 0 {
		return 0
	}
	wo := b.WorldToLocal(woW)
	wi := b.WorldToLocal(wiW)
	if wo.Z == 0 {
		return 0
	}
	pdf := 0.0
	matching := 0
	for i := 0; i < b.nBxDFs; i++ {
		if b.bxdfs[i].Type().MatchesFlags(flags) {
			matching++
			pdf += b.bxdfs[i].Pdf(wo, wi)
		}
	}
	if matching == 0 {
		return 0
	}
	return pdf / float64(matching)
}
