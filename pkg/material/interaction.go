package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/medium"
)

// Interaction is a point where light scatters, on a surface or in a medium
type Interaction struct {
	P      core.Vec3 // Position
	PError core.Vec3 // Conservative bound on the absolute error in P
	Wo     core.Vec3 // Outgoing direction, toward the ray origin
	N      core.Vec3 // Geometric normal, zero for medium interactions
	Time   float64

	// MediumInterface is set on surfaces that separate media. When nil,
	// Medium is the medium the point sits in.
	MediumInterface *medium.MediumInterface
	Medium          core.Medium
}

// IsSurfaceInteraction reports whether the interaction lies on a surface
func (it *Interaction) IsSurfaceInteraction() bool {
	return !it.N.IsBlack()
}

// GetMedium returns the medium a ray leaving in direction w travels through
func (it *Interaction) GetMedium(w core.Vec3) core.Medium {
	if it.MediumInterface != nil {
		if w.Dot(it.N) > 0 {
			return it.MediumInterface.Outside
		}
		return it.MediumInterface.Inside
	}
	return it.Medium
}

// SpawnRay starts a ray in direction d that cannot re-hit this surface
func (it *Interaction) SpawnRay(d core.Vec3) core.Ray {
	o := core.OffsetRayOrigin(it.P, it.PError, it.N, d)
	return core.Ray{Origin: o, Direction: d, TMax: math.Inf(1), Time: it.Time, Medium: it.GetMedium(d)}
}

// SpawnRayTo returns a ray toward p2 that stops just short of it
func (it *Interaction) SpawnRayTo(p2 core.Vec3) core.Ray {
	o := core.OffsetRayOrigin(it.P, it.PError, it.N, p2.Subtract(it.P))
	d := p2.Subtract(o)
	return core.Ray{Origin: o, Direction: d, TMax: 1 - core.ShadowEpsilon, Time: it.Time, Medium: it.GetMedium(d)}
}

// SpawnRayToInteraction returns a ray between two interactions, offset at
// both ends so neither surface is hit
func (it *Interaction) SpawnRayToInteraction(other *Interaction) core.Ray {
	po := core.OffsetRayOrigin(it.P, it.PError, it.N, other.P.Subtract(it.P))
	pt := core.OffsetRayOrigin(other.P, other.PError, other.N, po.Subtract(other.P))
	d := pt.Subtract(po)
	return core.Ray{Origin: po, Direction: d, TMax: 1 - core.ShadowEpsilon, Time: it.Time, Medium: it.GetMedium(d)}
}

// Shading holds the perturbed geometry used for shading
type Shading struct {
	N    core.Vec3
	Dpdu core.Vec3
	Dpdv core.Vec3
	Dndu core.Vec3
	Dndv core.Vec3
}

// SurfaceInteraction is a ray hit on a surface. Its geometric normal N and
// shading normal Shading.N always lie in the same hemisphere.
type SurfaceInteraction struct {
	Interaction

	UV         core.Vec2
	Dpdu, Dpdv core.Vec3
	Dndu, Dndv core.Vec3
	Shading    Shading

	Primitive Primitive // Set by the primitive that was hit
	BSDF      *BSDF     // Set by ComputeScatteringFunctions, nil for null surfaces
	BSSRDF    BSSRDF
	FaceIndex int

	flipNormal bool
}

// NewSurfaceInteraction creates a surface hit whose geometric normal is
// dpdu x dpdv, negated when flipNormal is set (reversed orientation or a
// handedness-swapping transform)
func NewSurfaceInteraction(p, pError core.Vec3, uv core.Vec2, wo, dpdu, dpdv, dndu, dndv core.Vec3,
	time float64, flipNormal bool, faceIndex int) *SurfaceInteraction {
	n := dpdu.Cross(dpdv).Normalize()
	if flipNormal {
		n = n.Negate()
	}
	return &SurfaceInteraction{
		Interaction: Interaction{P: p, PError: pError, Wo: wo, N: n, Time: time},
		UV:          uv,
		Dpdu:        dpdu,
		Dpdv:        dpdv,
		Dndu:        dndu,
		Dndv:        dndv,
		Shading:     Shading{N: n, Dpdu: dpdu, Dpdv: dpdv, Dndu: dndu, Dndv: dndv},
		FaceIndex:   faceIndex,
		flipNormal:  flipNormal,
	}
}

// SetShadingGeometry installs shading derivatives. When
// orientationIsAuthoritative the geometric normal is flipped toward the
// new shading normal, otherwise the shading normal is flipped toward the
// geometric one.
func (si *SurfaceInteraction) SetShadingGeometry(dpdus, dpdvs, dndus, dndvs core.Vec3, orientationIsAuthoritative bool) {
	ns := dpdus.Cross(dpdvs).Normalize()
	if si.flipNormal {
		ns = ns.Negate()
	}
	if orientationIsAuthoritative {
		si.N = si.N.FaceForward(ns)
	} else {
		ns = ns.FaceForward(si.N)
	}
	si.Shading = Shading{N: ns, Dpdu: dpdus, Dpdv: dpdvs, Dndu: dndus, Dndv: dndvs}
}

// ComputeScatteringFunctions asks the hit primitive to fill in BSDF and BSSRDF
func (si *SurfaceInteraction) ComputeScatteringFunctions(arena *Arena, mode TransportMode, allowMultipleLobes bool) {
	if si.Primitive == nil {
		return
	}
	si.Primitive.ComputeScatteringFunctions(si, arena, mode, allowMultipleLobes)
}

// Le returns emitted radiance in direction w if the hit surface is an area light
func (si *SurfaceInteraction) Le(w core.Vec3) core.Vec3 {
	if si.Primitive == nil {
		return core.Vec3{}
	}
	area := si.Primitive.GetAreaLight()
	if area == nil {
		return core.Vec3{}
	}
	return area.L(&si.Interaction, w)
}

// Transform re-expresses the interaction through t. The error bound on P
// grows to account for the transform's own rounding.
func (si *SurfaceInteraction) Transform(t core.Transform) *SurfaceInteraction {
	out := *si
	out.P, out.PError = t.PointWithAbsError(si.P, si.PError)
	out.N = t.Normal(si.N).Normalize()
	out.Wo = t.Vector(si.Wo).Normalize()
	out.Dpdu = t.Vector(si.Dpdu)
	out.Dpdv = t.Vector(si.Dpdv)
	out.Dndu = t.Normal(si.Dndu)
	out.Dndv = t.Normal(si.Dndv)
	out.Shading = Shading{
		N:    t.Normal(si.Shading.N).Normalize(),
		Dpdu: t.Vector(si.Shading.Dpdu),
		Dpdv: t.Vector(si.Shading.Dpdv),
		Dndu: t.Normal(si.Shading.Dndu),
		Dndv: t.Normal(si.Shading.Dndv),
	}
	out.Shading.N = out.Shading.N.FaceForward(out.N)
	if t.SwapsHandedness() {
		out.flipNormal = !si.flipNormal
	}
	return &out
}
