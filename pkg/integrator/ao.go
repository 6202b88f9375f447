package integrator

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/scene"
)

// AOIntegrator renders ambient occlusion: the fraction of the hemisphere
// above each visible point that is open to the sky, cosine weighted
type AOIntegrator struct {
	CosSample bool // Cosine-weighted instead of uniform hemisphere samples
	NSamples  int  // Occlusion rays per camera ray
}

// NewAOIntegrator creates an ambient occlusion integrator
func NewAOIntegrator(cosSample bool, nSamples int) *AOIntegrator {
	return &AOIntegrator{CosSample: cosSample, NSamples: max(1, nSamples)}
}

// Preprocess requests the per-sample array of hemisphere samples
func (ao *AOIntegrator) Preprocess(s *scene.Scene, sampler core.Sampler) error {
	ao.NSamples = sampler.Request2DArray(ao.NSamples)
	return nil
}

// Li returns π for a fully open point and 0 for a fully occluded one
func (ao *AOIntegrator) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *material.Arena) core.Vec3 {
	defer arena.Reset()

	for crossings := 0; ; crossings++ {
		si, hit := s.Intersect(&ray)
		if !hit {
			return core.Vec3{}
		}
		si.ComputeScatteringFunctions(arena, material.Radiance, true)
		if si.BSDF == nil {
			if crossings >= DefaultPathConfig().MaxNullSurfaceCrossings {
				return core.Vec3{}
			}
			ray = si.SpawnRay(ray.Direction)
			continue
		}
		return core.NewSpectrum(ao.occlusion(si, ray, s, sampler))
	}
}

// occlusion integrates visibility over the hemisphere around the true
// geometric normal, facing the incoming ray
func (ao *AOIntegrator) occlusion(si *material.SurfaceInteraction, ray core.Ray, s *scene.Scene, sampler core.Sampler) float64 {
	n := si.N.FaceForward(ray.Direction.Negate())
	var ss, ts core.Vec3
	if si.Dpdu.LengthSquared() > 0 {
		ss = si.Dpdu.Normalize()
		ts = si.N.Cross(ss)
	} else {
		ss, ts = core.CoordinateSystem(n)
	}

	u := sampler.Get2DArray(ao.NSamples)
	l := 0.0
	for i := range u {
		var wi core.Vec3
		var pdf float64
		if ao.CosSample {
			wi = core.CosineSampleHemisphere(u[i])
			pdf = core.CosineHemispherePdf(wi.Z)
		} else {
			wi = core.UniformSampleHemisphere(u[i])
			pdf = core.UniformHemispherePdf()
		}
		if pdf == 0 {
			continue
		}
		wi = ss.Multiply(wi.X).Add(ts.Multiply(wi.Y)).Add(n.Multiply(wi.Z))
		if !s.IntersectP(si.SpawnRay(wi)) {
			l += wi.Dot(n) / (pdf * float64(len(u)))
		}
	}
	return l
}
