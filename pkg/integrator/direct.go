package integrator

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/lights"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/scene"
)

// UniformSampleOneLight estimates direct lighting at it from a single light
// chosen by distrib, or uniformly when distrib is nil. The estimate is
// divided by the probability of the chosen light.
func UniformSampleOneLight(it *material.SurfaceInteraction, s *scene.Scene, arena *material.Arena,
	sampler core.Sampler, handleMedia bool, distrib *core.Distribution1D) core.Vec3 {
	nLights := len(s.Lights)
	if nLights == 0 {
		return core.Vec3{}
	}

	var lightNum int
	var lightPdf float64
	if distrib != nil {
		lightNum, lightPdf, _ = distrib.SampleDiscrete(sampler.Get1D())
		if lightPdf == 0 {
			return core.Vec3{}
		}
	} else {
		lightNum = min(int(sampler.Get1D()*float64(nLights)), nLights-1)
		lightPdf = 1 / float64(nLights)
	}

	light := s.Lights[lightNum]
	uLight := sampler.Get2D()
	uScattering := sampler.Get2D()
	ld := EstimateDirect(it, uScattering, light, uLight, s, sampler, arena, handleMedia, false)
	return ld.Multiply(1 / lightPdf)
}

// EstimateDirect combines one light sample and one BSDF sample with the
// power heuristic. Delta lights are only reachable by light sampling. When
// specular is false, specular lobes are left to the path's own bounces.
func EstimateDirect(it *material.SurfaceInteraction, uScattering core.Vec2, light lights.Light, uLight core.Vec2,
	s *scene.Scene, sampler core.Sampler, arena *material.Arena, handleMedia, specular bool) core.Vec3 {
	bsdfFlags := material.BSDFAll
	if !specular {
		bsdfFlags &^= material.BSDFSpecular
	}
	bsdf := it.BSDF
	var ld core.Vec3

	// Sample the light
	ls := light.SampleLi(&it.Interaction, uLight)
	if ls.Pdf > 0 && !ls.Li.IsBlack() {
		f := bsdf.F(it.Wo, ls.Wi, bsdfFlags).Multiply(ls.Wi.AbsDot(it.Shading.N))
		scatteringPdf := bsdf.Pdf(it.Wo, ls.Wi, bsdfFlags)
		if !f.IsBlack() {
			li := ls.Li
			if handleMedia {
				li = li.MultiplyVec(ls.Vis.Tr(s, sampler))
			} else if !ls.Vis.Unoccluded(s) {
				li = core.Vec3{}
			}
			if !li.IsBlack() {
				if light.Flags().IsDelta() {
					ld = ld.Add(f.MultiplyVec(li).Multiply(1 / ls.Pdf))
				} else {
					weight := core.PowerHeuristic(1, ls.Pdf, 1, scatteringPdf)
					ld = ld.Add(f.MultiplyVec(li).Multiply(weight / ls.Pdf))
				}
			}
		}
	}

	if light.Flags().IsDelta() {
		return ld
	}

	// Sample the BSDF
	f, wi, scatteringPdf, sampledType := bsdf.SampleF(it.Wo, uScattering, bsdfFlags)
	f = f.Multiply(wi.AbsDot(it.Shading.N))
	if f.IsBlack() || scatteringPdf <= 0 {
		return ld
	}
	weight := 1.0
	if !sampledType.Has(material.BSDFSpecular) {
		lightPdf := light.PdfLi(&it.Interaction, wi)
		if lightPdf == 0 {
			return ld
		}
		weight = core.PowerHeuristic(1, scatteringPdf, 1, lightPdf)
	}

	ray := it.SpawnRay(wi)
	tr := core.NewSpectrum(1)
	var lightIsect *material.SurfaceInteraction
	var found bool
	if handleMedia {
		lightIsect, tr, found = s.IntersectTr(ray, sampler)
	} else {
		lightIsect, found = s.Intersect(&ray)
	}

	var li core.Vec3
	if found {
		if area, ok := light.(material.AreaLight); ok && lightIsect.Primitive.GetAreaLight() == area {
			li = lightIsect.Le(wi.Negate())
		}
	} else {
		li = light.Le(ray)
	}
	if !li.IsBlack() {
		ld = ld.Add(f.MultiplyVec(li).MultiplyVec(tr).Multiply(weight / scatteringPdf))
	}
	return ld
}
