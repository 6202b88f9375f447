package geometry

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// areaToSolidAngle converts an area density at it, seen from ref along wi,
// into a solid angle density. Coincident points and grazing angles give 0.
func areaToSolidAngle(pdf float64, ref *material.Interaction, it *material.Interaction, wi core.Vec3) float64 {
	cos := it.N.AbsDot(wi.Negate())
	if cos == 0 {
		return 0
	}
	pdf *= ref.P.Subtract(it.P).LengthSquared() / cos
	if math.IsInf(pdf, 0) || math.IsNaN(pdf) {
		return 0
	}
	return pdf
}

// sampleRef turns an area sample of s into a solid angle sample from ref
func sampleRef(s Shape, ref *material.Interaction, u core.Vec2) (material.Interaction, float64) {
	it, pdf := s.Sample(u)
	wi := it.P.Subtract(ref.P)
	if wi.LengthSquared() == 0 {
		return it, 0
	}
	return it, areaToSolidAngle(pdf, ref, &it, wi.Normalize())
}

// pdfRef intersects the ray leaving ref along wi with s and reports the
// solid angle density of having sampled that hit. Alpha masks are ignored,
// so a masked-out emitter still reports its full density.
func pdfRef(s Shape, ref *material.Interaction, wi core.Vec3) float64 {
	ray := ref.SpawnRay(wi)
	_, isect, hit := s.Intersect(ray, false)
	if !hit {
		return 0
	}
	return areaToSolidAngle(1/s.Area(), ref, &isect.Interaction, wi)
}
