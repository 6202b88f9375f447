package lights

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// maxTransmittanceSurfaces bounds the number of null surfaces a
// transmittance ray walks through
const maxTransmittanceSurfaces = 256

// VisibilityTester connects a shading point and a point on a light
type VisibilityTester struct {
	P0, P1 material.Interaction
}

// Unoccluded reports whether nothing blocks the segment between the points
func (v VisibilityTester) Unoccluded(scene Occluder) bool {
	return !scene.IntersectP(v.P0.SpawnRayToInteraction(&v.P1))
}

// Tr returns the transmittance between the points. Surfaces without a
// material only separate media and are passed through; any other surface
// blocks the segment.
func (v VisibilityTester) Tr(scene Intersector, sampler core.Sampler) core.Vec3 {
	ray := v.P0.SpawnRayToInteraction(&v.P1)
	tr := core.NewSpectrum(1)
	for i := 0; i < maxTransmittanceSurfaces; i++ {
		segment := ray
		si, hit := scene.Intersect(&segment)
		if hit && si.Primitive != nil && si.Primitive.GetMaterial() != nil {
			return core.Vec3{}
		}
		if ray.Medium != nil {
			tr = tr.MultiplyVec(ray.Medium.Tr(segment, sampler))
		}
		if !hit {
			return tr
		}
		ray = si.SpawnRayToInteraction(&v.P1)
	}
	return core.Vec3{}
}
