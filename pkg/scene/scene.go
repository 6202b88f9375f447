package scene

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/lights"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/primitive"
	"github.com/samber/lo"
)

// maxNullSurfaces bounds the surfaces without a material a single
// IntersectTr query passes through
const maxNullSurfaces = 256

// Scene contains all the elements needed for rendering. It is read-only
// once created and safe to share between render goroutines.
type Scene struct {
	Aggregate      primitive.Primitive // Acceleration structure over every primitive
	Lights         []lights.Light      // Lights in the scene
	InfiniteLights []lights.Light      // Subset of Lights reached by escaping rays

	worldBound core.AABB
}

// New creates a scene over aggregate and preprocesses every light against
// the aggregate's bounds
func New(aggregate primitive.Primitive, sceneLights []lights.Light) *Scene {
	s := &Scene{
		Aggregate:  aggregate,
		Lights:     sceneLights,
		worldBound: aggregate.WorldBound(),
	}
	for _, light := range sceneLights {
		light.Preprocess(s.worldBound)
	}
	s.InfiniteLights = lo.Filter(sceneLights, func(l lights.Light, _ int) bool {
		return l.Flags()&lights.Infinite != 0
	})
	return s
}

// WorldBound returns the bounds of all geometry in the scene
func (s *Scene) WorldBound() core.AABB {
	return s.worldBound
}

// Intersect finds the closest hit along ray and shortens ray.TMax to it
func (s *Scene) Intersect(ray *core.Ray) (*material.SurfaceInteraction, bool) {
	return s.Aggregate.Intersect(ray)
}

// IntersectP reports whether anything lies along ray
func (s *Scene) IntersectP(ray core.Ray) bool {
	return s.Aggregate.IntersectP(ray)
}

// IntersectTr finds the first surface with a material along ray,
// accumulating the transmittance of the media and null surfaces crossed
// on the way. A ray that crosses too many null surfaces is treated as
// blocked.
func (s *Scene) IntersectTr(ray core.Ray, sampler core.Sampler) (*material.SurfaceInteraction, core.Vec3, bool) {
	tr := core.NewSpectrum(1)
	for i := 0; i < maxNullSurfaces; i++ {
		si, hit := s.Intersect(&ray)
		if ray.Medium != nil {
			tr = tr.MultiplyVec(ray.Medium.Tr(ray, sampler))
		}
		if !hit {
			return nil, tr, false
		}
		if si.Primitive.GetMaterial() != nil {
			return si, tr, true
		}
		ray = si.SpawnRay(ray.Direction)
	}
	return nil, core.Vec3{}, false
}
