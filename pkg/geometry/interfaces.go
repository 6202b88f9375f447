package geometry

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// Shape is renderable geometry in world space. Intersect reports the
// parametric distance along the ray together with the surface hit; it never
// modifies the ray.
type Shape interface {
	ObjectBound() core.AABB
	WorldBound() core.AABB
	Intersect(ray core.Ray, testAlphaTexture bool) (float64, *material.SurfaceInteraction, bool)
	IntersectP(ray core.Ray, testAlphaTexture bool) bool

	Area() float64
	// Sample picks a point uniformly by area; the pdf is per unit area
	Sample(u core.Vec2) (material.Interaction, float64)
	// SampleRef picks a point as seen from ref; the pdf is per unit solid angle
	SampleRef(ref *material.Interaction, u core.Vec2) (material.Interaction, float64)
	// PdfRef is the solid angle density of sampling direction wi from ref
	PdfRef(ref *material.Interaction, wi core.Vec3) float64
}
