// Package primitive binds shapes to materials and lights, places shared
// geometry in the world through instancing, and groups primitives into an
// acceleration structure.
package primitive

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// Primitive is anything a ray can hit in the scene: a single shape with a
// material, a transformed instance of another primitive, or an aggregate.
type Primitive interface {
	material.Primitive

	WorldBound() core.AABB
	// Intersect finds the closest hit within ray.TMax and shortens ray.TMax
	// to its distance
	Intersect(ray *core.Ray) (*material.SurfaceInteraction, bool)
	// IntersectP reports whether anything is hit within ray.TMax
	IntersectP(ray core.Ray) bool
}
