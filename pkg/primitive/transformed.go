package primitive

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// TransformedPrimitive places a shared primitive in the world through a
// possibly animated transform. Rays are moved into the child's space rather
// than copying its geometry.
type TransformedPrimitive struct {
	Primitive        Primitive
	PrimitiveToWorld *core.AnimatedTransform
}

// NewTransformedPrimitive creates an instance of p
func NewTransformedPrimitive(p Primitive, primitiveToWorld *core.AnimatedTransform) *TransformedPrimitive {
	return &TransformedPrimitive{Primitive: p, PrimitiveToWorld: primitiveToWorld}
}

// WorldBound bounds the child over the whole shutter interval
func (tp *TransformedPrimitive) WorldBound() core.AABB {
	return tp.PrimitiveToWorld.MotionBounds(tp.Primitive.WorldBound())
}

// Intersect transforms the ray into the child's space at the ray's time.
// The hit keeps the child's primitive so materials resolve on the child.
func (tp *TransformedPrimitive) Intersect(ray *core.Ray) (*material.SurfaceInteraction, bool) {
	interpolated := tp.PrimitiveToWorld.Interpolate(ray.Time)
	r := interpolated.Inverse().Ray(*ray)
	si, ok := tp.Primitive.Intersect(&r)
	if !ok {
		return nil, false
	}
	ray.TMax = r.TMax
	if interpolated.IsIdentity() {
		return si, true
	}
	return si.Transform(interpolated), true
}

// IntersectP transforms the ray and tests the child
func (tp *TransformedPrimitive) IntersectP(ray core.Ray) bool {
	interpolated := tp.PrimitiveToWorld.Interpolate(ray.Time)
	return tp.Primitive.IntersectP(interpolated.Inverse().Ray(ray))
}

// GetMaterial is always nil; hits report the child primitive instead
func (tp *TransformedPrimitive) GetMaterial() material.Material { return nil }

// GetAreaLight is always nil; instanced emitters are not supported
func (tp *TransformedPrimitive) GetAreaLight() material.AreaLight { return nil }

// ComputeScatteringFunctions is never reached through a hit, which points at
// the child. It is kept for the interface and behaves like a null surface.
func (tp *TransformedPrimitive) ComputeScatteringFunctions(si *material.SurfaceInteraction, arena *material.Arena, mode material.TransportMode, allowMultipleLobes bool) {
	checkNormals(si)
}
