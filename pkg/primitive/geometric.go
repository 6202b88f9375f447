package primitive

import (
	"fmt"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/geometry"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/medium"
)

// materialOverrider is implemented by shapes that can carry their own
// material, such as mesh triangles
type materialOverrider interface {
	MaterialOverride() material.Material
}

// GeometricPrimitive is a shape with its material, optional area light and
// the media on either side of its surface
type GeometricPrimitive struct {
	Shape           geometry.Shape
	Material        material.Material  // nil marks an interface between media
	AreaLight       material.AreaLight // nil unless the shape emits
	MediumInterface medium.MediumInterface
}

// NewGeometricPrimitive creates a primitive for shape. Area lights need a
// shape with positive area to sample from.
func NewGeometricPrimitive(shape geometry.Shape, mat material.Material, areaLight material.AreaLight, mi medium.MediumInterface) (*GeometricPrimitive, error) {
	if areaLight != nil && shape.Area() <= 0 {
		return nil, fmt.Errorf("area light attached to a shape with area %g", shape.Area())
	}
	return &GeometricPrimitive{Shape: shape, Material: mat, AreaLight: areaLight, MediumInterface: mi}, nil
}

// WorldBound returns the shape's world-space bounds
func (p *GeometricPrimitive) WorldBound() core.AABB {
	return p.Shape.WorldBound()
}

// Intersect tests the shape and stamps the hit with this primitive
func (p *GeometricPrimitive) Intersect(ray *core.Ray) (*material.SurfaceInteraction, bool) {
	tHit, si, ok := p.Shape.Intersect(*ray, true)
	if !ok {
		return nil, false
	}
	ray.TMax = tHit
	si.Primitive = p

	// A surface that separates media keeps its own interface; otherwise
	// the hit sits in whatever medium the ray was travelling through
	if p.MediumInterface.IsMediumTransition() {
		si.MediumInterface = &p.MediumInterface
	} else {
		si.MediumInterface = &medium.MediumInterface{Inside: ray.Medium, Outside: ray.Medium}
	}
	return si, true
}

// IntersectP tests the shape without building an interaction
func (p *GeometricPrimitive) IntersectP(ray core.Ray) bool {
	return p.Shape.IntersectP(ray, true)
}

// GetMaterial returns the shape's own material when it carries one,
// otherwise the primitive's
func (p *GeometricPrimitive) GetMaterial() material.Material {
	if o, ok := p.Shape.(materialOverrider); ok {
		if m := o.MaterialOverride(); m != nil {
			return m
		}
	}
	return p.Material
}

// GetAreaLight returns the emitter bound to the shape, if any
func (p *GeometricPrimitive) GetAreaLight() material.AreaLight {
	return p.AreaLight
}

// ComputeScatteringFunctions asks the material for a BSDF. Materials must
// leave the shading normal in the geometric normal's hemisphere; a violation
// panics with material.ErrNormalInvariant.
func (p *GeometricPrimitive) ComputeScatteringFunctions(si *material.SurfaceInteraction, arena *material.Arena, mode material.TransportMode, allowMultipleLobes bool) {
	if m := p.GetMaterial(); m != nil {
		m.ComputeScatteringFunctions(si, arena, mode, allowMultipleLobes)
	}
	checkNormals(si)
}

func checkNormals(si *material.SurfaceInteraction) {
	if si.N.Dot(si.Shading.N) < 0 {
		panic(fmt.Errorf("%w: n=%v shading n=%v", material.ErrNormalInvariant, si.N, si.Shading.N))
	}
}
