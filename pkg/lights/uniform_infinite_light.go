package lights

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// UniformInfiniteLight represents a uniform infinite area light (constant emission in all directions)
type UniformInfiniteLight struct {
	emission    core.Vec3 // Uniform emission color
	worldCenter core.Vec3 // Finite scene center, set by Preprocess
	worldRadius float64   // Finite scene radius, set by Preprocess
}

// NewUniformInfiniteLight creates a new uniform infinite light
func NewUniformInfiniteLight(emission core.Vec3) *UniformInfiniteLight {
	return &UniformInfiniteLight{emission: emission}
}

// Flags marks the light as infinite
func (uil *UniformInfiniteLight) Flags() LightFlags { return Infinite }

// NSamples returns one shadow sample
func (uil *UniformInfiniteLight) NSamples() int { return 1 }

// Preprocess records the scene's bounding sphere
func (uil *UniformInfiniteLight) Preprocess(worldBound core.AABB) {
	uil.worldCenter, uil.worldRadius = worldBound.BoundingSphere()
}

// SampleLi samples a direction uniformly over the sphere. The visibility
// endpoint sits outside the scene's bounding sphere.
func (uil *UniformInfiniteLight) SampleLi(ref *material.Interaction, u core.Vec2) LightSample {
	wi := core.UniformSampleSphere(u)
	far := ref.P.Add(wi.Multiply(2 * math.Max(uil.worldRadius, 1)))
	return LightSample{
		Li:  uil.emission,
		Wi:  wi,
		Pdf: core.UniformSpherePdf(),
		Vis: VisibilityTester{P0: *ref, P1: material.Interaction{P: far, Time: ref.Time}},
	}
}

// PdfLi is the uniform sphere density
func (uil *UniformInfiniteLight) PdfLi(ref *material.Interaction, wi core.Vec3) float64 {
	return core.UniformSpherePdf()
}

// SampleLe samples parallel rays entering the scene's bounding sphere
func (uil *UniformInfiniteLight) SampleLe(u1, u2 core.Vec2, time float64) EmissionSample {
	es := sampleInfiniteLe(uil.worldCenter, uil.worldRadius, u1, u2, time)
	es.Le = uil.emission
	return es
}

// PdfLe returns the planar position density and uniform direction density
func (uil *UniformInfiniteLight) PdfLe(ray core.Ray, nLight core.Vec3) (float64, float64) {
	if uil.worldRadius <= 0 {
		return 0, core.UniformSpherePdf()
	}
	return 1 / (math.Pi * uil.worldRadius * uil.worldRadius), core.UniformSpherePdf()
}

// Le returns the constant emission for every escaped ray
func (uil *UniformInfiniteLight) Le(ray core.Ray) core.Vec3 {
	return uil.emission
}

// Power is the flux through the scene's bounding disk
func (uil *UniformInfiniteLight) Power() core.Vec3 {
	return uil.emission.Multiply(math.Pi * uil.worldRadius * uil.worldRadius)
}
