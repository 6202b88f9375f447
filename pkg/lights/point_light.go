package lights

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/medium"
)

// PointLight emits uniformly in all directions from a single point
type PointLight struct {
	Position        core.Vec3
	I               core.Vec3 // Radiant intensity
	MediumInterface medium.MediumInterface
}

// NewPointLight creates a point light at position
func NewPointLight(position, intensity core.Vec3) *PointLight {
	return &PointLight{Position: position, I: intensity}
}

// Flags marks the light as a delta position light
func (l *PointLight) Flags() LightFlags { return DeltaPosition }

// NSamples is always 1; more samples of a point give the same answer
func (l *PointLight) NSamples() int { return 1 }

// Preprocess has nothing to do for point lights
func (l *PointLight) Preprocess(worldBound core.AABB) {}

// SampleLi returns the only direction toward the light, with pdf 1
func (l *PointLight) SampleLi(ref *material.Interaction, u core.Vec2) LightSample {
	toLight := l.Position.Subtract(ref.P)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return LightSample{}
	}
	return LightSample{
		Li:  l.I.Multiply(1 / distSq),
		Wi:  toLight.Normalize(),
		Pdf: 1,
		Vis: VisibilityTester{
			P0: *ref,
			P1: material.Interaction{P: l.Position, Time: ref.Time, MediumInterface: &l.MediumInterface},
		},
	}
}

// PdfLi is zero: no direction sampled elsewhere can hit a point
func (l *PointLight) PdfLi(ref *material.Interaction, wi core.Vec3) float64 { return 0 }

// SampleLe samples a uniform direction on the sphere
func (l *PointLight) SampleLe(u1, u2 core.Vec2, time float64) EmissionSample {
	d := core.UniformSampleSphere(u1)
	ray := core.NewRayAt(l.Position, d, time)
	ray.Medium = l.MediumInterface.Inside
	return EmissionSample{
		Ray:    ray,
		NLight: d,
		Le:     l.I,
		PdfPos: 1,
		PdfDir: core.UniformSpherePdf(),
	}
}

// PdfLe returns the delta position density and the uniform sphere density
func (l *PointLight) PdfLe(ray core.Ray, nLight core.Vec3) (float64, float64) {
	return 0, core.UniformSpherePdf()
}

// Le is zero; point lights cannot be hit
func (l *PointLight) Le(ray core.Ray) core.Vec3 { return core.Vec3{} }

// Power integrates the intensity over the sphere
func (l *PointLight) Power() core.Vec3 {
	return l.I.Multiply(4 * math.Pi)
}
