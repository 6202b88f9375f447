package lights

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/geometry"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/medium"
)

// DiffuseAreaLight emits constant radiance from the surface of a shape,
// on the side its normal faces or on both sides
type DiffuseAreaLight struct {
	Lemit           core.Vec3
	Shape           geometry.Shape
	TwoSided        bool
	MediumInterface medium.MediumInterface

	nSamples int
	area     float64
}

// NewDiffuseAreaLight creates an area light on shape
func NewDiffuseAreaLight(lemit core.Vec3, shape geometry.Shape, nSamples int, twoSided bool) *DiffuseAreaLight {
	if nSamples < 1 {
		nSamples = 1
	}
	return &DiffuseAreaLight{
		Lemit:    lemit,
		Shape:    shape,
		TwoSided: twoSided,
		nSamples: nSamples,
		area:     shape.Area(),
	}
}

// Flags marks the light as an area light
func (l *DiffuseAreaLight) Flags() LightFlags { return Area }

// NSamples returns the requested number of shadow samples
func (l *DiffuseAreaLight) NSamples() int { return l.nSamples }

// Preprocess has nothing to do for area lights
func (l *DiffuseAreaLight) Preprocess(worldBound core.AABB) {}

// L returns the radiance leaving surface point it in direction w
func (l *DiffuseAreaLight) L(it *material.Interaction, w core.Vec3) core.Vec3 {
	if l.TwoSided || it.N.Dot(w) > 0 {
		return l.Lemit
	}
	return core.Vec3{}
}

// SampleLi samples a point on the shape as seen from ref
func (l *DiffuseAreaLight) SampleLi(ref *material.Interaction, u core.Vec2) LightSample {
	pShape, pdf := l.Shape.SampleRef(ref, u)
	pShape.MediumInterface = &l.MediumInterface
	toLight := pShape.P.Subtract(ref.P)
	if pdf == 0 || toLight.LengthSquared() == 0 {
		return LightSample{}
	}
	wi := toLight.Normalize()
	return LightSample{
		Li:  l.L(&pShape, wi.Negate()),
		Wi:  wi,
		Pdf: pdf,
		Vis: VisibilityTester{P0: *ref, P1: pShape},
	}
}

// PdfLi returns the shape's solid angle density for wi
func (l *DiffuseAreaLight) PdfLi(ref *material.Interaction, wi core.Vec3) float64 {
	return l.Shape.PdfRef(ref, wi)
}

// SampleLe samples a point uniformly on the shape and a cosine-weighted
// direction around its normal, on either side when two-sided
func (l *DiffuseAreaLight) SampleLe(u1, u2 core.Vec2, time float64) EmissionSample {
	pShape, pdfPos := l.Shape.Sample(u1)
	pShape.Time = time
	pShape.MediumInterface = &l.MediumInterface

	var w core.Vec3
	var pdfDir float64
	if l.TwoSided {
		u := u2
		if u.X < 0.5 {
			u.X = math.Min(u.X*2, core.OneMinusEpsilon)
			w = core.CosineSampleHemisphere(u)
		} else {
			u.X = math.Min((u.X-0.5)*2, core.OneMinusEpsilon)
			w = core.CosineSampleHemisphere(u)
			w.Z = -w.Z
		}
		pdfDir = 0.5 * core.CosineHemispherePdf(math.Abs(w.Z))
	} else {
		w = core.CosineSampleHemisphere(u2)
		pdfDir = core.CosineHemispherePdf(w.Z)
	}

	n := pShape.N
	v1, v2 := core.CoordinateSystem(n)
	w = v1.Multiply(w.X).Add(v2.Multiply(w.Y)).Add(n.Multiply(w.Z))
	return EmissionSample{
		Ray:    pShape.SpawnRay(w),
		NLight: n,
		Le:     l.L(&pShape, w),
		PdfPos: pdfPos,
		PdfDir: pdfDir,
	}
}

// PdfLe returns the densities SampleLe would produce for ray
func (l *DiffuseAreaLight) PdfLe(ray core.Ray, nLight core.Vec3) (float64, float64) {
	pdfPos := 1 / l.area
	if l.TwoSided {
		return pdfPos, 0.5 * core.CosineHemispherePdf(nLight.AbsDot(ray.Direction))
	}
	return pdfPos, core.CosineHemispherePdf(nLight.Dot(ray.Direction))
}

// Le is zero; area lights are found by hitting their shape
func (l *DiffuseAreaLight) Le(ray core.Ray) core.Vec3 { return core.Vec3{} }

// Power returns the emitted power, doubled for two-sided emitters
func (l *DiffuseAreaLight) Power() core.Vec3 {
	sides := 1.0
	if l.TwoSided {
		sides = 2
	}
	return l.Lemit.Multiply(sides * l.area * math.Pi)
}
