package geometry

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// Sphere is a full sphere given directly in world space. u runs around the
// Z axis starting at +X, v from the -Z pole (0) to the +Z pole (1).
type Sphere struct {
	Center             core.Vec3
	Radius             float64
	ReverseOrientation bool // Normals point inward
}

// NewSphere creates a sphere. A non-positive radius is a programming error.
func NewSphere(center core.Vec3, radius float64) *Sphere {
	if radius <= 0 {
		panic("sphere radius must be positive")
	}
	return &Sphere{Center: center, Radius: radius}
}

// ObjectBound is the bound around the origin-centered sphere
func (s *Sphere) ObjectBound() core.AABB {
	r := core.NewSpectrum(s.Radius)
	return core.NewAABB(r.Negate(), r)
}

func (s *Sphere) WorldBound() core.AABB {
	r := core.NewSpectrum(s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// intersect returns the nearest root of the ray-sphere quadratic beyond the
// rounding error of a ray leaving the surface
func (s *Sphere) intersect(ray core.Ray) (float64, bool) {
	o := ray.Origin.Subtract(s.Center)
	d := ray.Direction
	a := d.LengthSquared()
	if a == 0 {
		return 0, false
	}
	b := 2 * d.Dot(o)
	c := o.LengthSquared() - s.Radius*s.Radius

	// Discriminant from the closest approach to the center, which loses
	// less precision than b^2 - 4ac for distant origins
	closest := o.Subtract(d.Multiply(b / (2 * a))).Length()
	discrim := 4 * a * (s.Radius + closest) * (s.Radius - closest)
	if discrim < 0 {
		return 0, false
	}
	root := math.Sqrt(discrim)
	q := -0.5 * (b + root)
	if b < 0 {
		q = -0.5 * (b - root)
	}
	if q == 0 {
		return 0, false
	}
	t0, t1 := q/a, c/q
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	deltaT := core.Gamma(7) * (o.Length() + s.Radius) / math.Sqrt(a)
	if t0 > ray.TMax || t1 <= deltaT {
		return 0, false
	}
	tHit := t0
	if tHit <= deltaT {
		tHit = t1
		if tHit > ray.TMax {
			return 0, false
		}
	}
	return tHit, true
}

// Intersect returns the closest hit within ray.TMax. Spheres carry no alpha
// mask, so testAlphaTexture has no effect.
func (s *Sphere) Intersect(ray core.Ray, testAlphaTexture bool) (float64, *material.SurfaceInteraction, bool) {
	tHit, ok := s.intersect(ray)
	if !ok {
		return 0, nil, false
	}

	// Project the hit back onto the surface
	pLocal := ray.At(tHit).Subtract(s.Center)
	pLocal = pLocal.Multiply(s.Radius / pLocal.Length())
	if pLocal.X == 0 && pLocal.Y == 0 {
		pLocal.X = 1e-5 * s.Radius
	}
	phi := math.Atan2(pLocal.Y, pLocal.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	cosTheta := math.Max(-1, math.Min(1, pLocal.Z/s.Radius))
	theta := math.Acos(cosTheta)
	uv := core.NewVec2(phi/(2*math.Pi), 1-theta/math.Pi)

	zRadius := math.Sqrt(pLocal.X*pLocal.X + pLocal.Y*pLocal.Y)
	cosPhi, sinPhi := pLocal.X/zRadius, pLocal.Y/zRadius
	dpdu := core.NewVec3(-2*math.Pi*pLocal.Y, 2*math.Pi*pLocal.X, 0)
	dpdv := core.NewVec3(-pLocal.Z*cosPhi, -pLocal.Z*sinPhi, s.Radius*math.Sin(theta)).Multiply(math.Pi)
	// The normal is p/r, so its derivatives are the position's scaled by 1/r
	dndu := dpdu.Multiply(1 / s.Radius)
	dndv := dpdv.Multiply(1 / s.Radius)

	pError := pLocal.Abs().Multiply(core.Gamma(5))
	si := material.NewSurfaceInteraction(s.Center.Add(pLocal), pError, uv, ray.Direction.Negate(),
		dpdu, dpdv, dndu, dndv, ray.Time, s.ReverseOrientation, 0)
	return tHit, si, true
}

func (s *Sphere) IntersectP(ray core.Ray, testAlphaTexture bool) bool {
	_, ok := s.intersect(ray)
	return ok
}

// Sample picks a point uniformly over the surface
func (s *Sphere) Sample(u core.Vec2) (material.Interaction, float64) {
	n := core.UniformSampleSphere(u)
	var it material.Interaction
	pLocal := n.Multiply(s.Radius)
	it.P = s.Center.Add(pLocal)
	it.PError = pLocal.Abs().Multiply(core.Gamma(5))
	it.N = n
	if s.ReverseOrientation {
		it.N = n.Negate()
	}
	return it, 1 / s.Area()
}

// SampleRef samples the cone of directions the sphere subtends from ref.
// Points inside the sphere fall back to area sampling.
func (s *Sphere) SampleRef(ref *material.Interaction, u core.Vec2) (material.Interaction, float64) {
	dc2 := ref.P.Subtract(s.Center).LengthSquared()
	if dc2 <= s.Radius*s.Radius {
		return sampleRef(s, ref, u)
	}
	dc := math.Sqrt(dc2)

	sinThetaMax2 := s.Radius * s.Radius / dc2
	cosThetaMax := math.Sqrt(math.Max(0, 1-sinThetaMax2))
	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta2 := math.Max(0, 1-cosTheta*cosTheta)
	phi := u.Y * 2 * math.Pi

	// Angle at the center between the direction to ref and the sampled point
	ds := dc*cosTheta - math.Sqrt(math.Max(0, s.Radius*s.Radius-dc2*sinTheta2))
	cosAlpha := (dc2 + s.Radius*s.Radius - ds*ds) / (2 * dc * s.Radius)
	cosAlpha = math.Max(-1, math.Min(1, cosAlpha))
	sinAlpha := math.Sqrt(math.Max(0, 1-cosAlpha*cosAlpha))

	wc := s.Center.Subtract(ref.P).Normalize()
	wcX, wcY := core.CoordinateSystem(wc)
	n := wcX.Multiply(-sinAlpha * math.Cos(phi)).
		Add(wcY.Multiply(-sinAlpha * math.Sin(phi))).
		Add(wc.Multiply(-cosAlpha))

	var it material.Interaction
	pLocal := n.Multiply(s.Radius)
	it.P = s.Center.Add(pLocal)
	it.PError = pLocal.Abs().Multiply(core.Gamma(5))
	it.N = n
	if s.ReverseOrientation {
		it.N = n.Negate()
	}
	return it, 1 / (2 * math.Pi * (1 - cosThetaMax))
}

// PdfRef returns the solid angle density of SampleRef producing wi
func (s *Sphere) PdfRef(ref *material.Interaction, wi core.Vec3) float64 {
	dc2 := ref.P.Subtract(s.Center).LengthSquared()
	if dc2 <= s.Radius*s.Radius {
		return pdfRef(s, ref, wi)
	}
	cosThetaMax := math.Sqrt(math.Max(0, 1-s.Radius*s.Radius/dc2))
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}
