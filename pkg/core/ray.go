package core

import "math"

// Medium is the participating medium a ray travels through. The concrete
// media live in the medium package; the ray only carries a reference.
type Medium interface {
	// Tr returns the beam transmittance along the ray up to ray.TMax
	Tr(ray Ray, sampler Sampler) Vec3
}

// Ray represents a ray with an origin, a direction and a parametric extent
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMax      float64 // Upper bound of the valid segment, shortened by intersections
	Time      float64 // Shutter time in [0, 1], used by animated transforms
	Medium    Medium  // Medium containing the origin, nil for vacuum
}

// NewRay creates a new ray with an unbounded extent at time 0
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction, TMax: math.Inf(1)}
}

// NewRayAt creates a new ray with an unbounded extent at the given time
func NewRayAt(origin, direction Vec3, time float64) Ray {
	return Ray{Origin: origin, Direction: direction, TMax: math.Inf(1), Time: time}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
