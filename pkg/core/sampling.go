package core

import (
	"math"
	"math/rand"
)

// OneMinusEpsilon is the largest float64 below 1
const OneMinusEpsilon = 0x1.fffffffffffffp-1

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3

	// Request2DArray announces, before rendering, that each camera sample
	// will ask for an array of n 2D samples. It returns the rounded count
	// that Get2DArray will actually deliver.
	Request2DArray(n int) int
	// Get2DArray returns the next array of n 2D samples
	Get2DArray(n int) []Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
	buf    []Vec2
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// Request2DArray accepts any count unchanged
func (r *RandomSampler) Request2DArray(n int) int {
	if cap(r.buf) < n {
		r.buf = make([]Vec2, 0, n)
	}
	return n
}

// Get2DArray returns n fresh random 2D samples. The returned slice is
// reused by the next call.
func (r *RandomSampler) Get2DArray(n int) []Vec2 {
	if cap(r.buf) < n {
		r.buf = make([]Vec2, 0, n)
	}
	r.buf = r.buf[:n]
	for i := range r.buf {
		r.buf[i] = r.Get2D()
	}
	return r.buf
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	local := CosineSampleHemisphere(sample)

	// Create orthonormal basis around the normal
	tangent, bitangent := CoordinateSystem(normal)

	// Transform to world space
	return tangent.Multiply(local.X).Add(bitangent.Multiply(local.Y)).Add(normal.Multiply(local.Z))
}

// CosineSampleHemisphere returns a cosine-weighted direction around +Z
func CosineSampleHemisphere(sample Vec2) Vec3 {
	d := ConcentricSampleDisk(sample)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePdf returns the pdf of CosineSampleHemisphere
func CosineHemispherePdf(cosTheta float64) float64 {
	return cosTheta / math.Pi
}

// UniformSampleHemisphere returns a uniformly distributed direction around +Z
func UniformSampleHemisphere(sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformHemispherePdf returns the pdf of UniformSampleHemisphere
func UniformHemispherePdf() float64 {
	return 1 / (2 * math.Pi)
}

// UniformSampleSphere generates a uniform random direction on the unit sphere
func UniformSampleSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return NewVec3(x, y, z)
}

// UniformSpherePdf returns the pdf of UniformSampleSphere
func UniformSpherePdf() float64 {
	return 1 / (4 * math.Pi)
}

// ConcentricSampleDisk maps a square sample to the unit disk using concentric mapping
// This avoids rejection sampling by mapping a square uniformly to a disk
func ConcentricSampleDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	uOffset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if uOffset.X == 0 && uOffset.Y == 0 {
		return NewVec2(0, 0)
	}

	// Apply concentric mapping to point
	var theta, r float64
	if math.Abs(uOffset.X) > math.Abs(uOffset.Y) {
		r = uOffset.X
		theta = math.Pi / 4 * (uOffset.Y / uOffset.X)
	} else {
		r = uOffset.Y
		theta = math.Pi/2 - math.Pi/4*(uOffset.X/uOffset.Y)
	}

	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// UniformSampleTriangle returns barycentrics (b0, b1) uniformly distributed
// over a triangle; b2 = 1 - b0 - b1
func UniformSampleTriangle(sample Vec2) Vec2 {
	su0 := math.Sqrt(sample.X)
	return NewVec2(1-su0, sample.Y*su0)
}

// PowerHeuristic weights a sample from strategy f against strategy g, with
// nf and ng samples taken from each (exponent 2)
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if math.IsInf(f*f, 1) {
		return 1
	}
	if f == 0 && g == 0 {
		return 0
	}
	return (f * f) / (f*f + g*g)
}
