package medium

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// Medium is a participating medium; rays carry one as core.Medium
type Medium = core.Medium

// MediumInterface records the media on the two sides of a surface. A
// surface whose two sides hold the same medium is not a transition.
type MediumInterface struct {
	Inside  Medium
	Outside Medium
}

// NewMediumInterface returns an interface with the same medium on both sides
func NewMediumInterface(m Medium) MediumInterface {
	return MediumInterface{Inside: m, Outside: m}
}

// IsMediumTransition reports whether the two sides differ
func (mi MediumInterface) IsMediumTransition() bool {
	return mi.Inside != mi.Outside
}

// HomogeneousMedium has constant absorption and scattering everywhere
type HomogeneousMedium struct {
	SigmaA core.Vec3
	SigmaS core.Vec3
	sigmaT core.Vec3
}

// NewHomogeneousMedium creates a medium with the given absorption and
// scattering coefficients
func NewHomogeneousMedium(sigmaA, sigmaS core.Vec3) *HomogeneousMedium {
	return &HomogeneousMedium{SigmaA: sigmaA, SigmaS: sigmaS, sigmaT: sigmaA.Add(sigmaS)}
}

// Tr returns the Beer-Lambert transmittance along the ray segment
func (m *HomogeneousMedium) Tr(ray core.Ray, sampler core.Sampler) core.Vec3 {
	distance := math.Min(ray.TMax*ray.Direction.Length(), math.MaxFloat64)
	return core.NewVec3(
		math.Exp(-m.sigmaT.X*distance),
		math.Exp(-m.sigmaT.Y*distance),
		math.Exp(-m.sigmaT.Z*distance),
	)
}
