package core

import "math"

// MachineEpsilon is half the distance between 1 and the next float64
const MachineEpsilon = 0x1p-53

// ShadowEpsilon shortens shadow rays so they stop just before the target
const ShadowEpsilon = 0.0001

// Gamma returns the conservative bound on the relative error of n chained
// floating point operations
func Gamma(n int) float64 {
	return float64(n) * MachineEpsilon / (1 - float64(n)*MachineEpsilon)
}

// NextFloatUp returns the next representable float64 above v
func NextFloatUp(v float64) float64 {
	if math.IsInf(v, 1) {
		return v
	}
	if v == 0 {
		v = 0 // -0 and +0 step to the same neighbor
	}
	return math.Nextafter(v, math.Inf(1))
}

// NextFloatDown returns the next representable float64 below v
func NextFloatDown(v float64) float64 {
	if math.IsInf(v, -1) {
		return v
	}
	if v == 0 {
		v = 0
	}
	return math.Nextafter(v, math.Inf(-1))
}

// OffsetRayOrigin pushes p out of its error box along n, on the side that
// w leaves from, so that a ray spawned from it cannot re-hit the surface
func OffsetRayOrigin(p, pError, n, w Vec3) Vec3 {
	d := n.Abs().Dot(pError)
	offset := n.Multiply(d)
	if w.Dot(n) < 0 {
		offset = offset.Negate()
	}
	po := p.Add(offset)

	// Round away from p
	po.X = roundAway(po.X, offset.X)
	po.Y = roundAway(po.Y, offset.Y)
	po.Z = roundAway(po.Z, offset.Z)
	return po
}

func roundAway(v, offset float64) float64 {
	switch {
	case offset > 0:
		return NextFloatUp(v)
	case offset < 0:
		return NextFloatDown(v)
	}
	return v
}
