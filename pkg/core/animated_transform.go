package core

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// AnimatedTransform interpolates between two keyframe transforms over the
// shutter interval. Each keyframe is decomposed into translation, rotation
// and scale so that rotation can be interpolated on the unit sphere.
type AnimatedTransform struct {
	Start, End         Transform
	StartTime, EndTime float64

	actuallyAnimated bool
	hasRotation      bool
	t                [2]Vec3
	r                [2]r3.Rotation
	s                [2]*mat.Dense
}

// NewStaticTransform returns an AnimatedTransform that never changes
func NewStaticTransform(t Transform) *AnimatedTransform {
	return &AnimatedTransform{Start: t, End: t, StartTime: 0, EndTime: 1}
}

// NewAnimatedTransform creates a transform that moves from start at
// startTime to end at endTime
func NewAnimatedTransform(start Transform, startTime float64, end Transform, endTime float64) (*AnimatedTransform, error) {
	at := &AnimatedTransform{Start: start, End: end, StartTime: startTime, EndTime: endTime}
	if start.M == end.M {
		return at, nil
	}
	if endTime <= startTime {
		return nil, fmt.Errorf("animated transform: end time %g must be after start time %g", endTime, startTime)
	}
	at.actuallyAnimated = true

	var err error
	if at.t[0], at.r[0], at.s[0], err = decompose(start.M); err != nil {
		return nil, fmt.Errorf("animated transform: start keyframe: %w", err)
	}
	if at.t[1], at.r[1], at.s[1], err = decompose(end.M); err != nil {
		return nil, fmt.Errorf("animated transform: end keyframe: %w", err)
	}

	if scalesPassSingular(at.s[0], at.s[1]) {
		return nil, errors.New("animated transform: scale collapses to zero between the keyframes, likely a mirrored keyframe")
	}

	// Take the shorter arc between the two rotations
	q0, q1 := quat.Number(at.r[0]), quat.Number(at.r[1])
	if q0.Real*q1.Real+q0.Imag*q1.Imag+q0.Jmag*q1.Jmag+q0.Kmag*q1.Kmag < 0 {
		at.r[1] = r3.Rotation(quat.Scale(-1, q1))
	}
	at.hasRotation = at.r[0] != at.r[1]
	return at, nil
}

// IsAnimated reports whether the two keyframes differ
func (at *AnimatedTransform) IsAnimated() bool {
	return at.actuallyAnimated
}

// HasRotation reports whether the keyframes differ in rotation
func (at *AnimatedTransform) HasRotation() bool {
	return at.hasRotation
}

// Interpolate returns the transform at the given time, clamped to the
// keyframe interval. It does not mutate the receiver and is safe to call
// from many goroutines.
func (at *AnimatedTransform) Interpolate(time float64) Transform {
	if !at.actuallyAnimated || time <= at.StartTime {
		return at.Start
	}
	if time >= at.EndTime {
		return at.End
	}
	dt := (time - at.StartTime) / (at.EndTime - at.StartTime)

	trans := Lerp(dt, at.t[0], at.t[1])
	rot := slerp(at.r[0], at.r[1], dt).Mat()
	var scale mat.Dense
	scale.Scale(1-dt, at.s[0])
	var end mat.Dense
	end.Scale(dt, at.s[1])
	scale.Add(&scale, &end)

	var rs mat.Dense
	rs.Mul(rot, &scale)

	m := Identity4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = rs.At(i, j)
		}
	}
	m[0][3], m[1][3], m[2][3] = trans.X, trans.Y, trans.Z

	t, err := NewTransform(m)
	if err != nil {
		// NewAnimatedTransform rejects keyframes whose scales collapse
		panic(fmt.Sprintf("interpolated transform at time %g is singular: %v", time, err))
	}
	return t
}

// Ray applies the transform interpolated at the ray's time
func (at *AnimatedTransform) Ray(r Ray) Ray {
	return at.Interpolate(r.Time).Ray(r)
}

// Point applies the transform interpolated at time to p
func (at *AnimatedTransform) Point(time float64, p Vec3) Vec3 {
	return at.Interpolate(time).Point(p)
}

// MotionBounds returns a box containing b transformed at every time in the
// shutter interval
func (at *AnimatedTransform) MotionBounds(b AABB) AABB {
	if !at.actuallyAnimated {
		return at.Start.AABB(b)
	}
	if !at.hasRotation {
		return at.Start.AABB(b).Union(at.End.AABB(b))
	}

	// The rotated, scaled point R(t)S(t)p stays within max(|S0 p|, |S1 p|)
	// of the interpolated translation, which itself lies between T0 and T1.
	radius := 0.0
	for _, c := range b.Corners() {
		for k := 0; k < 2; k++ {
			radius = math.Max(radius, mulVec3(at.s[k], c).Length())
		}
	}
	translation := NewAABBFromPoints(at.t[0], at.t[1])
	bound := translation.Expand(radius)

	// Never looser than needed at the keyframes themselves
	return bound.Union(at.Start.AABB(b)).Union(at.End.AABB(b))
}

// singularScaleTolerance is the smallest |det S(t)| accepted along the
// interpolated scale, relative to the smaller keyframe determinant
const singularScaleTolerance = 1e-9

func scaleDet(s0, s1 *mat.Dense, t float64) float64 {
	var m, end mat.Dense
	m.Scale(1-t, s0)
	end.Scale(t, s1)
	m.Add(&m, &end)
	return mat.Det(&m)
}

// scalesPassSingular reports whether (1-t)*s0 + t*s1 comes near a singular
// matrix for some t in [0, 1]. The determinant is a cubic in t, so its
// extremes over the interval sit at the ends or where its derivative
// vanishes.
func scalesPassSingular(s0, s1 *mat.Dense) bool {
	ts := []float64{0, 1.0 / 3, 2.0 / 3, 1}
	vandermonde := mat.NewDense(4, 4, nil)
	dets := mat.NewVecDense(4, nil)
	for i, t := range ts {
		vandermonde.SetRow(i, []float64{1, t, t * t, t * t * t})
		dets.SetVec(i, scaleDet(s0, s1, t))
	}
	start, end := dets.AtVec(0), dets.AtVec(3)
	if start == 0 || end/start <= 0 {
		return true
	}
	floor := singularScaleTolerance * math.Min(math.Abs(start), math.Abs(end))

	var c mat.VecDense
	if err := c.SolveVec(vandermonde, dets); err != nil {
		return true
	}
	candidates := []float64{0, 1}
	// p'(t) = c1 + 2 c2 t + 3 c3 t^2
	a, b, cc := 3*c.AtVec(3), 2*c.AtVec(2), c.AtVec(1)
	switch {
	case a != 0:
		if disc := b*b - 4*a*cc; disc >= 0 {
			sq := math.Sqrt(disc)
			candidates = append(candidates, (-b-sq)/(2*a), (-b+sq)/(2*a))
		}
	case b != 0:
		candidates = append(candidates, -cc/b)
	}

	for _, t := range candidates {
		if t < 0 || t > 1 {
			continue
		}
		// Same sign as the start and not vanishingly small
		if math.Copysign(1, start)*scaleDet(s0, s1, t) <= floor {
			return true
		}
	}
	return false
}

func slerp(r0, r1 r3.Rotation, t float64) r3.Rotation {
	q0 := quat.Number(r0)
	q1 := quat.Number(r1)
	q1 = quat.Mul(q1, quat.Inv(q0))
	q1 = quat.PowReal(q1, t)
	q := quat.Mul(q1, q0)
	if n := quat.Abs(q); n != 0 && n != 1 {
		q = quat.Scale(1/n, q)
	}
	return r3.Rotation(q)
}

func mulVec3(m *mat.Dense, v Vec3) Vec3 {
	return Vec3{
		m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// decompose splits an affine matrix into M = T R S with R a proper rotation
// and S symmetric, using the polar decomposition from the SVD of the upper
// 3x3 block.
func decompose(m Mat4) (Vec3, r3.Rotation, *mat.Dense, error) {
	trans := Vec3{m[0][3], m[1][3], m[2][3]}

	a := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return Vec3{}, r3.Rotation{}, nil, errors.New("singular value decomposition failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	var rot mat.Dense
	rot.Mul(&u, v.T())
	if mat.Det(&rot) < 0 {
		// Fold the reflection into the scale
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
		sigma[2] = -sigma[2]
		rot.Mul(&u, v.T())
	}

	var vs, scale mat.Dense
	vs.Mul(&v, mat.NewDiagDense(3, sigma))
	scale.Mul(&vs, v.T())

	return trans, rotationFromMatrix(&rot), &scale, nil
}

// rotationFromMatrix converts a proper rotation matrix to a unit quaternion
func rotationFromMatrix(m mat.Matrix) r3.Rotation {
	r00, r01, r02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	r10, r11, r12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	r20, r21, r22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	var q quat.Number
	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = quat.Number{Real: s / 4, Imag: (r21 - r12) / s, Jmag: (r02 - r20) / s, Kmag: (r10 - r01) / s}
	case r00 > r11 && r00 > r22:
		s := math.Sqrt(1+r00-r11-r22) * 2
		q = quat.Number{Real: (r21 - r12) / s, Imag: s / 4, Jmag: (r01 + r10) / s, Kmag: (r02 + r20) / s}
	case r11 > r22:
		s := math.Sqrt(1+r11-r00-r22) * 2
		q = quat.Number{Real: (r02 - r20) / s, Imag: (r01 + r10) / s, Jmag: s / 4, Kmag: (r12 + r21) / s}
	default:
		s := math.Sqrt(1+r22-r00-r11) * 2
		q = quat.Number{Real: (r10 - r01) / s, Imag: (r02 + r20) / s, Jmag: (r12 + r21) / s, Kmag: s / 4}
	}
	return r3.Rotation(quat.Scale(1/quat.Abs(q), q))
}
