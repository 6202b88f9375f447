package core

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mat4 is a row-major 4x4 matrix
type Mat4 [4][4]float64

// Identity4 returns the 4x4 identity matrix
func Identity4() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns the matrix product m*o
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j] + m[i][3]*o[3][j]
		}
	}
	return r
}

// Transpose returns the transpose of m
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Dense returns m as a gonum dense matrix
func (m Mat4) Dense() *mat.Dense {
	data := make([]float64, 0, 16)
	for i := 0; i < 4; i++ {
		data = append(data, m[i][:]...)
	}
	return mat.NewDense(4, 4, data)
}

// Mat4FromDense copies a 4x4 gonum matrix into a Mat4
func Mat4FromDense(d mat.Matrix) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = d.At(i, j)
		}
	}
	return r
}

// Inverse returns the inverse of m, or an error when m is singular
func (m Mat4) Inverse() (Mat4, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.Dense()); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return Mat4{}, fmt.Errorf("singular matrix: %w", err)
		}
		// Ill-conditioned but invertible; gonum still returns the inverse.
	}
	return Mat4FromDense(&inv), nil
}

// Transform is an affine transform with its cached inverse
type Transform struct {
	M    Mat4
	MInv Mat4
}

// IdentityTransform returns the identity transform
func IdentityTransform() Transform {
	return Transform{M: Identity4(), MInv: Identity4()}
}

// NewTransform creates a transform from a matrix, inverting it
func NewTransform(m Mat4) (Transform, error) {
	inv, err := m.Inverse()
	if err != nil {
		return Transform{}, fmt.Errorf("transform: %w", err)
	}
	return Transform{M: m, MInv: inv}, nil
}

// Translate returns a translation by delta
func Translate(delta Vec3) Transform {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = delta.X, delta.Y, delta.Z
	inv := Identity4()
	inv[0][3], inv[1][3], inv[2][3] = -delta.X, -delta.Y, -delta.Z
	return Transform{M: m, MInv: inv}
}

// Scale returns a non-uniform scale. Zero factors panic, as they cannot be inverted.
func Scale(x, y, z float64) Transform {
	if x == 0 || y == 0 || z == 0 {
		panic(fmt.Sprintf("scale factors must be non-zero, got (%g, %g, %g)", x, y, z))
	}
	m := Mat4{{x, 0, 0, 0}, {0, y, 0, 0}, {0, 0, z, 0}, {0, 0, 0, 1}}
	inv := Mat4{{1 / x, 0, 0, 0}, {0, 1 / y, 0, 0}, {0, 0, 1 / z, 0}, {0, 0, 0, 1}}
	return Transform{M: m, MInv: inv}
}

// Rotate returns a rotation of theta radians around axis
func Rotate(theta float64, axis Vec3) Transform {
	a := axis.Normalize()
	sinTheta, cosTheta := math.Sincos(theta)
	var m Mat4
	m[0][0] = a.X*a.X + (1-a.X*a.X)*cosTheta
	m[0][1] = a.X*a.Y*(1-cosTheta) - a.Z*sinTheta
	m[0][2] = a.X*a.Z*(1-cosTheta) + a.Y*sinTheta
	m[1][0] = a.X*a.Y*(1-cosTheta) + a.Z*sinTheta
	m[1][1] = a.Y*a.Y + (1-a.Y*a.Y)*cosTheta
	m[1][2] = a.Y*a.Z*(1-cosTheta) - a.X*sinTheta
	m[2][0] = a.X*a.Z*(1-cosTheta) - a.Y*sinTheta
	m[2][1] = a.Y*a.Z*(1-cosTheta) + a.X*sinTheta
	m[2][2] = a.Z*a.Z + (1-a.Z*a.Z)*cosTheta
	m[3][3] = 1
	// Rotations are orthogonal
	return Transform{M: m, MInv: m.Transpose()}
}

// Inverse returns the inverse transform
func (t Transform) Inverse() Transform {
	return Transform{M: t.MInv, MInv: t.M}
}

// Compose returns the transform that applies o first and then t
func (t Transform) Compose(o Transform) Transform {
	return Transform{M: t.M.Mul(o.M), MInv: o.MInv.Mul(t.MInv)}
}

// IsIdentity reports whether the transform is exactly the identity
func (t Transform) IsIdentity() bool {
	return t.M == Identity4()
}

// SwapsHandedness reports whether the transform flips coordinate system
// handedness, i.e. the upper 3x3 block has a negative determinant
func (t Transform) SwapsHandedness() bool {
	m := t.M
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	return det < 0
}

// Point transforms a point
func (t Transform) Point(p Vec3) Vec3 {
	m := t.M
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w == 1 {
		return Vec3{x, y, z}
	}
	return Vec3{x, y, z}.Divide(w)
}

// PointWithError transforms a point and returns a bound on the absolute
// rounding error introduced by the transform
func (t Transform) PointWithError(p Vec3) (Vec3, Vec3) {
	m := t.M
	g := Gamma(3)
	errX := g * (math.Abs(m[0][0]*p.X) + math.Abs(m[0][1]*p.Y) + math.Abs(m[0][2]*p.Z) + math.Abs(m[0][3]))
	errY := g * (math.Abs(m[1][0]*p.X) + math.Abs(m[1][1]*p.Y) + math.Abs(m[1][2]*p.Z) + math.Abs(m[1][3]))
	errZ := g * (math.Abs(m[2][0]*p.X) + math.Abs(m[2][1]*p.Y) + math.Abs(m[2][2]*p.Z) + math.Abs(m[2][3]))
	return t.Point(p), Vec3{errX, errY, errZ}
}

// PointWithAbsError transforms a point that already carries error pErr
func (t Transform) PointWithAbsError(p, pErr Vec3) (Vec3, Vec3) {
	m := t.M
	g := Gamma(3)
	row := func(i int) float64 {
		return (g+1)*(math.Abs(m[i][0])*pErr.X+math.Abs(m[i][1])*pErr.Y+math.Abs(m[i][2])*pErr.Z) +
			g*(math.Abs(m[i][0]*p.X)+math.Abs(m[i][1]*p.Y)+math.Abs(m[i][2]*p.Z)+math.Abs(m[i][3]))
	}
	return t.Point(p), Vec3{row(0), row(1), row(2)}
}

// Vector transforms a direction, ignoring translation
func (t Transform) Vector(v Vec3) Vec3 {
	m := t.M
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Normal transforms a surface normal by the inverse transpose
func (t Transform) Normal(n Vec3) Vec3 {
	mi := t.MInv
	return Vec3{
		mi[0][0]*n.X + mi[1][0]*n.Y + mi[2][0]*n.Z,
		mi[0][1]*n.X + mi[1][1]*n.Y + mi[2][1]*n.Z,
		mi[0][2]*n.X + mi[1][2]*n.Y + mi[2][2]*n.Z,
	}
}

// Ray transforms a ray. The origin is advanced to the edge of its error
// bound and TMax shortened by the same amount so the transformed ray does
// not start behind the surface it left.
func (t Transform) Ray(r Ray) Ray {
	o, oErr := t.PointWithError(r.Origin)
	d := t.Vector(r.Direction)
	tMax := r.TMax
	if lengthSquared := d.LengthSquared(); lengthSquared > 0 {
		dt := d.Abs().Dot(oErr) / lengthSquared
		o = o.Add(d.Multiply(dt))
		tMax -= dt
	}
	return Ray{Origin: o, Direction: d, TMax: tMax, Time: r.Time, Medium: r.Medium}
}

// AABB transforms a bounding box by transforming its eight corners
func (t Transform) AABB(b AABB) AABB {
	corners := b.Corners()
	out := NewAABBFromPoints(t.Point(corners[0]))
	for _, c := range corners[1:] {
		out = out.UnionPoint(t.Point(c))
	}
	return out
}
