package geometry

import (
	"math"
	"math/big"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// Triangle is one face of a TriangleMesh. It copies the mesh's orientation
// flags and may carry its own material, which takes precedence over the
// material of the primitive that wraps it.
type Triangle struct {
	mesh *TriangleMesh
	face int

	ReverseOrientation       bool
	TransformSwapsHandedness bool
	Material                 material.Material // Optional override
}

// NewTriangle creates the triangle for face index face of mesh
func NewTriangle(mesh *TriangleMesh, face int) *Triangle {
	return &Triangle{
		mesh:                     mesh,
		face:                     face,
		ReverseOrientation:       mesh.ReverseOrientation,
		TransformSwapsHandedness: mesh.TransformSwapsHandedness,
	}
}

// Mesh returns the shared mesh the triangle belongs to
func (t *Triangle) Mesh() *TriangleMesh { return t.mesh }

// Face returns the triangle's index within its mesh
func (t *Triangle) Face() int { return t.face }

// MaterialOverride returns the triangle's own material, nil when unset
func (t *Triangle) MaterialOverride() material.Material { return t.Material }

func (t *Triangle) index(i int) int {
	return t.mesh.VertexIndices[3*t.face+i]
}

func (t *Triangle) vertices() (core.Vec3, core.Vec3, core.Vec3) {
	return t.mesh.P[t.index(0)], t.mesh.P[t.index(1)], t.mesh.P[t.index(2)]
}

// uvs returns the per-vertex parameterization, or the default
// (0,0), (1,0), (1,1) when the mesh has none
func (t *Triangle) uvs() [3]core.Vec2 {
	if len(t.mesh.UV) == 0 {
		return [3]core.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	}
	return [3]core.Vec2{t.mesh.UV[t.index(0)], t.mesh.UV[t.index(1)], t.mesh.UV[t.index(2)]}
}

// ObjectBound returns the triangle's bounds in the mesh's object space
func (t *Triangle) ObjectBound() core.AABB {
	p0, p1, p2 := t.vertices()
	w2o := t.mesh.WorldToObject
	return core.NewAABBFromPoints(w2o.Point(p0), w2o.Point(p1), w2o.Point(p2))
}

// WorldBound returns the triangle's bounds in world space
func (t *Triangle) WorldBound() core.AABB {
	p0, p1, p2 := t.vertices()
	return core.NewAABBFromPoints(p0, p1, p2)
}

// Area returns the world-space area of the triangle
func (t *Triangle) Area() float64 {
	p0, p1, p2 := t.vertices()
	return 0.5 * p1.Subtract(p0).Cross(p2.Subtract(p0)).Length()
}

// triangleHit is the result of the watertight test before any surface
// geometry is computed
type triangleHit struct {
	b0, b1, b2 float64
	t          float64
}

// intersect runs the watertight ray/triangle test. Rays through a shared
// edge or vertex hit at least one of the adjacent triangles, and no ray
// reports a hit at t <= 0 once rounding error is accounted for.
func (t *Triangle) intersect(ray core.Ray) (triangleHit, bool) {
	p0, p1, p2 := t.vertices()

	// Translate vertices so the ray starts at the origin
	p0t := p0.Subtract(ray.Origin)
	p1t := p1.Subtract(ray.Origin)
	p2t := p2.Subtract(ray.Origin)

	// Permute so the ray direction's largest magnitude component is z
	kz := ray.Direction.Abs().MaxDimension()
	kx := kz + 1
	if kx == 3 {
		kx = 0
	}
	ky := kx + 1
	if ky == 3 {
		ky = 0
	}
	d := ray.Direction.Permute(kx, ky, kz)
	p0t = p0t.Permute(kx, ky, kz)
	p1t = p1t.Permute(kx, ky, kz)
	p2t = p2t.Permute(kx, ky, kz)

	// Shear so the ray points down +z. The z shear is deferred until the
	// edge tests pass.
	sx := -d.X / d.Z
	sy := -d.Y / d.Z
	sz := 1 / d.Z
	p0t.X += sx * p0t.Z
	p0t.Y += sy * p0t.Z
	p1t.X += sx * p1t.Z
	p1t.Y += sy * p1t.Z
	p2t.X += sx * p2t.Z
	p2t.Y += sy * p2t.Z

	e0 := p1t.X*p2t.Y - p1t.Y*p2t.X
	e1 := p2t.X*p0t.Y - p2t.Y*p0t.X
	e2 := p0t.X*p1t.Y - p0t.Y*p1t.X

	// A zero edge function may be a rounding artifact; recompute exactly
	if e0 == 0 || e1 == 0 || e2 == 0 {
		e0 = exactDiffOfProducts(p1t.X, p2t.Y, p1t.Y, p2t.X)
		e1 = exactDiffOfProducts(p2t.X, p0t.Y, p2t.Y, p0t.X)
		e2 = exactDiffOfProducts(p0t.X, p1t.Y, p0t.Y, p1t.X)
	}

	if (e0 < 0 || e1 < 0 || e2 < 0) && (e0 > 0 || e1 > 0 || e2 > 0) {
		return triangleHit{}, false
	}
	det := e0 + e1 + e2
	if det == 0 {
		return triangleHit{}, false
	}

	// Scaled hit distance, tested against the ray extent without dividing
	p0t.Z *= sz
	p1t.Z *= sz
	p2t.Z *= sz
	tScaled := e0*p0t.Z + e1*p1t.Z + e2*p2t.Z
	if det < 0 && (tScaled >= 0 || tScaled < ray.TMax*det) {
		return triangleHit{}, false
	}
	if det > 0 && (tScaled <= 0 || tScaled > ray.TMax*det) {
		return triangleHit{}, false
	}

	invDet := 1 / det
	hit := triangleHit{b0: e0 * invDet, b1: e1 * invDet, b2: e2 * invDet, t: tScaled * invDet}

	// Reject hits whose t is not conservatively positive
	maxZt := core.NewVec3(p0t.Z, p1t.Z, p2t.Z).Abs().MaxComponent()
	deltaZ := core.Gamma(3) * maxZt

	maxXt := core.NewVec3(p0t.X, p1t.X, p2t.X).Abs().MaxComponent()
	maxYt := core.NewVec3(p0t.Y, p1t.Y, p2t.Y).Abs().MaxComponent()
	deltaX := core.Gamma(5) * (maxXt + maxZt)
	deltaY := core.Gamma(5) * (maxYt + maxZt)

	deltaE := 2 * (core.Gamma(2)*maxXt*maxYt + deltaY*maxXt + deltaX*maxYt)

	maxE := core.NewVec3(e0, e1, e2).Abs().MaxComponent()
	deltaT := 3 * (core.Gamma(3)*maxE*maxZt + deltaE*maxZt + deltaZ*maxE) * math.Abs(invDet)
	if hit.t <= deltaT {
		return triangleHit{}, false
	}
	return hit, true
}

// exactDiffOfProducts returns a*b - c*d rounded once to the nearest float64
func exactDiffOfProducts(a, b, c, d float64) float64 {
	const prec = 2*53 + 2
	ab := new(big.Float).SetPrec(prec).SetFloat64(a)
	ab.Mul(ab, new(big.Float).SetFloat64(b))
	cd := new(big.Float).SetPrec(prec).SetFloat64(c)
	cd.Mul(cd, new(big.Float).SetFloat64(d))
	diff := new(big.Float).SetPrec(prec).Sub(ab, cd)
	v, _ := diff.Float64()
	return v
}

// partials returns dp/du and dp/dv for the triangle's parameterization.
// ok is false when the triangle itself is degenerate and no frame exists.
func (t *Triangle) partials(uv [3]core.Vec2) (dpdu, dpdv core.Vec3, ok bool) {
	p0, p1, p2 := t.vertices()
	duv02 := uv[0].Subtract(uv[2])
	duv12 := uv[1].Subtract(uv[2])
	dp02 := p0.Subtract(p2)
	dp12 := p1.Subtract(p2)

	determinant := duv02.X*duv12.Y - duv02.Y*duv12.X
	degenerateUV := math.Abs(determinant) < 1e-8
	if !degenerateUV {
		invDet := 1 / determinant
		dpdu = dp02.Multiply(duv12.Y).Subtract(dp12.Multiply(duv02.Y)).Multiply(invDet)
		dpdv = dp02.Multiply(-duv12.X).Add(dp12.Multiply(duv02.X)).Multiply(invDet)
	}
	if degenerateUV || dpdu.Cross(dpdv).LengthSquared() == 0 {
		ng := p2.Subtract(p0).Cross(p1.Subtract(p0))
		if ng.LengthSquared() == 0 {
			return dpdu, dpdv, false
		}
		dpdu, dpdv = core.CoordinateSystem(ng.Normalize())
	}
	return dpdu, dpdv, true
}

func (t *Triangle) faceIndex() int {
	if len(t.mesh.FaceIndices) == 0 {
		return 0
	}
	return t.mesh.FaceIndices[t.face]
}

// Intersect returns the parametric distance and the surface interaction of
// the closest hit within ray.TMax
func (t *Triangle) Intersect(ray core.Ray, testAlphaTexture bool) (float64, *material.SurfaceInteraction, bool) {
	hit, ok := t.intersect(ray)
	if !ok {
		return 0, nil, false
	}
	p0, p1, p2 := t.vertices()
	b0, b1, b2 := hit.b0, hit.b1, hit.b2

	uv := t.uvs()
	dpdu, dpdv, ok := t.partials(uv)
	if !ok {
		// Collinear vertices have no normal to shade with
		return 0, nil, false
	}

	pAbsSum := p0.Multiply(b0).Abs().Add(p1.Multiply(b1).Abs()).Add(p2.Multiply(b2).Abs())
	pError := pAbsSum.Multiply(core.Gamma(7))

	pHit := p0.Multiply(b0).Add(p1.Multiply(b1)).Add(p2.Multiply(b2))
	uvHit := uv[0].Multiply(b0).Add(uv[1].Multiply(b1)).Add(uv[2].Multiply(b2))
	wo := ray.Direction.Negate()

	if testAlphaTexture && t.mesh.AlphaMask != nil {
		local := material.NewSurfaceInteraction(pHit, core.Vec3{}, uvHit, wo, dpdu, dpdv,
			core.Vec3{}, core.Vec3{}, ray.Time, false, t.faceIndex())
		if t.mesh.AlphaMask.Evaluate(local) == 0 {
			return 0, nil, false
		}
	}

	si := material.NewSurfaceInteraction(pHit, pError, uvHit, wo, dpdu, dpdv,
		core.Vec3{}, core.Vec3{}, ray.Time, false, t.faceIndex())

	// The geometric normal follows the vertex winding, not the
	// parameterization
	n := p0.Subtract(p2).Cross(p1.Subtract(p2)).Normalize()
	si.N = n
	si.Shading.N = n

	if len(t.mesh.N) > 0 || len(t.mesh.S) > 0 {
		t.setShadingGeometry(si, uv, b0, b1, b2)
	}

	if len(t.mesh.N) > 0 {
		si.N = si.N.FaceForward(si.Shading.N)
	} else if t.ReverseOrientation != t.TransformSwapsHandedness {
		si.N = si.N.Negate()
		si.Shading.N = si.N
	}
	return hit.t, si, true
}

// setShadingGeometry interpolates per-vertex normals and tangents into an
// orthonormal shading frame
func (t *Triangle) setShadingGeometry(si *material.SurfaceInteraction, uv [3]core.Vec2, b0, b1, b2 float64) {
	mesh := t.mesh
	i0, i1, i2 := t.index(0), t.index(1), t.index(2)

	ns := si.N
	if len(mesh.N) > 0 {
		interp := mesh.N[i0].Multiply(b0).Add(mesh.N[i1].Multiply(b1)).Add(mesh.N[i2].Multiply(b2))
		if interp.LengthSquared() > 0 {
			ns = interp.Normalize()
		}
	}

	ss := si.Dpdu.Normalize()
	if len(mesh.S) > 0 {
		interp := mesh.S[i0].Multiply(b0).Add(mesh.S[i1].Multiply(b1)).Add(mesh.S[i2].Multiply(b2))
		if interp.LengthSquared() > 0 {
			ss = interp.Normalize()
		}
	}

	ts := ss.Cross(ns)
	if ts.LengthSquared() > 0 {
		ts = ts.Normalize()
		ss = ts.Cross(ns)
	} else {
		ss, ts = core.CoordinateSystem(ns)
	}

	var dndu, dndv core.Vec3
	if len(mesh.N) > 0 {
		duv02 := uv[0].Subtract(uv[2])
		duv12 := uv[1].Subtract(uv[2])
		dn1 := mesh.N[i0].Subtract(mesh.N[i2])
		dn2 := mesh.N[i1].Subtract(mesh.N[i2])
		determinant := duv02.X*duv12.Y - duv02.Y*duv12.X
		if math.Abs(determinant) >= 1e-8 {
			invDet := 1 / determinant
			dndu = dn1.Multiply(duv12.Y).Subtract(dn2.Multiply(duv02.Y)).Multiply(invDet)
			dndv = dn1.Multiply(-duv12.X).Add(dn2.Multiply(duv02.X)).Multiply(invDet)
		}
	}
	si.SetShadingGeometry(ss, ts, dndu, dndv, true)
}

// IntersectP reports whether the ray hits the triangle within ray.TMax.
// Both alpha masks are honored when testAlphaTexture is set.
func (t *Triangle) IntersectP(ray core.Ray, testAlphaTexture bool) bool {
	hit, ok := t.intersect(ray)
	if !ok {
		return false
	}
	if !testAlphaTexture || (t.mesh.AlphaMask == nil && t.mesh.ShadowAlphaMask == nil) {
		return true
	}

	uv := t.uvs()
	dpdu, dpdv, ok := t.partials(uv)
	if !ok {
		return false
	}
	p0, p1, p2 := t.vertices()
	pHit := p0.Multiply(hit.b0).Add(p1.Multiply(hit.b1)).Add(p2.Multiply(hit.b2))
	uvHit := uv[0].Multiply(hit.b0).Add(uv[1].Multiply(hit.b1)).Add(uv[2].Multiply(hit.b2))
	local := material.NewSurfaceInteraction(pHit, core.Vec3{}, uvHit, ray.Direction.Negate(), dpdu, dpdv,
		core.Vec3{}, core.Vec3{}, ray.Time, false, t.faceIndex())
	if t.mesh.AlphaMask != nil && t.mesh.AlphaMask.Evaluate(local) == 0 {
		return false
	}
	if t.mesh.ShadowAlphaMask != nil && t.mesh.ShadowAlphaMask.Evaluate(local) == 0 {
		return false
	}
	return true
}

// Sample picks a point uniformly over the triangle's area
func (t *Triangle) Sample(u core.Vec2) (material.Interaction, float64) {
	b := core.UniformSampleTriangle(u)
	b2 := 1 - b.X - b.Y
	p0, p1, p2 := t.vertices()

	var it material.Interaction
	it.P = p0.Multiply(b.X).Add(p1.Multiply(b.Y)).Add(p2.Multiply(b2))
	it.N = p1.Subtract(p0).Cross(p2.Subtract(p0)).Normalize()
	if len(t.mesh.N) > 0 {
		mesh := t.mesh
		ns := mesh.N[t.index(0)].Multiply(b.X).
			Add(mesh.N[t.index(1)].Multiply(b.Y)).
			Add(mesh.N[t.index(2)].Multiply(b2))
		it.N = it.N.FaceForward(ns)
	} else if t.ReverseOrientation != t.TransformSwapsHandedness {
		it.N = it.N.Negate()
	}

	pAbsSum := p0.Multiply(b.X).Abs().Add(p1.Multiply(b.Y).Abs()).Add(p2.Multiply(b2).Abs())
	it.PError = pAbsSum.Multiply(core.Gamma(6))
	return it, 1 / t.Area()
}

// SampleRef samples a point as seen from ref, with a solid angle pdf
func (t *Triangle) SampleRef(ref *material.Interaction, u core.Vec2) (material.Interaction, float64) {
	return sampleRef(t, ref, u)
}

// PdfRef returns the solid angle density of sampling wi from ref
func (t *Triangle) PdfRef(ref *material.Interaction, wi core.Vec3) float64 {
	return pdfRef(t, ref, wi)
}
