package core

// AABB is an axis-aligned bounding box. The zero value is the degenerate
// box at the origin.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints returns the smallest box containing every point
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.UnionPoint(p)
	}
	return b
}

// Intersect clips the ray segment [0, ray.TMax] against the box and returns
// the parametric range inside it. The far distance of each slab is widened
// by the rounding bound of the slab computation, so a ray grazing the box
// is never reported as a miss.
func (aabb AABB) Intersect(ray Ray) (t0, t1 float64, hit bool) {
	t0, t1 = 0, ray.TMax
	for axis := 0; axis < 3; axis++ {
		invDir := 1 / ray.Direction.Get(axis)
		tNear := (aabb.Min.Get(axis) - ray.Origin.Get(axis)) * invDir
		tFar := (aabb.Max.Get(axis) - ray.Origin.Get(axis)) * invDir
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		tFar *= 1 + 2*Gamma(3)

		// NaNs from 0 * Inf leave the interval untouched
		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// IntersectP reports whether the ray segment [0, ray.TMax] touches the box
func (aabb AABB) IntersectP(ray Ray) bool {
	_, _, hit := aabb.Intersect(ray)
	return hit
}

// Union returns the smallest box containing both boxes
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// UnionPoint returns the smallest box containing the box and p
func (aabb AABB) UnionPoint(p Vec3) AABB {
	return AABB{Min: aabb.Min.Min(p), Max: aabb.Max.Max(p)}
}

// Center returns the midpoint of the box
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent
func (aabb AABB) LongestAxis() int {
	return aabb.Size().MaxDimension()
}

// Corners returns the eight corners; bit i of the index selects Max on axis i
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := range corners {
		c := aabb.Min
		if i&1 != 0 {
			c.X = aabb.Max.X
		}
		if i&2 != 0 {
			c.Y = aabb.Max.Y
		}
		if i&4 != 0 {
			c.Z = aabb.Max.Z
		}
		corners[i] = c
	}
	return corners
}

// Inside reports whether p lies inside the box, boundary included
func (aabb AABB) Inside(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Offset returns the position of p relative to the box, (0,0,0) at Min
// and (1,1,1) at Max. Flat axes keep the absolute offset.
func (aabb AABB) Offset(p Vec3) Vec3 {
	o := p.Subtract(aabb.Min)
	size := aabb.Size()
	if size.X > 0 {
		o.X /= size.X
	}
	if size.Y > 0 {
		o.Y /= size.Y
	}
	if size.Z > 0 {
		o.Z /= size.Z
	}
	return o
}

// BoundingSphere returns the center and radius of a sphere enclosing the box
func (aabb AABB) BoundingSphere() (Vec3, float64) {
	center := aabb.Center()
	if !aabb.IsValid() {
		return center, 0
	}
	return center, aabb.Max.Subtract(center).Length()
}

// IsValid reports whether Min <= Max on every axis
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Expand grows the box by amount on every side
func (aabb AABB) Expand(amount float64) AABB {
	d := NewSpectrum(amount)
	return AABB{Min: aabb.Min.Subtract(d), Max: aabb.Max.Add(d)}
}
