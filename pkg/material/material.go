package material

import (
	"errors"

	"github.com/df07/go-pbr-core/pkg/core"
)

// ErrNormalInvariant reports a surface interaction whose geometric normal
// lies in the opposite hemisphere from its shading normal
var ErrNormalInvariant = errors.New("geometric normal points away from shading normal")

// TransportMode tells scattering functions whether the path carries
// radiance from lights or importance from the camera
type TransportMode int

const (
	Radiance TransportMode = iota
	Importance
)

// Material turns a surface interaction into scattering functions
type Material interface {
	// ComputeScatteringFunctions sets si.BSDF (and si.BSSRDF for
	// subsurface materials). Allocations come from arena.
	ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool)
}

// AreaLight is the emission side of a light attached to a surface
type AreaLight interface {
	// L returns radiance leaving the surface point it in direction w
	L(it *Interaction, w core.Vec3) core.Vec3
}

// Primitive is what a surface interaction remembers about the object it
// hit. Implementations live in the primitive package.
type Primitive interface {
	GetMaterial() Material
	GetAreaLight() AreaLight
	ComputeScatteringFunctions(si *SurfaceInteraction, arena *Arena, mode TransportMode, allowMultipleLobes bool)
}

// Intersector finds the closest surface along a ray
type Intersector interface {
	Intersect(ray *core.Ray) (*SurfaceInteraction, bool)
}

// BSSRDF describes subsurface light transport between two surface points
type BSSRDF interface {
	// SampleS picks an exit point pi for light that entered at the
	// interaction the BSSRDF was created for. It returns the BSSRDF value,
	// the exit interaction with its BSDF set, and the sampling pdf. A zero
	// value or zero pdf means no exit point was found.
	SampleS(scene Intersector, u1 float64, u2 core.Vec2, arena *Arena) (core.Vec3, *SurfaceInteraction, float64)
}
