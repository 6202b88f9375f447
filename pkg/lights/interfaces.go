package lights

import (
	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// LightFlags describe how a light can be sampled
type LightFlags int

const (
	DeltaPosition LightFlags = 1 << iota
	DeltaDirection
	Area
	Infinite
)

// IsDelta reports whether the light can only be reached by sampling it
func (f LightFlags) IsDelta() bool {
	return f&(DeltaPosition|DeltaDirection) != 0
}

// Light is a source of emitted radiance
type Light interface {
	Flags() LightFlags
	// NSamples is the number of shadow samples the light asks for
	NSamples() int
	// Preprocess lets lights that depend on scene extent size themselves
	Preprocess(worldBound core.AABB)

	// SampleLi samples incident radiance at ref. The direction points from
	// ref toward the light.
	SampleLi(ref *material.Interaction, u core.Vec2) LightSample
	// PdfLi is the solid angle density SampleLi would produce for wi
	PdfLi(ref *material.Interaction, wi core.Vec3) float64

	// SampleLe samples a ray leaving the light, for light tracing
	SampleLe(u1, u2 core.Vec2, time float64) EmissionSample
	// PdfLe returns the position and direction densities of an emitted ray
	PdfLe(ray core.Ray, nLight core.Vec3) (pdfPos, pdfDir float64)

	// Le is the radiance arriving along a ray that escaped the scene. Only
	// infinite lights return non-zero values.
	Le(ray core.Ray) core.Vec3
	// Power is the total emitted power, used to build power distributions
	Power() core.Vec3
}

// AreaLight is a light bound to a shape. Surface hits on the shape
// report its emission through L.
type AreaLight interface {
	Light
	L(it *material.Interaction, w core.Vec3) core.Vec3
}

// Occluder answers shadow ray queries
type Occluder interface {
	IntersectP(ray core.Ray) bool
}

// Intersector finds surfaces along a ray, for transmittance through
// media and null surfaces
type Intersector interface {
	Occluder
	Intersect(ray *core.Ray) (*material.SurfaceInteraction, bool)
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Li  core.Vec3 // Incident radiance
	Wi  core.Vec3 // Unit direction from the shading point to the light
	Pdf float64   // Solid angle density, 1 for delta lights, 0 for failed samples
	Vis VisibilityTester
}

// EmissionSample contains a ray leaving a light
type EmissionSample struct {
	Ray    core.Ray
	NLight core.Vec3 // Surface normal at the emission point
	Le     core.Vec3 // Emitted radiance along the ray
	PdfPos float64   // Density of the origin (per unit area)
	PdfDir float64   // Density of the direction (per unit solid angle)
}
