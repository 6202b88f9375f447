package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/scene"
)

// ErrInvariantViolation reports a path state that a correct material,
// shape or light could never produce
var ErrInvariantViolation = errors.New("path integrator invariant violated")

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Preprocess runs once before rendering. Sample arrays needed per camera
	// sample are requested from sampler here.
	Preprocess(s *scene.Scene, sampler core.Sampler) error
	// Li returns the radiance arriving at the ray origin along ray. Scratch
	// allocations come from arena, which is reset before Li returns.
	Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *material.Arena) core.Vec3
}

// checkRadiance panics if v is negative or not finite
func checkRadiance(label string, v core.Vec3) {
	if v.HasNaNs() || !v.IsFinite() || v.Luminance() < 0 {
		panic(fmt.Errorf("%w: %s = %v", ErrInvariantViolation, label, v))
	}
}
