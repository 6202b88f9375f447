package material

import (
	"github.com/df07/go-pbr-core/pkg/core"
)

// FloatTexture provides a spatially-varying scalar, such as a bump height
// or an alpha mask
type FloatTexture interface {
	Evaluate(si *SurfaceInteraction) float64
}

// SpectrumTexture provides spatially-varying colors for materials
type SpectrumTexture interface {
	Evaluate(si *SurfaceInteraction) core.Vec3
}

// ConstantFloat is the same value everywhere
type ConstantFloat struct {
	Value float64
}

// NewConstantFloat creates a constant scalar texture
func NewConstantFloat(value float64) *ConstantFloat {
	return &ConstantFloat{Value: value}
}

// Evaluate returns the constant regardless of the hit
func (c *ConstantFloat) Evaluate(si *SurfaceInteraction) float64 {
	return c.Value
}

// ConstantSpectrum provides uniform color
type ConstantSpectrum struct {
	Color core.Vec3
}

// NewConstantSpectrum creates a new solid color texture
func NewConstantSpectrum(color core.Vec3) *ConstantSpectrum {
	return &ConstantSpectrum{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *ConstantSpectrum) Evaluate(si *SurfaceInteraction) core.Vec3 {
	return s.Color
}
