package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// CheckerboardFloat alternates between two values on a UV grid. Used as
// an alpha mask it cuts square holes into a surface.
type CheckerboardFloat struct {
	Even, Odd      float64
	UScale, VScale float64
}

// NewCheckerboardFloat creates a checkerboard with the given number of
// checks per unit of u and v
func NewCheckerboardFloat(even, odd, uScale, vScale float64) *CheckerboardFloat {
	return &CheckerboardFloat{Even: even, Odd: odd, UScale: uScale, VScale: vScale}
}

// Evaluate returns Even or Odd depending on which check the hit falls in
func (c *CheckerboardFloat) Evaluate(si *SurfaceInteraction) float64 {
	s := int(math.Floor(si.UV.X * c.UScale))
	t := int(math.Floor(si.UV.Y * c.VScale))
	if (s+t)%2 == 0 {
		return c.Even
	}
	return c.Odd
}

// UVSpectrum shows texture coordinates as colors
// U maps to red channel, V maps to green channel
type UVSpectrum struct{}

// Evaluate returns (frac(u), frac(v), 0)
func (UVSpectrum) Evaluate(si *SurfaceInteraction) core.Vec3 {
	u := si.UV.X - math.Floor(si.UV.X)
	v := si.UV.Y - math.Floor(si.UV.Y)
	return core.NewVec3(u, v, 0)
}

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Determine which check we're in
			checkX := x / checkSize
			checkY := y / checkSize

			// Alternate colors based on check position
			var color core.Vec3
			if (checkX+checkY)%2 == 0 {
				color = color1
			} else {
				color = color2
			}

			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}
