package material

import (
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
)

// WrapMode decides which texel a lookup outside [0, 1] reads
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the image
	WrapClamp                  // Extend the edge texels
)

// ImageTexture is a spectrum texture backed by a grid of texels. Texel
// rows are stored top first, while v grows upwards.
type ImageTexture struct {
	Width    int
	Height   int
	Pixels   []core.Vec3 // Pixels[y*Width + x], y = 0 at the top
	Wrap     WrapMode
	Bilinear bool // Blend the four nearest texels instead of taking the closest one
}

// NewImageTexture creates a repeating, nearest-texel image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture at the interaction's (u, v)
func (t *ImageTexture) Evaluate(si *SurfaceInteraction) core.Vec3 {
	return t.Lookup(si.UV)
}

// Lookup samples the texture at uv
func (t *ImageTexture) Lookup(uv core.Vec2) core.Vec3 {
	s := uv.X * float64(t.Width)
	r := (1 - uv.Y) * float64(t.Height)
	if !t.Bilinear {
		return t.texel(int(math.Floor(s)), int(math.Floor(r)))
	}

	// Texel centers sit at half-integer coordinates
	s -= 0.5
	r -= 0.5
	x0, y0 := math.Floor(s), math.Floor(r)
	ds, dr := s-x0, r-y0
	x, y := int(x0), int(y0)
	top := core.Lerp(ds, t.texel(x, y), t.texel(x+1, y))
	bottom := core.Lerp(ds, t.texel(x, y+1), t.texel(x+1, y+1))
	return core.Lerp(dr, top, bottom)
}

// texel returns the texel at (x, y) after applying the wrap mode
func (t *ImageTexture) texel(x, y int) core.Vec3 {
	switch t.Wrap {
	case WrapClamp:
		x = max(0, min(x, t.Width-1))
		y = max(0, min(y, t.Height-1))
	default:
		x = ((x % t.Width) + t.Width) % t.Width
		y = ((y % t.Height) + t.Height) % t.Height
	}
	return t.Pixels[y*t.Width+x]
}
