package renderer

import (
	"fmt"
	"image"
	"strings"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/integrator"
	"github.com/samber/lo"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels  int                            // Total number of pixels rendered
	TotalSamples int                            // Total number of camera rays traced
	TotalBounces int                            // Scattering events over all traced paths
	Terminations map[integrator.Termination]int // Why paths ended, when the integrator reports it
}

// AverageBounces returns the mean path length in bounces
func (s RenderStats) AverageBounces() float64 {
	if s.TotalSamples == 0 {
		return 0
	}
	return float64(s.TotalBounces) / float64(s.TotalSamples)
}

// merge folds the statistics of one row into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.TotalBounces += other.TotalBounces
	for reason, n := range other.Terminations {
		if s.Terminations == nil {
			s.Terminations = make(map[integrator.Termination]int)
		}
		s.Terminations[reason] += n
	}
}

// record counts one finished path
func (s *RenderStats) record(result integrator.PathResult) {
	if s.Terminations == nil {
		s.Terminations = make(map[integrator.Termination]int)
	}
	s.Terminations[result.Termination]++
	s.TotalBounces += result.Bounces
}

// TerminationSummary formats the termination counts in enum order, for logs
func (s RenderStats) TerminationSummary() string {
	parts := lo.FilterMap(lo.Range(int(integrator.NullSurfaceLimit)+1), func(i int, _ int) (string, bool) {
		reason := integrator.Termination(i)
		n := s.Terminations[reason]
		return fmt.Sprintf("%v=%d", reason, n), n > 0
	})
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for the final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean luminance of img,
// with channels mapped to [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}
	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			total += c.Luminance()
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
