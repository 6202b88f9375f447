package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/integrator"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/scene"
)

// Config contains rendering configuration
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Camera rays per pixel
	NumWorkers      int   // Parallel workers (0 = use CPU count)
	Seed            int64 // Base seed; row y uses Seed + y
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 16,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Raytracer renders a scene through a camera with an integrator
type Raytracer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// tracer is implemented by integrators that report how each path ended
type tracer interface {
	Trace(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *material.Arena) integrator.PathResult
}

// NewRaytracer validates config and runs the integrator's Preprocess once
// for the scene
func NewRaytracer(s *scene.Scene, view scene.View, integ integrator.Integrator, config Config, logger core.Logger) (*Raytracer, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if config.SamplesPerPixel <= 0 {
		return nil, fmt.Errorf("invalid samples per pixel %d", config.SamplesPerPixel)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(config.Seed)))
	if err := integ.Preprocess(s, sampler); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	return &Raytracer{
		scene:      s,
		camera:     NewCamera(view, config.Width, config.Height),
		integrator: integ,
		config:     config,
		logger:     logger,
	}, nil
}

// Render traces the whole image across a worker pool. Rows not started
// before ctx is cancelled are left black and ctx's error is returned
// alongside the partial image.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	width, height := rt.config.Width, rt.config.Height
	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	pool := NewWorkerPool(rt, rt.config.NumWorkers, height)
	rt.logger.Printf("Rendering %dx%d at %d spp with %d workers...\n",
		width, height, rt.config.SamplesPerPixel, pool.GetNumWorkers())
	start := time.Now()

	pool.Start(ctx)
	for y := 0; y < height; y++ {
		pool.SubmitTask(RowTask{Y: y, Pixels: pixelStats[y]})
	}
	pool.Stop()

	var stats RenderStats
	var errs []error
	for result := range pool.Results() {
		if result.Error != nil {
			errs = append(errs, result.Error)
			continue
		}
		stats.merge(result.Stats)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range pixelStats {
		for x := range pixelStats[y] {
			// Row 0 of the image is the top of the view
			img.SetRGBA(x, height-1-y, vec3ToColor(pixelStats[y][x].GetColor()))
		}
	}

	rt.logger.Printf("Rendered %d samples in %v, %.2f bounces per path\n",
		stats.TotalSamples, time.Since(start), stats.AverageBounces())
	if len(stats.Terminations) > 0 {
		rt.logger.Printf("Path terminations: %s\n", stats.TerminationSummary())
	}
	if len(errs) > 0 {
		return img, stats, fmt.Errorf("render interrupted with %d rows left: %w", len(errs), errors.Join(errs...))
	}
	return img, stats, nil
}

// RenderRow accumulates SamplesPerPixel jittered camera rays into every
// pixel of row y, counted from the bottom of the image
func (rt *Raytracer) RenderRow(y int, pixels []PixelStats, sampler core.Sampler, arena *material.Arena) RenderStats {
	stats := RenderStats{TotalPixels: len(pixels)}
	pathTracer, reportsPaths := rt.integrator.(tracer)

	for x := range pixels {
		for i := 0; i < rt.config.SamplesPerPixel; i++ {
			jitter := sampler.Get2D()
			s := (float64(x) + jitter.X) / float64(rt.config.Width)
			t := (float64(y) + jitter.Y) / float64(rt.config.Height)
			ray := rt.camera.GetRay(s, t, sampler.Get1D())

			var l core.Vec3
			if reportsPaths {
				result := pathTracer.Trace(ray, rt.scene, sampler, arena)
				stats.record(result)
				l = result.L
			} else {
				l = rt.integrator.Li(ray, rt.scene, sampler, arena)
			}
			pixels[x].AddSample(l)
			stats.TotalSamples++
		}
	}
	return stats
}

// vec3ToColor converts linear radiance to RGBA with gamma 2 and clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.GammaCorrect(2.0).Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
