package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/integrator"
	"github.com/df07/go-pbr-core/pkg/renderer"
	"github.com/df07/go-pbr-core/pkg/scene"
)

// options holds the parsed command line
type options struct {
	render     renderer.Config
	path       integrator.PathConfig
	integrator string
	aoSamples  int
	out        string
}

func parseOptions(args []string, output io.Writer) (options, error) {
	opts := options{render: renderer.DefaultConfig(), path: integrator.DefaultPathConfig()}

	fs := flag.NewFlagSet("pbr", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&opts.render.Width, "width", opts.render.Width, "Image width in pixels")
	fs.IntVar(&opts.render.Height, "height", opts.render.Height, "Image height in pixels")
	fs.IntVar(&opts.render.SamplesPerPixel, "spp", opts.render.SamplesPerPixel, "Samples per pixel")
	fs.IntVar(&opts.render.NumWorkers, "workers", opts.render.NumWorkers, "Parallel workers (0 = CPU count)")
	fs.Int64Var(&opts.render.Seed, "seed", opts.render.Seed, "Random seed")
	fs.IntVar(&opts.path.MaxDepth, "depth", opts.path.MaxDepth, "Maximum path depth")
	fs.Float64Var(&opts.path.RRThreshold, "rr", opts.path.RRThreshold, "Russian roulette threshold (0 disables roulette)")
	fs.StringVar(&opts.path.LightSampleStrategy, "strategy", opts.path.LightSampleStrategy, "Light sampling strategy: uniform, power or spatial")
	fs.StringVar(&opts.integrator, "integrator", "path", "Integrator: path or ao")
	fs.IntVar(&opts.aoSamples, "ao-samples", 64, "Occlusion rays per camera ray for -integrator=ao")
	fs.StringVar(&opts.out, "out", "", "Output PNG (default output/<integrator>/render_<timestamp>.png)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.path.MaxDepth < 0 {
		return opts, fmt.Errorf("invalid depth %d", opts.path.MaxDepth)
	}
	if opts.path.RRThreshold < 0 {
		return opts, fmt.Errorf("invalid russian roulette threshold %f", opts.path.RRThreshold)
	}
	if opts.out == "" {
		opts.out = filepath.Join("output", opts.integrator,
			fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	return opts, nil
}

func createIntegrator(opts options, logger core.Logger) (integrator.Integrator, error) {
	switch opts.integrator {
	case "path":
		return integrator.NewPathIntegrator(opts.path, logger), nil
	case "ao":
		return integrator.NewAOIntegrator(true, opts.aoSamples), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", opts.integrator)
	}
}

func run(ctx context.Context, args []string, output io.Writer, logger core.Logger) error {
	opts, err := parseOptions(args, output)
	if err != nil {
		return err
	}
	integ, err := createIntegrator(opts, logger)
	if err != nil {
		return err
	}

	s, view, err := scene.NewInstancedDemo(logger)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	rt, err := renderer.NewRaytracer(s, view, integ, opts.render, logger)
	if err != nil {
		return err
	}

	img, _, renderErr := rt.Render(ctx)
	if img == nil {
		return renderErr
	}
	logger.Printf("Average luminance: %.4f\n", renderer.CalculateAverageLuminance(img))

	if err := os.MkdirAll(filepath.Dir(opts.out), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}
	logger.Printf("Render saved as %s\n", opts.out)
	// A cancelled render still writes what it finished
	return renderErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr, core.NewDefaultLogger()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
