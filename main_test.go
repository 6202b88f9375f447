package main

import (
	"context"
	"image/png"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/integrator"
	"github.com/df07/go-pbr-core/pkg/lights"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/scene"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
		check       func(t *testing.T, opts options)
	}{
		{
			name: "defaults",
			args: nil,
			check: func(t *testing.T, opts options) {
				if opts.integrator != "path" || opts.path.LightSampleStrategy != lights.StrategySpatial {
					t.Errorf("Expected path tracing with spatial light sampling, got %q and %q", opts.integrator, opts.path.LightSampleStrategy)
				}
				if !strings.HasPrefix(opts.out, filepath.Join("output", "path")) {
					t.Errorf("Expected output under output/path, got %q", opts.out)
				}
			},
		},
		{
			name: "all flags",
			args: []string{"-width", "32", "-height", "16", "-spp", "3", "-depth", "7", "-rr", "0.5",
				"-strategy", "power", "-out", "x.png", "-workers", "2", "-seed", "9"},
			check: func(t *testing.T, opts options) {
				if opts.render.Width != 32 || opts.render.Height != 16 || opts.render.SamplesPerPixel != 3 {
					t.Errorf("Unexpected render config %+v", opts.render)
				}
				if opts.render.NumWorkers != 2 || opts.render.Seed != 9 {
					t.Errorf("Unexpected worker settings %+v", opts.render)
				}
				if opts.path.MaxDepth != 7 || opts.path.RRThreshold != 0.5 || opts.path.LightSampleStrategy != "power" {
					t.Errorf("Unexpected path config %+v", opts.path)
				}
				if opts.out != "x.png" {
					t.Errorf("Expected output x.png, got %q", opts.out)
				}
			},
		},
		{name: "unknown flag", args: []string{"-bogus"}, expectError: true},
		{name: "negative depth", args: []string{"-depth", "-1"}, expectError: true},
		{name: "negative rr", args: []string{"-rr", "-0.1"}, expectError: true},
		{name: "stray argument", args: []string{"scene.pbrt"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.args, io.Discard)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected an error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			tt.check(t, opts)
		})
	}
}

func TestCreateIntegrator(t *testing.T) {
	tests := []struct {
		name        string
		integrator  string
		expectError bool
	}{
		{"path tracer", "path", false},
		{"ambient occlusion", "ao", false},
		{"unknown", "bdpt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ, err := createIntegrator(options{integrator: tt.integrator, aoSamples: 4}, core.NopLogger{})
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected an error for integrator %q, got %T", tt.integrator, integ)
				}
				return
			}
			if err != nil || integ == nil {
				t.Errorf("Expected an integrator for %q, got %v", tt.integrator, err)
			}
		})
	}
}

func TestRouletteDisabledByFlag(t *testing.T) {
	opts, err := parseOptions([]string{"-rr", "0", "-depth", "12"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	integ, err := createIntegrator(opts, core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	pi, ok := integ.(*integrator.PathIntegrator)
	if !ok {
		t.Fatalf("Expected a path integrator, got %T", integ)
	}
	if rr := pi.Config().RRThreshold; rr != 0 {
		t.Fatalf("Expected roulette threshold 0, got %f", rr)
	}

	s, view, err := scene.NewInstancedDemo(core.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}
	random := rand.New(rand.NewSource(4))
	sampler := core.NewRandomSampler(random)
	if err := pi.Preprocess(s, sampler); err != nil {
		t.Fatal(err)
	}
	arena := material.NewArena()
	forward := view.At.Subtract(view.From).Normalize()
	for i := 0; i < 300; i++ {
		jitter := core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(0.6)
		ray := core.NewRayAt(view.From, forward.Add(jitter).Normalize(), random.Float64())
		if result := pi.Trace(ray, s, sampler, arena); result.Termination == integrator.RussianRoulette {
			t.Fatalf("Expected no roulette with -rr 0, path ended after %d bounces", result.Bounces)
		}
	}
}

func TestRun_WritesPNG(t *testing.T) {
	for _, integ := range []string{"path", "ao"} {
		t.Run(integ, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "nested", "render.png")
			args := []string{"-width", "12", "-height", "8", "-spp", "1", "-integrator", integ, "-ao-samples", "2", "-out", out}
			if err := run(context.Background(), args, io.Discard, core.NopLogger{}); err != nil {
				t.Fatal(err)
			}

			file, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer file.Close()
			img, err := png.Decode(file)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
				t.Errorf("Expected a 12x8 image, got %v", b)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown integrator", []string{"-integrator", "bdpt"}},
		{"unknown strategy", []string{"-strategy", "nearest", "-width", "2", "-height", "2", "-spp", "1"}},
		{"zero samples", []string{"-spp", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "-out", filepath.Join(t.TempDir(), "x.png"))
			if err := run(context.Background(), args, io.Discard, core.NopLogger{}); err == nil {
				t.Errorf("Expected an error for %v", tt.args)
			}
		})
	}
}
