package integrator

import (
	"fmt"
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/lights"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/scene"
)

// Termination tells why a path stopped
type Termination int

const (
	Escaped          Termination = iota // Left the scene
	MaxDepth                            // Reached the bounce limit
	ZeroSample                          // A BSDF or BSSRDF sample carried no energy
	RussianRoulette                     // Killed by Russian roulette
	NullSurfaceLimit                    // Crossed too many surfaces without a BSDF
)

func (t Termination) String() string {
	switch t {
	case Escaped:
		return "escaped"
	case MaxDepth:
		return "max-depth"
	case ZeroSample:
		return "zero-sample"
	case RussianRoulette:
		return "russian-roulette"
	case NullSurfaceLimit:
		return "null-surface-limit"
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

// PathConfig controls the path integrator
type PathConfig struct {
	MaxDepth                int     // Maximum number of bounces
	RRThreshold             float64 // Russian roulette applies when max(beta * etaScale) drops below this; 0 disables it
	LightSampleStrategy     string  // "uniform", "power" or "spatial"
	MaxNullSurfaceCrossings int     // Null surfaces a path may cross before it is dropped
}

// DefaultPathConfig returns the settings used when none are given
func DefaultPathConfig() PathConfig {
	return PathConfig{
		MaxDepth:                5,
		RRThreshold:             1,
		LightSampleStrategy:     lights.StrategySpatial,
		MaxNullSurfaceCrossings: 256,
	}
}

// PathResult is the outcome of one path
type PathResult struct {
	L           core.Vec3 // Radiance carried back to the camera
	Bounces     int       // Scattering events completed
	Termination Termination
}

// PathIntegrator implements unidirectional path tracing with next event
// estimation
type PathIntegrator struct {
	config            PathConfig
	logger            core.Logger
	lightDistribution lights.LightDistribution
}

// NewPathIntegrator creates a path integrator. An empty light strategy and
// a zero null-surface cap fall back to DefaultPathConfig. MaxDepth and
// RRThreshold are taken as given, so 0 means no bounces and no roulette.
func NewPathIntegrator(config PathConfig, logger core.Logger) *PathIntegrator {
	defaults := DefaultPathConfig()
	if config.LightSampleStrategy == "" {
		config.LightSampleStrategy = defaults.LightSampleStrategy
	}
	if config.MaxNullSurfaceCrossings == 0 {
		config.MaxNullSurfaceCrossings = defaults.MaxNullSurfaceCrossings
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &PathIntegrator{config: config, logger: logger}
}

// Config returns the integrator's settings
func (pi *PathIntegrator) Config() PathConfig {
	return pi.config
}

// Preprocess builds the light sampling distribution for the scene
func (pi *PathIntegrator) Preprocess(s *scene.Scene, sampler core.Sampler) error {
	if len(s.Lights) == 0 {
		pi.lightDistribution = nil
		pi.logger.Printf("Path integrator: scene has no lights, skipping direct lighting\n")
		return nil
	}
	distrib, err := lights.NewLightDistribution(pi.config.LightSampleStrategy, s.Lights, s.WorldBound())
	if err != nil {
		return fmt.Errorf("path integrator: %w", err)
	}
	pi.lightDistribution = distrib
	pi.logger.Printf("Path integrator: max depth %d, %v\n", pi.config.MaxDepth, distrib)
	return nil
}

// Li returns the radiance arriving along ray
func (pi *PathIntegrator) Li(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *material.Arena) core.Vec3 {
	return pi.Trace(ray, s, sampler, arena).L
}

// pathState is a step of the bounce loop
type pathState int

const (
	tracingSegment    pathState = iota // Have a ray, looking for the next hit
	haveInteraction                    // Hit found, scattering not yet resolved
	scattered                          // New direction chosen
	escapedToInfinity                  // Ray left the scene
	terminated
)

// path is the state carried between bounces of one camera ray
type path struct {
	ray            core.Ray
	si             *material.SurfaceInteraction
	L              core.Vec3
	beta           core.Vec3
	etaScale       float64
	specularBounce bool
	bounces        int
	nullCrossings  int
	termination    Termination
}

// Trace walks one path and reports its radiance and why it ended
func (pi *PathIntegrator) Trace(ray core.Ray, s *scene.Scene, sampler core.Sampler, arena *material.Arena) PathResult {
	defer arena.Reset()

	p := &path{ray: ray, beta: core.NewSpectrum(1), etaScale: 1}
	state := tracingSegment
	for state != terminated {
		switch state {
		case tracingSegment:
			state = pi.traceSegment(p, s)
		case haveInteraction:
			state = pi.scatter(p, s, sampler, arena)
		case scattered:
			state = pi.roulette(p, sampler)
		case escapedToInfinity:
			if p.bounces == 0 || p.specularBounce {
				for _, light := range s.InfiniteLights {
					p.L = p.L.Add(p.beta.MultiplyVec(light.Le(p.ray)))
				}
				checkRadiance("escaped radiance", p.L)
			}
			state = p.terminate(Escaped)
		}
	}
	return PathResult{L: p.L, Bounces: p.bounces, Termination: p.termination}
}

func (p *path) terminate(reason Termination) pathState {
	p.termination = reason
	return terminated
}

// traceSegment finds the next hit and counts emission that next event
// estimation could not have sampled
func (pi *PathIntegrator) traceSegment(p *path, s *scene.Scene) pathState {
	si, hit := s.Intersect(&p.ray)
	if !hit {
		return escapedToInfinity
	}
	if p.bounces == 0 || p.specularBounce {
		p.L = p.L.Add(p.beta.MultiplyVec(si.Le(p.ray.Direction.Negate())))
		checkRadiance("emitted radiance", p.L)
	}
	if p.bounces >= pi.config.MaxDepth {
		return p.terminate(MaxDepth)
	}
	p.si = si
	return haveInteraction
}

// scatter resolves the BSDF at the current hit, samples direct lighting
// and picks the next direction
func (pi *PathIntegrator) scatter(p *path, s *scene.Scene, sampler core.Sampler, arena *material.Arena) pathState {
	si := p.si
	si.ComputeScatteringFunctions(arena, material.Radiance, true)
	if si.BSDF == nil {
		// Medium boundary: continue in the same direction without a bounce
		p.nullCrossings++
		if p.nullCrossings > pi.config.MaxNullSurfaceCrossings {
			return p.terminate(NullSurfaceLimit)
		}
		p.ray = si.SpawnRay(p.ray.Direction)
		return tracingSegment
	}

	pi.sampleDirect(p, si, s, sampler, arena)

	wo := p.ray.Direction.Negate()
	f, wi, pdf, sampledType := si.BSDF.SampleF(wo, sampler.Get2D(), material.BSDFAll)
	if f.IsBlack() || pdf == 0 {
		return p.terminate(ZeroSample)
	}
	p.beta = p.beta.MultiplyVec(f).Multiply(wi.AbsDot(si.Shading.N) / pdf)
	checkRadiance("path throughput", p.beta)
	p.specularBounce = sampledType.Has(material.BSDFSpecular)
	if sampledType.Has(material.BSDFSpecular) && sampledType.Has(material.BSDFTransmission) {
		eta := si.BSDF.Eta
		if wo.Dot(si.N) > 0 {
			p.etaScale *= eta * eta
		} else {
			p.etaScale /= eta * eta
		}
	}
	p.ray = si.SpawnRay(wi)

	if si.BSSRDF != nil && sampledType.Has(material.BSDFTransmission) {
		return pi.scatterSubsurface(p, si, s, sampler, arena)
	}
	return scattered
}

// sampleDirect adds next event estimation at si unless only specular
// lobes are present
func (pi *PathIntegrator) sampleDirect(p *path, si *material.SurfaceInteraction, s *scene.Scene, sampler core.Sampler, arena *material.Arena) {
	if pi.lightDistribution == nil {
		return
	}
	if si.BSDF.NumComponents(material.BSDFAll&^material.BSDFSpecular) == 0 {
		return
	}
	distrib := pi.lightDistribution.Lookup(si.P)
	ld := p.beta.MultiplyVec(UniformSampleOneLight(si, s, arena, sampler, false, distrib))
	checkRadiance("direct lighting", ld)
	p.L = p.L.Add(ld)
}

// scatterSubsurface moves the path to an exit point chosen by the BSSRDF
// and samples a new direction there
func (pi *PathIntegrator) scatterSubsurface(p *path, si *material.SurfaceInteraction, s *scene.Scene, sampler core.Sampler, arena *material.Arena) pathState {
	u2 := sampler.Get2D()
	u1 := sampler.Get1D()
	sv, exit, pdf := si.BSSRDF.SampleS(s, u1, u2, arena)
	if sv.IsBlack() || pdf == 0 {
		return p.terminate(ZeroSample)
	}
	p.beta = p.beta.MultiplyVec(sv).Multiply(1 / pdf)
	checkRadiance("subsurface throughput", p.beta)
	if exit == nil {
		panic(fmt.Errorf("%w: BSSRDF sample has no exit point", ErrInvariantViolation))
	}
	if exit.BSDF == nil {
		panic(fmt.Errorf("%w: BSSRDF exit point has no BSDF", ErrInvariantViolation))
	}

	pi.sampleDirect(p, exit, s, sampler, arena)

	f, wi, pdf, sampledType := exit.BSDF.SampleF(exit.Wo, sampler.Get2D(), material.BSDFAll)
	if f.IsBlack() || pdf == 0 {
		return p.terminate(ZeroSample)
	}
	p.beta = p.beta.MultiplyVec(f).Multiply(wi.AbsDot(exit.Shading.N) / pdf)
	checkRadiance("subsurface throughput", p.beta)
	p.specularBounce = sampledType.Has(material.BSDFSpecular)
	p.ray = exit.SpawnRay(wi)
	return scattered
}

// roulette possibly ends the path and otherwise completes the bounce
func (pi *PathIntegrator) roulette(p *path, sampler core.Sampler) pathState {
	if p.bounces > 3 && pi.config.RRThreshold > 0 {
		survive, scale := russianRoulette(p.beta.Multiply(p.etaScale), pi.config.RRThreshold, sampler)
		if !survive {
			return p.terminate(RussianRoulette)
		}
		p.beta = p.beta.Multiply(scale)
		checkRadiance("path throughput", p.beta)
	}
	p.bounces++
	return tracingSegment
}

// russianRoulette decides whether a path with throughput rrBeta (refraction
// scaling factored out) continues, and by how much to boost it if so
func russianRoulette(rrBeta core.Vec3, threshold float64, sampler core.Sampler) (bool, float64) {
	maxBeta := rrBeta.MaxComponent()
	if maxBeta >= threshold {
		return true, 1
	}
	q := math.Max(0.05, 1-maxBeta)
	if sampler.Get1D() < q {
		return false, 0
	}
	return true, 1 / (1 - q)
}
