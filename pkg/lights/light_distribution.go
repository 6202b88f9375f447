package lights

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/samber/lo"
)

// Light selection strategies
const (
	StrategyUniform = "uniform"
	StrategyPower   = "power"
	StrategySpatial = "spatial"
)

// LightDistribution picks lights for shading points. Lookup never returns
// nil when the scene has lights; the result may be shared between callers
// and must not be modified.
type LightDistribution interface {
	Lookup(p core.Vec3) *core.Distribution1D
}

// NewLightDistribution builds the distribution for strategy. Spatial
// distributions need the scene bounds to lay out their voxel grid.
func NewLightDistribution(strategy string, lights []Light, worldBound core.AABB) (LightDistribution, error) {
	if len(lights) == 0 {
		return nil, fmt.Errorf("light distribution %q needs at least one light", strategy)
	}
	switch strategy {
	case StrategyUniform:
		return NewUniformLightDistribution(lights), nil
	case StrategyPower:
		return NewPowerLightDistribution(lights), nil
	case StrategySpatial:
		return NewSpatialLightDistribution(lights, worldBound, defaultMaxVoxels), nil
	}
	return nil, fmt.Errorf("unknown light sample strategy %q", strategy)
}

// UniformLightDistribution gives every light the same probability
type UniformLightDistribution struct {
	distrib *core.Distribution1D
}

// NewUniformLightDistribution creates a uniform distribution over lights
func NewUniformLightDistribution(lights []Light) *UniformLightDistribution {
	return &UniformLightDistribution{
		distrib: core.NewDistribution1D(lo.Times(len(lights), func(int) float64 { return 1 })),
	}
}

// Lookup returns the same distribution everywhere
func (d *UniformLightDistribution) Lookup(p core.Vec3) *core.Distribution1D { return d.distrib }

func (d *UniformLightDistribution) String() string {
	return fmt.Sprintf("UniformLightDistribution{%d lights}", d.distrib.Count())
}

// PowerLightDistribution picks lights in proportion to their emitted power
type PowerLightDistribution struct {
	distrib *core.Distribution1D
}

// NewPowerLightDistribution weights each light by the luminance of its power
func NewPowerLightDistribution(lights []Light) *PowerLightDistribution {
	weights := lo.Map(lights, func(l Light, _ int) float64 {
		return math.Max(0, l.Power().Luminance())
	})
	return &PowerLightDistribution{distrib: core.NewDistribution1D(weights)}
}

// Lookup returns the same distribution everywhere
func (d *PowerLightDistribution) Lookup(p core.Vec3) *core.Distribution1D { return d.distrib }

func (d *PowerLightDistribution) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PowerLightDistribution{%d lights:", d.distrib.Count())
	for i := 0; i < d.distrib.Count(); i++ {
		fmt.Fprintf(&b, " %.3f", d.distrib.DiscretePDF(i))
	}
	b.WriteString("}")
	return b.String()
}

const (
	defaultMaxVoxels       = 64
	spatialSamplesPerVoxel = 128
)

// SpatialLightDistribution divides the scene into voxels and, for each
// voxel, weights lights by their estimated contribution inside it. Voxel
// distributions are built lazily on first lookup and cached; building the
// same voxel twice from two goroutines yields identical results.
type SpatialLightDistribution struct {
	lights  []Light
	bounds  core.AABB
	nVoxels [3]int
	cache   sync.Map // uint64 voxel key -> *core.Distribution1D
}

// NewSpatialLightDistribution lays a grid of at most maxVoxels cells along
// the longest axis over bounds
func NewSpatialLightDistribution(lights []Light, bounds core.AABB, maxVoxels int) *SpatialLightDistribution {
	d := &SpatialLightDistribution{lights: lights, bounds: bounds}
	diag := bounds.Size()
	bmax := diag.MaxComponent()
	for i := 0; i < 3; i++ {
		d.nVoxels[i] = 1
		if bmax > 0 {
			d.nVoxels[i] = max(1, int(math.Round(diag.Get(i)/bmax*float64(maxVoxels))))
		}
	}
	return d
}

// Lookup returns the distribution for the voxel containing p. Points
// outside the bounds use the nearest voxel.
func (d *SpatialLightDistribution) Lookup(p core.Vec3) *core.Distribution1D {
	offset := d.bounds.Offset(p)
	var pi [3]int
	for i := 0; i < 3; i++ {
		pi[i] = max(0, min(int(offset.Get(i)*float64(d.nVoxels[i])), d.nVoxels[i]-1))
	}
	key := uint64(pi[0])<<42 | uint64(pi[1])<<21 | uint64(pi[2])

	if cached, ok := d.cache.Load(key); ok {
		return cached.(*core.Distribution1D)
	}
	distrib := d.computeDistribution(pi, int64(key))
	actual, _ := d.cache.LoadOrStore(key, distrib)
	return actual.(*core.Distribution1D)
}

// computeDistribution estimates each light's contribution at random points
// in the voxel. Lights that contribute nothing keep a small floor so that
// estimates stay unbiased where the sampled points were unlucky.
func (d *SpatialLightDistribution) computeDistribution(pi [3]int, seed int64) *core.Distribution1D {
	lo0 := d.voxelCorner(pi[0], pi[1], pi[2])
	hi0 := d.voxelCorner(pi[0]+1, pi[1]+1, pi[2]+1)

	random := rand.New(rand.NewSource(seed))
	contrib := make([]float64, len(d.lights))
	for i := 0; i < spatialSamplesPerVoxel; i++ {
		p := core.NewVec3(
			lerp(random.Float64(), lo0.X, hi0.X),
			lerp(random.Float64(), lo0.Y, hi0.Y),
			lerp(random.Float64(), lo0.Z, hi0.Z),
		)
		ref := material.Interaction{P: p}
		u := core.NewVec2(random.Float64(), random.Float64())
		for j, light := range d.lights {
			ls := light.SampleLi(&ref, u)
			if ls.Pdf > 0 {
				contrib[j] += ls.Li.Luminance() / ls.Pdf
			}
		}
	}

	avg := lo.Sum(contrib) / float64(spatialSamplesPerVoxel*len(contrib))
	floor := 1.0
	if avg > 0 {
		floor = 0.001 * avg
	}
	contrib = lo.Map(contrib, func(c float64, _ int) float64 { return math.Max(c, floor) })
	return core.NewDistribution1D(contrib)
}

func (d *SpatialLightDistribution) voxelCorner(x, y, z int) core.Vec3 {
	size := d.bounds.Size()
	return core.NewVec3(
		d.bounds.Min.X+size.X*float64(x)/float64(d.nVoxels[0]),
		d.bounds.Min.Y+size.Y*float64(y)/float64(d.nVoxels[1]),
		d.bounds.Min.Z+size.Z*float64(z)/float64(d.nVoxels[2]),
	)
}

func lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

func (d *SpatialLightDistribution) String() string {
	return fmt.Sprintf("SpatialLightDistribution{%d lights, %dx%dx%d voxels}",
		len(d.lights), d.nVoxels[0], d.nVoxels[1], d.nVoxels[2])
}
