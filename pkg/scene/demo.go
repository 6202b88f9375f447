package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/geometry"
	"github.com/df07/go-pbr-core/pkg/lights"
	"github.com/df07/go-pbr-core/pkg/material"
	"github.com/df07/go-pbr-core/pkg/medium"
	"github.com/df07/go-pbr-core/pkg/primitive"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// View describes where a scene wants to be looked at from
type View struct {
	From, At, Up core.Vec3
	VFov         float64 // Vertical field of view in degrees
}

// builder collects primitives and lights while a scene is assembled
type builder struct {
	prims  []primitive.Primitive
	lights []lights.Light
}

// NewQuadMesh creates a two-triangle quad spanning corner, corner+u,
// corner+u+v and corner+v. UVs run from (0,0) at corner to (1,1) at the
// opposite vertex, and the surface normal is u × v.
func NewQuadMesh(corner, u, v core.Vec3, opts *geometry.TriangleMeshOptions) (*geometry.TriangleMesh, error) {
	var o geometry.TriangleMeshOptions
	if opts != nil {
		o = *opts
	}
	if o.UV == nil {
		o.UV = []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(1, 1), core.NewVec2(0, 1)}
	}
	p := []core.Vec3{corner, corner.Add(u), corner.Add(u).Add(v), corner.Add(v)}
	return geometry.NewTriangleMesh(core.IdentityTransform(), []int{0, 1, 2, 0, 2, 3}, p, &o)
}

// addMesh wraps every triangle of mesh in a primitive with mat
func (b *builder) addMesh(mesh *geometry.TriangleMesh, mat material.Material) error {
	prims, err := meshPrimitives(mesh, mat)
	if err != nil {
		return err
	}
	b.prims = append(b.prims, prims...)
	return nil
}

// addAreaLight adds mesh as an emitter: one DiffuseAreaLight per triangle
func (b *builder) addAreaLight(mesh *geometry.TriangleMesh, lemit core.Vec3, twoSided bool) error {
	black := material.NewMatte(core.Vec3{})
	for _, tri := range mesh.Triangles() {
		light := lights.NewDiffuseAreaLight(lemit, tri, 1, twoSided)
		prim, err := primitive.NewGeometricPrimitive(tri, black, light, medium.MediumInterface{})
		if err != nil {
			return err
		}
		b.prims = append(b.prims, prim)
		b.lights = append(b.lights, light)
	}
	return nil
}

func meshPrimitives(mesh *geometry.TriangleMesh, mat material.Material) ([]primitive.Primitive, error) {
	prims := make([]primitive.Primitive, 0, mesh.NTriangles)
	for _, tri := range mesh.Triangles() {
		prim, err := primitive.NewGeometricPrimitive(tri, mat, nil, medium.MediumInterface{})
		if err != nil {
			return nil, err
		}
		prims = append(prims, prim)
	}
	return prims, nil
}

// NewInstancedDemo builds a small room lit by a ceiling panel and a
// spherical lamp: a floor and
// back wall made from quads, a glass box and a copper puck tessellated
// from signed distance fields, an alpha-masked checker panel, and three instances of
// one shared cylinder mesh, the last of them moving during the shutter
// interval [0, 1].
func NewInstancedDemo(logger core.Logger) (*Scene, View, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	view := View{
		From: core.NewVec3(0, 2.5, 9),
		At:   core.NewVec3(0, 1.2, 0),
		Up:   core.NewVec3(0, 1, 0),
		VFov: 45,
	}
	b := &builder{}

	// Floor (+Y normal) and back wall (+Z normal)
	floor, err := NewQuadMesh(core.NewVec3(-6, 0, -6), core.NewVec3(0, 0, 12), core.NewVec3(12, 0, 0), nil)
	if err != nil {
		return nil, view, fmt.Errorf("floor: %w", err)
	}
	floorMat := material.NewMix(material.NewMatte(core.NewVec3(0.7, 0.7, 0.7)), material.NewMirror(core.NewSpectrum(0.9)), 0.85)
	if err := b.addMesh(floor, floorMat); err != nil {
		return nil, view, err
	}
	wall, err := NewQuadMesh(core.NewVec3(-6, 0, -4), core.NewVec3(12, 0, 0), core.NewVec3(0, 6, 0), nil)
	if err != nil {
		return nil, view, fmt.Errorf("back wall: %w", err)
	}
	// Tiled wall: grooves come from bumping along the tile edges
	wallMat := material.NewTexturedMatte(material.UVSpectrum{})
	wallMat.Bump = material.NewCheckerboardFloat(0, 0.01, 12, 6)
	if err := b.addMesh(wall, wallMat); err != nil {
		return nil, view, err
	}

	// Ceiling panel facing down
	panel, err := NewQuadMesh(core.NewVec3(-1, 5.5, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), nil)
	if err != nil {
		return nil, view, fmt.Errorf("light panel: %w", err)
	}
	if err := b.addAreaLight(panel, core.NewSpectrum(12), false); err != nil {
		return nil, view, err
	}

	// Small warm lamp hanging in the back corner
	lamp := geometry.NewSphere(core.NewVec3(2.8, 2.2, -2.5), 0.3)
	lampLight := lights.NewDiffuseAreaLight(core.NewVec3(6, 4.5, 2.5), lamp, 1, false)
	lampPrim, err := primitive.NewGeometricPrimitive(lamp, material.NewMatte(core.Vec3{}), lampLight, medium.MediumInterface{})
	if err != nil {
		return nil, view, fmt.Errorf("lamp: %w", err)
	}
	b.prims = append(b.prims, lampPrim)
	b.lights = append(b.lights, lampLight)

	// Panel with square holes cut by an alpha mask
	checker := material.NewCheckerboardFloat(1, 0, 4, 4)
	screen, err := NewQuadMesh(core.NewVec3(-4.5, 0, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0),
		&geometry.TriangleMeshOptions{AlphaMask: checker, ShadowAlphaMask: checker})
	if err != nil {
		return nil, view, fmt.Errorf("checker panel: %w", err)
	}
	tiles := material.NewCheckerboardTexture(64, 64, 8, core.NewVec3(0.8, 0.7, 0.2), core.NewVec3(0.2, 0.5, 0.3))
	if err := b.addMesh(screen, material.NewTexturedMatte(tiles)); err != nil {
		return nil, view, err
	}

	// Glass box
	box, err := sdf.Box3D(v3.Vec{X: 1.2, Y: 1.2, Z: 1.2}, 0.1)
	if err != nil {
		return nil, view, fmt.Errorf("glass box: %w", err)
	}
	glassMesh, err := geometry.NewTriangleMeshFromSDF(box, 32, core.Translate(core.NewVec3(1.5, 0.6, 0)), nil)
	if err != nil {
		return nil, view, fmt.Errorf("glass box: %w", err)
	}
	if err := b.addMesh(glassMesh, material.NewGlass(1.5)); err != nil {
		return nil, view, err
	}

	// Brushed copper puck, lying flat on the floor
	puck, err := sdf.Cylinder3D(0.3, 0.8, 0.08)
	if err != nil {
		return nil, view, fmt.Errorf("copper puck: %w", err)
	}
	puckToWorld := core.Translate(core.NewVec3(-1.2, 0.15, -2.2)).Compose(core.Rotate(-math.Pi/2, core.NewVec3(1, 0, 0)))
	puckMesh, err := geometry.NewTriangleMeshFromSDF(puck, 24, puckToWorld, nil)
	if err != nil {
		return nil, view, fmt.Errorf("copper puck: %w", err)
	}
	copper := material.NewCopper(0.25)
	copper.VRoughness = material.NewConstantFloat(0.05)
	if err := b.addMesh(puckMesh, copper); err != nil {
		return nil, view, err
	}

	// Shared cylinder, tessellated once in object space with its axis on Z
	cylinder, err := sdf.Cylinder3D(1.2, 0.45, 0.05)
	if err != nil {
		return nil, view, fmt.Errorf("cylinder: %w", err)
	}
	cylMesh, err := geometry.NewTriangleMeshFromSDF(cylinder, 32, core.IdentityTransform(), nil)
	if err != nil {
		return nil, view, fmt.Errorf("cylinder: %w", err)
	}
	cylPrims, err := meshPrimitives(cylMesh, material.NewMatte(core.NewVec3(0.2, 0.4, 0.8)))
	if err != nil {
		return nil, view, err
	}
	shared := primitive.NewBVH(cylPrims)

	standUp := core.Rotate(-math.Pi/2, core.NewVec3(1, 0, 0))
	placements := []core.Transform{
		core.Translate(core.NewVec3(-2.5, 0.6, 0.5)).Compose(standUp),
		core.Translate(core.NewVec3(-0.5, 0.6, 1.5)).Compose(core.Rotate(math.Pi/4, core.NewVec3(0, 1, 0))).Compose(standUp),
	}
	for _, placement := range placements {
		b.prims = append(b.prims, primitive.NewTransformedPrimitive(shared, core.NewStaticTransform(placement)))
	}
	moving, err := core.NewAnimatedTransform(
		core.Translate(core.NewVec3(3.2, 0.6, 2)).Compose(standUp), 0,
		core.Translate(core.NewVec3(3.8, 0.6, 2)).Compose(standUp), 1,
	)
	if err != nil {
		return nil, view, fmt.Errorf("moving instance: %w", err)
	}
	b.prims = append(b.prims, primitive.NewTransformedPrimitive(shared, moving))

	// Faint sky seen through the open front of the room
	b.lights = append(b.lights, lights.NewUniformInfiniteLight(core.NewVec3(0.05, 0.07, 0.1)))

	bvh := primitive.NewBVH(b.prims)
	logger.Printf("Demo scene: %d primitives, %d lights, shared mesh of %d triangles\n",
		len(b.prims), len(b.lights), cylMesh.NTriangles)
	logger.Printf("BVH: %s\n", bvh.Stats())

	return New(bvh, b.lights), view, nil
}
