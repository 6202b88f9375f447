package primitive

import (
	"fmt"

	"github.com/df07/go-pbr-core/pkg/core"
	"github.com/df07/go-pbr-core/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Axis        int         // Split axis of an internal node
	Primitives  []Primitive // Primitives of a leaf node (nil for internal nodes)
}

// BVH is the scene aggregate. It is itself a Primitive so instances can
// wrap a whole hierarchy.
type BVH struct {
	Root *BVHNode
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 8

// NewBVH builds a BVH over prims using median splits on the longest axis
func NewBVH(prims []Primitive) *BVH {
	if len(prims) == 0 {
		return &BVH{}
	}

	// Build on a copy so callers keep their own ordering
	primsCopy := make([]Primitive, len(prims))
	copy(primsCopy, prims)

	return &BVH{Root: buildBVH(primsCopy, 0)}
}

func buildBVH(prims []Primitive, depth int) *BVHNode {
	boundingBox := prims[0].WorldBound()
	for _, p := range prims[1:] {
		boundingBox = boundingBox.Union(p.WorldBound())
	}

	if len(prims) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Primitives: prims}
	}

	// Split the centroid bounds rather than the full bounds so large
	// primitives do not pull every centroid to one side
	centroids := core.NewAABBFromPoints(prims[0].WorldBound().Center())
	for _, p := range prims[1:] {
		centroids = centroids.UnionPoint(p.WorldBound().Center())
	}
	axis := centroids.LongestAxis()
	minVal, maxVal := centroids.Min.Get(axis), centroids.Max.Get(axis)
	if maxVal <= minVal {
		return &BVHNode{BoundingBox: boundingBox, Primitives: prims}
	}
	splitPos := (minVal + maxVal) * 0.5

	var left, right []Primitive
	for _, p := range prims {
		if p.WorldBound().Center().Get(axis) < splitPos {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Primitives: prims}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Axis:        axis,
		Left:        buildBVH(left, depth+1),
		Right:       buildBVH(right, depth+1),
	}
}

// WorldBound returns the bounds of everything in the hierarchy
func (bvh *BVH) WorldBound() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// Intersect finds the closest hit. Each hit shortens ray.TMax, which prunes
// the remaining nodes.
func (bvh *BVH) Intersect(ray *core.Ray) (*material.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.intersectNode(bvh.Root, ray)
}

func (bvh *BVH) intersectNode(node *BVHNode, ray *core.Ray) (*material.SurfaceInteraction, bool) {
	if !node.BoundingBox.IntersectP(*ray) {
		return nil, false
	}

	if node.Primitives != nil {
		var closest *material.SurfaceInteraction
		for _, p := range node.Primitives {
			if si, ok := p.Intersect(ray); ok {
				closest = si
			}
		}
		return closest, closest != nil
	}

	// Visit the child on the ray's near side first
	first, second := node.Left, node.Right
	if ray.Direction.Get(node.Axis) < 0 {
		first, second = second, first
	}
	closest, hit := bvh.intersectNode(first, ray)
	if si, ok := bvh.intersectNode(second, ray); ok {
		closest, hit = si, true
	}
	return closest, hit
}

// IntersectP stops at the first hit found
func (bvh *BVH) IntersectP(ray core.Ray) bool {
	if bvh.Root == nil {
		return false
	}
	return bvh.intersectPNode(bvh.Root, ray)
}

func (bvh *BVH) intersectPNode(node *BVHNode, ray core.Ray) bool {
	if !node.BoundingBox.IntersectP(ray) {
		return false
	}
	if node.Primitives != nil {
		for _, p := range node.Primitives {
			if p.IntersectP(ray) {
				return true
			}
		}
		return false
	}
	return bvh.intersectPNode(node.Left, ray) || bvh.intersectPNode(node.Right, ray)
}

// GetMaterial is nil; hits always report the leaf primitive
func (bvh *BVH) GetMaterial() material.Material { return nil }

// GetAreaLight is nil; hits always report the leaf primitive
func (bvh *BVH) GetAreaLight() material.AreaLight { return nil }

// ComputeScatteringFunctions panics: interactions never point at an aggregate
func (bvh *BVH) ComputeScatteringFunctions(si *material.SurfaceInteraction, arena *material.Arena, mode material.TransportMode, allowMultipleLobes bool) {
	panic(fmt.Sprintf("ComputeScatteringFunctions called on BVH aggregate at %v", si.P))
}

// BVHStats describes the shape of a hierarchy
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
}

func (s BVHStats) String() string {
	return fmt.Sprintf("%d primitives in %d nodes (%d leaves), depth max %d avg %.1f",
		s.TotalPrimitives, s.TotalNodes, s.LeafNodes, s.MaxDepth, s.AvgDepth)
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(bvh.Root, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Primitives != nil {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.Primitives)
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}
	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
