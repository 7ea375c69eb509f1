package geometry

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/log"
)

var (
	// ErrEmptyScene is returned when a BVH is built from no objects
	ErrEmptyScene = errors.New("bvh: cannot build from an empty object list")

	// ErrMissingBoundingBox is returned when an object cannot be bounded
	ErrMissingBoundingBox = errors.New("bvh: object has no bounding box")
)

var logger = log.New("bvh")

// BVHNode is a node in the Bounding Volume Hierarchy. Leaves are the scene
// objects themselves; a node built from a single object references it from
// both Left and Right so traversal never meets a nil child.
type BVHNode struct {
	Left  core.Hittable
	Right core.Hittable
	Box   core.AABB

	single bool // Left and Right reference the same object
}

// NewBVH builds a BVH over objects. The split axis of every node is chosen
// uniformly at random with sampler. The objects slice is not modified.
func NewBVH(objects []core.Hittable, sampler core.Sampler) (*BVHNode, error) {
	if len(objects) == 0 {
		return nil, ErrEmptyScene
	}

	// Cache boxes up front so sorting never re-evaluates them and a missing
	// box is reported before any node is built
	items := make([]bvhItem, len(objects))
	for i, object := range objects {
		box, ok := object.BoundingBox()
		if !ok {
			return nil, fmt.Errorf("%w: object %d (%T)", ErrMissingBoundingBox, i, object)
		}
		items[i] = bvhItem{object: object, box: box}
	}

	start := time.Now()
	root := buildBVH(items, sampler)
	stats := root.Stats()
	logger.Debugf(
		"BVH build time: %s, objects: %d, nodes: %d, maxDepth: %d",
		time.Since(start), stats.Objects, stats.Nodes, stats.MaxDepth,
	)
	return root, nil
}

type bvhItem struct {
	object core.Hittable
	box    core.AABB
}

// buildBVH recursively builds the tree; recursion depth is bounded by
// log2(len(items)) since every split halves the range
func buildBVH(items []bvhItem, sampler core.Sampler) *BVHNode {
	axis := sampler.GetInt(3)
	less := func(a, b bvhItem) bool {
		return a.box.Min.Axis(axis) < b.box.Min.Axis(axis)
	}

	node := &BVHNode{}
	var leftBox, rightBox core.AABB

	switch len(items) {
	case 1:
		node.Left, node.Right = items[0].object, items[0].object
		node.single = true
		leftBox, rightBox = items[0].box, items[0].box
	case 2:
		first, second := items[0], items[1]
		if less(second, first) {
			first, second = second, first
		}
		node.Left, node.Right = first.object, second.object
		leftBox, rightBox = first.box, second.box
	default:
		// Stable sort keeps ties in input order
		sort.SliceStable(items, func(i, j int) bool {
			return less(items[i], items[j])
		})

		mid := len(items) / 2
		left := buildBVH(items[:mid], sampler)
		right := buildBVH(items[mid:], sampler)
		node.Left, node.Right = left, right
		leftBox, rightBox = left.Box, right.Box
	}

	node.Box = leftBox.Union(rightBox)
	return node
}

// Hit returns the nearest intersection within [tMin, tMax]
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	hit, isHit := n.Left.Hit(ray, tMin, tMax)
	if isHit {
		// The right subtree only matters if it is strictly closer
		tMax = hit.T
	}

	if rightHit, rightIsHit := n.Right.Hit(ray, tMin, tMax); rightIsHit {
		return rightHit, true
	}
	return hit, isHit
}

// BoundingBox returns the cached union box of the subtree
func (n *BVHNode) BoundingBox() (core.AABB, bool) {
	return n.Box, true
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	Nodes    int // Interior nodes
	Objects  int // Leaf object references (single-object nodes count once)
	MaxDepth int
}

// Stats walks the tree and collects statistics about it
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	n.collectStats(0, &stats)
	return stats
}

// collectStats recursively collects statistics about the BVH
func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	children := []core.Hittable{n.Left}
	if !n.single {
		children = append(children, n.Right)
	}
	for _, child := range children {
		if childNode, ok := child.(*BVHNode); ok {
			childNode.collectStats(depth+1, stats)
		} else {
			stats.Objects++
		}
	}
}
