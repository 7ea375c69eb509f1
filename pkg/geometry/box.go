package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Box is an axis-aligned box made up of 6 outward-facing quads
type Box struct {
	Center   core.Vec3     // Center point of the box
	Size     core.Vec3     // Half-extents along each axis
	Material core.Material // Material for all faces
	faces    [6]*Quad
	bbox     core.AABB
}

// NewBox creates a new box. Size holds half-extents, so a size of (1,1,1)
// creates a 2x2x2 box.
func NewBox(center, size core.Vec3, material core.Material) *Box {
	box := &Box{
		Center:   center,
		Size:     size,
		Material: material,
	}
	box.generateFaces()
	return box
}

func (b *Box) generateFaces() {
	// A negative half-extent flips the corners; order them so faces stay
	// outward and the bounding box keeps Min <= Max
	a := b.Center.Subtract(b.Size)
	c := b.Center.Add(b.Size)
	lo, hi := a.Min(c), a.Max(c)

	dx := core.NewVec3(hi.X-lo.X, 0, 0)
	dy := core.NewVec3(0, hi.Y-lo.Y, 0)
	dz := core.NewVec3(0, 0, hi.Z-lo.Z)

	// Edge order is chosen so every U × V points out of the box
	b.faces = [6]*Quad{
		NewQuad(core.NewVec3(lo.X, lo.Y, hi.Z), dx, dy, b.Material),          // front (Z+)
		NewQuad(core.NewVec3(hi.X, lo.Y, lo.Z), dx.Negate(), dy, b.Material), // back (Z-)
		NewQuad(core.NewVec3(hi.X, lo.Y, hi.Z), dz.Negate(), dy, b.Material), // right (X+)
		NewQuad(core.NewVec3(lo.X, lo.Y, lo.Z), dz, dy, b.Material),          // left (X-)
		NewQuad(core.NewVec3(lo.X, hi.Y, hi.Z), dx, dz.Negate(), b.Material), // top (Y+)
		NewQuad(core.NewVec3(lo.X, lo.Y, lo.Z), dx, dz, b.Material),          // bottom (Y-)
	}

	b.bbox = core.NewAABB(lo, hi)
}

// Hit tests if a ray intersects with any face of the box
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestT := tMax

	for _, face := range b.faces {
		if hit, isHit := face.Hit(ray, tMin, closestT); isHit {
			closestT = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() (core.AABB, bool) {
	return b.bbox, true
}
