package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// quadPadding thickens the flat bounding box of an axis-aligned quad so the
// slab test never sees a zero-width interval
const quadPadding = 1e-4

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3     // One corner of the quad
	U        core.Vec3     // First edge vector
	V        core.Vec3     // Second edge vector
	Normal   core.Vec3     // Unit normal, U × V normalized
	Material core.Material // Material of the quad
	d        float64       // Plane equation constant: normal · p = d
	w        core.Vec3     // Cached n / (n · n) for planar coordinates
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material core.Material) *Quad {
	n := u.Cross(v)
	normal := n.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		d:        normal.Dot(corner),
		w:        n.Divide(n.Dot(n)),
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Parallel to the plane
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.d - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitPoint := ray.At(t)
	planar := hitPoint.Subtract(q.Corner)
	alpha := q.w.Dot(planar.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(planar))

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &core.HitRecord{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
		UV:       core.NewVec2(alpha, beta),
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox encloses the four corners, padded along any flat axis
func (q *Quad) BoundingBox() (core.AABB, bool) {
	box := core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	)

	pad := core.Vec3{}
	size := box.Size()
	if size.X < quadPadding {
		pad.X = quadPadding / 2
	}
	if size.Y < quadPadding {
		pad.Y = quadPadding / 2
	}
	if size.Z < quadPadding {
		pad.Z = quadPadding / 2
	}
	return core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad)), true
}
