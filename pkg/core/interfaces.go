package core

// Face tells which side of a surface a ray struck
type Face uint8

const (
	// FrontFace means the ray arrived from outside the surface
	FrontFace Face = iota
	// BackFace means the ray originated inside the surface
	BackFace
)

func (f Face) String() string {
	if f == FrontFace {
		return "front"
	}
	return "back"
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point    Vec3     // Point of intersection
	Normal   Vec3     // Unit surface normal, always opposing the incoming ray
	T        float64  // Parameter t along the ray
	Face     Face     // Which side of the surface was struck
	Material Material // Material of the hit object (shared, not owned)
	UV       Vec2     // Surface parameters
}

// SetFaceNormal stores the normal and classifies the face.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	if ray.Direction.Dot(outwardNormal) < 0 {
		h.Face = FrontFace
		h.Normal = outwardNormal
	} else {
		h.Face = BackFace
		h.Normal = outwardNormal.Negate()
	}
}

// FrontFace reports whether the ray struck the outside of the surface
func (h *HitRecord) FrontFace() bool {
	return h.Face == FrontFace
}

// Hittable is implemented by everything a ray can intersect
type Hittable interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	// BoundingBox returns a box enclosing the object; false if it has none
	BoundingBox() (AABB, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter returns false when the material absorbs the ray
	Scatter(rayIn Ray, hit *HitRecord, sampler Sampler) (ScatterResult, bool)
}
