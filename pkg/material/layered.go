package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Layered represents a material with two layers, an outer coating over an
// inner base. Light that the outer layer sends into the surface scatters
// again off the inner layer.
type Layered struct {
	Outer core.Material // Coating, e.g. a dielectric
	Inner core.Material // Base material
}

// NewLayered creates a new layered material
func NewLayered(outer, inner core.Material) *Layered {
	return &Layered{
		Outer: outer,
		Inner: inner,
	}
}

// Scatter implements the Material interface for layered scattering
func (l *Layered) Scatter(rayIn core.Ray, hit *core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	if l.Outer == nil {
		return core.ScatterResult{}, false
	}

	outerHit := *hit
	outerHit.Material = l.Outer
	outerResult, outerScatters := l.Outer.Scatter(rayIn, &outerHit, sampler)
	if !outerScatters {
		return core.ScatterResult{}, false
	}

	// Scattered away from the surface: only the coating was involved
	scatteredDirection := outerResult.Scattered.Direction.Normalize()
	if scatteredDirection.Dot(hit.Normal) >= 0 || l.Inner == nil {
		return outerResult, true
	}

	// The inner layer sees the ray the coating let through, at the same point
	innerRay := core.NewRayAtTime(hit.Point, scatteredDirection, rayIn.Time)
	innerHit := *hit
	innerHit.Material = l.Inner
	innerResult, innerScatters := l.Inner.Scatter(innerRay, &innerHit, sampler)
	if !innerScatters {
		return outerResult, true
	}

	return core.ScatterResult{
		Scattered:   innerResult.Scattered,
		Attenuation: outerResult.Attenuation.MultiplyVec(innerResult.Attenuation),
	}, true
}
