package core

import (
	"math/rand"
)

// Sampler provides random numbers to every stochastic call site: pixel jitter,
// lens sampling, material scattering and BVH axis selection.
// A Sampler is not safe for concurrent use; each render worker owns one.
type Sampler interface {
	// Get1D returns a uniform float64 in [0, 1)
	Get1D() float64
	// GetInt returns a uniform int in [0, n)
	GetInt(n int) int
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a deterministic sampler from a seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// GetInt returns a random int in [0, n)
func (r *RandomSampler) GetInt(n int) int {
	return r.random.Intn(n)
}

// SampleRange returns a uniform float64 in [min, max)
func SampleRange(sampler Sampler, min, max float64) float64 {
	return min + (max-min)*sampler.Get1D()
}

// SampleVec3Range returns a vector whose components are uniform in [min, max)
func SampleVec3Range(sampler Sampler, min, max float64) Vec3 {
	return NewVec3(
		SampleRange(sampler, min, max),
		SampleRange(sampler, min, max),
		SampleRange(sampler, min, max),
	)
}

// SampleInUnitSphere returns a point inside the unit sphere using rejection sampling
func SampleInUnitSphere(sampler Sampler) Vec3 {
	for {
		p := SampleVec3Range(sampler, -1, 1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// SampleUnitVector returns a uniformly distributed unit vector
func SampleUnitVector(sampler Sampler) Vec3 {
	for {
		p := SampleInUnitSphere(sampler)
		// Reject points too close to the origin to normalize reliably
		if p.LengthSquared() > 1e-160 {
			return p.Normalize()
		}
	}
}

// SampleInUnitDisk returns a point inside the unit disk on the z=0 plane
// using rejection sampling (for depth of field)
func SampleInUnitDisk(sampler Sampler) Vec3 {
	for {
		p := NewVec3(SampleRange(sampler, -1, 1), SampleRange(sampler, -1, 1), 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
