package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// sequenceSampler replays a fixed list of values and counts draws
type sequenceSampler struct {
	values []float64
	draws  int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.draws%len(s.values)]
	s.draws++
	return v
}

func (s *sequenceSampler) GetInt(n int) int {
	return int(s.Get1D() * float64(n))
}

// frontHit builds a hit record at the origin for a ray against a surface
// with the given outward normal
func frontHit(ray core.Ray, outwardNormal core.Vec3, m core.Material) *core.HitRecord {
	hit := &core.HitRecord{
		Point:    core.NewVec3(0, 0, 0),
		T:        1.0,
		Material: m,
	}
	hit.SetFaceNormal(ray, outwardNormal)
	return hit
}
