package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestHittableList_ClosestHit(t *testing.T) {
	list := NewHittableList(
		NewSphere(core.NewVec3(0, 0, -10), 1, nil),
		NewSphere(core.NewVec3(0, 0, -3), 1, nil),
		NewSphere(core.NewVec3(0, 0, -6), 1, nil),
	)

	hit, isHit := list.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected closest hit at t=2, got %f", hit.T)
	}
}

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	if _, isHit := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0, math.Inf(1)); isHit {
		t.Error("Expected empty list to never hit")
	}
	if _, ok := list.BoundingBox(); ok {
		t.Error("Expected empty list to have no bounding box")
	}
}

func TestHittableList_BoundingBox(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(-2, 0, 0), 1, nil))
	list.Add(NewSphere(core.NewVec3(3, 1, 0), 0.5, nil))

	box, ok := list.BoundingBox()
	if !ok {
		t.Fatal("Expected bounding box")
	}
	if !box.Min.Equals(core.NewVec3(-3, -1, -1)) || !box.Max.Equals(core.NewVec3(3.5, 1.5, 1)) {
		t.Errorf("Unexpected box %v..%v", box.Min, box.Max)
	}

	list.Add(unboundedShape{})
	if _, ok := list.BoundingBox(); ok {
		t.Error("Expected list containing an unbounded object to have no bounding box")
	}
}

// unboundedShape never reports a bounding box
type unboundedShape struct{}

func (unboundedShape) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return nil, false
}

func (unboundedShape) BoundingBox() (core.AABB, bool) {
	return core.AABB{}, false
}
