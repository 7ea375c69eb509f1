package material

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestDielectric_NormalIncidenceRefracts(t *testing.T) {
	glass := NewDielectric(1.5)
	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := frontHit(rayIn, core.NewVec3(0, 0, 1), glass)

	// Any draw above the 4% Schlick reflectance must refract straight through
	for _, draw := range []float64{0.05, 0.5, 0.99} {
		sampler := &sequenceSampler{values: []float64{draw}}
		scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatal("Dielectric should always scatter")
		}
		expected := core.NewVec3(0, 0, -1)
		if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
			t.Errorf("draw %f: expected refraction %v, got %v", draw, expected, scatter.Scattered.Direction)
		}
	}

	// Normal incidence never takes the total internal reflection branch
	if glass.cannotRefract(1.0/1.5, 0) {
		t.Error("Normal incidence should never totally internally reflect")
	}
}

func TestDielectric_AttenuationIsWhite(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewSeededSampler(42)
	rayIn := core.NewRayAtTime(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1), 0.75)
	hit := frontHit(rayIn, core.NewVec3(0, 0, 1), glass)

	for i := 0; i < 100; i++ {
		scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
		if !didScatter {
			t.Fatal("Dielectric should always scatter")
		}
		if !scatter.Attenuation.Equals(core.NewVec3(1, 1, 1)) {
			t.Fatalf("Expected white attenuation, got %v", scatter.Attenuation)
		}
		if scatter.Scattered.Time != 0.75 {
			t.Fatalf("Expected scattered ray to keep time 0.75, got %f", scatter.Scattered.Time)
		}
	}
}

func TestDielectric_SnellsLaw(t *testing.T) {
	glass := NewDielectric(1.5)
	direction := core.NewVec3(1, 0, -1).Normalize() // 45 degrees
	rayIn := core.NewRay(core.NewVec3(-1, 0, 1), direction)
	hit := frontHit(rayIn, core.NewVec3(0, 0, 1), glass)

	sampler := &sequenceSampler{values: []float64{0.99}}
	scatter, _ := glass.Scatter(rayIn, hit, sampler)

	refracted := scatter.Scattered.Direction.Normalize()
	sinIn := math.Sqrt(0.5)
	sinOut := math.Abs(refracted.X)
	if math.Abs(sinIn-1.5*sinOut) > 1e-9 {
		t.Errorf("Snell's law violated: sin(in)=%f, 1.5*sin(out)=%f", sinIn, 1.5*sinOut)
	}
	if refracted.Z >= 0 {
		t.Errorf("Refracted ray %v should continue into the surface", refracted)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Ray inside the glass striking the surface at sin(theta)=0.8 > 1/1.5
	rayIn := core.NewRay(core.NewVec3(-0.8, 0, -0.6), core.NewVec3(0.8, 0, 0.6))
	hit := frontHit(rayIn, core.NewVec3(0, 0, 1), glass)
	if hit.FrontFace() {
		t.Fatal("Expected back face hit from inside the glass")
	}

	// A high draw would refract if refraction were possible
	sampler := &sequenceSampler{values: []float64{0.99}}
	scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Dielectric should always scatter")
	}

	expected := core.NewVec3(0.8, 0, -0.6)
	if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected total internal reflection %v, got %v", expected, scatter.Scattered.Direction)
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ior      float64
		expected float64
	}{
		{"normal incidence glass", 1.0, 1.5, 0.04},
		{"normal incidence inverse ratio", 1.0, 1.0 / 1.5, 0.04},
		{"grazing", 0.0, 1.5, 1.0},
		{"matched index", 0.5, 1.0, 0.5 * 0.5 * 0.5 * 0.5 * 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflectance(tt.cosine, tt.ior); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected reflectance %f, got %f", tt.expected, got)
			}
		})
	}
}
