package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// NewMotionScene creates a row of spheres moving at increasing speeds so the
// blur grows from left to right
func NewMotionScene(sampler core.Sampler) *Scene {
	cameraConfig := renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 2, 8),
		LookAt:   core.NewVec3(0, 0.75, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     35,
		Time0:    0,
		Time1:    1,
	}
	samplingConfig := SamplingConfig{
		Width:           400,
		AspectRatio:     16.0 / 9.0,
		SamplesPerPixel: 200,
		MaxDepth:        30,
	}
	s := newScene("motion", "Spheres moving at increasing speeds to show motion blur", cameraConfig, samplingConfig)

	checker := material.NewCheckerTexture(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.8, 0.8, 0.8))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	const count = 5
	for i := 0; i < count; i++ {
		x := float64(i)*1.5 - 3
		speed := float64(i) * 0.25
		center0 := core.NewVec3(x, 0.5, 0)
		center1 := center0.Add(core.NewVec3(0, speed, 0))

		var m core.Material
		switch i % 3 {
		case 0:
			m = material.NewLambertian(oklchToRGB(0.65, 0.2, float64(i)*72))
		case 1:
			m = material.NewMetal(oklchToRGB(0.75, 0.1, float64(i)*72), 0.1)
		default:
			m = material.NewDielectric(1.5)
		}
		s.Add(geometry.NewMovingSphere(center0, center1, 0, 1, 0.5, m))
	}

	// A static reference sphere behind the row
	s.Add(geometry.NewSphere(core.NewVec3(0, 1.5, -3), 1.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0)))

	return s
}
