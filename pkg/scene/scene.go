package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

var logger = log.New("scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Description    string
	Objects        *geometry.HittableList // Objects as assembled, in insertion order
	CameraConfig   renderer.CameraConfig
	SamplingConfig SamplingConfig
	Background     integrator.Background
	BVH            *geometry.BVHNode // Acceleration structure, set by Preprocess
}

// SamplingConfig holds the render settings a scene recommends
type SamplingConfig struct {
	Width           int     // Image width
	AspectRatio     float64 // Width / height
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
}

// Height derives the image height from the width and aspect ratio.
// The small bias keeps 400 at 16:9 at 225 despite rounding in the ratio.
func (c SamplingConfig) Height() int {
	if c.AspectRatio <= 0 {
		return c.Width
	}
	return max(int(math.Floor(float64(c.Width)/c.AspectRatio+1e-9)), 1)
}

// newScene creates an empty scene with the default sky
func newScene(name, description string, camera renderer.CameraConfig, sampling SamplingConfig) *Scene {
	camera.AspectRatio = sampling.AspectRatio
	return &Scene{
		Name:           name,
		Description:    description,
		Objects:        geometry.NewHittableList(),
		CameraConfig:   camera,
		SamplingConfig: sampling,
		Background:     integrator.DefaultBackground(),
	}
}

// Add appends objects to the scene
func (s *Scene) Add(objects ...core.Hittable) {
	s.Objects.Add(objects...)
}

// Preprocess builds the BVH over the scene objects. Axis choices are drawn
// from sampler, so a seeded sampler gives a reproducible tree.
func (s *Scene) Preprocess(sampler core.Sampler) error {
	start := time.Now()
	bvh, err := s.Objects.BuildBVH(sampler)
	if err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}
	s.BVH = bvh

	stats := bvh.Stats()
	logger.Infof("Built BVH for %q: %d objects, %d nodes, depth %d in %s",
		s.Name, stats.Objects, stats.Nodes, stats.MaxDepth, time.Since(start))
	return nil
}

// World returns what rays should be traced against: the BVH once built,
// the flat object list before that
func (s *Scene) World() core.Hittable {
	if s.BVH != nil {
		return s.BVH
	}
	return s.Objects
}

// PrimitiveCount returns the number of objects in the scene
func (s *Scene) PrimitiveCount() int {
	return s.Objects.Len()
}

// Camera creates the camera for an image with the given aspect ratio
func (s *Scene) Camera(aspectRatio float64) *renderer.Camera {
	config := s.CameraConfig
	if aspectRatio > 0 {
		config.AspectRatio = aspectRatio
	}
	return renderer.NewCamera(config)
}

// RenderConfig returns the scene's recommended settings as a render config.
// Workers and seed keep their defaults.
func (s *Scene) RenderConfig() renderer.Config {
	config := renderer.DefaultConfig()
	config.Width = s.SamplingConfig.Width
	config.Height = s.SamplingConfig.Height()
	config.SamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	config.MaxDepth = s.SamplingConfig.MaxDepth
	return config
}

// WithWidth resizes config to width pixels across, keeping the scene's aspect ratio
func (s *Scene) WithWidth(config renderer.Config, width int) renderer.Config {
	sampling := s.SamplingConfig
	sampling.Width = width
	config.Width = width
	config.Height = sampling.Height()
	return config
}

// NewRenderer wires the scene into a renderer: a camera matching the image
// aspect ratio and a path tracer using the scene background. Call
// Preprocess first so rays are traced against the BVH.
func (s *Scene) NewRenderer(config renderer.Config) (*renderer.Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	integ := integrator.NewPathTracingIntegrator(config.MaxDepth)
	integ.Background = s.Background

	camera := s.Camera(float64(config.Width) / float64(config.Height))
	return renderer.New(s.World(), camera, integ, config)
}
