package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// sceneFile is the on-disk layout of a JSON scene. Textures and materials are
// declared once by name and referenced from objects.
type sceneFile struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Group       string                  `json:"group"`
	Camera      cameraFile              `json:"camera"`
	Sampling    samplingFile            `json:"sampling"`
	Textures    map[string]textureFile  `json:"textures"`
	Materials   map[string]materialFile `json:"materials"`
	Objects     []objectFile            `json:"objects"`
}

type cameraFile struct {
	LookFrom      *core.Vec3 `json:"lookFrom"`
	LookAt        *core.Vec3 `json:"lookAt"`
	Up            *core.Vec3 `json:"up"`
	VFov          float64    `json:"vfov"`
	Aperture      float64    `json:"aperture"`
	FocusDistance float64    `json:"focusDistance"`
	Time0         float64    `json:"time0"`
	Time1         float64    `json:"time1"`
}

type samplingFile struct {
	Width           int     `json:"width"`
	AspectRatio     float64 `json:"aspectRatio"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
}

type textureFile struct {
	Type  string    `json:"type"` // solid, checker, image
	Color core.Vec3 `json:"color"`
	Odd   core.Vec3 `json:"odd"`
	Even  core.Vec3 `json:"even"`
	Scale float64   `json:"scale"`
	Path  string    `json:"path"`
}

type materialFile struct {
	Type    string     `json:"type"` // lambertian, metal, dielectric, mix, layered
	Albedo  *core.Vec3 `json:"albedo"`
	Texture string     `json:"texture"`
	Fuzz    float64    `json:"fuzz"`
	IOR     float64    `json:"ior"`
	First   string     `json:"first"`  // Mix: chosen with probability 1-ratio
	Second  string     `json:"second"` // Mix: chosen with probability ratio
	Ratio   float64    `json:"ratio"`
	Outer   string     `json:"outer"` // Layered coating
	Inner   string     `json:"inner"` // Layered base
}

type objectFile struct {
	Type     string    `json:"type"` // sphere, movingSphere, quad, box
	Center   core.Vec3 `json:"center"`
	Center1  core.Vec3 `json:"center1"`
	Time0    float64   `json:"time0"`
	Time1    float64   `json:"time1"`
	Radius   float64   `json:"radius"`
	Corner   core.Vec3 `json:"corner"`
	U        core.Vec3 `json:"u"`
	V        core.Vec3 `json:"v"`
	Size     core.Vec3 `json:"size"` // Box half-extents
	Material string    `json:"material"`
}

// LoadFile reads a JSON scene from disk. Relative texture paths resolve
// against the scene file's directory.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Load(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Load decodes a JSON scene from r
func Load(r io.Reader, baseDir string) (*Scene, error) {
	var file sceneFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return file.build(baseDir)
}

func (f *sceneFile) build(baseDir string) (*Scene, error) {
	if len(f.Objects) == 0 {
		return nil, geometry.ErrEmptyScene
	}

	name := f.Name
	if name == "" {
		name = "untitled"
	}
	s := newScene(name, f.Description, f.cameraConfig(), f.samplingConfig())

	textures := make(map[string]material.ColorSource, len(f.Textures))
	for texName, tex := range f.Textures {
		source, err := tex.build(baseDir)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", texName, err)
		}
		textures[texName] = source
	}

	resolver := &materialResolver{
		files:     f.Materials,
		textures:  textures,
		materials: make(map[string]core.Material, len(f.Materials)),
		visiting:  make(map[string]bool),
	}
	names := make([]string, 0, len(f.Materials))
	for matName := range f.Materials {
		names = append(names, matName)
	}
	sort.Strings(names)
	for _, matName := range names {
		if _, err := resolver.resolve(matName); err != nil {
			return nil, err
		}
	}
	materials := resolver.materials

	for i, obj := range f.Objects {
		m, ok := materials[obj.Material]
		if !ok {
			return nil, fmt.Errorf("object %d: unknown material %q", i, obj.Material)
		}
		switch obj.Type {
		case "sphere":
			s.Add(geometry.NewSphere(obj.Center, obj.Radius, m))
		case "movingSphere":
			s.Add(geometry.NewMovingSphere(obj.Center, obj.Center1, obj.Time0, obj.Time1, obj.Radius, m))
		case "quad":
			s.Add(geometry.NewQuad(obj.Corner, obj.U, obj.V, m))
		case "box":
			s.Add(geometry.NewBox(obj.Center, obj.Size, m))
		default:
			return nil, fmt.Errorf("object %d: unknown object type %q", i, obj.Type)
		}
	}

	return s, nil
}

func (f *sceneFile) cameraConfig() renderer.CameraConfig {
	config := renderer.CameraConfig{
		LookFrom:      core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          f.Camera.VFov,
		Aperture:      f.Camera.Aperture,
		FocusDistance: f.Camera.FocusDistance,
		Time0:         f.Camera.Time0,
		Time1:         f.Camera.Time1,
	}
	if f.Camera.LookFrom != nil {
		config.LookFrom = *f.Camera.LookFrom
	}
	if f.Camera.LookAt != nil {
		config.LookAt = *f.Camera.LookAt
	}
	if f.Camera.Up != nil {
		config.Up = *f.Camera.Up
	}
	if config.VFov == 0 {
		config.VFov = 40
	}
	if config.FocusDistance == 0 {
		config.FocusDistance = config.LookFrom.Subtract(config.LookAt).Length()
	}
	return config
}

func (f *sceneFile) samplingConfig() SamplingConfig {
	config := SamplingConfig{
		Width:           f.Sampling.Width,
		AspectRatio:     f.Sampling.AspectRatio,
		SamplesPerPixel: f.Sampling.SamplesPerPixel,
		MaxDepth:        f.Sampling.MaxDepth,
	}
	defaults := renderer.DefaultConfig()
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.AspectRatio <= 0 {
		config.AspectRatio = float64(defaults.Width) / float64(defaults.Height)
	}
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = defaults.SamplesPerPixel
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaults.MaxDepth
	}
	return config
}

func (t textureFile) build(baseDir string) (material.ColorSource, error) {
	switch t.Type {
	case "solid":
		return material.NewSolidColor(t.Color), nil
	case "checker":
		checker := material.NewCheckerTexture(t.Odd, t.Even)
		if t.Scale > 0 {
			checker.Frequency = t.Scale
		}
		return checker, nil
	case "image":
		if t.Path == "" {
			return nil, fmt.Errorf("image texture needs a path")
		}
		path := t.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return material.LoadImageTexture(path)
	default:
		return nil, fmt.Errorf("unknown texture type %q", t.Type)
	}
}

// materialResolver builds named materials in dependency order, since mix and
// layered materials reference other materials by name
type materialResolver struct {
	files     map[string]materialFile
	textures  map[string]material.ColorSource
	materials map[string]core.Material
	visiting  map[string]bool
}

func (r *materialResolver) resolve(name string) (core.Material, error) {
	if m, ok := r.materials[name]; ok {
		return m, nil
	}
	file, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", name)
	}
	if r.visiting[name] {
		return nil, fmt.Errorf("material %q: reference cycle", name)
	}

	r.visiting[name] = true
	m, err := file.build(r)
	delete(r.visiting, name)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", name, err)
	}
	r.materials[name] = m
	return m, nil
}

func (m materialFile) build(r *materialResolver) (core.Material, error) {
	switch m.Type {
	case "lambertian":
		if m.Texture != "" {
			tex, ok := r.textures[m.Texture]
			if !ok {
				return nil, fmt.Errorf("unknown texture %q", m.Texture)
			}
			return material.NewTexturedLambertian(tex), nil
		}
		return material.NewLambertian(m.albedo()), nil
	case "metal":
		return material.NewMetal(m.albedo(), m.Fuzz), nil
	case "dielectric":
		if m.IOR <= 0 {
			return nil, fmt.Errorf("dielectric needs a positive ior, got %g", m.IOR)
		}
		return material.NewDielectric(m.IOR), nil
	case "mix":
		first, second, err := r.pair(m.First, m.Second, "mix needs first and second")
		if err != nil {
			return nil, err
		}
		return material.NewMix(first, second, m.Ratio), nil
	case "layered":
		outer, inner, err := r.pair(m.Outer, m.Inner, "layered needs outer and inner")
		if err != nil {
			return nil, err
		}
		return material.NewLayered(outer, inner), nil
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// pair resolves the two materials a composite material refers to
func (r *materialResolver) pair(a, b, missing string) (core.Material, core.Material, error) {
	if a == "" || b == "" {
		return nil, nil, errors.New(missing)
	}
	first, err := r.resolve(a)
	if err != nil {
		return nil, nil, err
	}
	second, err := r.resolve(b)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (m materialFile) albedo() core.Vec3 {
	if m.Albedo == nil {
		return core.NewVec3(0.5, 0.5, 0.5)
	}
	return *m.Albedo
}
