package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        core.Vec3              `json:"point"`
	Normal       core.Vec3              `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains the hit record of an inspection ray and the object it struck
type InspectResult struct {
	Hit       bool
	HitRecord *core.HitRecord
	Object    core.Hittable
	Time      float64 // Shutter time of the inspection ray
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat core.Material, hit *core.HitRecord) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = albedo
		properties["color"] = hexColor(albedo)
		properties["texture"] = fmt.Sprintf("%T", m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = m.Albedo
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.Layered:
		properties["outer"] = layerInfo(m.Outer, hit)
		properties["inner"] = layerInfo(m.Inner, hit)
		return "layered", properties

	case *material.Mix:
		properties["material1"] = layerInfo(m.Material1, hit)
		properties["material2"] = layerInfo(m.Material2, hit)
		properties["ratio"] = m.Ratio
		return "mix", properties

	case nil:
		return "none", properties

	default:
		return "unknown", properties
	}
}

func layerInfo(mat core.Material, hit *core.HitRecord) map[string]interface{} {
	materialType, properties := extractMaterialInfo(mat, hit)
	return map[string]interface{}{
		"type":       materialType,
		"properties": properties,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(object core.Hittable, time float64) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = geom.Center
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.MovingSphere:
		properties["center0"] = geom.Center0
		properties["center1"] = geom.Center1
		properties["centerAtHit"] = geom.CenterAt(time)
		properties["radius"] = geom.Radius
		return "moving_sphere", properties

	case *geometry.Quad:
		properties["corner"] = geom.Corner
		properties["u"] = geom.U
		properties["v"] = geom.V
		properties["normal"] = geom.Normal
		return "quad", properties

	case *geometry.Box:
		properties["center"] = geom.Center
		properties["size"] = geom.Size
		return "box", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts a ray through the center of the given pixel (y counted
// from the top) and returns the first object hit. The lens and shutter are
// sampled with a fixed seed so repeated inspections agree.
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	camera := sceneObj.Camera(float64(width) / float64(height))

	j := height - 1 - pixelY
	s := (float64(pixelX) + 0.5) / float64(max(width-1, 1))
	t := (float64(j) + 0.5) / float64(max(height-1, 1))
	ray := camera.GetRay(s, t, core.NewSeededSampler(0))

	hit, isHit := sceneObj.World().Hit(ray, integrator.HitEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false, Time: ray.Time}
	}

	// The BVH returns only the hit record, so find the object with the same t
	for _, object := range sceneObj.Objects.Objects {
		if objectHit, ok := object.Hit(ray, integrator.HitEpsilon, hit.T); ok && objectHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Object: object, Time: ray.Time}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit, Time: ray.Time}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, rt, err := s.prepareRender(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}
	width, height := rt.Config().Width, rt.Config().Height

	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result := inspectPixel(sceneObj, width, height, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material, result.HitRecord)
	geometryType, geometryProps := extractGeometryInfo(result.Object, result.Time)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        result.HitRecord.Point,
		Normal:       result.HitRecord.Normal,
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace(),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
