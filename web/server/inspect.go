package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Inside       bool                   `json:"inside"`
	N1           float64                `json:"n1"`
	N2           float64                `json:"n2"`
	Properties   map[string]interface{} `json:"properties"`
}

// inspectPixel casts the primary ray through the center of a pixel and
// prepares the shading state of the nearest hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (geometry.IntersectionState, bool) {
	ray := sceneObj.Camera.RayForPixel(pixelX, pixelY)
	xs := sceneObj.World.Intersect(ray)
	for i, x := range xs {
		if x.T >= 0 {
			return geometry.PrepareState(xs, i, ray), true
		}
	}
	return geometry.IntersectionState{}, false
}

func vec3(x, y, z float64) [3]float64 {
	return [3]float64{x, y, z}
}

func colorHex(c core.Color) string {
	channel := func(v float64) int {
		return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// classifyMaterial classifies a material by its dominant recursive behavior
func classifyMaterial(m material.Material) string {
	switch {
	case m.Transparency > 0 && m.Reflective > 0:
		return "glass"
	case m.Transparency > 0:
		return "transparent"
	case m.Reflective > 0:
		return "reflective"
	default:
		return "phong"
	}
}

// extractMaterialInfo reports the Phong parameters and pattern of a material
func (s *Server) extractMaterialInfo(m material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"ambient":         m.Ambient,
		"diffuse":         m.Diffuse,
		"specular":        m.Specular,
		"shininess":       m.Shininess,
		"reflective":      m.Reflective,
		"transparency":    m.Transparency,
		"refractiveIndex": m.RefractiveIndex,
		"pattern":         m.Pattern.Type.String(),
	}

	colors := make([]string, len(m.Pattern.Colors))
	for i, c := range m.Pattern.Colors {
		colors[i] = colorHex(c)
	}
	properties["colors"] = colors
	if len(colors) > 0 {
		properties["color"] = colors[0]
	}
	if m.Pattern.Texture != nil {
		properties["textureSize"] = [2]int{m.Pattern.Texture.Width, m.Pattern.Texture.Height}
	}

	return classifyMaterial(m), properties
}

// extractGeometryInfo reports the shape parameters and world bounds of a hit object
func (s *Server) extractGeometryInfo(object *geometry.Object) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	bbox := object.Bounds()
	properties["boundingBox"] = map[string]interface{}{
		"min": vec3(bbox.Min.X, bbox.Min.Y, bbox.Min.Z),
		"max": vec3(bbox.Max.X, bbox.Max.Y, bbox.Max.Z),
	}
	properties["castsShadow"] = object.HasShadow

	switch geom := object.Shape.(type) {
	case geometry.Sphere:
		return "sphere", properties

	case geometry.Plane:
		return "plane", properties

	case geometry.Cube:
		return "cube", properties

	case geometry.Cylinder:
		properties["min"] = finiteOrString(geom.Min)
		properties["max"] = finiteOrString(geom.Max)
		properties["closed"] = geom.Closed
		return "cylinder", properties

	case geometry.Cone:
		properties["min"] = finiteOrString(geom.Min)
		properties["max"] = finiteOrString(geom.Max)
		properties["closed"] = geom.Closed
		return "cone", properties

	case geometry.SmoothTriangle:
		addTriangleInfo(properties, geom.Triangle)
		properties["normals"] = [][3]float64{
			vec3(geom.N1.X, geom.N1.Y, geom.N1.Z),
			vec3(geom.N2.X, geom.N2.Y, geom.N2.Z),
			vec3(geom.N3.X, geom.N3.Y, geom.N3.Z),
		}
		return "smooth_triangle", properties

	case geometry.Triangle:
		addTriangleInfo(properties, geom)
		return "triangle", properties

	case *geometry.Group:
		properties["children"] = len(geom.Children())
		return "group", properties

	default:
		return "unknown", properties
	}
}

func addTriangleInfo(properties map[string]interface{}, tr geometry.Triangle) {
	properties["vertices"] = [][3]float64{
		vec3(tr.P1.X, tr.P1.Y, tr.P1.Z),
		vec3(tr.P2.X, tr.P2.Y, tr.P2.Z),
		vec3(tr.P3.X, tr.P3.Y, tr.P3.Z),
	}
	properties["faceNormal"] = vec3(tr.Normal.X, tr.Normal.Y, tr.Normal.Z)
}

// finiteOrString keeps infinite extents representable in JSON
func finiteOrString(v float64) interface{} {
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return v
}

// handleInspect handles requests to inspect the object under a pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneID := query.Get("scene")
	if sceneID == "" {
		sceneID = "default"
	}
	width, err := parseIntParam(query, "width", 0, 1, maxImageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}
	height, err := parseIntParam(query, "height", 0, 1, maxImageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(sceneID, NewWebLogger(sceneID, nil))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := config.DefaultConfig()
	cfg.Width = width
	cfg.Height = height
	camera := cfg.ApplyCamera(sceneObj.Camera)

	if pixelX < 0 || pixelX >= camera.HSize || pixelY < 0 || pixelY >= camera.VSize {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	state, hit := inspectPixel(sceneObj, pixelX, pixelY)
	if !hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := s.extractMaterialInfo(state.Object.Material)
	geometryType, geometryProps := s.extractGeometryInfo(state.Object)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3(state.Point.X, state.Point.Y, state.Point.Z),
		Normal:       vec3(state.Normal.X, state.Normal.Y, state.Normal.Z),
		Distance:     state.T,
		Inside:       state.Inside,
		N1:           state.N1,
		N2:           state.N2,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
