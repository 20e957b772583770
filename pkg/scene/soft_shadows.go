package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewSoftShadowsScene lights a cube and two spheres with a 2x2 unit area light
// sampled on an 8x8 jittered grid, with a flat white cube marking the light
func NewSoftShadowsScene() *Scene {
	s := newScene(400, 160, 0.7854, core.NewPoint(-3, 1, 2.5), core.NewPoint(0, 0.5, 0))

	light := lights.NewAreaLight(
		core.NewColor(1.5, 1.5, 1.5),
		core.NewPoint(-1, 2, 4),
		core.NewVector(2, 0, 0), 8,
		core.NewVector(0, 2, 0), 8,
	)
	light.Jitter = true
	s.World.AddLight(light)

	lampMat := colored(1.5, 1.5, 1.5)
	lampMat.Ambient = 1
	lampMat.Diffuse = 0
	lampMat.Specular = 0
	lamp := geometry.NewCubeObject().
		WithMaterial(lampMat).
		WithShadow(false).
		WithTransform(core.Scaling(1, 1, 0.01).Translate(0, 3, 4))

	floorMat := colored(1, 1, 1)
	floorMat.Ambient = 0.025
	floorMat.Diffuse = 0.67
	floorMat.Specular = 0
	floor := geometry.NewPlaneObject().WithMaterial(floorMat)

	redMat := colored(1, 0, 0)
	redMat.Ambient = 0.1
	redMat.Specular = 0
	redMat.Diffuse = 0.6
	redMat.Reflective = 0.3
	red := geometry.NewSphereObject().
		WithMaterial(redMat).
		WithTransform(core.Scaling(0.5, 0.5, 0.5).Translate(0.5, 0.5, 0))

	blueMat := colored(0.5, 0.5, 1)
	blueMat.Ambient = 0.1
	blueMat.Specular = 0
	blueMat.Diffuse = 0.6
	blueMat.Reflective = 0.3
	blue := geometry.NewSphereObject().
		WithMaterial(blueMat).
		WithTransform(core.Scaling(0.33, 0.33, 0.33).Translate(-0.25, 0.33, 0))

	cube := geometry.NewCubeObject().
		WithMaterial(material.DefaultMaterial().WithColor(core.NewColor(0.8, 0.8, 0.8))).
		WithTransform(core.Scaling(0.3, 0.3, 0.3).RotateY(math.Pi/6).Translate(1.5, 0.3, 1.2))

	s.World.AddObject(lamp, floor, red, blue, cube)
	return s
}
