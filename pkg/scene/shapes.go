package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewShapesScene lines up one of each primitive on a ringed floor
func NewShapesScene() *Scene {
	s := newScene(400, 200, math.Pi/3, core.NewPoint(0, 4, -9), core.NewPoint(0, 1, 0))
	s.World.AddLight(lights.NewPointLight(core.NewColor(1, 1, 1), core.NewPoint(-10, 10, -10)))

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewRingPattern(core.NewColor(0.9, 0.9, 0.85), core.NewColor(0.6, 0.6, 0.55)).
		Transformed(core.Scaling(0.5, 0.5, 0.5))
	floorMat.Specular = 0
	floor := geometry.NewPlaneObject().WithMaterial(floorMat)

	sphereMat := material.DefaultMaterial()
	sphereMat.Pattern = material.NewGradientPattern(core.NewColor(1, 0.2, 0.2), core.NewColor(0.2, 0.2, 1)).
		Transformed(core.Scaling(2, 1, 1).Translate(-1, 0, 0))
	sphere := geometry.NewSphereObject().
		WithMaterial(sphereMat).
		WithTransform(core.Translation(-3, 1, 0))

	cubeMat := material.DefaultMaterial()
	cubeMat.Pattern = material.NewStripePattern(
		core.NewColor(1, 0.8, 0.1), core.NewColor(0.9, 0.4, 0.1), core.NewColor(0.8, 0.1, 0.1),
	).Transformed(core.Scaling(0.5, 0.5, 0.5))
	cube := geometry.NewCubeObject().
		WithMaterial(cubeMat).
		WithTransform(core.Scaling(0.75, 0.75, 0.75).RotateY(math.Pi/5).Translate(-1, 0.75, 1))

	cylinder := geometry.NewCylinderObject(0, 2, true).
		WithMaterial(colored(0.2, 0.7, 0.3)).
		WithTransform(core.Scaling(0.6, 1, 0.6).Translate(1, 0, 0))

	cone := geometry.NewConeObject(-1, 0, true).
		WithMaterial(colored(0.3, 0.4, 0.9)).
		WithTransform(core.Scaling(0.8, 2, 0.8).Translate(3, 2, 0.5))

	triangleMat := colored(0.9, 0.9, 0.2)
	triangleMat.Reflective = 0.2
	triangle := geometry.NewTriangleObject(
		core.NewPoint(-1, 0, 0), core.NewPoint(1, 0, 0), core.NewPoint(0, 2, 0),
	).WithMaterial(triangleMat).WithTransform(core.Translation(0, 0.01, 4))

	s.World.AddObject(floor, sphere, cube, cylinder, cone, triangle)
	return s
}
