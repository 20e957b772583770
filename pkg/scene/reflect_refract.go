package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewReflectRefractScene creates a mirror sphere and a hollow glass sphere
// standing on a reflective checkered floor in front of a striped wall
func NewReflectRefractScene() *Scene {
	s := newScene(400, 200, math.Pi/3, core.NewPoint(-2.6, 1.5, -3.9), core.NewPoint(-0.6, 1, -0.8))
	s.World.AddLight(lights.NewPointLight(core.NewColor(1, 1, 1), core.NewPoint(-4.9, 4.9, -1)))

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewCheckerPattern(core.NewColor(0.35, 0.35, 0.35), core.NewColor(0.65, 0.65, 0.65)).
		Transformed(core.RotationY(0.31415))
	floorMat.Specular = 0
	floorMat.Reflective = 0.4
	floor := geometry.NewPlaneObject().WithMaterial(floorMat)

	wallMat := material.DefaultMaterial()
	wallMat.Pattern = material.NewStripePattern(core.NewColor(0.45, 0.45, 0.45), core.NewColor(0.55, 0.55, 0.55)).
		Transformed(core.Scaling(0.25, 0.25, 0.25).RotateY(1.5708))
	wallMat.Ambient = 0
	wallMat.Diffuse = 0.4
	wallMat.Specular = 0
	wallMat.Reflective = 0.3
	wall := geometry.NewPlaneObject().
		WithMaterial(wallMat).
		WithTransform(core.RotationX(1.5708).Translate(0, 0, 5))

	mirrorMat := colored(0.1, 0.1, 0.12)
	mirrorMat.Diffuse = 0.2
	mirrorMat.Specular = 1
	mirrorMat.Shininess = 300
	mirrorMat.Reflective = 0.9
	mirror := geometry.NewSphereObject().
		WithMaterial(mirrorMat).
		WithTransform(core.Translation(-1.5, 1, 0.5))

	glassMat := material.Glass().WithColor(core.NewColor(0.1, 0.1, 0.1))
	glassMat.Ambient = 0
	glassMat.Diffuse = 0.1
	glassMat.Specular = 1
	glassMat.Shininess = 300
	glassMat.Reflective = 0.9
	glassMat.RefractiveIndex = material.IndexGlass
	glass := geometry.NewSphereObject().
		WithMaterial(glassMat).
		WithShadow(false).
		WithTransform(core.Scaling(0.7, 0.7, 0.7).Translate(0.6, 0.7, -0.6))

	bubbleMat := glassMat
	bubbleMat.RefractiveIndex = material.IndexAir
	bubble := geometry.NewSphereObject().
		WithMaterial(bubbleMat).
		WithShadow(false).
		WithTransform(core.Scaling(0.35, 0.35, 0.35).Translate(0.6, 0.7, -0.6))

	s.World.AddObject(floor, wall, mirror, glass, bubble)
	return s
}
