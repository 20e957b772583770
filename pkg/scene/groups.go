package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// hexagonDivideThreshold splits the hexagon's top group into bounded halves
const hexagonDivideThreshold = 4

// hexagonCorner is a small sphere at the end of an edge
func hexagonCorner() *geometry.GroupBuilder {
	return geometry.Leaf(geometry.NewSphereObject().
		WithTransform(core.Scaling(0.25, 0.25, 0.25).Translate(0, 0, -1)))
}

// hexagonEdge is a thin cylinder running along one side of the hexagon
func hexagonEdge() *geometry.GroupBuilder {
	return geometry.Leaf(geometry.NewCylinderObject(0, 1, false).
		WithTransform(core.Scaling(0.25, 1, 0.25).
			RotateZ(-math.Pi / 2).
			RotateY(-math.Pi / 6).
			Translate(0, 0, -1)))
}

// newHexagon builds a hexagon of six rotated sides, each side a group of a
// corner sphere and an edge cylinder
func newHexagon(m material.Material) *geometry.Object {
	hexagon := geometry.Node(core.RotationX(-math.Pi / 6))
	for n := 0; n < 6; n++ {
		side := geometry.Node(core.RotationY(float64(n)*math.Pi/3), hexagonCorner(), hexagonEdge())
		hexagon.Add(side)
	}
	return applyMaterial(hexagon, m).Build()
}

// NewGroupsScene places a subdivided hexagon above a checkered floor
func NewGroupsScene() *Scene {
	s := newScene(400, 200, math.Pi/3, core.NewPoint(0, 3, -4), core.NewPoint(0, 0, 0))
	s.World.AddLight(lights.NewPointLight(core.NewColor(1, 1, 1), core.NewPoint(-5, 8, -6)))

	hexMat := colored(0.8, 0.5, 0.2)
	hexMat.Reflective = 0.25
	hexMat.Specular = 0.6
	hex := newHexagon(hexMat).Divide(hexagonDivideThreshold)

	floorMat := material.DefaultMaterial()
	floorMat.Pattern = material.NewCheckerPattern(core.NewColor(0.2, 0.2, 0.25), core.NewColor(0.8, 0.8, 0.85))
	floorMat.Specular = 0
	floor := geometry.NewPlaneObject().
		WithMaterial(floorMat).
		WithTransform(core.Translation(0, -1.2, 0))

	s.World.AddObject(floor, hex)
	return s
}

// applyMaterial sets m on every leaf under node
func applyMaterial(node *geometry.GroupBuilder, m material.Material) *geometry.GroupBuilder {
	if node.IsLeaf() {
		node.Object.WithMaterial(m)
		return node
	}
	for _, child := range node.Children {
		applyMaterial(child, m)
	}
	return node
}
