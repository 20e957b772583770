package lights

import (
	"math/rand/v2"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// AreaLight is a rectangular light made of usteps x vsteps cells. Shadow
// tests cast one ray per cell, which produces soft shadow penumbrae.
type AreaLight struct {
	intensity core.Color
	corner    core.Point
	uCell     core.Vector // One cell along the u edge
	vCell     core.Vector // One cell along the v edge
	uSteps    int
	vSteps    int
	center    core.Point
	positions []core.Point // Cell centers, row by row

	// Jitter moves each shadow sample to a random spot inside its cell
	Jitter bool

	// Random returns values in [0, 1) for jittered sampling. A nil Random
	// draws from math/rand/v2.
	Random func() float64
}

// NewAreaLight creates an area light spanning full edges uvec and vvec from corner.
// Step counts below 1 are raised to 1.
func NewAreaLight(intensity core.Color, corner core.Point, uvec core.Vector, usteps int, vvec core.Vector, vsteps int) *AreaLight {
	usteps = max(usteps, 1)
	vsteps = max(vsteps, 1)

	al := &AreaLight{
		intensity: intensity,
		corner:    corner,
		uCell:     uvec.Divide(float64(usteps)),
		vCell:     vvec.Divide(float64(vsteps)),
		uSteps:    usteps,
		vSteps:    vsteps,
		center:    corner.Add(uvec.Multiply(0.5)).Add(vvec.Multiply(0.5)),
	}

	al.positions = make([]core.Point, 0, usteps*vsteps)
	for v := 0; v < vsteps; v++ {
		for u := 0; u < usteps; u++ {
			al.positions = append(al.positions, al.PointOnLight(u, v, 0.5))
		}
	}

	return al
}

func (al *AreaLight) Type() LightType {
	return LightTypeArea
}

func (al *AreaLight) Intensity() core.Color {
	return al.intensity
}

func (al *AreaLight) Position() core.Point {
	return al.center
}

func (al *AreaLight) Positions() []core.Point {
	return al.positions
}

// Samples returns the number of cells
func (al *AreaLight) Samples() int {
	return al.uSteps * al.vSteps
}

// PointOnLight returns a point in cell (u, v); offset in [0, 1) moves it
// across the cell along both edges.
func (al *AreaLight) PointOnLight(u, v int, offset float64) core.Point {
	return al.corner.
		Add(al.uCell.Multiply(float64(u) + offset)).
		Add(al.vCell.Multiply(float64(v) + offset))
}

// IntensityAt returns the fraction of cells visible from point
func (al *AreaLight) IntensityAt(point core.Point, occluder Occluder) float64 {
	random := al.Random
	if random == nil {
		random = rand.Float64
	}

	total := 0.0
	for v := 0; v < al.vSteps; v++ {
		for u := 0; u < al.uSteps; u++ {
			var lightPosition core.Point
			if al.Jitter {
				lightPosition = al.PointOnLight(u, v, random())
			} else {
				lightPosition = al.positions[v*al.uSteps+u]
			}

			if !occluder.IsShadowed(lightPosition, point) {
				total++
			}
		}
	}

	return total / float64(al.Samples())
}

func (al *AreaLight) sealed() {}
