package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Material describes the surface of an object for the Phong model, plus the
// reflection and refraction parameters used by recursive shading
type Material struct {
	Pattern         Pattern
	Ambient         float64
	Diffuse         float64
	Specular        float64
	Shininess       float64
	Reflective      float64
	Transparency    float64
	RefractiveIndex float64
}

// Refractive indices of common media
const (
	IndexVacuum  = 1.0
	IndexAir     = 1.00029
	IndexWater   = 1.333
	IndexGlass   = 1.52
	IndexDiamond = 2.417
)

// DefaultMaterial returns a plain white, non-reflective, opaque material
func DefaultMaterial() Material {
	return Material{
		Pattern:         NewPlainPattern(core.White),
		Ambient:         0.1,
		Diffuse:         0.9,
		Specular:        0.9,
		Shininess:       200,
		Reflective:      0,
		Transparency:    0,
		RefractiveIndex: IndexVacuum,
	}
}

// Glass returns the default material made fully transparent with index 1.5
func Glass() Material {
	m := DefaultMaterial()
	m.Transparency = 1.0
	m.RefractiveIndex = 1.5
	return m
}

// WithColor returns a copy of the material with a plain pattern of color
func (m Material) WithColor(color core.Color) Material {
	m.Pattern = NewPlainPattern(color)
	return m
}

// Lighting computes the Phong color for one light at point. objectInverse is
// the inverse transform of the object being shaded, used to sample the
// pattern. intensity is the light's unoccluded fraction from IntensityAt;
// at 0 only the ambient term remains.
func (m Material) Lighting(objectInverse core.Matrix, light lights.Light, point core.Point, eye, normal core.Vector, intensity float64) core.Color {
	color := m.Pattern.ColorAtObject(objectInverse, point)
	effectiveColor := color.Blend(light.Intensity())
	ambient := effectiveColor.Multiply(m.Ambient)

	if core.ApproxEq(intensity, 0) {
		return ambient
	}

	// Average diffuse and specular over every sample position on the light
	sum := core.Black
	positions := light.Positions()
	for _, lightPosition := range positions {
		lightV := lightPosition.Subtract(point).Normalize()
		lightDotNormal := lightV.Dot(normal)
		if lightDotNormal < 0 {
			// Light is on the other side of the surface
			continue
		}

		sum = sum.Add(effectiveColor.Multiply(m.Diffuse * lightDotNormal))

		reflectV := lightV.Negate().Reflect(normal)
		reflectDotEye := reflectV.Dot(eye)
		if reflectDotEye > 0 {
			factor := math.Pow(reflectDotEye, m.Shininess)
			sum = sum.Add(light.Intensity().Multiply(m.Specular * factor))
		}
	}

	return ambient.Add(sum.Multiply(intensity / float64(len(positions))))
}
