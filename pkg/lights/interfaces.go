package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

type LightType string

const (
	LightTypeArea  LightType = "area"
	LightTypePoint LightType = "point"
)

// Occluder answers shadow queries against the scene
type Occluder interface {
	// IsShadowed reports whether a shadow-casting object lies between point
	// and lightPosition
	IsShadowed(lightPosition, point core.Point) bool
}

// Light is implemented by PointLight and AreaLight only
type Light interface {
	Type() LightType

	// Intensity returns the color and brightness of the light
	Intensity() core.Color

	// Position returns a representative position (the center for area lights)
	Position() core.Point

	// Positions returns the precomputed sample positions used for shading
	Positions() []core.Point

	// IntensityAt returns the unoccluded fraction of the light seen from point,
	// in [0, 1]
	IntensityAt(point core.Point, occluder Occluder) float64

	sealed()
}
