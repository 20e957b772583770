package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight is a light with no size at a single position
type PointLight struct {
	intensity core.Color
	positions []core.Point
}

// NewPointLight creates a new point light
func NewPointLight(intensity core.Color, position core.Point) *PointLight {
	return &PointLight{
		intensity: intensity,
		positions: []core.Point{position},
	}
}

func (pl *PointLight) Type() LightType {
	return LightTypePoint
}

func (pl *PointLight) Intensity() core.Color {
	return pl.intensity
}

func (pl *PointLight) Position() core.Point {
	return pl.positions[0]
}

func (pl *PointLight) Positions() []core.Point {
	return pl.positions
}

// IntensityAt is binary for a point light: fully lit or fully shadowed
func (pl *PointLight) IntensityAt(point core.Point, occluder Occluder) float64 {
	if occluder.IsShadowed(pl.positions[0], point) {
		return 0
	}
	return 1
}

func (pl *PointLight) sealed() {}
