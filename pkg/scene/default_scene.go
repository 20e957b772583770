package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/world"
)

// NewDefaultScene renders the default world: two concentric spheres and a
// single point light, seen from straight in front
func NewDefaultScene() *Scene {
	s := newScene(400, 400, math.Pi/3, core.NewPoint(0, 0, -5), core.Origin)
	s.World = world.NewDefaultWorld()
	return s
}
