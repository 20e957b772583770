package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane is the infinite xz plane through the origin
type Plane struct{}

func (Plane) Intersect(ray core.Ray, push Pusher) {
	// Parallel or coplanar rays never hit
	if math.Abs(ray.Direction.Y) < core.Epsilon {
		return
	}
	push.T(-ray.Origin.Y / ray.Direction.Y)
}

func (Plane) NormalAt(core.Point, Intersection) core.Vector {
	return core.NewVector(0, 1, 0)
}

func (Plane) Bounds() core.BoundingBox {
	inf := math.Inf(1)
	return core.NewBoundingBox(core.NewPoint(-inf, 0, -inf), core.NewPoint(inf, 0, inf))
}

func (Plane) shape() {}
