package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere is the unit sphere centered at the origin
type Sphere struct{}

// Intersect solves |O + tD|² = 1 for t
func (Sphere) Intersect(ray core.Ray, push Pusher) {
	sphereToRay := ray.Origin.ToVector()

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * ray.Direction.Dot(sphereToRay)
	c := sphereToRay.Dot(sphereToRay) - 1.0

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return
	}

	sqrtD := math.Sqrt(discriminant)
	push.T((-b - sqrtD) / (2 * a))
	push.T((-b + sqrtD) / (2 * a))
}

func (Sphere) NormalAt(point core.Point, _ Intersection) core.Vector {
	return point.ToVector()
}

func (Sphere) Bounds() core.BoundingBox {
	return core.NewBoundingBox(core.NewPoint(-1, -1, -1), core.NewPoint(1, 1, 1))
}

func (Sphere) shape() {}
