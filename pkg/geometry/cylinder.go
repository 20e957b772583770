package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cylinder is a radius 1 cylinder around the y axis, truncated to
// Min < y < Max. Closed cylinders have caps at both ends.
type Cylinder struct {
	Min, Max float64
	Closed   bool
}

// NewCylinder creates a cylinder; min and max are swapped if out of order
func NewCylinder(min, max float64, closed bool) Cylinder {
	if min > max {
		min, max = max, min
	}
	return Cylinder{Min: min, Max: max, Closed: closed}
}

// NewInfiniteCylinder creates an open cylinder with no y limits
func NewInfiniteCylinder() Cylinder {
	return Cylinder{Min: math.Inf(-1), Max: math.Inf(1)}
}

func (c Cylinder) Intersect(ray core.Ray, push Pusher) {
	a := ray.Direction.X*ray.Direction.X + ray.Direction.Z*ray.Direction.Z

	// Ray is parallel to the y axis: only the caps can be hit
	if core.ApproxEq(a, 0) {
		c.intersectCaps(ray, push)
		return
	}

	b := 2 * (ray.Origin.X*ray.Direction.X + ray.Origin.Z*ray.Direction.Z)
	cc := ray.Origin.X*ray.Origin.X + ray.Origin.Z*ray.Origin.Z - 1

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2 * a)
	t1 := (-b + sqrtD) / (2 * a)

	if y0 := ray.Origin.Y + t0*ray.Direction.Y; c.Min < y0 && y0 < c.Max {
		push.T(t0)
	}
	if y1 := ray.Origin.Y + t1*ray.Direction.Y; c.Min < y1 && y1 < c.Max {
		push.T(t1)
	}

	c.intersectCaps(ray, push)
}

func (c Cylinder) intersectCaps(ray core.Ray, push Pusher) {
	if !c.Closed || core.ApproxEq(ray.Direction.Y, 0) {
		return
	}

	if t := (c.Min - ray.Origin.Y) / ray.Direction.Y; checkCap(ray, t, 1) {
		push.T(t)
	}
	if t := (c.Max - ray.Origin.Y) / ray.Direction.Y; checkCap(ray, t, 1) {
		push.T(t)
	}
}

// checkCap reports whether the ray at t lies within radius of the y axis
func checkCap(ray core.Ray, t, radius float64) bool {
	x := ray.Origin.X + t*ray.Direction.X
	z := ray.Origin.Z + t*ray.Direction.Z
	return x*x+z*z <= radius*radius
}

func (c Cylinder) NormalAt(point core.Point, _ Intersection) core.Vector {
	dist := point.X*point.X + point.Z*point.Z

	if dist < 1 && point.Y >= c.Max-core.Epsilon {
		return core.NewVector(0, 1, 0)
	}
	if dist < 1 && point.Y <= c.Min+core.Epsilon {
		return core.NewVector(0, -1, 0)
	}
	return core.NewVector(point.X, 0, point.Z)
}

func (c Cylinder) Bounds() core.BoundingBox {
	return core.NewBoundingBox(core.NewPoint(-1, c.Min, -1), core.NewPoint(1, c.Max, 1))
}

func (Cylinder) shape() {}
