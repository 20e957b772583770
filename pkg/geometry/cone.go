package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cone is a double-napped cone around the y axis with radius |y|, truncated
// to Min < y < Max. Closed cones have caps at both ends.
type Cone struct {
	Min, Max float64
	Closed   bool
}

// NewCone creates a cone; min and max are swapped if out of order
func NewCone(min, max float64, closed bool) Cone {
	if min > max {
		min, max = max, min
	}
	return Cone{Min: min, Max: max, Closed: closed}
}

// NewInfiniteCone creates an open cone with no y limits
func NewInfiniteCone() Cone {
	return Cone{Min: math.Inf(-1), Max: math.Inf(1)}
}

func (c Cone) Intersect(ray core.Ray, push Pusher) {
	o, d := ray.Origin, ray.Direction

	a := d.X*d.X - d.Y*d.Y + d.Z*d.Z
	b := 2 * (o.X*d.X - o.Y*d.Y + o.Z*d.Z)
	cc := o.X*o.X - o.Y*o.Y + o.Z*o.Z

	if core.ApproxEq(a, 0) {
		// Ray is parallel to one of the cone halves: a single root
		if !core.ApproxEq(b, 0) {
			push.T(-cc / (2 * b))
		}
	} else {
		discriminant := b*b - 4*a*cc
		if discriminant < 0 {
			return
		}

		sqrtD := math.Sqrt(discriminant)
		t0 := (-b - sqrtD) / (2 * a)
		t1 := (-b + sqrtD) / (2 * a)

		if y0 := o.Y + t0*d.Y; c.Min < y0 && y0 < c.Max {
			push.T(t0)
		}
		if y1 := o.Y + t1*d.Y; c.Min < y1 && y1 < c.Max {
			push.T(t1)
		}
	}

	c.intersectCaps(ray, push)
}

func (c Cone) intersectCaps(ray core.Ray, push Pusher) {
	if !c.Closed || core.ApproxEq(ray.Direction.Y, 0) {
		return
	}

	if t := (c.Min - ray.Origin.Y) / ray.Direction.Y; checkCap(ray, t, c.Min) {
		push.T(t)
	}
	if t := (c.Max - ray.Origin.Y) / ray.Direction.Y; checkCap(ray, t, c.Max) {
		push.T(t)
	}
}

func (c Cone) NormalAt(point core.Point, _ Intersection) core.Vector {
	dist := point.X*point.X + point.Z*point.Z

	if dist < c.Max*c.Max && point.Y >= c.Max-core.Epsilon {
		return core.NewVector(0, 1, 0)
	}
	if dist < c.Min*c.Min && point.Y <= c.Min+core.Epsilon {
		return core.NewVector(0, -1, 0)
	}

	y := math.Sqrt(dist)
	if point.Y > 0 {
		y = -y
	}
	return core.NewVector(point.X, y, point.Z)
}

// Bounds uses the widest radius of the two ends
func (c Cone) Bounds() core.BoundingBox {
	limit := math.Max(math.Abs(c.Min), math.Abs(c.Max))
	return core.NewBoundingBox(core.NewPoint(-limit, c.Min, -limit), core.NewPoint(limit, c.Max, limit))
}

func (Cone) shape() {}
