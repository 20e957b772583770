package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cube is the axis-aligned cube from (-1, -1, -1) to (1, 1, 1)
type Cube struct{}

// Intersect uses the slab method: the latest entry and earliest exit across
// the three axes bound the hit interval
func (Cube) Intersect(ray core.Ray, push Pusher) {
	xtMin, xtMax := checkAxis(ray.Origin.X, ray.Direction.X)
	ytMin, ytMax := checkAxis(ray.Origin.Y, ray.Direction.Y)
	ztMin, ztMax := checkAxis(ray.Origin.Z, ray.Direction.Z)

	tMin := math.Max(xtMin, math.Max(ytMin, ztMin))
	tMax := math.Min(xtMax, math.Min(ytMax, ztMax))

	if tMin > tMax || tMax < 0 {
		return
	}
	push.T(tMin)
	push.T(tMax)
}

// checkAxis returns the ordered distances to the planes at -1 and 1 on one axis
func checkAxis(origin, direction float64) (float64, float64) {
	tMinNumerator := -1 - origin
	tMaxNumerator := 1 - origin

	// Handle parallel rays (direction near zero)
	if math.Abs(direction) < 1e-8 {
		if tMinNumerator > 0 || tMaxNumerator < 0 {
			// Outside the slab: an empty interval
			return math.Inf(1), math.Inf(-1)
		}
		return math.Inf(-1), math.Inf(1)
	}

	tMin := tMinNumerator / direction
	tMax := tMaxNumerator / direction
	if tMin > tMax {
		tMin, tMax = tMax, tMin
	}
	return tMin, tMax
}

// NormalAt picks the face whose axis has the largest absolute component
func (Cube) NormalAt(point core.Point, _ Intersection) core.Vector {
	ax, ay, az := math.Abs(point.X), math.Abs(point.Y), math.Abs(point.Z)
	maxC := math.Max(ax, math.Max(ay, az))

	switch maxC {
	case ax:
		return core.NewVector(point.X, 0, 0)
	case ay:
		return core.NewVector(0, point.Y, 0)
	default:
		return core.NewVector(0, 0, point.Z)
	}
}

func (Cube) Bounds() core.BoundingBox {
	return core.NewBoundingBox(core.NewPoint(-1, -1, -1), core.NewPoint(1, 1, 1))
}

func (Cube) shape() {}
