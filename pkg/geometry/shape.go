package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Pusher receives candidate intersections as a shape finds them, so
// primitives with at most a couple of roots never allocate a result list
type Pusher interface {
	// T records a hit at distance t on the current object
	T(t float64)

	// TUV records a hit with barycentric coordinates (triangles)
	TUV(t, u, v float64)

	// SetObject changes the object subsequent hits are attributed to
	SetObject(object *Object)
}

// Shape is the local-space geometry of an Object. The set of shapes is closed:
// Sphere, Plane, Cube, Cylinder, Cone, Triangle, SmoothTriangle, Group and
// TestShape.
type Shape interface {
	// Intersect reports every root of ray (already in local space) to push
	Intersect(ray core.Ray, push Pusher)

	// NormalAt returns the local-space normal at a local point; hit carries
	// barycentric coordinates for smooth triangles
	NormalAt(point core.Point, hit Intersection) core.Vector

	// Bounds returns the local-space bounding box
	Bounds() core.BoundingBox

	shape()
}
