package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// TestShape is a diagnostic shape that records the last local ray it was
// asked to intersect and how many times it was probed. It never reports a
// hit. It is not safe for concurrent use.
type TestShape struct {
	SavedRay core.Ray
	Calls    int
}

// NewTestShape returns a fresh probe
func NewTestShape() *TestShape {
	return &TestShape{}
}

func (ts *TestShape) Intersect(ray core.Ray, _ Pusher) {
	ts.SavedRay = ray
	ts.Calls++
}

// NormalAt returns the local point as a vector
func (ts *TestShape) NormalAt(point core.Point, _ Intersection) core.Vector {
	return point.ToVector()
}

func (ts *TestShape) Bounds() core.BoundingBox {
	return core.NewBoundingBox(core.NewPoint(-1, -1, -1), core.NewPoint(1, 1, 1))
}

func (ts *TestShape) shape() {}
