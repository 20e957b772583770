package geometry

import (
	"math"
	"sort"
)

// Intersection is a single candidate hit along a ray
type Intersection struct {
	T      float64
	Object *Object
	U, V   float64 // Barycentric coordinates, triangles only
}

// NewIntersection creates an intersection without barycentric coordinates
func NewIntersection(t float64, object *Object) Intersection {
	return Intersection{T: t, Object: object}
}

// NewIntersectionUV creates an intersection with barycentric coordinates
func NewIntersectionUV(t float64, object *Object, u, v float64) Intersection {
	return Intersection{T: t, Object: object, U: u, V: v}
}

// Intersections is a list of hits kept in ascending t order
type Intersections []Intersection

// NewIntersections sorts the given hits
func NewIntersections(xs ...Intersection) Intersections {
	result := Intersections(xs)
	result.Sort()
	return result
}

// Sort orders by t ascending; NaN sorts after every real value
func (xs Intersections) Sort() {
	sort.SliceStable(xs, func(i, j int) bool {
		a, b := xs[i].T, xs[j].T
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
}

// Hit returns the intersection with the lowest non-negative t
func (xs Intersections) Hit() (Intersection, bool) {
	for _, x := range xs {
		if x.T >= 0 {
			return x, true
		}
	}
	return Intersection{}, false
}

// Collector is a Pusher that accumulates hits into a list
type Collector struct {
	object *Object
	hits   Intersections
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) T(t float64) {
	c.hits = append(c.hits, Intersection{T: t, Object: c.object})
}

func (c *Collector) TUV(t, u, v float64) {
	c.hits = append(c.hits, Intersection{T: t, Object: c.object, U: u, V: v})
}

func (c *Collector) SetObject(object *Object) {
	c.object = object
}

// Len returns the number of hits collected so far
func (c *Collector) Len() int {
	return len(c.hits)
}

// Reset drops the collected hits, keeping the backing storage
func (c *Collector) Reset() {
	c.object = nil
	c.hits = c.hits[:0]
}

// Intersections returns the collected hits, sorted
func (c *Collector) Intersections() Intersections {
	c.hits.Sort()
	return c.hits
}
