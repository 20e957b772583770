package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle is a flat triangle with precomputed edges and face normal
type Triangle struct {
	P1, P2, P3 core.Point
	E1, E2     core.Vector // P2 - P1 and P3 - P1
	Normal     core.Vector
}

// NewTriangle creates a triangle from three vertices
func NewTriangle(p1, p2, p3 core.Point) Triangle {
	e1 := p2.Subtract(p1)
	e2 := p3.Subtract(p1)
	return Triangle{
		P1: p1, P2: p2, P3: p3,
		E1: e1, E2: e2,
		Normal: e2.Cross(e1).Normalize(),
	}
}

// Intersect uses the Möller-Trumbore algorithm and reports barycentric u, v
func (tr Triangle) Intersect(ray core.Ray, push Pusher) {
	dirCrossE2 := ray.Direction.Cross(tr.E2)
	det := tr.E1.Dot(dirCrossE2)

	// Ray is parallel to the triangle plane
	if math.Abs(det) < core.Epsilon {
		return
	}

	f := 1.0 / det
	p1ToOrigin := ray.Origin.Subtract(tr.P1)

	u := f * p1ToOrigin.Dot(dirCrossE2)
	if u < 0 || u > 1 {
		return
	}

	originCrossE1 := p1ToOrigin.Cross(tr.E1)
	v := f * ray.Direction.Dot(originCrossE1)
	if v < 0 || u+v > 1 {
		return
	}

	t := f * tr.E2.Dot(originCrossE1)
	push.TUV(t, u, v)
}

func (tr Triangle) NormalAt(core.Point, Intersection) core.Vector {
	return tr.Normal
}

func (tr Triangle) Bounds() core.BoundingBox {
	return core.NewBoundingBoxFromPoints(tr.P1, tr.P2, tr.P3)
}

func (Triangle) shape() {}

// SmoothTriangle interpolates per-vertex normals across a triangle
type SmoothTriangle struct {
	Triangle
	N1, N2, N3 core.Vector
}

// NewSmoothTriangle creates a triangle with a normal at each vertex
func NewSmoothTriangle(p1, p2, p3 core.Point, n1, n2, n3 core.Vector) SmoothTriangle {
	return SmoothTriangle{
		Triangle: NewTriangle(p1, p2, p3),
		N1:       n1,
		N2:       n2,
		N3:       n3,
	}
}

// NormalAt blends the vertex normals with the hit's barycentric coordinates
func (st SmoothTriangle) NormalAt(_ core.Point, hit Intersection) core.Vector {
	return st.N2.Multiply(hit.U).
		Add(st.N3.Multiply(hit.V)).
		Add(st.N1.Multiply(1 - hit.U - hit.V))
}

func (SmoothTriangle) shape() {}
