package core

import "math"

// BoundingBox is an axis-aligned bounding box.
// The empty box has Min at +Inf and Max at -Inf so any point added to it
// becomes its only content.
type BoundingBox struct {
	Min Point // Minimum corner
	Max Point // Maximum corner
}

// EmptyBoundingBox returns a box containing nothing
func EmptyBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Point{inf, inf, inf},
		Max: Point{-inf, -inf, -inf},
	}
}

// NewBoundingBox creates a box from min and max corners
func NewBoundingBox(min, max Point) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

// NewBoundingBoxFromPoints creates a box that bounds all given points
func NewBoundingBoxFromPoints(points ...Point) BoundingBox {
	box := EmptyBoundingBox()
	for _, p := range points {
		box = box.AddPoint(p)
	}
	return box
}

// IsEmpty reports whether no point has been added to the box
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// AddPoint grows the box to include p. NaN components are ignored.
func (b BoundingBox) AddPoint(p Point) BoundingBox {
	return BoundingBox{
		Min: Point{minNum(b.Min.X, p.X), minNum(b.Min.Y, p.Y), minNum(b.Min.Z, p.Z)},
		Max: Point{maxNum(b.Max.X, p.X), maxNum(b.Max.Y, p.Y), maxNum(b.Max.Z, p.Z)},
	}
}

// Union returns a box that bounds both this box and another
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if other.IsEmpty() {
		return b
	}
	return b.AddPoint(other.Min).AddPoint(other.Max)
}

// ContainsPoint reports whether p lies inside or on the box
func (b BoundingBox) ContainsPoint(p Point) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// ContainsBox reports whether other lies entirely inside the box
func (b BoundingBox) ContainsBox(other BoundingBox) bool {
	return b.ContainsPoint(other.Min) && b.ContainsPoint(other.Max)
}

// Transform returns the box bounding the eight transformed corners
func (b BoundingBox) Transform(m Matrix) BoundingBox {
	if b.IsEmpty() {
		return b
	}

	corners := [8]Point{
		b.Min,
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		b.Max,
	}

	result := EmptyBoundingBox()
	for _, c := range corners {
		result = result.AddPoint(transformCorner(m, c))
	}
	return result
}

// transformCorner multiplies like MulPoint but treats 0 * Inf as 0, so that
// unbounded boxes (planes) stay unbounded along their infinite axes only.
func transformCorner(m Matrix, p Point) Point {
	in := [4]float64{p.X, p.Y, p.Z, 1}
	var out [3]float64
	for row := 0; row < 3; row++ {
		sum := 0.0
		for col := 0; col < 4; col++ {
			if m[row][col] == 0 {
				continue
			}
			sum += m[row][col] * in[col]
		}
		out[row] = sum
	}
	return Point{out[0], out[1], out[2]}
}

// Intersects tests the ray against the box using the slab method.
// Only hits in front of the ray origin count.
func (b BoundingBox) Intersects(ray Ray) bool {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		min := b.Min.Component(axis)
		max := b.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-8 {
			if origin < min || origin > max {
				return false // Ray origin outside slab
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		if tMin > tMax || tMax < 0 {
			return false
		}
	}

	return true
}

// Split bisects the box at the midpoint of its longest axis
func (b BoundingBox) Split() (BoundingBox, BoundingBox) {
	leftMax := b.Max
	rightMin := b.Min

	switch b.LongestAxis() {
	case 0:
		mid := b.Min.X + (b.Max.X-b.Min.X)/2
		leftMax.X, rightMin.X = mid, mid
	case 1:
		mid := b.Min.Y + (b.Max.Y-b.Min.Y)/2
		leftMax.Y, rightMin.Y = mid, mid
	default:
		mid := b.Min.Z + (b.Max.Z-b.Min.Z)/2
		leftMax.Z, rightMin.Z = mid, mid
	}

	return BoundingBox{Min: b.Min, Max: leftMax}, BoundingBox{Min: rightMin, Max: b.Max}
}

// Center returns the center point of the box
func (b BoundingBox) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2, (b.Min.Z + b.Max.Z) / 2}
}

// Size returns the extent of the box along each axis
func (b BoundingBox) Size() Vector {
	return b.Max.Subtract(b.Min)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties go to the earlier axis.
func (b BoundingBox) LongestAxis() int {
	size := b.Size()
	if size.X >= size.Y && size.X >= size.Z {
		return 0 // X axis
	}
	if size.Y >= size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}
