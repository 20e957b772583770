package core

import (
	"fmt"
	"math"
)

// Point is a position in space, a homogeneous tuple with w = 1
type Point struct {
	X, Y, Z float64
}

// Vector is a direction in space, a homogeneous tuple with w = 0
type Vector struct {
	X, Y, Z float64
}

// NewPoint creates a new Point
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// NewVector creates a new Vector
func NewVector(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Origin is the point (0, 0, 0)
var Origin = Point{}

// W returns the homogeneous coordinate of a point
func (p Point) W() float64 { return 1 }

// Add moves the point along a vector
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// Subtract returns the vector pointing from other to p
func (p Point) Subtract(other Point) Vector {
	return Vector{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// SubtractVector moves the point against a vector
func (p Point) SubtractVector(v Vector) Point {
	return Point{p.X - v.X, p.Y - v.Y, p.Z - v.Z}
}

// ToVector returns the vector from the origin to p
func (p Point) ToVector() Vector {
	return Vector(p)
}

// Component returns the coordinate for axis 0, 1 or 2
func (p Point) Component(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Component returns the coordinate for axis 0, 1 or 2
func (v Vector) Component(axis int) float64 {
	return Point(v).Component(axis)
}

// ApproxEq compares two points component-wise within Epsilon
func (p Point) ApproxEq(other Point) bool {
	return ApproxEq(p.X, other.X) && ApproxEq(p.Y, other.Y) && ApproxEq(p.Z, other.Z)
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%g, %g, %g)", p.X, p.Y, p.Z)
}

// W returns the homogeneous coordinate of a vector
func (v Vector) W() float64 { return 0 }

// Add returns the sum of two vectors
func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vector) Subtract(other Vector) Vector {
	return Vector{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vector) Multiply(scalar float64) Vector {
	return Vector{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar
func (v Vector) Divide(scalar float64) Vector {
	return Vector{v.X / scalar, v.Y / scalar, v.Z / scalar}
}

// Negate returns the vector pointing the opposite way
func (v Vector) Negate() Vector {
	return Vector{-v.X, -v.Y, -v.Z}
}

// Magnitude returns the length of the vector
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction.
// A zero vector is returned unchanged.
func (v Vector) Normalize() Vector {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return v.Divide(m)
}

// Dot returns the dot product of two vectors
func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vector) Cross(other Vector) Vector {
	return Vector{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Reflect reflects the vector around a normal
func (v Vector) Reflect(normal Vector) Vector {
	return v.Subtract(normal.Multiply(2 * v.Dot(normal)))
}

// ApproxEq compares two vectors component-wise within Epsilon
func (v Vector) ApproxEq(other Vector) bool {
	return ApproxEq(v.X, other.X) && ApproxEq(v.Y, other.Y) && ApproxEq(v.Z, other.Z)
}

func (v Vector) String() string {
	return fmt.Sprintf("Vector(%g, %g, %g)", v.X, v.Y, v.Z)
}
