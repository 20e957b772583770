package core

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Point
	Direction Vector
}

// NewRay creates a new ray
func NewRay(origin Point, direction Vector) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// Position returns the point at parameter t along the ray
func (r Ray) Position(t float64) Point {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Transform applies m to both the origin and the direction
func (r Ray) Transform(m Matrix) Ray {
	return Ray{Origin: m.MulPoint(r.Origin), Direction: m.MulVector(r.Direction)}
}
