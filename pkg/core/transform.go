package core

import "math"

// Translation returns a matrix moving points by (x, y, z)
func Translation(x, y, z float64) Matrix {
	m := Identity()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// Scaling returns a matrix scaling each axis independently
func Scaling(x, y, z float64) Matrix {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// RotationX returns a matrix rotating r radians around the x axis
func RotationX(r float64) Matrix {
	sin, cos := math.Sincos(r)
	m := Identity()
	m[1][1] = cos
	m[1][2] = -sin
	m[2][1] = sin
	m[2][2] = cos
	return m
}

// RotationY returns a matrix rotating r radians around the y axis
func RotationY(r float64) Matrix {
	sin, cos := math.Sincos(r)
	m := Identity()
	m[0][0] = cos
	m[0][2] = sin
	m[2][0] = -sin
	m[2][2] = cos
	return m
}

// RotationZ returns a matrix rotating r radians around the z axis
func RotationZ(r float64) Matrix {
	sin, cos := math.Sincos(r)
	m := Identity()
	m[0][0] = cos
	m[0][1] = -sin
	m[1][0] = sin
	m[1][1] = cos
	return m
}

// Shearing returns a matrix moving each component in proportion to the other two
func Shearing(xy, xz, yx, yz, zx, zy float64) Matrix {
	m := Identity()
	m[0][1] = xy
	m[0][2] = xz
	m[1][0] = yx
	m[1][2] = yz
	m[2][0] = zx
	m[2][1] = zy
	return m
}

// ViewTransform orients the world relative to an eye at from looking at to
func ViewTransform(from, to Point, up Vector) Matrix {
	forward := to.Subtract(from).Normalize()
	left := forward.Cross(up.Normalize())
	trueUp := left.Cross(forward)

	orientation := Matrix{
		{left.X, left.Y, left.Z, 0},
		{trueUp.X, trueUp.Y, trueUp.Z, 0},
		{-forward.X, -forward.Y, -forward.Z, 0},
		{0, 0, 0, 1},
	}
	return orientation.Multiply(Translation(-from.X, -from.Y, -from.Z))
}

// The chaining helpers below apply a new operation after the existing ones:
// new = op * m, so the last applied operation acts last on a point.

// Translate applies a translation after m
func (m Matrix) Translate(x, y, z float64) Matrix {
	return Translation(x, y, z).Multiply(m)
}

// Scale applies a scaling after m
func (m Matrix) Scale(x, y, z float64) Matrix {
	return Scaling(x, y, z).Multiply(m)
}

// RotateX applies an x rotation after m
func (m Matrix) RotateX(r float64) Matrix {
	return RotationX(r).Multiply(m)
}

// RotateY applies a y rotation after m
func (m Matrix) RotateY(r float64) Matrix {
	return RotationY(r).Multiply(m)
}

// RotateZ applies a z rotation after m
func (m Matrix) RotateZ(r float64) Matrix {
	return RotationZ(r).Multiply(m)
}

// Shear applies a shearing after m
func (m Matrix) Shear(xy, xz, yx, yz, zx, zy float64) Matrix {
	return Shearing(xy, xz, yx, yz, zx, zy).Multiply(m)
}

// Transform caches a matrix together with its inverse and inverse transpose
type Transform struct {
	Matrix           Matrix
	Inverse          Matrix
	InverseTranspose Matrix
}

// NewTransform caches the inverse of m. It panics if m is singular.
func NewTransform(m Matrix) Transform {
	inv := m.Inverse()
	return Transform{Matrix: m, Inverse: inv, InverseTranspose: inv.Transpose()}
}

// TryNewTransform is NewTransform returning ErrSingularMatrix instead of panicking
func TryNewTransform(m Matrix) (Transform, error) {
	inv, err := m.TryInverse()
	if err != nil {
		return Transform{}, err
	}
	return Transform{Matrix: m, Inverse: inv, InverseTranspose: inv.Transpose()}, nil
}

// IdentityTransform returns the cached identity transform
func IdentityTransform() Transform {
	id := Identity()
	return Transform{Matrix: id, Inverse: id, InverseTranspose: id}
}
