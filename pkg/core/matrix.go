package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSingularMatrix is returned when inverting a matrix whose determinant is zero
var ErrSingularMatrix = errors.New("matrix is not invertible")

// Matrix is a 4x4 row-major matrix
type Matrix [4][4]float64

// Identity returns the 4x4 identity matrix
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewMatrix builds a matrix from 16 values given row by row
func NewMatrix(values ...float64) Matrix {
	if len(values) != 16 {
		panic(fmt.Sprintf("NewMatrix: need 16 values, got %d", len(values)))
	}
	var m Matrix
	for i, v := range values {
		m[i/4][i%4] = v
	}
	return m
}

// Multiply returns m * other
func (m Matrix) Multiply(other Matrix) Matrix {
	var result Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[row][col] = m[row][0]*other[0][col] +
				m[row][1]*other[1][col] +
				m[row][2]*other[2][col] +
				m[row][3]*other[3][col]
		}
	}
	return result
}

// MulPoint transforms a point (w = 1). The matrix is assumed affine: the
// bottom row is ignored.
func (m Matrix) MulPoint(p Point) Point {
	return Point{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// MulVector transforms a vector (w = 0); translation has no effect. Like
// MulPoint it ignores the bottom row.
func (m Matrix) MulVector(v Vector) Vector {
	return Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transposed matrix
func (m Matrix) Transpose() Matrix {
	var result Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[col][row] = m[row][col]
		}
	}
	return result
}

// Determinant returns the determinant of the matrix by cofactor expansion
func (m Matrix) Determinant() float64 {
	det := 0.0
	for col := 0; col < 4; col++ {
		det += m[0][col] * m.Cofactor(0, col)
	}
	return det
}

// Minor returns the determinant of the 3x3 submatrix without row and col
func (m Matrix) Minor(row, col int) float64 {
	var sub [3][3]float64
	r := 0
	for i := 0; i < 4; i++ {
		if i == row {
			continue
		}
		c := 0
		for j := 0; j < 4; j++ {
			if j == col {
				continue
			}
			sub[r][c] = m[i][j]
			c++
		}
		r++
	}
	return sub[0][0]*(sub[1][1]*sub[2][2]-sub[1][2]*sub[2][1]) -
		sub[0][1]*(sub[1][0]*sub[2][2]-sub[1][2]*sub[2][0]) +
		sub[0][2]*(sub[1][0]*sub[2][1]-sub[1][1]*sub[2][0])
}

// Cofactor returns the signed minor at row, col
func (m Matrix) Cofactor(row, col int) float64 {
	minor := m.Minor(row, col)
	if (row+col)%2 == 1 {
		return -minor
	}
	return minor
}

// IsInvertible reports whether the determinant is not approximately zero
func (m Matrix) IsInvertible() bool {
	return !ApproxEq(m.Determinant(), 0)
}

// TryInverse returns the inverse of the matrix, or ErrSingularMatrix
func (m Matrix) TryInverse() (Matrix, error) {
	det := m.Determinant()
	if ApproxEq(det, 0) {
		return Matrix{}, ErrSingularMatrix
	}

	var result Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			// Transposed cofactor matrix divided by the determinant
			result[col][row] = m.Cofactor(row, col) / det
		}
	}
	return result, nil
}

// Inverse returns the inverse of the matrix. A singular matrix cannot be used
// as a transform, so Inverse panics on one; use TryInverse on untrusted input.
func (m Matrix) Inverse() Matrix {
	inv, err := m.TryInverse()
	if err != nil {
		panic(fmt.Sprintf("core: cannot invert matrix %v: %v", m, err))
	}
	return inv
}

// ApproxEq compares two matrices element-wise within Epsilon
func (m Matrix) ApproxEq(other Matrix) bool {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			if !ApproxEq(m[row][col], other[row][col]) {
				return false
			}
		}
	}
	return true
}

func (m Matrix) String() string {
	var sb strings.Builder
	for row := 0; row < 4; row++ {
		fmt.Fprintf(&sb, "| %g %g %g %g |", m[row][0], m[row][1], m[row][2], m[row][3])
		if row < 3 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
