package core

import "math"

// Epsilon is the tolerance used for floating point comparisons and for nudging
// shading points off a surface.
const Epsilon = 1e-4

// ApproxEq reports whether a and b are within Epsilon of each other.
func ApproxEq(a, b float64) bool {
	return ApproxEqEpsilon(a, b, Epsilon)
}

// ApproxEqEpsilon reports whether a and b are within eps of each other.
// Equal infinities compare equal.
func ApproxEqEpsilon(a, b, eps float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= eps
}

// minNum and maxNum ignore a NaN operand, returning the other value.
func minNum(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Min(a, b)
}

func maxNum(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}
	return math.Max(a, b)
}
