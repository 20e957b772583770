package core

import "fmt"

// Color is a linear RGB color; components are not clamped
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// Add returns the sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the difference of two colors
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply scales the color by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Blend returns the component-wise (Hadamard) product of two colors
func (c Color) Blend(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Clamp returns a color with components clamped to [minVal, maxVal]
func (c Color) Clamp(minVal, maxVal float64) Color {
	return Color{
		R: max(minVal, min(maxVal, c.R)),
		G: max(minVal, min(maxVal, c.G)),
		B: max(minVal, min(maxVal, c.B)),
	}
}

// ApproxEq compares two colors component-wise within Epsilon
func (c Color) ApproxEq(other Color) bool {
	return ApproxEq(c.R, other.R) && ApproxEq(c.G, other.G) && ApproxEq(c.B, other.B)
}

func (c Color) String() string {
	return fmt.Sprintf("Color(%g, %g, %g)", c.R, c.G, c.B)
}
