package renderer

import "github.com/df07/go-whitted-raytracer/pkg/core"

// Canvas is a grid of linear, unclamped colors stored row by row
type Canvas struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewCanvas creates a black canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the color of pixel (x, y)
func (c *Canvas) At(x, y int) core.Color {
	return c.Pixels[y*c.Width+x]
}

// Set writes the color of pixel (x, y)
func (c *Canvas) Set(x, y int, color core.Color) {
	c.Pixels[y*c.Width+x] = color
}
