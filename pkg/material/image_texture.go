package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Color) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Evaluate samples the texture at (u, v) using nearest-neighbor filtering
func (t *ImageTexture) Evaluate(u, v float64) core.Color {
	// Wrap UV coordinates to [0, 1)
	u -= math.Floor(u)
	v -= math.Floor(v)

	// V=0 is bottom, V=1 is top (flip V for image coordinates where origin is top-left)
	x := int(u * float64(t.Width))
	y := int((1.0 - v) * float64(t.Height))

	// Clamp to image bounds
	x = max(0, min(t.Width-1, x))
	y = max(0, min(t.Height-1, y))

	return t.Pixels[y*t.Width+x]
}

// UVMapping projects a pattern-space point onto texture coordinates
type UVMapping int

const (
	PlanarMapping    UVMapping = iota // u = x, v = z, repeating every unit
	SphericalMapping                  // longitude / latitude around the unit sphere
)

// Map returns the (u, v) texture coordinates for p
func (m UVMapping) Map(p core.Point) (float64, float64) {
	switch m {
	case SphericalMapping:
		theta := math.Atan2(p.X, p.Z)
		radius := p.ToVector().Magnitude()
		if radius == 0 {
			return 0.5, 0.5
		}
		phi := math.Acos(p.Y / radius)
		rawU := theta / (2 * math.Pi)
		return 1 - (rawU + 0.5), 1 - phi/math.Pi
	default:
		return p.X, p.Z
	}
}
