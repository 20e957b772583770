package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera maps canvas pixels to primary rays. The camera sits at the origin
// looking down -z with the canvas one unit in front of it; the transform
// positions it in the world.
type Camera struct {
	HSize       int     // Canvas width in pixels
	VSize       int     // Canvas height in pixels
	FieldOfView float64 // Horizontal angle in radians for wide canvases, vertical for tall ones

	transform  core.Transform
	halfWidth  float64
	halfHeight float64
	pixelSize  float64
	offsets    []float64 // Sub-pixel sample offsets along each axis
}

// NewCamera creates a camera with an identity transform and one sample per pixel
func NewCamera(hsize, vsize int, fieldOfView float64) *Camera {
	c := &Camera{
		HSize:       hsize,
		VSize:       vsize,
		FieldOfView: fieldOfView,
		transform:   core.IdentityTransform(),
		offsets:     AntialiasOffsets(1),
	}
	c.computePixelSize()
	return c
}

// NewDefaultCamera creates a 100x100 camera with a 90 degree field of view
func NewDefaultCamera() *Camera {
	return NewCamera(100, 100, math.Pi/2)
}

func (c *Camera) computePixelSize() {
	halfView := math.Tan(c.FieldOfView / 2)
	aspect := float64(c.HSize) / float64(c.VSize)

	if aspect >= 1 {
		c.halfWidth = halfView
		c.halfHeight = halfView / aspect
	} else {
		c.halfWidth = halfView * aspect
		c.halfHeight = halfView
	}
	c.pixelSize = (c.halfWidth * 2) / float64(c.HSize)
}

// WithSize changes the canvas size, keeping the field of view
func (c *Camera) WithSize(hsize, vsize int) *Camera {
	c.HSize = hsize
	c.VSize = vsize
	c.computePixelSize()
	return c
}

// WithFieldOfView changes the field of view in radians
func (c *Camera) WithFieldOfView(fieldOfView float64) *Camera {
	c.FieldOfView = fieldOfView
	c.computePixelSize()
	return c
}

// WithTransform replaces the view transform. It panics if m is not invertible.
func (c *Camera) WithTransform(m core.Matrix) *Camera {
	c.transform = core.NewTransform(m)
	return c
}

// TryWithTransform is WithTransform returning core.ErrSingularMatrix instead of panicking
func (c *Camera) TryWithTransform(m core.Matrix) (*Camera, error) {
	tr, err := core.TryNewTransform(m)
	if err != nil {
		return c, err
	}
	c.transform = tr
	return c, nil
}

// Transform applies m after the current view transform (new = m * current)
func (c *Camera) Transform(m core.Matrix) *Camera {
	return c.WithTransform(m.Multiply(c.transform.Matrix))
}

// LookAt points the camera from one point at another
func (c *Camera) LookAt(from, to core.Point, up core.Vector) *Camera {
	return c.WithTransform(core.ViewTransform(from, to, up))
}

// TransformMatrix returns the view transform
func (c *Camera) TransformMatrix() core.Matrix {
	return c.transform.Matrix
}

// PixelSize returns the world-space size of one pixel on the canvas plane
func (c *Camera) PixelSize() float64 {
	return c.pixelSize
}

// WithAntialias sets the per-axis sample grid; see AntialiasOffsets
func (c *Camera) WithAntialias(level int) *Camera {
	c.offsets = AntialiasOffsets(level)
	return c
}

// SamplesPerPixel returns the number of primary rays cast per pixel
func (c *Camera) SamplesPerPixel() int {
	return len(c.offsets) * len(c.offsets)
}

// AntialiasOffsets returns the sample offsets used along each pixel axis for
// an anti-aliasing level. Levels 2 to 5 sample a grid reaching half a pixel
// either side of the pixel corner; any other level samples the pixel center.
func AntialiasOffsets(level int) []float64 {
	switch level {
	case 2:
		return []float64{-0.5, 0.5}
	case 3:
		return []float64{-0.5, 0, 0.5}
	case 4:
		return []float64{-0.5, -0.25, 0.25, 0.5}
	case 5:
		return []float64{-0.5, -0.25, 0, 0.25, 0.5}
	default:
		return []float64{0.5}
	}
}

// RayForPixel returns the ray through the center of pixel (px, py)
func (c *Camera) RayForPixel(px, py int) core.Ray {
	return c.RayForPixelOffset(px, py, 0.5, 0.5)
}

// RayForPixelOffset returns the ray through (px + xOffset, py + yOffset) on the canvas
func (c *Camera) RayForPixelOffset(px, py int, xOffset, yOffset float64) core.Ray {
	xo := (float64(px) + xOffset) * c.pixelSize
	yo := (float64(py) + yOffset) * c.pixelSize

	// The camera looks toward -z, so +x is to the left
	worldX := c.halfWidth - xo
	worldY := c.halfHeight - yo

	inv := c.transform.Inverse
	pixel := inv.MulPoint(core.NewPoint(worldX, worldY, -1))
	origin := inv.MulPoint(core.Origin)
	direction := pixel.Subtract(origin).Normalize()

	return core.NewRay(origin, direction)
}

// Tracer computes the color seen along a ray; *world.World implements it
type Tracer interface {
	ColorAt(ray core.Ray) core.Color
}

// PixelColor averages the samples of the anti-aliasing grid for one pixel
func (c *Camera) PixelColor(tracer Tracer, px, py int) core.Color {
	sum := core.Black
	for _, xo := range c.offsets {
		for _, yo := range c.offsets {
			sum = sum.Add(tracer.ColorAt(c.RayForPixelOffset(px, py, xo, yo)))
		}
	}
	return sum.Multiply(1 / float64(c.SamplesPerPixel()))
}
