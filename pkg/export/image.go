package export

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ToImage converts a canvas of linear colors to 8-bit RGBA. Components are
// clamped to [0, 1] and rounded to the nearest step.
func ToImage(canvas *renderer.Canvas) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	for y := 0; y < canvas.Height; y++ {
		for x := 0; x < canvas.Width; x++ {
			c := canvas.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: quantize(c.R),
				G: quantize(c.G),
				B: quantize(c.B),
				A: 255,
			})
		}
	}
	return img
}

// quantize maps [0, 1] to [0, 255]; NaN maps to 0
func quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Downsample shrinks img by an integer factor with Catmull-Rom filtering, for
// renders made at a multiple of the output size. A factor below 2 returns
// an RGBA copy of img.
func Downsample(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	if factor < 2 {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	width := max(b.Dx()/factor, 1)
	height := max(b.Dy()/factor, 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
