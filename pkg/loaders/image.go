package loaders

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// imageDecoders maps file extensions to decoders. TGA has no magic number,
// so the format is chosen by extension rather than sniffed.
var imageDecoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".tga":  tga.Decode,
	".bmp":  bmp.Decode,
	".webp": nativewebp.Decode,
}

// LoadImage loads a PNG, JPEG, TGA, BMP or WebP image as a texture
func LoadImage(filename string) (*material.ImageTexture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("image: failed to open %s: %w", filename, err)
	}
	defer file.Close()

	decode, ok := imageDecoders[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, fmt.Errorf("image: unsupported format %q", filepath.Ext(filename))
	}

	img, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("image: failed to decode %s: %w", filename, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts an image to a texture with colors scaled to
// [0, 1]. Alpha is ignored.
func TextureFromImage(img image.Image) *material.ImageTexture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			pixels[y*width+x] = core.NewColor(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return material.NewImageTexture(width, height, pixels)
}
