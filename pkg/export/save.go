package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
)

// ErrUnknownFormat is returned for an output path whose extension has no encoder
var ErrUnknownFormat = errors.New("unknown image format")

// Format is an output file format
type Format string

const (
	FormatPNG  Format = "png"
	FormatPPM  Format = "ppm"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
)

// ppmLineLength is the longest line a plain PPM file may contain
const ppmLineLength = 70

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Format(ext) {
	case FormatPNG, FormatPPM, FormatWebP, FormatBMP:
		return Format(ext), nil
	}
	return "", fmt.Errorf("export: %w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Save writes img to path in the format named by its extension
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}

	if err := Encode(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("export: %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatPPM:
		return EncodePPM(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodePPM writes a plain (P3) PPM. Each image row starts a new line and no
// line is longer than 70 characters.
func EncodePPM(w io.Writer, img image.Image) error {
	bw := bufio.NewWriter(w)
	b := img.Bounds()
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy())

	line := make([]byte, 0, ppmLineLength)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		line = line[:0]
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			for _, v := range [3]uint32{r >> 8, g >> 8, bl >> 8} {
				token := strconv.Itoa(int(v))
				if len(line) > 0 && len(line)+1+len(token) > ppmLineLength {
					line = append(line, '\n')
					bw.Write(line)
					line = line[:0]
				}
				if len(line) > 0 {
					line = append(line, ' ')
				}
				line = append(line, token...)
			}
		}
		line = append(line, '\n')
		bw.Write(line)
	}
	return bw.Flush()
}
