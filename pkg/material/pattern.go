package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PatternType identifies the color function of a Pattern
type PatternType int

const (
	PatternPlain PatternType = iota
	PatternStripe
	PatternRing
	PatternGradient
	PatternChecker
	PatternTest
	PatternImage
)

var patternNames = map[PatternType]string{
	PatternPlain:    "plain",
	PatternStripe:   "stripe",
	PatternRing:     "ring",
	PatternGradient: "gradient",
	PatternChecker:  "checker",
	PatternTest:     "test",
	PatternImage:    "image",
}

func (pt PatternType) String() string {
	if name, ok := patternNames[pt]; ok {
		return name
	}
	return "unknown"
}

// Pattern is a spatial color function with its own transform. Patterns are
// values: transforming one returns a new pattern.
type Pattern struct {
	Type    PatternType
	Colors  []core.Color  // Plain uses Colors[0]; gradient and checker use two
	Texture *ImageTexture // Image only
	Mapping UVMapping     // Image only

	transform   core.Transform
	transformed bool // false means identity
}

// NewPlainPattern returns a single solid color
func NewPlainPattern(color core.Color) Pattern {
	return Pattern{Type: PatternPlain, Colors: []core.Color{color}}
}

// NewStripePattern alternates colors along x, each stripe 1/len(colors) wide
func NewStripePattern(colors ...core.Color) Pattern {
	return Pattern{Type: PatternStripe, Colors: colors}
}

// NewRingPattern alternates colors in concentric unit rings around the y axis
func NewRingPattern(colors ...core.Color) Pattern {
	return Pattern{Type: PatternRing, Colors: colors}
}

// NewGradientPattern blends linearly from one color to another along x
func NewGradientPattern(from, to core.Color) Pattern {
	return Pattern{Type: PatternGradient, Colors: []core.Color{from, to}}
}

// NewCheckerPattern alternates two colors in unit cubes
func NewCheckerPattern(c1, c2 core.Color) Pattern {
	return Pattern{Type: PatternChecker, Colors: []core.Color{c1, c2}}
}

// NewTestPattern returns the pattern-space point as a color
func NewTestPattern() Pattern {
	return Pattern{Type: PatternTest}
}

// NewImagePattern maps a texture onto the surface
func NewImagePattern(texture *ImageTexture, mapping UVMapping) Pattern {
	return Pattern{Type: PatternImage, Texture: texture, Mapping: mapping}
}

// Transform returns the pattern transform
func (p Pattern) Transform() core.Transform {
	if !p.transformed {
		return core.IdentityTransform()
	}
	return p.transform
}

// Transformed applies m after the current transform. It panics if the result
// is not invertible.
func (p Pattern) Transformed(m core.Matrix) Pattern {
	p.transform = core.NewTransform(m.Multiply(p.Transform().Matrix))
	p.transformed = true
	return p
}

// TryTransformed is Transformed returning an error for a singular matrix
func (p Pattern) TryTransformed(m core.Matrix) (Pattern, error) {
	tr, err := core.TryNewTransform(m.Multiply(p.Transform().Matrix))
	if err != nil {
		return p, err
	}
	p.transform = tr
	p.transformed = true
	return p, nil
}

// ColorAtObject converts a world point to object space with objectInverse,
// then to pattern space, and samples the pattern there
func (p Pattern) ColorAtObject(objectInverse core.Matrix, worldPoint core.Point) core.Color {
	objectPoint := objectInverse.MulPoint(worldPoint)
	if p.transformed {
		return p.ColorAt(p.transform.Inverse.MulPoint(objectPoint))
	}
	return p.ColorAt(objectPoint)
}

// ColorAt samples the pattern at a point already in pattern space
func (p Pattern) ColorAt(point core.Point) core.Color {
	switch p.Type {
	case PatternPlain:
		return p.color(0)

	case PatternStripe:
		n := len(p.Colors)
		if n == 0 {
			return core.White
		}
		index := int(math.Abs(math.Floor(point.X*float64(n)))) % n
		return p.Colors[index]

	case PatternRing:
		n := len(p.Colors)
		if n == 0 {
			return core.White
		}
		distance := math.Sqrt(point.X*point.X + point.Z*point.Z)
		return p.Colors[int(math.Floor(distance))%n]

	case PatternGradient:
		from, to := p.color(0), p.color(1)
		return from.Add(to.Subtract(from).Multiply(point.X))

	case PatternChecker:
		sum := math.Floor(point.X) + math.Floor(point.Y) + math.Floor(point.Z)
		if core.ApproxEq(math.Mod(sum, 2), 0) {
			return p.color(0)
		}
		return p.color(1)

	case PatternTest:
		return core.NewColor(point.X, point.Y, point.Z)

	case PatternImage:
		if p.Texture == nil {
			return core.White
		}
		return p.Texture.Evaluate(p.Mapping.Map(point))
	}

	return core.White
}

// color returns Colors[i], or white when the slot is missing
func (p Pattern) color(i int) core.Color {
	if i < len(p.Colors) {
		return p.Colors[i]
	}
	return core.White
}
