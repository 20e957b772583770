package world

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// DefaultMaxRecursion is the reflection/refraction depth used when none is configured
const DefaultMaxRecursion = 4

// World holds the objects and lights of a scene and computes the color seen
// along a ray. A World must not be modified while it is rendering; reads are
// safe from any number of goroutines.
type World struct {
	Objects []*geometry.Object
	Lights  []lights.Light

	// Stats receives ray and intersection counts; nil disables counting
	Stats *Stats

	maxRecursion int
}

// New creates an empty world with the default recursion limit
func New() *World {
	return &World{maxRecursion: DefaultMaxRecursion}
}

// NewDefaultWorld returns two concentric spheres lit by one point light
func NewDefaultWorld() *World {
	w := New()
	w.AddLight(lights.NewPointLight(core.White, core.NewPoint(-10, 10, -10)))

	m := material.DefaultMaterial().WithColor(core.NewColor(0.8, 1.0, 0.6))
	m.Diffuse = 0.7
	m.Specular = 0.2
	w.AddObject(
		geometry.NewSphereObject().WithMaterial(m),
		geometry.NewSphereObject().WithTransform(core.Scaling(0.5, 0.5, 0.5)),
	)
	return w
}

// AddObject appends objects to the world
func (w *World) AddObject(objects ...*geometry.Object) {
	w.Objects = append(w.Objects, objects...)
}

// AddLight appends lights to the world
func (w *World) AddLight(ls ...lights.Light) {
	w.Lights = append(w.Lights, ls...)
}

// SetMaxRecursion sets how many reflection/refraction bounces ColorAt
// follows. Values below 1 are raised to 1.
func (w *World) SetMaxRecursion(depth int) {
	w.maxRecursion = max(depth, 1)
}

// MaxRecursion returns the configured bounce limit
func (w *World) MaxRecursion() int {
	if w.maxRecursion < 1 {
		return DefaultMaxRecursion
	}
	return w.maxRecursion
}

// Bounds returns the box around every object
func (w *World) Bounds() core.BoundingBox {
	bounds := core.EmptyBoundingBox()
	for _, o := range w.Objects {
		bounds = bounds.Union(o.Bounds())
	}
	return bounds
}

// Intersect returns every intersection of ray with the world, sorted by t
func (w *World) Intersect(ray core.Ray) geometry.Intersections {
	c := geometry.NewCollector()
	for _, o := range w.Objects {
		c.SetObject(o)
		o.Intersect(ray, c)
	}
	return c.Intersections()
}

// ColorAt returns the color seen along ray using the configured recursion limit
func (w *World) ColorAt(ray core.Ray) core.Color {
	return w.ColorAtDepth(ray, w.MaxRecursion())
}

// ColorAtDepth returns the color seen along ray, following at most remaining
// reflection/refraction bounces. Rays that hit nothing are black.
func (w *World) ColorAtDepth(ray core.Ray, remaining int) core.Color {
	xs := w.Intersect(ray)
	w.Stats.addRay(len(xs))

	for i, x := range xs {
		if x.T >= 0 {
			return w.ShadeHit(geometry.PrepareState(xs, i, ray), remaining)
		}
	}
	return core.Black
}

// ShadeHit sums the surface color from every light with the reflected and
// refracted contributions. Surfaces that are both reflective and transparent
// blend the two by Schlick reflectance.
func (w *World) ShadeHit(state geometry.IntersectionState, remaining int) core.Color {
	m := state.Object.Material
	inverse := state.Object.InverseTransform()

	surface := core.Black
	for _, light := range w.Lights {
		intensity := light.IntensityAt(state.OverPoint, w)
		surface = surface.Add(m.Lighting(inverse, light, state.OverPoint, state.Eye, state.Normal, intensity))
	}

	reflected := w.ReflectedColor(state, remaining)
	refracted := w.RefractedColor(state, remaining)

	if m.Reflective > 0 && m.Transparency > 0 {
		reflectance := state.Schlick()
		return surface.
			Add(reflected.Multiply(reflectance)).
			Add(refracted.Multiply(1 - reflectance))
	}
	return surface.Add(reflected).Add(refracted)
}

// ReflectedColor follows the mirror ray from the hit. It is black once the
// recursion budget is spent or the surface is not reflective.
func (w *World) ReflectedColor(state geometry.IntersectionState, remaining int) core.Color {
	reflective := state.Object.Material.Reflective
	if remaining < 1 || core.ApproxEq(reflective, 0) {
		return core.Black
	}

	reflectRay := core.NewRay(state.OverPoint, state.Reflect)
	return w.ColorAtDepth(reflectRay, remaining-1).Multiply(reflective)
}

// RefractedColor follows the transmitted ray through the hit using Snell's
// law. It is black once the recursion budget is spent, for opaque surfaces,
// and under total internal reflection.
func (w *World) RefractedColor(state geometry.IntersectionState, remaining int) core.Color {
	transparency := state.Object.Material.Transparency
	if remaining < 1 || core.ApproxEq(transparency, 0) {
		return core.Black
	}

	nRatio := state.N1 / state.N2
	cosI := state.Eye.Dot(state.Normal)
	sin2T := nRatio * nRatio * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Black
	}

	cosT := math.Sqrt(1 - sin2T)
	direction := state.Normal.Multiply(nRatio*cosI - cosT).Subtract(state.Eye.Multiply(nRatio))
	refractRay := core.NewRay(state.UnderPoint, direction)

	return w.ColorAtDepth(refractRay, remaining-1).Multiply(transparency)
}

// IsShadowed reports whether a shadow-casting object lies between point and
// lightPosition
func (w *World) IsShadowed(lightPosition, point core.Point) bool {
	v := lightPosition.Subtract(point)
	distance := v.Magnitude()
	ray := core.NewRay(point, v.Normalize())

	xs := w.Intersect(ray)
	w.Stats.addShadowRay(len(xs))

	for _, x := range xs {
		if x.T < 0 || !x.Object.HasShadow {
			continue
		}
		return x.T < distance
	}
	return false
}
