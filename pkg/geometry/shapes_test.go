package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// localHits runs a shape's local intersection and returns the sorted t values
func localHits(shape Shape, ray core.Ray) []float64 {
	c := NewCollector()
	shape.Intersect(ray, c)
	xs := c.Intersections()
	ts := make([]float64, len(xs))
	for i, x := range xs {
		ts[i] = x.T
	}
	return ts
}

func checkHits(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d intersections %v, got %d %v", len(want), want, len(got), got)
	}
	for i := range want {
		if !core.ApproxEq(got[i], want[i]) {
			t.Errorf("Intersection %d: expected t=%v, got %v", i, want[i], got[i])
		}
	}
}

func ray(ox, oy, oz, dx, dy, dz float64) core.Ray {
	return core.NewRay(core.NewPoint(ox, oy, oz), core.NewVector(dx, dy, dz))
}

func TestSphere_Intersect(t *testing.T) {
	tests := []struct {
		name string
		ray  core.Ray
		want []float64
	}{
		{"two points", ray(0, 0, -5, 0, 0, 1), []float64{4, 6}},
		{"tangent", ray(0, 1, -5, 0, 0, 1), []float64{5, 5}},
		{"miss", ray(0, 2, -5, 0, 0, 1), nil},
		{"origin inside", ray(0, 0, 0, 0, 0, 1), []float64{-1, 1}},
		{"sphere behind", ray(0, 0, 5, 0, 0, 1), []float64{-6, -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkHits(t, localHits(Sphere{}, tt.ray), tt.want)
		})
	}
}

func TestObject_TransformedIntersect(t *testing.T) {
	r := ray(0, 0, -5, 0, 0, 1)

	scaled := NewSphereObject().WithTransform(core.Scaling(2, 2, 2))
	xs := scaled.Intersections(r)
	if len(xs) != 2 || !core.ApproxEq(xs[0].T, 3) || !core.ApproxEq(xs[1].T, 7) {
		t.Errorf("Scaled sphere: expected t=3,7, got %v", xs)
	}
	if xs[0].Object != scaled {
		t.Error("Expected intersection to reference the sphere object")
	}

	translated := NewSphereObject().WithTransform(core.Translation(5, 0, 0))
	if xs := translated.Intersections(r); len(xs) != 0 {
		t.Errorf("Translated sphere: expected no hits, got %v", xs)
	}
}

func TestObject_LocalRay(t *testing.T) {
	r := ray(0, 0, -5, 0, 0, 1)

	probe := NewTestShape()
	NewObject(probe).WithTransform(core.Scaling(2, 2, 2)).Intersections(r)
	if probe.SavedRay.Origin != core.NewPoint(0, 0, -2.5) || probe.SavedRay.Direction != core.NewVector(0, 0, 0.5) {
		t.Errorf("Scaled: unexpected local ray %+v", probe.SavedRay)
	}

	probe = NewTestShape()
	NewObject(probe).WithTransform(core.Translation(5, 0, 0)).Intersections(r)
	if probe.SavedRay.Origin != core.NewPoint(-5, 0, -5) || probe.SavedRay.Direction != core.NewVector(0, 0, 1) {
		t.Errorf("Translated: unexpected local ray %+v", probe.SavedRay)
	}
}

func TestObject_NormalAt(t *testing.T) {
	s2 := math.Sqrt2 / 2

	tests := []struct {
		name      string
		transform core.Matrix
		point     core.Point
		want      core.Vector
	}{
		{"on x axis", core.Identity(), core.NewPoint(1, 0, 0), core.NewVector(1, 0, 0)},
		{"nonaxial", core.Identity(), core.NewPoint(math.Sqrt(3)/3, math.Sqrt(3)/3, math.Sqrt(3)/3),
			core.NewVector(math.Sqrt(3)/3, math.Sqrt(3)/3, math.Sqrt(3)/3)},
		{"translated", core.Translation(0, 1, 0), core.NewPoint(0, 1.70711, -0.70711), core.NewVector(0, 0.70711, -0.70711)},
		{"scaled and rotated", core.Scaling(1, 0.5, 1).Multiply(core.RotationZ(math.Pi / 5)), core.NewPoint(0, s2, -s2),
			core.NewVector(0, 0.97014, -0.24254)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewSphereObject().WithTransform(tt.transform)
			got := o.NormalAt(tt.point, Intersection{})
			if !got.ApproxEq(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if !core.ApproxEq(got.Magnitude(), 1) {
				t.Errorf("Expected a unit normal, got magnitude %v", got.Magnitude())
			}
		})
	}
}

func TestObject_TryTransformSingular(t *testing.T) {
	o := NewSphereObject()
	if _, err := o.TryTransform(core.Scaling(0, 1, 1)); err == nil {
		t.Error("Expected an error for a singular transform")
	}
	if o.TransformMatrix() != core.Identity() {
		t.Error("Failed transform should leave the object unchanged")
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected WithTransform to panic on a singular matrix")
		}
	}()
	o.WithTransform(core.Scaling(1, 0, 1))
}

func TestPlane(t *testing.T) {
	tests := []struct {
		name string
		ray  core.Ray
		want []float64
	}{
		{"parallel", ray(0, 10, 0, 0, 0, 1), nil},
		{"coplanar", ray(0, 0, 0, 0, 0, 1), nil},
		{"from above", ray(0, 1, 0, 0, -1, 0), []float64{1}},
		{"from below", ray(0, -1, 0, 0, 1, 0), []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkHits(t, localHits(Plane{}, tt.ray), tt.want)
		})
	}

	for _, p := range []core.Point{core.NewPoint(0, 0, 0), core.NewPoint(10, 0, -10), core.NewPoint(-5, 0, 150)} {
		if got := (Plane{}).NormalAt(p, Intersection{}); got != core.NewVector(0, 1, 0) {
			t.Errorf("Normal at %v: expected (0, 1, 0), got %v", p, got)
		}
	}
}

func TestCube(t *testing.T) {
	tests := []struct {
		name string
		ray  core.Ray
		want []float64
	}{
		{"+x", ray(5, 0.5, 0, -1, 0, 0), []float64{4, 6}},
		{"-x", ray(-5, 0.5, 0, 1, 0, 0), []float64{4, 6}},
		{"+y", ray(0.5, 5, 0, 0, -1, 0), []float64{4, 6}},
		{"-y", ray(0.5, -5, 0, 0, 1, 0), []float64{4, 6}},
		{"+z", ray(0.5, 0, 5, 0, 0, -1), []float64{4, 6}},
		{"-z", ray(0.5, 0, -5, 0, 0, 1), []float64{4, 6}},
		{"inside", ray(0, 0.5, 0, 0, 0, 1), []float64{-1, 1}},
		{"miss diagonal", ray(-2, 0, 0, 0.2673, 0.5345, 0.8018), nil},
		{"miss z parallel", ray(2, 0, 2, 0, 0, -1), nil},
		{"miss x parallel", ray(2, 2, 0, -1, 0, 0), nil},
		{"behind", ray(0, 0, 5, 0, 0, 1), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkHits(t, localHits(Cube{}, tt.ray), tt.want)
		})
	}

	normals := []struct {
		point core.Point
		want  core.Vector
	}{
		{core.NewPoint(1, 0.5, -0.8), core.NewVector(1, 0, 0)},
		{core.NewPoint(-1, -0.2, 0.9), core.NewVector(-1, 0, 0)},
		{core.NewPoint(-0.4, 1, -0.1), core.NewVector(0, 1, 0)},
		{core.NewPoint(0.3, -1, -0.7), core.NewVector(0, -1, 0)},
		{core.NewPoint(-0.6, 0.3, 1), core.NewVector(0, 0, 1)},
		{core.NewPoint(0.4, 0.4, -1), core.NewVector(0, 0, -1)},
		{core.NewPoint(1, 1, 1), core.NewVector(1, 0, 0)},
		{core.NewPoint(-1, -1, -1), core.NewVector(-1, 0, 0)},
	}
	for _, tt := range normals {
		if got := (Cube{}).NormalAt(tt.point, Intersection{}); got != tt.want {
			t.Errorf("Normal at %v: expected %v, got %v", tt.point, tt.want, got)
		}
	}
}

func TestCylinder_Intersect(t *testing.T) {
	infinite := NewInfiniteCylinder()
	truncated := NewCylinder(1, 2, false)
	closed := NewCylinder(1, 2, true)

	tests := []struct {
		name     string
		cylinder Cylinder
		origin   core.Point
		dir      core.Vector
		want     []float64
	}{
		{"miss on surface", infinite, core.NewPoint(1, 0, 0), core.NewVector(0, 1, 0), nil},
		{"miss inside", infinite, core.NewPoint(0, 0, 0), core.NewVector(0, 1, 0), nil},
		{"miss outside", infinite, core.NewPoint(0, 0, -5), core.NewVector(1, 1, 1), nil},
		{"tangent", infinite, core.NewPoint(1, 0, -5), core.NewVector(0, 0, 1), []float64{5, 5}},
		{"through center", infinite, core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1), []float64{4, 6}},
		{"at angle", infinite, core.NewPoint(0.5, 0, -5), core.NewVector(0.1, 1, 1), []float64{6.80798, 7.08872}},

		{"truncated escapes", truncated, core.NewPoint(0, 1.5, 0), core.NewVector(0.1, 1, 0), nil},
		{"truncated above", truncated, core.NewPoint(0, 3, -5), core.NewVector(0, 0, 1), nil},
		{"truncated below", truncated, core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1), nil},
		{"truncated at max", truncated, core.NewPoint(0, 2, -5), core.NewVector(0, 0, 1), nil},
		{"truncated at min", truncated, core.NewPoint(0, 1, -5), core.NewVector(0, 0, 1), nil},
		{"truncated hit", truncated, core.NewPoint(0, 1.5, -2), core.NewVector(0, 0, 1), []float64{1, 3}},

		{"caps straight down", closed, core.NewPoint(0, 3, 0), core.NewVector(0, -1, 0), []float64{1, 2}},
		{"caps from above", closed, core.NewPoint(0, 3, -2), core.NewVector(0, -1, 2), nil},
		{"caps corner top", closed, core.NewPoint(0, 4, -2), core.NewVector(0, -1, 1), nil},
		{"caps from below", closed, core.NewPoint(0, 0, -2), core.NewVector(0, 1, 2), nil},
		{"caps corner bottom", closed, core.NewPoint(0, -1, -2), core.NewVector(0, 1, 1), nil},
	}
	counts := map[string]int{
		"caps from above": 2, "caps corner top": 2, "caps from below": 2, "caps corner bottom": 2,
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := localHits(tt.cylinder, core.NewRay(tt.origin, tt.dir.Normalize()))
			if n, ok := counts[tt.name]; ok {
				if len(got) != n {
					t.Errorf("Expected %d intersections, got %v", n, got)
				}
				return
			}
			checkHits(t, got, tt.want)
		})
	}
}

func TestCylinder_NormalAt(t *testing.T) {
	tests := []struct {
		name     string
		cylinder Cylinder
		point    core.Point
		want     core.Vector
	}{
		{"+x", NewInfiniteCylinder(), core.NewPoint(1, 0, 0), core.NewVector(1, 0, 0)},
		{"-z", NewInfiniteCylinder(), core.NewPoint(0, 5, -1), core.NewVector(0, 0, -1)},
		{"+z", NewInfiniteCylinder(), core.NewPoint(0, -2, 1), core.NewVector(0, 0, 1)},
		{"-x", NewInfiniteCylinder(), core.NewPoint(-1, 1, 0), core.NewVector(-1, 0, 0)},
		{"bottom cap center", NewCylinder(1, 2, true), core.NewPoint(0, 1, 0), core.NewVector(0, -1, 0)},
		{"bottom cap x", NewCylinder(1, 2, true), core.NewPoint(0.5, 1, 0), core.NewVector(0, -1, 0)},
		{"bottom cap z", NewCylinder(1, 2, true), core.NewPoint(0, 1, 0.5), core.NewVector(0, -1, 0)},
		{"top cap center", NewCylinder(1, 2, true), core.NewPoint(0, 2, 0), core.NewVector(0, 1, 0)},
		{"top cap x", NewCylinder(1, 2, true), core.NewPoint(0.5, 2, 0), core.NewVector(0, 1, 0)},
		{"top cap z", NewCylinder(1, 2, true), core.NewPoint(0, 2, 0.5), core.NewVector(0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cylinder.NormalAt(tt.point, Intersection{}); !got.ApproxEq(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCylinder_Defaults(t *testing.T) {
	c := NewInfiniteCylinder()
	if !math.IsInf(c.Min, -1) || !math.IsInf(c.Max, 1) || c.Closed {
		t.Errorf("Unexpected default cylinder %+v", c)
	}
	if swapped := NewCylinder(2, 1, false); swapped.Min != 1 || swapped.Max != 2 {
		t.Errorf("Expected min/max to be ordered, got %+v", swapped)
	}
}

func TestCone_Intersect(t *testing.T) {
	tests := []struct {
		name   string
		cone   Cone
		origin core.Point
		dir    core.Vector
		want   []float64
	}{
		{"straight", NewInfiniteCone(), core.NewPoint(0, 0, -5), core.NewVector(0, 0, 1), []float64{5, 5}},
		{"diagonal", NewInfiniteCone(), core.NewPoint(0, 0, -5), core.NewVector(1, 1, 1), []float64{8.66025, 8.66025}},
		{"oblique", NewInfiniteCone(), core.NewPoint(1, 1, -5), core.NewVector(-0.5, -1, 1), []float64{4.55006, 49.44994}},
		{"parallel to one half", NewInfiniteCone(), core.NewPoint(0, 0, -1), core.NewVector(0, 1, 1), []float64{0.35355}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkHits(t, localHits(tt.cone, core.NewRay(tt.origin, tt.dir.Normalize())), tt.want)
		})
	}

	capped := NewCone(-0.5, 0.5, true)
	caps := []struct {
		origin core.Point
		dir    core.Vector
		count  int
	}{
		{core.NewPoint(0, 0, -5), core.NewVector(0, 1, 0), 0},
		{core.NewPoint(0, 0, -0.25), core.NewVector(0, 1, 1), 2},
		{core.NewPoint(0, 0, -0.25), core.NewVector(0, 1, 0), 4},
	}
	for _, tt := range caps {
		if got := localHits(capped, core.NewRay(tt.origin, tt.dir.Normalize())); len(got) != tt.count {
			t.Errorf("Capped cone from %v: expected %d hits, got %v", tt.origin, tt.count, got)
		}
	}
}

func TestCone_NormalAt(t *testing.T) {
	tests := []struct {
		point core.Point
		want  core.Vector
	}{
		{core.NewPoint(0, 0, 0), core.NewVector(0, 0, 0)},
		{core.NewPoint(1, 1, 1), core.NewVector(1, -math.Sqrt2, 1)},
		{core.NewPoint(-1, -1, 0), core.NewVector(-1, 1, 0)},
	}
	for _, tt := range tests {
		if got := NewInfiniteCone().NormalAt(tt.point, Intersection{}); !got.ApproxEq(tt.want) {
			t.Errorf("Normal at %v: expected %v, got %v", tt.point, tt.want, got)
		}
	}

	capped := NewCone(-1, 2, true)
	if got := capped.NormalAt(core.NewPoint(0.5, 2, 0), Intersection{}); got != core.NewVector(0, 1, 0) {
		t.Errorf("Top cap: expected (0, 1, 0), got %v", got)
	}
	if got := capped.NormalAt(core.NewPoint(0.5, -1, 0), Intersection{}); got != core.NewVector(0, -1, 0) {
		t.Errorf("Bottom cap: expected (0, -1, 0), got %v", got)
	}
}

func TestCone_Bounds(t *testing.T) {
	b := NewCone(-1, 3, true).Bounds()
	if b.Min != core.NewPoint(-3, -1, -3) || b.Max != core.NewPoint(3, 3, 3) {
		t.Errorf("Unexpected cone bounds %v / %v", b.Min, b.Max)
	}
}

func testTriangle() Triangle {
	return NewTriangle(core.NewPoint(0, 1, 0), core.NewPoint(-1, 0, 0), core.NewPoint(1, 0, 0))
}

func TestTriangle(t *testing.T) {
	tr := testTriangle()
	if tr.E1 != core.NewVector(-1, -1, 0) || tr.E2 != core.NewVector(1, -1, 0) {
		t.Errorf("Unexpected edges %v %v", tr.E1, tr.E2)
	}
	if tr.Normal != core.NewVector(0, 0, -1) {
		t.Errorf("Expected normal (0, 0, -1), got %v", tr.Normal)
	}

	tests := []struct {
		name string
		ray  core.Ray
		want []float64
	}{
		{"parallel", ray(0, -1, -2, 0, 1, 0), nil},
		{"misses p1-p3 edge", ray(1, 1, -2, 0, 0, 1), nil},
		{"misses p1-p2 edge", ray(-1, 1, -2, 0, 0, 1), nil},
		{"misses p2-p3 edge", ray(0, -1, -2, 0, 0, 1), nil},
		{"strikes", ray(0, 0.5, -2, 0, 0, 1), []float64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkHits(t, localHits(tr, tt.ray), tt.want)
		})
	}
}

func TestSmoothTriangle(t *testing.T) {
	st := NewSmoothTriangle(
		core.NewPoint(0, 1, 0), core.NewPoint(-1, 0, 0), core.NewPoint(1, 0, 0),
		core.NewVector(0, 1, 0), core.NewVector(-1, 0, 0), core.NewVector(1, 0, 0))
	o := NewObject(st)

	xs := o.Intersections(ray(-0.2, 0.3, -2, 0, 0, 1))
	if len(xs) != 1 {
		t.Fatalf("Expected one hit, got %v", xs)
	}
	if !core.ApproxEq(xs[0].U, 0.45) || !core.ApproxEq(xs[0].V, 0.25) {
		t.Errorf("Expected u=0.45 v=0.25, got u=%v v=%v", xs[0].U, xs[0].V)
	}

	hit := NewIntersectionUV(1, o, 0.45, 0.25)
	want := core.NewVector(-0.5547, 0.83205, 0)
	if got := o.NormalAt(core.Origin, hit); !got.ApproxEq(want) {
		t.Errorf("Expected interpolated normal %v, got %v", want, got)
	}

	state := PrepareHitState(hit, ray(-0.2, 0.3, -2, 0, 0, 1))
	if !state.Normal.ApproxEq(want) {
		t.Errorf("Expected state normal %v, got %v", want, state.Normal)
	}
}

func TestShapeBounds(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		min, max core.Point
	}{
		{"sphere", Sphere{}, core.NewPoint(-1, -1, -1), core.NewPoint(1, 1, 1)},
		{"cube", Cube{}, core.NewPoint(-1, -1, -1), core.NewPoint(1, 1, 1)},
		{"cylinder", NewCylinder(-5, 3, false), core.NewPoint(-1, -5, -1), core.NewPoint(1, 3, 1)},
		{"cone", NewCone(-5, 3, false), core.NewPoint(-5, -5, -5), core.NewPoint(5, 3, 5)},
		{"triangle", NewTriangle(core.NewPoint(-3, 7, 2), core.NewPoint(6, 2, -4), core.NewPoint(2, -1, -1)),
			core.NewPoint(-3, -1, -4), core.NewPoint(6, 7, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.shape.Bounds()
			if b.Min != tt.min || b.Max != tt.max {
				t.Errorf("Expected %v / %v, got %v / %v", tt.min, tt.max, b.Min, b.Max)
			}
		})
	}

	plane := Plane{}.Bounds()
	if !math.IsInf(plane.Min.X, -1) || plane.Min.Y != 0 || !math.IsInf(plane.Max.Z, 1) {
		t.Errorf("Unexpected plane bounds %v / %v", plane.Min, plane.Max)
	}
}
