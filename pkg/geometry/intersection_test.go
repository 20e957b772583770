package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

func glassSphere() *Object {
	return NewSphereObject().WithMaterial(material.Glass())
}

func TestIntersections_Hit(t *testing.T) {
	s := NewSphereObject()

	tests := []struct {
		name   string
		ts     []float64
		want   float64
		wantOk bool
	}{
		{"all positive", []float64{1, 2}, 1, true},
		{"some negative", []float64{-1, 1}, 1, true},
		{"all negative", []float64{-2, -1}, 0, false},
		{"lowest non-negative", []float64{5, 7, -3, 2}, 2, true},
		{"zero counts", []float64{0, 3}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs := make([]Intersection, len(tt.ts))
			for i, v := range tt.ts {
				xs[i] = NewIntersection(v, s)
			}
			hit, ok := NewIntersections(xs...).Hit()
			if ok != tt.wantOk {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOk, ok)
			}
			if ok && hit.T != tt.want {
				t.Errorf("Expected hit at %v, got %v", tt.want, hit.T)
			}
		})
	}
}

func TestIntersections_SortNaNLast(t *testing.T) {
	s := NewSphereObject()
	xs := NewIntersections(
		NewIntersection(math.NaN(), s),
		NewIntersection(3, s),
		NewIntersection(-1, s),
		NewIntersection(math.NaN(), s),
		NewIntersection(2, s),
	)

	want := []float64{-1, 2, 3}
	for i, v := range want {
		if xs[i].T != v {
			t.Errorf("Position %d: expected %v, got %v", i, v, xs[i].T)
		}
	}
	if !math.IsNaN(xs[3].T) || !math.IsNaN(xs[4].T) {
		t.Errorf("Expected NaN entries last, got %v", xs)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	s := NewSphereObject()
	c.SetObject(s)
	s.Intersect(ray(0, 0, -5, 0, 0, 1), c)
	if c.Len() != 2 {
		t.Fatalf("Expected 2 hits, got %d", c.Len())
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Expected empty collector after reset, got %d", c.Len())
	}
}

func TestPrepareState(t *testing.T) {
	r := ray(0, 0, -5, 0, 0, 1)
	s := NewSphereObject()
	state := PrepareHitState(NewIntersection(4, s), r)

	if state.Object != s || state.T != 4 {
		t.Errorf("Unexpected hit in state: %+v", state)
	}
	if state.Point != core.NewPoint(0, 0, -1) {
		t.Errorf("Expected point (0, 0, -1), got %v", state.Point)
	}
	if state.Eye != core.NewVector(0, 0, -1) || !state.Normal.ApproxEq(core.NewVector(0, 0, -1)) {
		t.Errorf("Unexpected eye %v or normal %v", state.Eye, state.Normal)
	}
	if state.Inside {
		t.Error("Expected hit from outside")
	}
}

func TestPrepareState_Inside(t *testing.T) {
	state := PrepareHitState(NewIntersection(1, NewSphereObject()), ray(0, 0, 0, 0, 0, 1))

	if !state.Inside {
		t.Error("Expected hit from inside")
	}
	if state.Point != core.NewPoint(0, 0, 1) {
		t.Errorf("Expected point (0, 0, 1), got %v", state.Point)
	}
	if !state.Normal.ApproxEq(core.NewVector(0, 0, -1)) {
		t.Errorf("Expected inverted normal, got %v", state.Normal)
	}
}

func TestPrepareState_Reflect(t *testing.T) {
	s2 := math.Sqrt2 / 2
	state := PrepareHitState(NewIntersection(math.Sqrt2, NewPlaneObject()), ray(0, 1, -1, 0, -s2, s2))

	if want := core.NewVector(0, s2, s2); !state.Reflect.ApproxEq(want) {
		t.Errorf("Expected reflect %v, got %v", want, state.Reflect)
	}
}

func TestPrepareState_OverUnderPoint(t *testing.T) {
	r := ray(0, 0, -5, 0, 0, 1)

	s := NewSphereObject().WithTransform(core.Translation(0, 0, 1))
	state := PrepareHitState(NewIntersection(5, s), r)
	if state.OverPoint.Z >= -core.Epsilon/2 {
		t.Errorf("Expected over point below the surface, got %v", state.OverPoint)
	}
	if state.Point.Z <= state.OverPoint.Z {
		t.Errorf("Expected point above over point: %v vs %v", state.Point, state.OverPoint)
	}

	glass := glassSphere().WithTransform(core.Translation(0, 0, 1))
	state = PrepareState(NewIntersections(NewIntersection(5, glass)), 0, r)
	if state.UnderPoint.Z <= core.Epsilon/2 {
		t.Errorf("Expected under point inside the surface, got %v", state.UnderPoint)
	}
	if state.Point.Z >= state.UnderPoint.Z {
		t.Errorf("Expected point before under point: %v vs %v", state.Point, state.UnderPoint)
	}
}

func TestPrepareState_RefractiveIndices(t *testing.T) {
	a := glassSphere().WithTransform(core.Scaling(2, 2, 2))
	a.Material.RefractiveIndex = 1.5
	b := glassSphere().WithTransform(core.Translation(0, 0, -0.25))
	b.Material.RefractiveIndex = 2.0
	c := glassSphere().WithTransform(core.Translation(0, 0, 0.25))
	c.Material.RefractiveIndex = 2.5

	r := ray(0, 0, -4, 0, 0, 1)
	xs := NewIntersections(
		NewIntersection(2, a),
		NewIntersection(2.75, b),
		NewIntersection(3.25, c),
		NewIntersection(4.75, b),
		NewIntersection(5.25, c),
		NewIntersection(6, a),
	)

	tests := []struct {
		n1, n2 float64
	}{
		{1.0, 1.5},
		{1.5, 2.0},
		{2.0, 2.5},
		{2.5, 2.5},
		{2.5, 1.5},
		{1.5, 1.0},
	}
	for i, tt := range tests {
		state := PrepareState(xs, i, r)
		if state.N1 != tt.n1 || state.N2 != tt.n2 {
			t.Errorf("Index %d: expected n1=%v n2=%v, got n1=%v n2=%v", i, tt.n1, tt.n2, state.N1, state.N2)
		}
	}
}

func TestSchlick(t *testing.T) {
	s2 := math.Sqrt2 / 2
	shape := glassSphere()

	tests := []struct {
		name  string
		ray   core.Ray
		xs    Intersections
		index int
		want  float64
	}{
		{
			name:  "total internal reflection",
			ray:   ray(0, 0, s2, 0, 1, 0),
			xs:    NewIntersections(NewIntersection(-s2, shape), NewIntersection(s2, shape)),
			index: 1,
			want:  1.0,
		},
		{
			name:  "perpendicular",
			ray:   ray(0, 0, 0, 0, 1, 0),
			xs:    NewIntersections(NewIntersection(-1, shape), NewIntersection(1, shape)),
			index: 1,
			want:  0.04,
		},
		{
			name:  "small angle with n2 > n1",
			ray:   ray(0, 0.99, -2, 0, 0, 1),
			xs:    NewIntersections(NewIntersection(1.8589, shape)),
			index: 0,
			want:  0.48873,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := PrepareState(tt.xs, tt.index, tt.ray)
			if got := state.Schlick(); !core.ApproxEq(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
