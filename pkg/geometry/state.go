package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// IntersectionState is the shading frame derived from a hit
type IntersectionState struct {
	T      float64
	Object *Object
	Point  core.Point
	// OverPoint is nudged along the normal for shadow rays, UnderPoint the
	// other way for refraction rays
	OverPoint  core.Point
	UnderPoint core.Point
	Eye        core.Vector
	Normal     core.Vector
	Reflect    core.Vector
	Inside     bool
	N1, N2     float64 // Refractive index being left and entered
}

// PrepareState computes the shading frame for xs[index]. The earlier entries
// are replayed to find which transparent objects contain the hit.
func PrepareState(xs Intersections, index int, ray core.Ray) IntersectionState {
	hit := xs[index]

	state := IntersectionState{
		T:      hit.T,
		Object: hit.Object,
		Point:  ray.Position(hit.T),
		Eye:    ray.Direction.Negate(),
	}
	state.Normal = hit.Object.NormalAt(state.Point, hit)
	if state.Normal.Dot(state.Eye) < 0 {
		state.Inside = true
		state.Normal = state.Normal.Negate()
	}
	state.Reflect = ray.Direction.Reflect(state.Normal)

	offset := state.Normal.Multiply(core.Epsilon)
	state.OverPoint = state.Point.Add(offset)
	state.UnderPoint = state.Point.SubtractVector(offset)

	state.N1, state.N2 = refractiveIndices(xs, index)
	return state
}

// PrepareHitState is PrepareState for a single hit
func PrepareHitState(hit Intersection, ray core.Ray) IntersectionState {
	return PrepareState(Intersections{hit}, 0, ray)
}

func refractiveIndices(xs Intersections, index int) (n1, n2 float64) {
	n1, n2 = 1.0, 1.0
	containers := make([]*Object, 0, 4)

	for i := 0; i <= index; i++ {
		object := xs[i].Object
		if i == index && len(containers) > 0 {
			n1 = containers[len(containers)-1].Material.RefractiveIndex
		}

		if pos := indexOf(containers, object); pos >= 0 {
			containers = append(containers[:pos], containers[pos+1:]...)
		} else {
			containers = append(containers, object)
		}

		if i == index && len(containers) > 0 {
			n2 = containers[len(containers)-1].Material.RefractiveIndex
		}
	}
	return n1, n2
}

func indexOf(objects []*Object, target *Object) int {
	for i, o := range objects {
		if o == target {
			return i
		}
	}
	return -1
}

// Schlick approximates the Fresnel reflectance at the hit
func (s IntersectionState) Schlick() float64 {
	cos := s.Eye.Dot(s.Normal)

	if s.N1 > s.N2 {
		ratio := s.N1 / s.N2
		sin2T := ratio * ratio * (1.0 - cos*cos)
		if sin2T > 1.0 {
			return 1.0 // Total internal reflection
		}
		cos = math.Sqrt(1.0 - sin2T)
	}

	r0 := (s.N1 - s.N2) / (s.N1 + s.N2)
	r0 *= r0
	return r0 + (1-r0)*math.Pow(1-cos, 5)
}
