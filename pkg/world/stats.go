package world

import "sync/atomic"

// Stats counts the work done by a world while it renders. It is safe for
// concurrent use; a nil *Stats records nothing.
type Stats struct {
	rays          atomic.Int64
	shadowRays    atomic.Int64
	intersections atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters
type StatsSnapshot struct {
	Rays          int64 // Rays cast by ColorAt, including reflection and refraction rays
	ShadowRays    int64 // Rays cast by IsShadowed
	Intersections int64 // Candidate intersections found by all rays
}

func (s *Stats) addRay(intersections int) {
	if s == nil {
		return
	}
	s.rays.Add(1)
	s.intersections.Add(int64(intersections))
}

func (s *Stats) addShadowRay(intersections int) {
	if s == nil {
		return
	}
	s.shadowRays.Add(1)
	s.intersections.Add(int64(intersections))
}

// Snapshot returns the current counter values
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}
	return StatsSnapshot{
		Rays:          s.rays.Load(),
		ShadowRays:    s.shadowRays.Load(),
		Intersections: s.intersections.Load(),
	}
}

// Reset zeroes every counter
func (s *Stats) Reset() {
	if s == nil {
		return
	}
	s.rays.Store(0)
	s.shadowRays.Store(0)
	s.intersections.Store(0)
}
