package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/world"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	SamplesPerPixel int           // Primary rays per pixel
	PrimaryRays     int           // Total camera rays cast
	Tiles           int           // Tiles rendered (1 for sequential renders)
	Workers         int           // Goroutines used
	Duration        time.Duration // Wall time of the render
	World           world.StatsSnapshot
}

// RaysPerSecond returns the primary ray throughput
func (rs RenderStats) RaysPerSecond() float64 {
	if rs.Duration <= 0 {
		return 0
	}
	return float64(rs.PrimaryRays) / rs.Duration.Seconds()
}

func newRenderStats(camera *Camera, w world.StatsSnapshot, duration time.Duration) RenderStats {
	pixels := camera.HSize * camera.VSize
	return RenderStats{
		TotalPixels:     pixels,
		SamplesPerPixel: camera.SamplesPerPixel(),
		PrimaryRays:     pixels * camera.SamplesPerPixel(),
		Duration:        duration,
		World:           w,
	}
}
