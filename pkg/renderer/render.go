package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/world"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Render computes every pixel in row order on the calling goroutine
func Render(camera *Camera, tracer Tracer) *Canvas {
	canvas := NewCanvas(camera.HSize, camera.VSize)
	for y := 0; y < camera.VSize; y++ {
		for x := 0; x < camera.HSize; x++ {
			canvas.Set(x, y, camera.PixelColor(tracer, x, y))
		}
	}
	return canvas
}

// RenderParallel splits the canvas into tiles rendered by a worker pool. The
// result is identical to Render. When ctx is cancelled the remaining tiles
// are skipped and ctx.Err() is returned.
func RenderParallel(ctx context.Context, camera *Camera, tracer Tracer, tileSize, numWorkers int) (*Canvas, error) {
	canvas := NewCanvas(camera.HSize, camera.VSize)
	tiles := NewTileGrid(camera.HSize, camera.VSize, tileSize)

	pool := NewWorkerPool(camera, tracer, tileSize, numWorkers)
	pool.Start(ctx)

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i, Canvas: canvas})
	}
	pool.Stop()

	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			return nil, result.Error
		}
	}
	return canvas, nil
}

// Config controls how a Renderer splits work
type Config struct {
	Parallel   bool // Render with a worker pool instead of a single goroutine
	TileSize   int  // Tile edge in pixels for parallel renders
	NumWorkers int  // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns a parallel configuration using every CPU
func DefaultConfig() Config {
	return Config{
		Parallel:   true,
		TileSize:   DefaultTileSize,
		NumWorkers: 0,
	}
}

// Renderer renders a world through a camera and reports statistics
type Renderer struct {
	camera *Camera
	world  *world.World
	config Config
	logger core.Logger
}

// NewRenderer creates a renderer. A world without Stats gets its own counter.
func NewRenderer(camera *Camera, w *world.World, config Config, logger core.Logger) *Renderer {
	if w.Stats == nil {
		w.Stats = &world.Stats{}
	}
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	return &Renderer{camera: camera, world: w, config: config, logger: logger}
}

// Render produces the canvas and its statistics
func (r *Renderer) Render(ctx context.Context) (*Canvas, RenderStats, error) {
	r.world.Stats.Reset()
	start := time.Now()

	var (
		canvas  *Canvas
		err     error
		tiles   = 1
		workers = 1
	)
	if r.config.Parallel {
		workers = resolveWorkers(r.config.NumWorkers)
		tiles = len(NewTileGrid(r.camera.HSize, r.camera.VSize, r.config.TileSize))

		r.logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
			r.camera.HSize, r.camera.VSize, tiles, workers)
		canvas, err = RenderParallel(ctx, r.camera, r.world, r.config.TileSize, workers)
	} else {
		r.logger.Printf("Rendering %dx%d sequentially...\n", r.camera.HSize, r.camera.VSize)
		canvas = Render(r.camera, r.world)
	}
	if err != nil {
		r.logger.Printf("Rendering cancelled: %v\n", err)
		return nil, RenderStats{}, err
	}

	stats := newRenderStats(r.camera, r.world.Stats.Snapshot(), time.Since(start))
	stats.Tiles = tiles
	stats.Workers = workers

	r.logger.Printf("Render completed in %v (%d primary rays, %d total rays, %d shadow rays)\n",
		stats.Duration, stats.PrimaryRays, stats.World.Rays, stats.World.ShadowRays)

	return canvas, stats, nil
}
