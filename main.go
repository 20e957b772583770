package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/export"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func newFlagSet() *flag.FlagSet {
	defaults := config.DefaultConfig()

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.String("scene", "default", "Built-in scene name, scene name from scenes/, or path to a .yml scene file")
	fs.String("config", "", "YAML render config file (flags override its values)")
	fs.Int("width", 0, "Image width in pixels (0 = scene camera width)")
	fs.Int("height", 0, "Image height in pixels (0 = scene camera height)")
	fs.Float64("fov", 0, "Field of view in radians (0 = scene camera field of view)")
	fs.Int("aa", defaults.Antialias, "Anti-aliasing level 1-5")
	fs.Int("depth", defaults.MaxRecursion, "Maximum reflection/refraction recursion depth")
	fs.Bool("parallel", defaults.Parallel, "Render tiles in parallel")
	fs.Int("workers", defaults.Workers, "Number of parallel workers (0 = CPU count)")
	fs.Int("tile", defaults.TileSize, "Tile size in pixels for parallel rendering")
	fs.Int("supersample", defaults.Supersample, "Render at N times the size and downscale")
	fs.String("o", "", "Output file; the extension picks .png, .ppm, .webp or .bmp")
	fs.Bool("list", false, "List available scenes")
	fs.Bool("help", false, "Show help information")
	return fs
}

func run(args []string) int {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return 2
	}
	flagValue := func(name string) flag.Getter {
		return fs.Lookup(name).Value.(flag.Getter)
	}

	if flagValue("help").Get().(bool) {
		printHelp(fs)
		return 0
	}
	if flagValue("list").Get().(bool) {
		if err := listScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(flagValue("config").Get().(string), fs)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	fmt.Println("Starting Whitted Raytracer...")
	logger := renderer.NewDefaultLogger()

	sceneName := flagValue("scene").Get().(string)
	selectedScene, err := createScene(sceneName, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	img, _, err := renderScene(context.Background(), selectedScene, cfg, logger)
	if err != nil {
		fmt.Printf("Error rendering: %v\n", err)
		return 1
	}

	filename := cfg.Output
	if filename == "" {
		filename = createOutputPath(sceneName, time.Now())
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			return 1
		}
	}

	if err := export.Save(filename, img); err != nil {
		fmt.Printf("Error saving image: %v\n", err)
		return 1
	}

	fmt.Printf("Render saved as %s\n", filename)
	return 0
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, b := range scene.Builtins() {
		fmt.Printf("  %-16s - %s\n", b.ID, b.Description)
	}
	fmt.Println("  <file>.yml       - YAML scene file (see -list for files in scenes/)")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -o is given")
}

func listScenes() error {
	response, err := scene.ListAllScenes(scene.FindScenesDir())
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, s := range group.Scenes {
			fmt.Printf("  %-16s %s\n", s.ID, s.Description)
		}
	}
	return nil
}

// loadConfig reads the config file if one is given, then applies the flags
// that were set explicitly
func loadConfig(path string, fs *flag.FlagSet) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	return cfg.Resolve(fs)
}

// createScene resolves a built-in scene or loads a scene file
func createScene(sceneName string, logger core.Logger) (*scene.Scene, error) {
	s, err := scene.Load(sceneName, logger)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Using %s scene...\n", sceneName)
	return s, nil
}

// renderScene applies cfg to the scene, renders it and downsamples a
// supersampled result back to the requested size
func renderScene(ctx context.Context, s *scene.Scene, cfg config.Config, logger core.Logger) (image.Image, renderer.RenderStats, error) {
	camera := cfg.ApplyCamera(s.Camera)
	w := cfg.ApplyWorld(s.World)

	r := renderer.NewRenderer(camera, w, cfg.RendererConfig(), logger)
	canvas, stats, err := r.Render(ctx)
	if err != nil {
		return nil, stats, err
	}

	img := export.ToImage(canvas)
	if cfg.Supersample > 1 {
		return export.Downsample(img, cfg.Supersample), stats, nil
	}
	return img, stats, nil
}

// createOutputPath returns output/<scene>/render_<timestamp>.png. Scene file
// paths use the file name without its extension.
func createOutputPath(sceneName string, now time.Time) string {
	base := sceneName
	if strings.ContainsAny(base, `/\`) || filepath.Ext(base) != "" {
		base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", timestamp))
}
