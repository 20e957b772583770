package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/world"
)

// Limits for the anti-aliasing level
const (
	MinAntialias = 1
	MaxAntialias = 5
)

// Config holds the render settings that are not part of a scene. Zero width,
// height and field of view keep the values of the scene's camera.
type Config struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FieldOfView  float64 `yaml:"fov"` // radians
	MaxRecursion int     `yaml:"max_recursion"`
	Antialias    int     `yaml:"antialias"`
	Parallel     bool    `yaml:"parallel"`
	Workers      int     `yaml:"workers"` // 0 = use CPU count
	TileSize     int     `yaml:"tile_size"`
	Output       string  `yaml:"output"` // extension selects the image format
	Supersample  int     `yaml:"supersample"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() Config {
	return Config{
		MaxRecursion: world.DefaultMaxRecursion,
		Antialias:    MinAntialias,
		Parallel:     true,
		Workers:      0,
		TileSize:     renderer.DefaultTileSize,
		Supersample:  1,
	}
}

// Load reads a YAML config file over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg.Normalize()
}

// Normalize rejects negative sizes and clamps the remaining settings into
// their valid ranges
func (c Config) Normalize() (Config, error) {
	if c.Width < 0 || c.Height < 0 {
		return c, fmt.Errorf("config: image size %dx%d is negative", c.Width, c.Height)
	}
	if c.FieldOfView < 0 {
		return c, fmt.Errorf("config: field of view %g is negative", c.FieldOfView)
	}
	if c.Workers < 0 {
		return c, fmt.Errorf("config: worker count %d is negative", c.Workers)
	}

	c.MaxRecursion = max(c.MaxRecursion, 1)
	c.Antialias = min(max(c.Antialias, MinAntialias), MaxAntialias)
	c.Supersample = max(c.Supersample, 1)
	if c.TileSize <= 0 {
		c.TileSize = renderer.DefaultTileSize
	}
	return c, nil
}

type setter func(c *Config, v interface{}) error

func intSetter(set func(c *Config, n int)) setter {
	return func(c *Config, v interface{}) error {
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("expected an integer, got %T", v)
		}
		set(c, n)
		return nil
	}
}

// flagFields maps command-line flag names to the setting they override
var flagFields = map[string]setter{
	"width":       intSetter(func(c *Config, n int) { c.Width = n }),
	"height":      intSetter(func(c *Config, n int) { c.Height = n }),
	"depth":       intSetter(func(c *Config, n int) { c.MaxRecursion = n }),
	"aa":          intSetter(func(c *Config, n int) { c.Antialias = n }),
	"workers":     intSetter(func(c *Config, n int) { c.Workers = n }),
	"tile":        intSetter(func(c *Config, n int) { c.TileSize = n }),
	"supersample": intSetter(func(c *Config, n int) { c.Supersample = n }),
	"fov": func(c *Config, v interface{}) error {
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("expected a number, got %T", v)
		}
		c.FieldOfView = f
		return nil
	},
	"parallel": func(c *Config, v interface{}) error {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected true or false, got %T", v)
		}
		c.Parallel = b
		return nil
	},
	"o": func(c *Config, v interface{}) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a path, got %T", v)
		}
		c.Output = s
		return nil
	},
}

// Resolve applies the flags that were set explicitly on fs, so flags win over
// file values and file values win over defaults. Flags left at their default
// value do not override anything.
func (c Config) Resolve(fs *flag.FlagSet) (Config, error) {
	var err error
	fs.Visit(func(f *flag.Flag) {
		set, ok := flagFields[f.Name]
		if !ok || err != nil {
			return
		}
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			err = fmt.Errorf("config: flag -%s has no typed value", f.Name)
			return
		}
		if setErr := set(&c, getter.Get()); setErr != nil {
			err = fmt.Errorf("config: flag -%s: %w", f.Name, setErr)
		}
	})
	if err != nil {
		return c, err
	}
	return c.Normalize()
}

// RendererConfig returns the work-splitting settings for a renderer
func (c Config) RendererConfig() renderer.Config {
	return renderer.Config{
		Parallel:   c.Parallel,
		TileSize:   c.TileSize,
		NumWorkers: c.Workers,
	}
}

// ApplyCamera overrides the camera's size and field of view where set and
// applies the anti-aliasing level. The size is multiplied by the
// supersampling factor.
func (c Config) ApplyCamera(camera *renderer.Camera) *renderer.Camera {
	width, height := camera.HSize, camera.VSize
	if c.Width > 0 {
		width = c.Width
	}
	if c.Height > 0 {
		height = c.Height
	}
	factor := max(c.Supersample, 1)
	camera.WithSize(width*factor, height*factor)

	if c.FieldOfView > 0 {
		camera.WithFieldOfView(c.FieldOfView)
	}
	return camera.WithAntialias(c.Antialias)
}

// ApplyWorld sets the recursion limit on w
func (c Config) ApplyWorld(w *world.World) *world.World {
	w.SetMaxRecursion(c.MaxRecursion)
	return w
}
