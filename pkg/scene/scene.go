package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/world"
)

// Scene contains the camera and world needed for rendering
type Scene = loaders.Scene

// ErrUnknownScene is returned when a name matches no built-in scene or scene file
var ErrUnknownScene = errors.New("unknown scene")

// Builtin describes a scene constructed in code
type Builtin struct {
	ID          string
	Name        string
	Description string
	New         func() *Scene
}

var builtins = []Builtin{
	{"default", "Default Scene", "Two concentric spheres lit by a point light", NewDefaultScene},
	{"reflect-refract", "Reflection and Refraction", "Glass and mirror spheres over a reflective checkered floor", NewReflectRefractScene},
	{"shapes", "Shapes", "Every primitive shape with striped, ringed and gradient patterns", NewShapesScene},
	{"soft-shadows", "Soft Shadows", "Objects lit by a jittered area light", NewSoftShadowsScene},
	{"groups", "Groups", "A hexagon built from nested, transformed groups", NewGroupsScene},
}

// Builtins returns the built-in scenes in display order
func Builtins() []Builtin {
	out := make([]Builtin, len(builtins))
	copy(out, builtins)
	return out
}

// NewBuiltin constructs a built-in scene by ID
func NewBuiltin(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.ID == id {
			return b.New(), nil
		}
	}
	return nil, fmt.Errorf("scene: %w: %q", ErrUnknownScene, id)
}

// possibleSceneDirs are searched for scene files referred to by name
var possibleSceneDirs = []string{"scenes", "../scenes"}

// Load resolves a scene by name: a built-in ID, a path to a YAML scene
// file, or the name of a file in a scenes directory without its extension
func Load(name string, logger core.Logger) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene: %w: empty name", ErrUnknownScene)
	}
	if s, err := NewBuiltin(name); err == nil {
		return s, nil
	}

	if isSceneFile(name) {
		return loaders.LoadYAMLScene(name, logger)
	}

	for _, dir := range possibleSceneDirs {
		for _, ext := range sceneFileExtensions {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return loaders.LoadYAMLScene(path, logger)
			}
		}
	}
	return nil, fmt.Errorf("scene: %w: %q", ErrUnknownScene, name)
}

// LoadInfo constructs a scene listed by discovery
func LoadInfo(info SceneInfo, logger core.Logger) (*Scene, error) {
	switch info.Type {
	case TypeBuiltin:
		return NewBuiltin(info.ID)
	case TypeFile:
		return loaders.LoadYAMLScene(info.FilePath, logger)
	default:
		return nil, fmt.Errorf("scene: %w: %q has type %q", ErrUnknownScene, info.ID, info.Type)
	}
}

var sceneFileExtensions = []string{".yml", ".yaml"}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range sceneFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// newScene creates an empty scene with a camera looking from one point at another
func newScene(width, height int, fieldOfView float64, from, to core.Point) *Scene {
	camera := renderer.NewCamera(width, height, fieldOfView).
		LookAt(from, to, core.NewVector(0, 1, 0))
	return &Scene{Camera: camera, World: world.New()}
}

// colored returns the default material with a plain color
func colored(r, g, b float64) material.Material {
	return material.DefaultMaterial().WithColor(core.NewColor(r, g, b))
}
