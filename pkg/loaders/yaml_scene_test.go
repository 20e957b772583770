package loaders

import (
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const testScene = `
- add: camera
  width: 100
  height: 50
  field-of-view: 0.785
  from: [-6, 6, -10]
  to: [6, 0, 6]
  up: [-0.45, 1, 0]

- add: light
  at: [50, 100, -50]
  intensity: [1, 1, 1]

- add: light
  corner: [-1, 2, 4]
  uvec: [2, 0, 0]
  vvec: [0, 2, 0]
  usteps: 4
  vsteps: 2
  jitter: true
  intensity: [1.5, 1.5, 1.5]

- define: white-material
  value:
    color: [1, 1, 1]
    diffuse: 0.7
    ambient: 0.1
    specular: 0.0
    reflective: 0.1

- define: blue-material
  extend: white-material
  value:
    color: [0.537, 0.831, 0.914]

- define: standard-transform
  value:
    - [translate, 1, -1, 1]
    - [scale, 0.5, 0.5, 0.5]

- define: large-object
  value:
    - standard-transform
    - [scale, 3.5, 3.5, 3.5]

- add: sphere
  material: blue-material
  transform:
    - large-object

- add: plane
  shadow: false
  material:
    pattern:
      type: checkers
      colors:
        - [0, 0, 0]
        - [1, 1, 1]
      transform:
        - [scale, 0.25, 0.25, 0.25]

- add: cylinder
  min: 0
  max: 2
  closed: true
  transform:
    - [rotate-x, 1.5707963267948966]

- add: group
  material:
    color: [1, 0, 0]
  shadow: false
  transform:
    - [translate, 0, 1, 0]
  children:
    - add: cube
    - add: cone
      min: -1
      max: 0
      material: white-material
      shadow: true
`

func loadTestScene(t *testing.T, input string) *Scene {
	t.Helper()
	scene, err := ParseYAMLScene([]byte(input), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("ParseYAMLScene failed: %v", err)
	}
	return scene
}

func TestParseYAMLScene_Camera(t *testing.T) {
	scene := loadTestScene(t, testScene)

	c := scene.Camera
	if c.HSize != 100 || c.VSize != 50 || c.FieldOfView != 0.785 {
		t.Errorf("Unexpected camera %dx%d fov %v", c.HSize, c.VSize, c.FieldOfView)
	}
	want := core.ViewTransform(core.NewPoint(-6, 6, -10), core.NewPoint(6, 0, 6), core.NewVector(-0.45, 1, 0))
	if !c.TransformMatrix().ApproxEq(want) {
		t.Errorf("Expected view transform\n%v\ngot\n%v", want, c.TransformMatrix())
	}
}

func TestParseYAMLScene_Lights(t *testing.T) {
	scene := loadTestScene(t, testScene)

	if len(scene.World.Lights) != 2 {
		t.Fatalf("Expected 2 lights, got %d", len(scene.World.Lights))
	}
	point, ok := scene.World.Lights[0].(*lights.PointLight)
	if !ok {
		t.Fatalf("Expected a point light, got %T", scene.World.Lights[0])
	}
	if !point.Position().ApproxEq(core.NewPoint(50, 100, -50)) {
		t.Errorf("Unexpected point light position %v", point.Position())
	}

	area, ok := scene.World.Lights[1].(*lights.AreaLight)
	if !ok {
		t.Fatalf("Expected an area light, got %T", scene.World.Lights[1])
	}
	if area.Samples() != 8 || !area.Jitter {
		t.Errorf("Expected 8 jittered samples, got %d (jitter %v)", area.Samples(), area.Jitter)
	}
	if !area.Intensity().ApproxEq(core.NewColor(1.5, 1.5, 1.5)) {
		t.Errorf("Unexpected area light intensity %v", area.Intensity())
	}
}

func TestParseYAMLScene_Objects(t *testing.T) {
	scene := loadTestScene(t, testScene)
	objects := scene.World.Objects
	if len(objects) != 4 {
		t.Fatalf("Expected 4 objects, got %d", len(objects))
	}

	t.Run("extended material and nested transform", func(t *testing.T) {
		sphere := objects[0]
		if _, ok := sphere.Shape.(geometry.Sphere); !ok {
			t.Fatalf("Expected a sphere, got %T", sphere.Shape)
		}
		m := sphere.Material
		if !m.Pattern.ColorAt(core.Origin).ApproxEq(core.NewColor(0.537, 0.831, 0.914)) {
			t.Errorf("Expected the extending color, got %v", m.Pattern.ColorAt(core.Origin))
		}
		if m.Diffuse != 0.7 || m.Specular != 0 || m.Reflective != 0.1 || m.Shininess != 200 {
			t.Errorf("Expected inherited material values, got %+v", m)
		}

		// Entries apply in order: translate, then scale by 0.5, then by 3.5
		want := core.Scaling(3.5, 3.5, 3.5).Multiply(core.Scaling(0.5, 0.5, 0.5)).Multiply(core.Translation(1, -1, 1))
		if !sphere.TransformMatrix().ApproxEq(want) {
			t.Errorf("Expected transform\n%v\ngot\n%v", want, sphere.TransformMatrix())
		}
	})

	t.Run("pattern and shadow flag", func(t *testing.T) {
		plane := objects[1]
		if plane.HasShadow {
			t.Error("Expected the plane not to cast shadows")
		}
		p := plane.Material.Pattern
		if p.Type != material.PatternChecker {
			t.Fatalf("Expected a checker pattern, got %v", p.Type)
		}
		if !p.Transform().Matrix.ApproxEq(core.Scaling(0.25, 0.25, 0.25)) {
			t.Errorf("Unexpected pattern transform\n%v", p.Transform().Matrix)
		}
	})

	t.Run("truncated cylinder", func(t *testing.T) {
		cyl, ok := objects[2].Shape.(geometry.Cylinder)
		if !ok {
			t.Fatalf("Expected a cylinder, got %T", objects[2].Shape)
		}
		if cyl.Min != 0 || cyl.Max != 2 || !cyl.Closed {
			t.Errorf("Unexpected cylinder %+v", cyl)
		}
		if !objects[2].HasShadow {
			t.Error("Expected shadows by default")
		}
	})

	t.Run("group inheritance", func(t *testing.T) {
		g, ok := objects[3].Shape.(*geometry.Group)
		if !ok {
			t.Fatalf("Expected a group, got %T", objects[3].Shape)
		}
		children := g.Children()
		if len(children) != 2 {
			t.Fatalf("Expected 2 children, got %d", len(children))
		}

		cube, cone := children[0], children[1]
		if !cube.Material.Pattern.ColorAt(core.Origin).ApproxEq(core.NewColor(1, 0, 0)) || cube.HasShadow {
			t.Error("Expected the cube to inherit the group's material and shadow flag")
		}
		if !cone.Material.Pattern.ColorAt(core.Origin).ApproxEq(core.White) || !cone.HasShadow {
			t.Error("Expected the cone's own material and shadow flag to win")
		}

		// The group's translation is baked into its children
		if !cube.TransformMatrix().ApproxEq(core.Translation(0, 1, 0)) {
			t.Errorf("Expected child transform to include the group's\n%v", cube.TransformMatrix())
		}
		c, ok := cone.Shape.(geometry.Cone)
		if !ok || c.Min != -1 || c.Max != 0 || c.Closed {
			t.Errorf("Unexpected cone %+v", cone.Shape)
		}
	})
}

func TestParseYAMLScene_DefinitionsMayFollowUse(t *testing.T) {
	scene := loadTestScene(t, `
- add: camera
  width: 10
  height: 10
  field-of-view: 1
  from: [0, 0, -5]
  to: [0, 0, 0]
  up: [0, 1, 0]
- add: sphere
  material: later
- define: later
  value:
    ambient: 0.5
`)
	if got := scene.World.Objects[0].Material.Ambient; got != 0.5 {
		t.Errorf("Expected ambient 0.5, got %v", got)
	}
}

const testCamera = `
- add: camera
  width: 10
  height: 10
  field-of-view: 1
  from: [0, 0, -5]
  to: [0, 0, 0]
  up: [0, 1, 0]
`

func TestParseYAMLScene_Meshes(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 2 0 0\nv 2 2 0\nv 0 2 0\nf 1 2 3 4\n"
	if err := os.WriteFile(filepath.Join(dir, "quad.obj"), []byte(obj), 0644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "quad.ply"), []byte(asciiQuad), 0644); err != nil {
		t.Fatalf("Failed to write PLY: %v", err)
	}

	scene, err := ParseYAMLScene([]byte(testCamera+`
- add: obj
  file: quad.obj
  material:
    color: [0, 1, 0]
- add: obj
  file: quad.obj
  normalize: false
- add: ply
  file: quad.ply
  divide: 1
`), dir, nil)
	if err != nil {
		t.Fatalf("ParseYAMLScene failed: %v", err)
	}
	if len(scene.World.Objects) != 3 {
		t.Fatalf("Expected 3 objects, got %d", len(scene.World.Objects))
	}

	normalized := scene.World.Objects[0].Bounds()
	if !normalized.Min.ApproxEq(core.NewPoint(-1, -1, 0)) || !normalized.Max.ApproxEq(core.NewPoint(1, 1, 0)) {
		t.Errorf("Expected normalized bounds [-1, 1], got %v %v", normalized.Min, normalized.Max)
	}
	g := scene.World.Objects[0].Shape.(*geometry.Group)
	if !g.Children()[0].Material.Pattern.ColorAt(core.Origin).ApproxEq(core.NewColor(0, 1, 0)) {
		t.Error("Expected mesh triangles to take the item's material")
	}

	raw := scene.World.Objects[1].Bounds()
	if !raw.Max.ApproxEq(core.NewPoint(2, 2, 0)) {
		t.Errorf("Expected unnormalized bounds up to (2, 2, 0), got %v", raw.Max)
	}

	if _, ok := scene.World.Objects[2].Shape.(*geometry.Group); !ok {
		t.Errorf("Expected the PLY mesh as a group, got %T", scene.World.Objects[2].Shape)
	}
}

func TestParseYAMLScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		message string
	}{
		{"no camera", "- add: sphere\n", nil, "no camera"},
		{"unknown shape", testCamera + "- add: torus\n", ErrUnknownShape, "torus"},
		{"undefined material", testCamera + "- add: sphere\n  material: chrome\n", ErrUndefined, "chrome"},
		{"undefined transform", testCamera + "- add: sphere\n  transform: [spin]\n", ErrUndefined, "spin"},
		{"extend undefined", "- define: a\n  extend: b\n  value: {ambient: 1}\n", ErrUndefined, `"b"`},
		{"singular transform", testCamera + "- add: sphere\n  transform:\n    - [scale, 0, 1, 1]\n", core.ErrSingularMatrix, "transform"},
		{"singular group transform", testCamera + "- add: group\n  transform:\n    - [scale, 1, 0, 1]\n", core.ErrSingularMatrix, "group"},
		{"singular combined transform", testCamera + "- add: group\n  transform:\n    - [scale, 0.2, 0.2, 0.2]\n  children:\n    - add: sphere\n      transform:\n        - [scale, 0.2, 0.2, 0.2]\n", core.ErrSingularMatrix, "group"},
		{"singular view", strings.Replace(testCamera, "up: [0, 1, 0]", "up: [0, 0, 1]", 1), core.ErrSingularMatrix, "camera"},
		{"unknown transform", testCamera + "- add: sphere\n  transform:\n    - [twist, 1]\n", nil, "twist"},
		{"wrong arity", testCamera + "- add: sphere\n  transform:\n    - [translate, 1, 2]\n", nil, "3 arguments"},
		{"unknown material key", testCamera + "- add: sphere\n  material:\n    glow: 1\n", nil, "glow"},
		{"unknown shape key", testCamera + "- add: sphere\n  radius: 2\n", nil, "radius"},
		{"wrong type", testCamera + "- add: sphere\n  material:\n    ambient: lots\n", nil, "ambient"},
		{"bad color", testCamera + "- add: sphere\n  material:\n    color: [1, 0]\n", nil, "color"},
		{"unknown pattern", testCamera + "- add: sphere\n  material:\n    pattern: {type: waves, colors: [[0, 0, 0], [1, 1, 1]]}\n", nil, "waves"},
		{"missing camera field", "- add: camera\n  width: 10\n", nil, "height"},
		{"light without position", testCamera + "- add: light\n  intensity: [1, 1, 1]\n", nil, "corner"},
		{"cyclic definitions", testCamera + "- define: a\n  value: [b]\n- define: b\n  value: [a]\n- add: sphere\n  transform: [a]\n", nil, "nested"},
		{"nested divide", testCamera + "- add: group\n  children:\n    - add: group\n      divide: 2\n", nil, "top-level"},
		{"missing mesh", testCamera + "- add: obj\n  file: nowhere.obj\n", nil, "nowhere.obj"},
		{"not a list", "add: camera\n", nil, "yaml scene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAMLScene([]byte(tt.input), t.TempDir(), nil)
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error to mention %q, got %v", tt.message, err)
			}
		})
	}
}

func TestLoadYAMLScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yml")
	if err := os.WriteFile(path, []byte(testScene), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	scene, err := LoadYAMLScene(path, nil)
	if err != nil {
		t.Fatalf("LoadYAMLScene failed: %v", err)
	}
	if len(scene.World.Objects) != 4 {
		t.Errorf("Expected 4 objects, got %d", len(scene.World.Objects))
	}

	c := scene.World.ColorAt(scene.Camera.RayForPixel(50, 25))
	if math.IsNaN(c.R) || math.IsNaN(c.G) || math.IsNaN(c.B) {
		t.Errorf("Expected a finite color, got %v", c)
	}

	if _, err := LoadYAMLScene(filepath.Join(t.TempDir(), "missing.yml"), nil); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestParseYAMLScene_ImagePattern(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "earth.png"))
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	if err := png.Encode(f, testImage()); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	f.Close()

	scene, err := ParseYAMLScene([]byte(testCamera+`
- add: sphere
  material:
    pattern:
      type: image
      file: earth.png
      mapping: spherical
`), dir, nil)
	if err != nil {
		t.Fatalf("ParseYAMLScene failed: %v", err)
	}

	p := scene.World.Objects[0].Material.Pattern
	if p.Type != material.PatternImage || p.Mapping != material.SphericalMapping {
		t.Fatalf("Expected a spherical image pattern, got %v", p.Type)
	}
	if p.Texture.Width != 2 || p.Texture.Height != 2 {
		t.Errorf("Expected a 2x2 texture, got %dx%d", p.Texture.Width, p.Texture.Height)
	}

	_, err = ParseYAMLScene([]byte(testCamera+`
- add: sphere
  material:
    pattern: {type: image, file: earth.png, mapping: cubic}
`), dir, nil)
	if err == nil || !strings.Contains(err.Error(), "cubic") {
		t.Errorf("Expected an unknown mapping error, got %v", err)
	}
}
