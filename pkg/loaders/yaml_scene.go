package loaders

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/world"
)

var (
	// ErrUnknownShape is returned for an "add" of a type the loader does not know
	ErrUnknownShape = errors.New("unknown shape")
	// ErrUndefined is returned when a material or transform name was never defined
	ErrUndefined = errors.New("undefined name")
)

// maxDefinitionDepth bounds nested transform references, so cycles fail
const maxDefinitionDepth = 32

// Scene is a camera and the world it looks at
type Scene struct {
	Camera *renderer.Camera
	World  *world.World
}

// LoadYAMLScene reads a scene description. Mesh files named in the scene are
// resolved relative to the scene file. logger may be nil.
func LoadYAMLScene(filename string, logger core.Logger) (*Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("yaml scene: read %s: %w", filename, err)
	}
	scene, err := ParseYAMLScene(data, filepath.Dir(filename), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return scene, nil
}

// ParseYAMLScene builds a scene from a YAML document: a list of "define"
// and "add" items. baseDir locates obj and ply files.
func ParseYAMLScene(data []byte, baseDir string, logger core.Logger) (*Scene, error) {
	var items []map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("yaml scene: %w", err)
	}

	p := &sceneParser{
		definitions: map[string]interface{}{},
		baseDir:     baseDir,
		logger:      logger,
	}

	hashes := make([]map[string]interface{}, len(items))
	for i, item := range items {
		hash, err := stringKeys(item)
		if err != nil {
			return nil, fmt.Errorf("yaml scene: item %d: %w", i+1, err)
		}
		hashes[i] = hash
	}

	// Definitions are collected first so items may use names defined after them
	for i, hash := range hashes {
		if _, ok := hash["define"]; !ok {
			continue
		}
		if err := p.define(hash); err != nil {
			return nil, fmt.Errorf("yaml scene: item %d: %w", i+1, err)
		}
	}

	scene := &Scene{World: world.New()}
	for i, hash := range hashes {
		if _, ok := hash["define"]; ok {
			continue
		}
		if err := p.add(scene, hash); err != nil {
			return nil, fmt.Errorf("yaml scene: item %d: %w", i+1, err)
		}
	}

	if scene.Camera == nil {
		return nil, fmt.Errorf("yaml scene: no camera")
	}
	return scene, nil
}

type sceneParser struct {
	definitions map[string]interface{}
	baseDir     string
	logger      core.Logger
}

// inherited carries a group's material and shadow flag down to its children
type inherited struct {
	material *material.Material
	shadow   *bool
}

func (p *sceneParser) define(hash map[string]interface{}) error {
	name, err := toString(hash["define"])
	if err != nil {
		return fmt.Errorf("define: %w", err)
	}
	value, ok := hash["value"]
	if !ok {
		return fmt.Errorf("define %q: missing value", name)
	}

	if base, ok := hash["extend"]; ok {
		baseName, err := toString(base)
		if err != nil {
			return fmt.Errorf("define %q: extend: %w", name, err)
		}
		parent, ok := p.definitions[baseName]
		if !ok {
			return fmt.Errorf("define %q: extend %q: %w", name, baseName, ErrUndefined)
		}
		parentHash, ok := parent.(map[string]interface{})
		if !ok {
			return fmt.Errorf("define %q: can only extend a hash, %q is not one", name, baseName)
		}
		valueHash, err := toHash(value)
		if err != nil {
			return fmt.Errorf("define %q: value: %w", name, err)
		}

		merged := make(map[string]interface{}, len(parentHash)+len(valueHash))
		for k, v := range parentHash {
			merged[k] = v
		}
		for k, v := range valueHash {
			merged[k] = v
		}
		p.definitions[name] = merged
		return nil
	}

	if h, ok := value.(map[interface{}]interface{}); ok {
		hash, err := stringKeys(h)
		if err != nil {
			return fmt.Errorf("define %q: %w", name, err)
		}
		p.definitions[name] = hash
		return nil
	}
	p.definitions[name] = value
	return nil
}

func (p *sceneParser) add(scene *Scene, hash map[string]interface{}) error {
	kind, err := toString(hash["add"])
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	switch kind {
	case "camera":
		camera, err := p.camera(hash)
		if err != nil {
			return fmt.Errorf("camera: %w", err)
		}
		scene.Camera = camera
	case "light":
		light, err := p.light(hash)
		if err != nil {
			return fmt.Errorf("light: %w", err)
		}
		scene.World.AddLight(light)
	default:
		builder, err := p.shape(kind, hash, inherited{})
		if err != nil {
			return err
		}
		object, err := builder.TryBuild()
		if err != nil {
			return fmt.Errorf("%s: transform: %w", kind, err)
		}

		if v, ok := hash["divide"]; ok {
			threshold, err := toInt(v)
			if err != nil || threshold < 1 {
				return fmt.Errorf("%s: divide must be a positive integer", kind)
			}
			object = object.Divide(threshold)
		}
		scene.World.AddObject(object)
	}
	return nil
}

func (p *sceneParser) camera(hash map[string]interface{}) (*renderer.Camera, error) {
	if err := checkKeys(hash, "add", "width", "height", "field-of-view", "from", "to", "up"); err != nil {
		return nil, err
	}

	width, err := requiredInt(hash, "width")
	if err != nil {
		return nil, err
	}
	height, err := requiredInt(hash, "height")
	if err != nil {
		return nil, err
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("size must be positive, got %dx%d", width, height)
	}
	fov, err := requiredFloat(hash, "field-of-view")
	if err != nil {
		return nil, err
	}
	from, err := requiredPoint(hash, "from")
	if err != nil {
		return nil, err
	}
	to, err := requiredPoint(hash, "to")
	if err != nil {
		return nil, err
	}
	up, err := requiredVector(hash, "up")
	if err != nil {
		return nil, err
	}

	camera, err := renderer.NewCamera(width, height, fov).TryWithTransform(core.ViewTransform(from, to, up))
	if err != nil {
		return nil, fmt.Errorf("view transform: %w", err)
	}
	return camera, nil
}

func (p *sceneParser) light(hash map[string]interface{}) (lights.Light, error) {
	intensity, err := requiredColor(hash, "intensity")
	if err != nil {
		return nil, err
	}

	if _, ok := hash["corner"]; ok {
		if err := checkKeys(hash, "add", "intensity", "corner", "uvec", "usteps", "vvec", "vsteps", "jitter"); err != nil {
			return nil, err
		}
		corner, err := requiredPoint(hash, "corner")
		if err != nil {
			return nil, err
		}
		uvec, err := requiredVector(hash, "uvec")
		if err != nil {
			return nil, err
		}
		vvec, err := requiredVector(hash, "vvec")
		if err != nil {
			return nil, err
		}
		usteps, err := requiredInt(hash, "usteps")
		if err != nil {
			return nil, err
		}
		vsteps, err := requiredInt(hash, "vsteps")
		if err != nil {
			return nil, err
		}

		light := lights.NewAreaLight(intensity, corner, uvec, usteps, vvec, vsteps)
		if v, ok := hash["jitter"]; ok {
			if light.Jitter, err = toBool(v); err != nil {
				return nil, fmt.Errorf("jitter: %w", err)
			}
		}
		return light, nil
	}

	if _, ok := hash["at"]; ok {
		if err := checkKeys(hash, "add", "intensity", "at"); err != nil {
			return nil, err
		}
		at, err := requiredPoint(hash, "at")
		if err != nil {
			return nil, err
		}
		return lights.NewPointLight(intensity, at), nil
	}

	return nil, fmt.Errorf("needs either \"at\" or \"corner\"")
}

var shapeKeys = []string{"add", "material", "transform", "shadow", "divide"}

// shape builds one "add: <shape>" item and its children
func (p *sceneParser) shape(kind string, hash map[string]interface{}, parent inherited) (*geometry.GroupBuilder, error) {
	var (
		object *geometry.Object
		node   *geometry.GroupBuilder
		extra  []string
		err    error
	)

	switch kind {
	case "sphere":
		object = geometry.NewSphereObject()
	case "plane":
		object = geometry.NewPlaneObject()
	case "cube":
		object = geometry.NewCubeObject()
	case "cylinder", "cone":
		extra = []string{"min", "max", "closed"}
		minimum, maximum, closed, err := truncation(hash)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		if kind == "cylinder" {
			object = geometry.NewCylinderObject(minimum, maximum, closed)
		} else {
			object = geometry.NewConeObject(minimum, maximum, closed)
		}
	case "triangle":
		extra = []string{"p1", "p2", "p3"}
		var pts [3]core.Point
		for i, key := range extra {
			if pts[i], err = requiredPoint(hash, key); err != nil {
				return nil, fmt.Errorf("triangle: %w", err)
			}
		}
		object = geometry.NewTriangleObject(pts[0], pts[1], pts[2])
	case "group":
		extra = []string{"children"}
	case "obj":
		extra = []string{"file", "normalize"}
	case "ply":
		extra = []string{"file"}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownShape, kind)
	}

	if err := checkKeys(hash, append(extra, shapeKeys...)...); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	transform, err := p.transformOf(hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	own, err := p.inheritance(hash, parent)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	if object != nil {
		object.WithMaterial(own.materialOrDefault())
		object.WithShadow(own.shadowOrDefault())
		if _, err := object.TryTransform(transform); err != nil {
			return nil, fmt.Errorf("%s: transform: %w", kind, err)
		}
		return geometry.Leaf(object), nil
	}

	if _, err := core.TryNewTransform(transform); err != nil {
		return nil, fmt.Errorf("%s: transform: %w", kind, err)
	}

	switch kind {
	case "group":
		node, err = p.group(hash, own)
	case "obj":
		node, err = p.objMesh(hash)
	case "ply":
		node, err = p.plyMesh(hash)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}

	if kind != "group" {
		applyToLeaves(node, own.materialOrDefault(), own.shadowOrDefault())
	}
	node.Transform = transform
	return node, nil
}

func (p *sceneParser) group(hash map[string]interface{}, own inherited) (*geometry.GroupBuilder, error) {
	node := geometry.Node(core.Identity())
	raw, ok := hash["children"]
	if !ok {
		return node, nil
	}
	children, err := toList(raw)
	if err != nil {
		return nil, fmt.Errorf("children: %w", err)
	}

	for i, c := range children {
		child, err := toHash(c)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i+1, err)
		}
		kind, err := toString(child["add"])
		if err != nil {
			return nil, fmt.Errorf("child %d: add: %w", i+1, err)
		}
		if _, ok := child["divide"]; ok {
			return nil, fmt.Errorf("child %d: divide is only allowed on top-level items", i+1)
		}
		builder, err := p.shape(kind, child, own)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i+1, err)
		}
		node.Add(builder)
	}
	return node, nil
}

func (p *sceneParser) resolvePath(hash map[string]interface{}) (string, error) {
	file, err := toString(hash["file"])
	if err != nil {
		return "", fmt.Errorf("file: %w", err)
	}
	if filepath.IsAbs(file) {
		return file, nil
	}
	return filepath.Join(p.baseDir, file), nil
}

func (p *sceneParser) objMesh(hash map[string]interface{}) (*geometry.GroupBuilder, error) {
	path, err := p.resolvePath(hash)
	if err != nil {
		return nil, err
	}
	normalize := true
	if v, ok := hash["normalize"]; ok {
		if normalize, err = toBool(v); err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
	}

	data, err := LoadOBJ(path, p.logger)
	if err != nil {
		return nil, err
	}
	if normalize {
		data.Normalize()
	}
	return data.Group(), nil
}

func (p *sceneParser) plyMesh(hash map[string]interface{}) (*geometry.GroupBuilder, error) {
	path, err := p.resolvePath(hash)
	if err != nil {
		return nil, err
	}
	data, err := LoadPLY(path, p.logger)
	if err != nil {
		return nil, err
	}
	return data.Group(), nil
}

// applyToLeaves sets the material and shadow flag of every mesh triangle
func applyToLeaves(node *geometry.GroupBuilder, m material.Material, shadow bool) {
	if node.IsLeaf() {
		node.Object.WithMaterial(m).WithShadow(shadow)
		return
	}
	for _, child := range node.Children {
		applyToLeaves(child, m, shadow)
	}
}

func truncation(hash map[string]interface{}) (minimum, maximum float64, closed bool, err error) {
	minimum, maximum = math.Inf(-1), math.Inf(1)
	if v, ok := hash["min"]; ok {
		if minimum, err = toFloat(v); err != nil {
			return 0, 0, false, fmt.Errorf("min: %w", err)
		}
	}
	if v, ok := hash["max"]; ok {
		if maximum, err = toFloat(v); err != nil {
			return 0, 0, false, fmt.Errorf("max: %w", err)
		}
	}
	if v, ok := hash["closed"]; ok {
		if closed, err = toBool(v); err != nil {
			return 0, 0, false, fmt.Errorf("closed: %w", err)
		}
	}
	return minimum, maximum, closed, nil
}

func (p *sceneParser) inheritance(hash map[string]interface{}, parent inherited) (inherited, error) {
	own := parent
	if v, ok := hash["material"]; ok {
		m, err := p.material(v)
		if err != nil {
			return own, fmt.Errorf("material: %w", err)
		}
		own.material = &m
	}
	if v, ok := hash["shadow"]; ok {
		shadow, err := toBool(v)
		if err != nil {
			return own, fmt.Errorf("shadow: %w", err)
		}
		own.shadow = &shadow
	}
	return own, nil
}

func (i inherited) materialOrDefault() material.Material {
	if i.material != nil {
		return *i.material
	}
	return material.DefaultMaterial()
}

func (i inherited) shadowOrDefault() bool {
	if i.shadow != nil {
		return *i.shadow
	}
	return true
}

// resolveHash returns value as a hash, looking it up by name if it is a string
func (p *sceneParser) resolveHash(value interface{}) (map[string]interface{}, error) {
	if name, ok := value.(string); ok {
		def, ok := p.definitions[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUndefined)
		}
		hash, ok := def.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%q is not a hash", name)
		}
		return hash, nil
	}
	return toHash(value)
}

var materialKeys = []string{
	"color", "pattern", "ambient", "diffuse", "specular", "shininess",
	"reflective", "transparency", "refractive-index",
}

func (p *sceneParser) material(value interface{}) (material.Material, error) {
	m := material.DefaultMaterial()

	hash, err := p.resolveHash(value)
	if err != nil {
		return m, err
	}
	if err := checkKeys(hash, materialKeys...); err != nil {
		return m, err
	}

	scalars := map[string]*float64{
		"ambient":          &m.Ambient,
		"diffuse":          &m.Diffuse,
		"specular":         &m.Specular,
		"shininess":        &m.Shininess,
		"reflective":       &m.Reflective,
		"transparency":     &m.Transparency,
		"refractive-index": &m.RefractiveIndex,
	}
	for key, field := range scalars {
		v, ok := hash[key]
		if !ok {
			continue
		}
		if *field, err = toFloat(v); err != nil {
			return m, fmt.Errorf("%s: %w", key, err)
		}
	}

	if v, ok := hash["color"]; ok {
		c, err := toColor(v)
		if err != nil {
			return m, fmt.Errorf("color: %w", err)
		}
		m = m.WithColor(c)
	}
	if v, ok := hash["pattern"]; ok {
		if m.Pattern, err = p.pattern(v); err != nil {
			return m, fmt.Errorf("pattern: %w", err)
		}
	}
	return m, nil
}

func (p *sceneParser) pattern(value interface{}) (material.Pattern, error) {
	hash, err := toHash(value)
	if err != nil {
		return material.Pattern{}, err
	}
	kind, err := toString(hash["type"])
	if err != nil {
		return material.Pattern{}, fmt.Errorf("type: %w", err)
	}

	var pattern material.Pattern
	switch kind {
	case "image":
		if err := checkKeys(hash, "type", "file", "mapping", "transform"); err != nil {
			return pattern, err
		}
		if pattern, err = p.imagePattern(hash); err != nil {
			return pattern, err
		}
	case "stripes", "rings", "gradient", "checkers":
		if err := checkKeys(hash, "type", "colors", "transform"); err != nil {
			return pattern, err
		}
		colors, err := colorList(hash["colors"])
		if err != nil {
			return pattern, fmt.Errorf("colors: %w", err)
		}
		if len(colors) < 2 {
			return pattern, fmt.Errorf("%s needs at least 2 colors, got %d", kind, len(colors))
		}
		switch kind {
		case "stripes":
			pattern = material.NewStripePattern(colors...)
		case "rings":
			pattern = material.NewRingPattern(colors...)
		case "gradient":
			pattern = material.NewGradientPattern(colors[0], colors[1])
		default:
			pattern = material.NewCheckerPattern(colors[0], colors[1])
		}
	default:
		return pattern, fmt.Errorf("unknown pattern type %q", kind)
	}

	transform, err := p.transformOf(hash)
	if err != nil {
		return pattern, err
	}
	if pattern, err = pattern.TryTransformed(transform); err != nil {
		return pattern, fmt.Errorf("transform: %w", err)
	}
	return pattern, nil
}

func (p *sceneParser) imagePattern(hash map[string]interface{}) (material.Pattern, error) {
	path, err := p.resolvePath(hash)
	if err != nil {
		return material.Pattern{}, err
	}
	texture, err := LoadImage(path)
	if err != nil {
		return material.Pattern{}, err
	}

	mapping := material.PlanarMapping
	if v, ok := hash["mapping"]; ok {
		name, err := toString(v)
		if err != nil {
			return material.Pattern{}, fmt.Errorf("mapping: %w", err)
		}
		switch name {
		case "planar":
		case "spherical":
			mapping = material.SphericalMapping
		default:
			return material.Pattern{}, fmt.Errorf("unknown mapping %q", name)
		}
	}
	return material.NewImagePattern(texture, mapping), nil
}

// transformOf composes the item's "transform" list; entries apply in order
func (p *sceneParser) transformOf(hash map[string]interface{}) (core.Matrix, error) {
	m := core.Identity()
	raw, ok := hash["transform"]
	if !ok {
		return m, nil
	}
	list, err := toList(raw)
	if err != nil {
		return m, fmt.Errorf("transform: %w", err)
	}
	if err := p.composeTransforms(list, &m, 0); err != nil {
		return m, fmt.Errorf("transform: %w", err)
	}
	return m, nil
}

func (p *sceneParser) composeTransforms(list []interface{}, m *core.Matrix, depth int) error {
	if depth > maxDefinitionDepth {
		return fmt.Errorf("definitions nested too deeply")
	}
	for _, entry := range list {
		if name, ok := entry.(string); ok {
			def, ok := p.definitions[name]
			if !ok {
				return fmt.Errorf("%q: %w", name, ErrUndefined)
			}
			nested, err := toList(def)
			if err != nil {
				return fmt.Errorf("%q is not a transform list", name)
			}
			if err := p.composeTransforms(nested, m, depth+1); err != nil {
				return err
			}
			continue
		}

		step, err := toList(entry)
		if err != nil {
			return err
		}
		t, err := transformStep(step)
		if err != nil {
			return err
		}
		*m = t.Multiply(*m)
	}
	return nil
}

func transformStep(step []interface{}) (core.Matrix, error) {
	if len(step) == 0 {
		return core.Matrix{}, fmt.Errorf("empty transform")
	}
	op, err := toString(step[0])
	if err != nil {
		return core.Matrix{}, fmt.Errorf("transform name: %w", err)
	}

	args := make([]float64, len(step)-1)
	for i, v := range step[1:] {
		if args[i], err = toFloat(v); err != nil {
			return core.Matrix{}, fmt.Errorf("%s argument %d: %w", op, i+1, err)
		}
	}

	want := map[string]int{
		"translate": 3, "scale": 3, "rotate-x": 1, "rotate-y": 1, "rotate-z": 1, "shear": 6,
	}
	n, ok := want[op]
	if !ok {
		return core.Matrix{}, fmt.Errorf("unknown transform %q", op)
	}
	if len(args) != n {
		return core.Matrix{}, fmt.Errorf("%s takes %d arguments, got %d", op, n, len(args))
	}

	switch op {
	case "translate":
		return core.Translation(args[0], args[1], args[2]), nil
	case "scale":
		return core.Scaling(args[0], args[1], args[2]), nil
	case "rotate-x":
		return core.RotationX(args[0]), nil
	case "rotate-y":
		return core.RotationY(args[0]), nil
	case "rotate-z":
		return core.RotationZ(args[0]), nil
	default:
		return core.Shearing(args[0], args[1], args[2], args[3], args[4], args[5]), nil
	}
}

// checkKeys rejects keys outside allowed, listing them in sorted order
func checkKeys(hash map[string]interface{}, allowed ...string) error {
	var unknown []string
	for key := range hash {
		found := false
		for _, a := range allowed {
			if key == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}
