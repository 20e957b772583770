package loaders

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// yaml.v2 decodes mappings as map[interface{}]interface{}, integers as int
// and floats as float64. These helpers convert with descriptive errors.

func stringKeys(m map[interface{}]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("key %v is not a string", k)
		}
		out[key] = v
	}
	return out, nil
}

func toHash(v interface{}) (map[string]interface{}, error) {
	switch h := v.(type) {
	case map[string]interface{}:
		return h, nil
	case map[interface{}]interface{}:
		return stringKeys(h)
	case nil:
		return nil, fmt.Errorf("missing hash")
	default:
		return nil, fmt.Errorf("expected a hash, got %v", v)
	}
}

func toList(v interface{}) ([]interface{}, error) {
	switch l := v.(type) {
	case []interface{}:
		return l, nil
	case nil:
		return nil, fmt.Errorf("missing list")
	default:
		return nil, fmt.Errorf("expected a list, got %v", v)
	}
}

func toString(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return "", fmt.Errorf("missing string")
	default:
		return "", fmt.Errorf("expected a string, got %v", v)
	}
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %v", v)
	}
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected an integer, got %v", v)
	}
}

func toBool(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected true or false, got %v", v)
	}
	return b, nil
}

func toTriple(v interface{}) (float64, float64, float64, error) {
	list, err := toList(v)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(list) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 numbers, got %d", len(list))
	}
	var xyz [3]float64
	for i, n := range list {
		if xyz[i], err = toFloat(n); err != nil {
			return 0, 0, 0, err
		}
	}
	return xyz[0], xyz[1], xyz[2], nil
}

func toColor(v interface{}) (core.Color, error) {
	r, g, b, err := toTriple(v)
	return core.NewColor(r, g, b), err
}

func colorList(v interface{}) ([]core.Color, error) {
	list, err := toList(v)
	if err != nil {
		return nil, err
	}
	colors := make([]core.Color, len(list))
	for i, c := range list {
		if colors[i], err = toColor(c); err != nil {
			return nil, fmt.Errorf("color %d: %w", i+1, err)
		}
	}
	return colors, nil
}

func required(hash map[string]interface{}, key string) (interface{}, error) {
	v, ok := hash[key]
	if !ok {
		return nil, fmt.Errorf("missing %q", key)
	}
	return v, nil
}

func requiredInt(hash map[string]interface{}, key string) (int, error) {
	v, err := required(hash, key)
	if err != nil {
		return 0, err
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func requiredFloat(hash map[string]interface{}, key string) (float64, error) {
	v, err := required(hash, key)
	if err != nil {
		return 0, err
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func requiredPoint(hash map[string]interface{}, key string) (core.Point, error) {
	v, err := required(hash, key)
	if err != nil {
		return core.Point{}, err
	}
	x, y, z, err := toTriple(v)
	if err != nil {
		return core.Point{}, fmt.Errorf("%s: %w", key, err)
	}
	return core.NewPoint(x, y, z), nil
}

func requiredVector(hash map[string]interface{}, key string) (core.Vector, error) {
	v, err := required(hash, key)
	if err != nil {
		return core.Vector{}, err
	}
	x, y, z, err := toTriple(v)
	if err != nil {
		return core.Vector{}, fmt.Errorf("%s: %w", key, err)
	}
	return core.NewVector(x, y, z), nil
}

func requiredColor(hash map[string]interface{}, key string) (core.Color, error) {
	v, err := required(hash, key)
	if err != nil {
		return core.Color{}, err
	}
	c, err := toColor(v)
	if err != nil {
		return core.Color{}, fmt.Errorf("%s: %w", key, err)
	}
	return c, nil
}
