package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// OBJFace is a polygon of zero-based vertex indices. Normals is nil unless
// every corner names a vertex normal.
type OBJFace struct {
	Vertices []int
	Normals  []int
	Group    string // Empty for the default group
	Line     int
}

// OBJData holds the statements of a Wavefront OBJ file that the renderer uses
type OBJData struct {
	Vertices []core.Point
	Normals  []core.Vector
	Faces    []OBJFace
	Groups   []string // Named groups in order of first appearance
	Ignored  int      // Lines that were blank or not understood
}

// LoadOBJ loads an OBJ file. logger may be nil.
func LoadOBJ(filename string, logger core.Logger) (*OBJData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("obj: failed to open %s: %w", filename, err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if logger != nil {
		logger.Printf("Loaded OBJ %s: %d vertices, %d faces, %d groups (%d lines ignored) in %v\n",
			filename, len(data.Vertices), len(data.Faces), len(data.Groups), data.Ignored, time.Since(startTime))
	}
	return data, nil
}

// ParseOBJ reads v, vn, f and g statements. Other lines are counted as
// ignored. Face indices are 1-based; negative indices count back from the
// most recent vertex.
func ParseOBJ(r io.Reader) (*OBJData, error) {
	data := &OBJData{}
	seenGroups := map[string]bool{}
	currentGroup := ""

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			data.Ignored++
			continue
		}

		switch fields[0] {
		case "v":
			x, y, z, err := parseTriple(fields)
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: invalid vertex %q", lineNumber, strings.TrimSpace(line))
			}
			data.Vertices = append(data.Vertices, core.NewPoint(x, y, z))
		case "vn":
			x, y, z, err := parseTriple(fields)
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: invalid normal %q", lineNumber, strings.TrimSpace(line))
			}
			data.Normals = append(data.Normals, core.NewVector(x, y, z))
		case "f":
			face, err := data.parseFace(fields[1:], lineNumber)
			if err != nil {
				return nil, err
			}
			face.Group = currentGroup
			data.Faces = append(data.Faces, face)
		case "g":
			if len(fields) != 2 {
				return nil, fmt.Errorf("obj: line %d: invalid group %q", lineNumber, strings.TrimSpace(line))
			}
			currentGroup = fields[1]
			if !seenGroups[currentGroup] {
				seenGroups[currentGroup] = true
				data.Groups = append(data.Groups, currentGroup)
			}
		default:
			data.Ignored++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	return data, nil
}

func parseTriple(fields []string) (x, y, z float64, err error) {
	if len(fields) != 4 {
		return 0, 0, 0, fmt.Errorf("expected 3 coordinates, got %d", len(fields)-1)
	}
	var v [3]float64
	for i := range v {
		if v[i], err = strconv.ParseFloat(fields[i+1], 64); err != nil {
			return 0, 0, 0, err
		}
	}
	return v[0], v[1], v[2], nil
}

// parseFace resolves "v", "v/vt", "v//vn" and "v/vt/vn" corners against the
// vertices and normals read so far
func (d *OBJData) parseFace(corners []string, lineNumber int) (OBJFace, error) {
	if len(corners) < 3 {
		return OBJFace{}, fmt.Errorf("obj: line %d: face needs at least 3 vertices, got %d", lineNumber, len(corners))
	}

	face := OBJFace{Line: lineNumber, Vertices: make([]int, len(corners))}
	normals := make([]int, 0, len(corners))

	for i, corner := range corners {
		parts := strings.Split(corner, "/")
		if len(parts) > 3 {
			return OBJFace{}, fmt.Errorf("obj: line %d: invalid face vertex %q", lineNumber, corner)
		}

		vertex, err := resolveIndex(parts[0], len(d.Vertices))
		if err != nil {
			return OBJFace{}, fmt.Errorf("obj: line %d: bad vertex index %q: %w", lineNumber, parts[0], err)
		}
		face.Vertices[i] = vertex

		if len(parts) == 3 && parts[2] != "" {
			normal, err := resolveIndex(parts[2], len(d.Normals))
			if err != nil {
				return OBJFace{}, fmt.Errorf("obj: line %d: bad normal index %q: %w", lineNumber, parts[2], err)
			}
			normals = append(normals, normal)
		}
	}

	if len(normals) == len(corners) {
		face.Normals = normals
	}
	return face, nil
}

// resolveIndex converts a 1-based or negative relative index to zero-based
func resolveIndex(s string, count int) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case index > 0 && index <= count:
		return index - 1, nil
	case index < 0 && -index <= count:
		return count + index, nil
	default:
		return 0, fmt.Errorf("out of range (have %d)", count)
	}
}

// Normalize centers the model on the origin and scales it uniformly so its
// longest side spans [-1, 1]
func (d *OBJData) Normalize() {
	if len(d.Vertices) == 0 {
		return
	}

	bounds := core.NewBoundingBoxFromPoints(d.Vertices...)
	size := bounds.Size()
	scale := max(size.X, size.Y, size.Z) / 2
	if scale == 0 {
		scale = 1
	}
	center := bounds.Center()

	for i, v := range d.Vertices {
		offset := v.Subtract(center).Divide(scale)
		d.Vertices[i] = core.Origin.Add(offset)
	}
}

// Triangles fan-triangulates the faces of one group ("" is the default group)
func (d *OBJData) Triangles(group string) []*geometry.Object {
	var triangles []*geometry.Object
	for _, face := range d.Faces {
		if face.Group != group {
			continue
		}
		for i := 1; i < len(face.Vertices)-1; i++ {
			a, b, c := face.Vertices[0], face.Vertices[i], face.Vertices[i+1]
			if face.Normals != nil {
				na, nb, nc := face.Normals[0], face.Normals[i], face.Normals[i+1]
				triangles = append(triangles, geometry.NewSmoothTriangleObject(
					d.Vertices[a], d.Vertices[b], d.Vertices[c],
					d.Normals[na], d.Normals[nb], d.Normals[nc]))
			} else {
				triangles = append(triangles, geometry.NewTriangleObject(
					d.Vertices[a], d.Vertices[b], d.Vertices[c]))
			}
		}
	}
	return triangles
}

// NamedGroup returns the triangles of one named group as a builder node
func (d *OBJData) NamedGroup(name string) (*geometry.GroupBuilder, bool) {
	for _, g := range d.Groups {
		if g == name {
			return trianglesNode(d.Triangles(name)), true
		}
	}
	return nil, false
}

// Group returns the whole model. Without named groups it is a single node of
// triangles; otherwise the default group comes first, followed by one child
// node per named group.
func (d *OBJData) Group() *geometry.GroupBuilder {
	defaultGroup := trianglesNode(d.Triangles(""))
	if len(d.Groups) == 0 {
		return defaultGroup
	}

	root := geometry.Node(core.Identity(), defaultGroup)
	for _, name := range d.Groups {
		group, _ := d.NamedGroup(name)
		root.Add(group)
	}
	return root
}

func trianglesNode(triangles []*geometry.Object) *geometry.GroupBuilder {
	node := geometry.Node(core.Identity())
	for _, tri := range triangles {
		node.Add(geometry.Leaf(tri))
	}
	return node
}
