package loaders

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// createTestPLY creates a binary little-endian square made of two triangles
func createTestPLY(t *testing.T, filename string, includeNormals bool, includeColors bool) {
	var buf bytes.Buffer

	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("comment made by hand\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")

	if includeNormals {
		buf.WriteString("property float nx\n")
		buf.WriteString("property float ny\n")
		buf.WriteString("property float nz\n")
	}

	if includeColors {
		buf.WriteString("property uchar red\n")
		buf.WriteString("property uchar green\n")
		buf.WriteString("property uchar blue\n")
	}

	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := []struct {
		x, y, z    float32
		nx, ny, nz float32
		r, g, b    uint8
	}{
		{0.0, 0.0, 0.0, 0.0, 0.0, 1.0, 255, 0, 0},
		{1.0, 0.0, 0.0, 0.0, 0.0, 1.0, 0, 255, 0},
		{1.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0, 0, 255},
		{0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 255, 255, 0},
	}

	for _, v := range vertices {
		binary.Write(&buf, binary.LittleEndian, v.x)
		binary.Write(&buf, binary.LittleEndian, v.y)
		binary.Write(&buf, binary.LittleEndian, v.z)

		if includeNormals {
			binary.Write(&buf, binary.LittleEndian, v.nx)
			binary.Write(&buf, binary.LittleEndian, v.ny)
			binary.Write(&buf, binary.LittleEndian, v.nz)
		}

		if includeColors {
			binary.Write(&buf, binary.LittleEndian, v.r)
			binary.Write(&buf, binary.LittleEndian, v.g)
			binary.Write(&buf, binary.LittleEndian, v.b)
		}
	}

	faces := []struct {
		count      uint8
		v1, v2, v3 int32
	}{
		{3, 0, 1, 2},
		{3, 0, 2, 3},
	}

	for _, f := range faces {
		binary.Write(&buf, binary.LittleEndian, f.count)
		binary.Write(&buf, binary.LittleEndian, f.v1)
		binary.Write(&buf, binary.LittleEndian, f.v2)
		binary.Write(&buf, binary.LittleEndian, f.v3)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to create test PLY file: %v", err)
	}
}

var squareVertices = []core.Point{
	core.NewPoint(0, 0, 0),
	core.NewPoint(1, 0, 0),
	core.NewPoint(1, 1, 0),
	core.NewPoint(0, 1, 0),
}

func TestLoadPLY_Binary(t *testing.T) {
	tests := []struct {
		name           string
		includeNormals bool
		includeColors  bool
	}{
		{"positions only", false, false},
		{"with normals", true, false},
		{"with colors", false, true},
		{"with normals and colors", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), "square.ply")
			createTestPLY(t, testFile, tt.includeNormals, tt.includeColors)

			data, err := LoadPLY(testFile, nil)
			if err != nil {
				t.Fatalf("Failed to load PLY: %v", err)
			}

			if len(data.Vertices) != len(squareVertices) {
				t.Fatalf("Expected %d vertices, got %d", len(squareVertices), len(data.Vertices))
			}
			for i, want := range squareVertices {
				if !data.Vertices[i].ApproxEq(want) {
					t.Errorf("Vertex %d: expected %v, got %v", i, want, data.Vertices[i])
				}
			}

			if data.HasNormals() != tt.includeNormals {
				t.Errorf("Expected HasNormals %v, got %v", tt.includeNormals, data.HasNormals())
			}
			if tt.includeNormals && !data.Normals[2].ApproxEq(core.NewVector(0, 0, 1)) {
				t.Errorf("Expected normal (0, 0, 1), got %v", data.Normals[2])
			}

			if len(data.Faces) != 2 || data.Faces[1][0] != 0 || data.Faces[1][1] != 2 || data.Faces[1][2] != 3 {
				t.Errorf("Unexpected faces %v", data.Faces)
			}
		})
	}
}

const asciiQuad = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
element edge 1
property int vertex1
property int vertex2
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
0 1
`

func TestParsePLY_ASCII(t *testing.T) {
	data, err := ParsePLY(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("Failed to parse PLY: %v", err)
	}
	if len(data.Vertices) != 4 || len(data.Faces) != 1 || len(data.Faces[0]) != 4 {
		t.Fatalf("Unexpected mesh: %d vertices, faces %v", len(data.Vertices), data.Faces)
	}

	// The quad is fan-triangulated from its first vertex
	triangles := data.Triangles()
	if len(triangles) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(triangles))
	}
	second, ok := triangles[1].Shape.(geometry.Triangle)
	if !ok {
		t.Fatalf("Expected a flat triangle, got %T", triangles[1].Shape)
	}
	if !second.P1.ApproxEq(squareVertices[0]) || !second.P2.ApproxEq(squareVertices[2]) || !second.P3.ApproxEq(squareVertices[3]) {
		t.Errorf("Unexpected second triangle %v %v %v", second.P1, second.P2, second.P3)
	}
}

func TestPLYData_Group(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "square.ply")
	createTestPLY(t, testFile, true, false)

	data, err := LoadPLY(testFile, nil)
	if err != nil {
		t.Fatalf("Failed to load PLY: %v", err)
	}

	mesh := data.Group().Build()
	g, ok := mesh.Shape.(*geometry.Group)
	if !ok {
		t.Fatalf("Expected a group, got %T", mesh.Shape)
	}
	if len(g.Children()) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(g.Children()))
	}
	if _, ok := g.Children()[0].Shape.(geometry.SmoothTriangle); !ok {
		t.Errorf("Expected smooth triangles when normals are present, got %T", g.Children()[0].Shape)
	}

	// A ray straight down the z axis hits the square
	xs := mesh.Intersections(core.NewRay(core.NewPoint(0.25, 0.75, -1), core.NewVector(0, 0, 1)))
	if len(xs) != 1 || !core.ApproxEq(xs[0].T, 1) {
		t.Errorf("Expected one hit at t=1, got %v", xs)
	}
}

func TestParsePLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"unterminated header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"bad element count", "ply\nformat ascii 1.0\nelement vertex lots\nend_header\n"},
		{"missing coordinate", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n"},
		{"truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 7\n"},
		{"degenerate face", "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\n" +
			"element face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestLoadPLY_NotFound(t *testing.T) {
	if _, err := LoadPLY("nonexistent.ply", nil); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}
