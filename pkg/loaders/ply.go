package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block declared in the header, in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the mesh loaded from a PLY file
type PLYData struct {
	Vertices []core.Point
	Normals  []core.Vector // Per-vertex normals; empty if not present
	Faces    [][]int       // Vertex indices per polygon
}

// HasNormals reports whether every vertex carries a normal
func (d *PLYData) HasNormals() bool {
	return len(d.Normals) > 0 && len(d.Normals) == len(d.Vertices)
}

// LoadPLY loads a PLY file. logger may be nil.
func LoadPLY(filename string, logger core.Logger) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ply: failed to open %s: %w", filename, err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("ply: %s: %w", filename, err)
	}

	if logger != nil {
		logger.Printf("Loaded PLY %s: %d vertices, %d faces in %v\n",
			filename, len(data.Vertices), len(data.Faces), time.Since(startTime))
	}
	return data, nil
}

// ParsePLY reads ASCII or binary PLY data
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported format: %s", header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, data)
		case "face":
			err = readFaces(values, element, data)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, err
		}
	}

	for i, face := range data.Faces {
		for _, index := range face {
			if index < 0 || index >= len(data.Vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range", i, index)
			}
		}
	}
	return data, nil
}

// parsePLYHeader consumes the header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unterminated header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element: %q", line)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			element := &header.Elements[len(header.Elements)-1]
			element.Props = append(element.Props, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("missing format line")
	}
	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	return prop, nil
}

func readVertices(values plyValueReader, element PLYElement, data *PLYData) error {
	index := map[string]int{}
	for i, prop := range element.Props {
		index[prop.Name] = i
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("vertex element has no %s property", name)
		}
	}
	_, hasNX := index["nx"]
	_, hasNY := index["ny"]
	_, hasNZ := index["nz"]
	hasNormals := hasNX && hasNY && hasNZ

	data.Vertices = make([]core.Point, 0, element.Count)
	if hasNormals {
		data.Normals = make([]core.Vector, 0, element.Count)
	}

	row := make([]float64, len(element.Props))
	for i := 0; i < element.Count; i++ {
		for j, prop := range element.Props {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.scalar(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d, property %s: %w", i, prop.Name, err)
			}
			row[j] = v
		}

		data.Vertices = append(data.Vertices, core.NewPoint(row[index["x"]], row[index["y"]], row[index["z"]]))
		if hasNormals {
			data.Normals = append(data.Normals, core.NewVector(row[index["nx"]], row[index["ny"]], row[index["nz"]]))
		}
	}
	return nil
}

func readFaces(values plyValueReader, element PLYElement, data *PLYData) error {
	data.Faces = make([][]int, 0, element.Count)

	for i := 0; i < element.Count; i++ {
		var face []int
		for _, prop := range element.Props {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d, property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := values.scalar(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d: failed to read vertex count: %w", i, err)
			}
			if count < 3 {
				return fmt.Errorf("face %d: needs at least 3 vertices, got %v", i, count)
			}

			face = make([]int, int(count))
			for j := range face {
				v, err := values.scalar(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d: failed to read vertex index: %w", i, err)
				}
				face[j] = int(v)
			}
		}
		if face == nil {
			return fmt.Errorf("face %d: no vertex_indices property", i)
		}
		data.Faces = append(data.Faces, face)
	}
	return nil
}

func skipElement(values plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if err := skipProperty(values, prop); err != nil {
				return fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}
	return nil
}

func skipProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.scalar(prop.Type)
	return err
}

func skipList(values plyValueReader, prop PLYProperty) error {
	count, err := values.scalar(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.scalar(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// plyValueReader reads one scalar of a PLY data type from the body
type plyValueReader interface {
	scalar(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) scalar(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	if getTypeSize(dataType) == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type binaryValueReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) scalar(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	raw := b.buf[:size]
	if _, err := io.ReadFull(b.reader, raw); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "char", "int8":
		return float64(int8(raw[0])), nil
	default: // uchar, uint8
		return float64(raw[0]), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// Triangles fan-triangulates every face. Smooth triangles are produced when
// the mesh has vertex normals.
func (d *PLYData) Triangles() []*geometry.Object {
	smooth := d.HasNormals()
	var triangles []*geometry.Object
	for _, face := range d.Faces {
		for i := 1; i < len(face)-1; i++ {
			a, b, c := face[0], face[i], face[i+1]
			if smooth {
				triangles = append(triangles, geometry.NewSmoothTriangleObject(
					d.Vertices[a], d.Vertices[b], d.Vertices[c],
					d.Normals[a], d.Normals[b], d.Normals[c]))
			} else {
				triangles = append(triangles, geometry.NewTriangleObject(
					d.Vertices[a], d.Vertices[b], d.Vertices[c]))
			}
		}
	}
	return triangles
}

// Group returns the triangles as a single builder node
func (d *PLYData) Group() *geometry.GroupBuilder {
	return trianglesNode(d.Triangles())
}
