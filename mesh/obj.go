package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soypat/geometry/md3"
)

// ParseMeshFile reads the vertex records of a Wavefront OBJ file
func ParseMeshFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseMesh(f, name)
}

// NewLazyMeshFile defers OBJ parsing until the mesh is first used by a
// registration.
func NewLazyMeshFile(path string) *Mesh {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewLazyMesh(name, func() ([]md3.Vec, error) {
		m, err := ParseMeshFile(path)
		if err != nil {
			return nil, err
		}
		return m.Vertices(), nil
	})
}

// ParseMesh parses OBJ vertex data from a reader. Only "v" records matter
// for registration; faces, normals, texture coordinates, groups and
// comments are tolerated and skipped.
func ParseMesh(r io.Reader, name string) (*Mesh, error) {
	var vertices []md3.Vec

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "v" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: vertex record has %d coordinates, want 3", lineNum, len(fields)-1)
		}
		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing coordinate %q: %w", lineNum, fields[i+1], err)
			}
			coords[i] = v
		}
		vertices = append(vertices, md3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning OBJ data: %w", err)
	}

	return NewMesh(name, vertices), nil
}

// WriteMeshFile writes the mesh vertices as a Wavefront OBJ file
func WriteMeshFile(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := WriteMesh(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteMesh writes the mesh vertices as OBJ vertex records
func WriteMesh(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "# %s: %d vertices\n", m.Name, m.NumVertices()); err != nil {
		return fmt.Errorf("writing OBJ header: %w", err)
	}
	for _, v := range m.Vertices() {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z); err != nil {
			return fmt.Errorf("writing OBJ vertex: %w", err)
		}
	}
	return bw.Flush()
}
