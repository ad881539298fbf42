package mesh

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/geometry/md3"
)

const sampleOBJ = `# a small test mesh
o cube-corner
v 0 0 0
v 1.0 0.0 0.0
v 0 1 0
vn 0 0 1
vt 0.5 0.5
f 1 2 3
s off
`

func TestParseMesh(t *testing.T) {
	m, err := ParseMesh(strings.NewReader(sampleOBJ), "cube-corner")
	if err != nil {
		t.Fatalf("ParseMesh() error: %v", err)
	}
	if m.NumVertices() != 3 {
		t.Fatalf("vertex count = %d, want 3", m.NumVertices())
	}
	want := []md3.Vec{{}, {X: 1}, {Y: 1}}
	for i, w := range want {
		if m.Vertex(i) != w {
			t.Errorf("vertex %d = %+v, want %+v", i, m.Vertex(i), w)
		}
	}
}

func TestParseMesh_MalformedVertex(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"too few coordinates", "v 1 2\n"},
		{"bad number", "# header\nv 1 2 potato\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMesh(strings.NewReader(tt.data), "bad")
			if err == nil {
				t.Fatal("ParseMesh() succeeded, want error")
			}
			if !strings.Contains(err.Error(), "line") {
				t.Errorf("error %q does not name the line", err)
			}
		})
	}
}

func TestWriteMesh_Roundtrip(t *testing.T) {
	original := NewMesh("roundtrip", []md3.Vec{
		{X: 0.25, Y: -1, Z: 3},
		{X: 100, Y: 0.125, Z: -0.5},
	})

	var buf bytes.Buffer
	if err := WriteMesh(&buf, original); err != nil {
		t.Fatalf("WriteMesh() error: %v", err)
	}

	parsed, err := ParseMesh(&buf, "roundtrip")
	if err != nil {
		t.Fatalf("ParseMesh() error: %v", err)
	}
	if parsed.NumVertices() != original.NumVertices() {
		t.Fatalf("vertex count = %d, want %d", parsed.NumVertices(), original.NumVertices())
	}
	for i := range original.Vertices() {
		if parsed.Vertex(i) != original.Vertex(i) {
			t.Errorf("vertex %d = %+v, want %+v", i, parsed.Vertex(i), original.Vertex(i))
		}
	}
}

func TestMeshFile_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")

	original := NewMesh("mesh", []md3.Vec{{X: 1, Y: 2, Z: 3}})
	if err := WriteMeshFile(path, original); err != nil {
		t.Fatalf("WriteMeshFile() error: %v", err)
	}

	parsed, err := ParseMeshFile(path)
	if err != nil {
		t.Fatalf("ParseMeshFile() error: %v", err)
	}
	if parsed.Name != "mesh" {
		t.Errorf("parsed name = %q, want %q", parsed.Name, "mesh")
	}
	if parsed.NumVertices() != 1 || parsed.Vertex(0) != (md3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("parsed mesh = %+v", parsed.Vertices())
	}
}

func TestParseMeshFile_Missing(t *testing.T) {
	_, err := ParseMeshFile(filepath.Join(t.TempDir(), "nope.obj"))
	if err == nil {
		t.Fatal("ParseMeshFile() succeeded for missing file")
	}
}

func TestNewLazyMeshFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lazy.obj")
	if err := os.WriteFile(path, []byte("v 1 0 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewLazyMeshFile(path)
	if m.NumVertices() != 0 {
		t.Error("lazy mesh loaded before EnsureLoaded")
	}
	if err := m.EnsureLoaded(); err != nil {
		t.Fatalf("EnsureLoaded() error: %v", err)
	}
	if m.NumVertices() != 1 || m.Vertex(0) != (md3.Vec{X: 1}) {
		t.Errorf("lazy mesh vertices = %+v", m.Vertices())
	}
	if m.Name != "lazy" {
		t.Errorf("lazy mesh name = %q, want %q", m.Name, "lazy")
	}
}
