package mesh

import (
	"math"

	"github.com/soypat/geometry/md3"
)

// Mesh is an ordered collection of 3D vertices. Vertex identifiers are the
// dense indices 0..NumVertices()-1 and stay stable across every operation,
// so a parameter vector laid out per-vertex always maps back to the same
// position.
type Mesh struct {
	Name string

	vertices []md3.Vec

	// load, when set, produces the vertex data on first use. EnsureLoaded
	// must run before any vertex read.
	load   func() ([]md3.Vec, error)
	loaded bool
}

// NewMesh wraps an already materialized vertex slice. The mesh takes
// ownership of the slice.
func NewMesh(name string, vertices []md3.Vec) *Mesh {
	return &Mesh{Name: name, vertices: vertices, loaded: true}
}

// NewLazyMesh defers vertex production until EnsureLoaded runs. Used for
// meshes backed by files so parsing happens once, at registration start,
// rather than at construction.
func NewLazyMesh(name string, load func() ([]md3.Vec, error)) *Mesh {
	return &Mesh{Name: name, load: load}
}

// EnsureLoaded forces a deferred vertex source to materialize. It is a
// no-op for meshes that already hold their vertices.
func (m *Mesh) EnsureLoaded() error {
	if m.loaded || m.load == nil {
		return nil
	}
	vertices, err := m.load()
	if err != nil {
		return err
	}
	m.vertices = vertices
	m.loaded = true
	return nil
}

// NumVertices returns the vertex count. Zero until a lazy mesh is loaded.
func (m *Mesh) NumVertices() int {
	return len(m.vertices)
}

// Vertex returns the position of the vertex with the given identifier.
func (m *Mesh) Vertex(i int) md3.Vec {
	return m.vertices[i]
}

// Vertices exposes the backing vertex slice in identifier order. Callers
// must treat it as read-only.
func (m *Mesh) Vertices() []md3.Vec {
	return m.vertices
}

// Centroid returns the mean vertex position, or the zero vector for an
// empty mesh.
func (m *Mesh) Centroid() md3.Vec {
	if len(m.vertices) == 0 {
		return md3.Vec{}
	}
	var sum md3.Vec
	for _, v := range m.vertices {
		sum = md3.Add(sum, v)
	}
	return md3.Scale(1/float64(len(m.vertices)), sum)
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max md3.Vec) {
	if len(m.vertices) == 0 {
		return md3.Vec{}, md3.Vec{}
	}
	min = m.vertices[0]
	max = m.vertices[0]
	for _, v := range m.vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// TranslationOffset represents a 3D offset used in the alignment config
type TranslationOffset struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// AlignmentConfig describes the rigid pre-alignment applied to moving
// vertices while correspondences are established. The zero value is the
// identity transform.
type AlignmentConfig struct {
	RotationDeg  float64            `yaml:"rotationDeg,omitempty" json:"rotationDeg,omitempty"`
	RotationAxis *TranslationOffset `yaml:"rotationAxis,omitempty" json:"rotationAxis,omitempty"` // Defaults to the Z axis
	Translation  *TranslationOffset `yaml:"translation,omitempty" json:"translation,omitempty"`
}

// Matrix builds the affine pre-alignment transform from the config.
func (a AlignmentConfig) Matrix() AffineMatrix {
	m := Identity()
	if a.RotationDeg != 0 {
		axis := md3.Vec{Z: 1}
		if a.RotationAxis != nil {
			axis = md3.Vec{X: a.RotationAxis.X, Y: a.RotationAxis.Y, Z: a.RotationAxis.Z}
		}
		m = RotationDeg(a.RotationDeg, axis)
	}
	if a.Translation != nil {
		m = MultiplyMatrices(Translation(a.Translation.X, a.Translation.Y, a.Translation.Z), m)
	}
	return m
}

// RegistrationConfig holds the optimizer settings for a registration run.
// Distances are in the same units as the input meshes.
type RegistrationConfig struct {
	StepSize          float64 `yaml:"stepSize,omitempty" json:"stepSize,omitempty"`                   // Gradient descent step length
	MaxIterations     int     `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty"`         // Maximum optimizer iterations
	ConvergenceThresh float64 `yaml:"convergenceThresh,omitempty" json:"convergenceThresh,omitempty"` // Stop when cost improvement drops below this
}

// RenderConfig holds snapshot rendering settings.
type RenderConfig struct {
	PointRadius float64 `yaml:"pointRadius,omitempty" json:"pointRadius,omitempty"` // Marker radius in world units
	Padding     float64 `yaml:"padding,omitempty" json:"padding,omitempty"`         // Border padding in world units
	DPI         float64 `yaml:"dpi,omitempty" json:"dpi,omitempty"`                 // PNG resolution
}

// Config represents the full configuration file
type Config struct {
	Registration RegistrationConfig `yaml:"registration,omitempty" json:"registration,omitempty"`
	Alignment    AlignmentConfig    `yaml:"alignment,omitempty" json:"alignment,omitempty"`
	Render       RenderConfig       `yaml:"render,omitempty" json:"render,omitempty"`
}
