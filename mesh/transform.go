package mesh

import (
	"math"

	"github.com/soypat/geometry/md3"
)

// AffineMatrix for 3D transforms: p' = R*p + t, with R stored row-major.
type AffineMatrix struct {
	R [9]float64 `json:"r"`
	T md3.Vec    `json:"t"`
}

// Identity returns an identity matrix (no transformation)
func Identity() AffineMatrix {
	return AffineMatrix{R: [9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}}
}

// Translation creates a translation-only transform
func Translation(tx, ty, tz float64) AffineMatrix {
	m := Identity()
	m.T = md3.Vec{X: tx, Y: ty, Z: tz}
	return m
}

// Rotation creates a rotation transform (angle in radians, around the given
// axis through the origin) using the Rodrigues formula.
func Rotation(angle float64, axis md3.Vec) AffineMatrix {
	n := md3.Norm(axis)
	if n == 0 {
		return Identity()
	}
	k := md3.Scale(1/n, axis)
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	return AffineMatrix{R: [9]float64{
		c + k.X*k.X*t, k.X*k.Y*t - k.Z*s, k.X*k.Z*t + k.Y*s,
		k.Y*k.X*t + k.Z*s, c + k.Y*k.Y*t, k.Y*k.Z*t - k.X*s,
		k.Z*k.X*t - k.Y*s, k.Z*k.Y*t + k.X*s, c + k.Z*k.Z*t,
	}}
}

// RotationDeg creates a rotation transform (angle in degrees)
func RotationDeg(degrees float64, axis md3.Vec) AffineMatrix {
	return Rotation(degrees*math.Pi/180.0, axis)
}

// TransformPoint applies an affine transform to a point
func TransformPoint(p md3.Vec, m AffineMatrix) md3.Vec {
	return md3.Vec{
		X: m.R[0]*p.X + m.R[1]*p.Y + m.R[2]*p.Z + m.T.X,
		Y: m.R[3]*p.X + m.R[4]*p.Y + m.R[5]*p.Z + m.T.Y,
		Z: m.R[6]*p.X + m.R[7]*p.Y + m.R[8]*p.Z + m.T.Z,
	}
}

// TransformPoints applies an affine transform to multiple points
func TransformPoints(points []md3.Vec, m AffineMatrix) []md3.Vec {
	result := make([]md3.Vec, len(points))
	for i, p := range points {
		result[i] = TransformPoint(p, m)
	}
	return result
}

// MultiplyMatrices composes two affine transforms: result = m1 * m2.
// Applying result is equivalent to applying m2 first, then m1.
func MultiplyMatrices(m1, m2 AffineMatrix) AffineMatrix {
	var out AffineMatrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out.R[row*3+col] = m1.R[row*3]*m2.R[col] + m1.R[row*3+1]*m2.R[3+col] + m1.R[row*3+2]*m2.R[6+col]
		}
	}
	out.T = md3.Add(TransformPoint(m2.T, AffineMatrix{R: m1.R}), m1.T)
	return out
}

// Transform is the alignment collaborator consumed by the metric. It maps a
// moving-mesh point into the fixed mesh's frame and carries the parameter
// vector the optimizer controls.
type Transform interface {
	TransformPoint(p md3.Vec) md3.Vec
	SetParameters(params []float64) error
	Parameters() []float64
}

// DisplacementTransform interprets its parameter vector as a per-vertex
// displacement field (dx, dy, dz per vertex) over a mesh with n vertices.
// Its point mapping is the rigid pre-alignment applied ahead of the field;
// the displacements themselves are indexed by vertex identifier, not by
// position, and are applied through Displacement or Apply.
type DisplacementTransform struct {
	prealign AffineMatrix
	params   []float64
	n        int
}

// NewDisplacementTransform creates a zero displacement field over n
// vertices with an identity pre-alignment.
func NewDisplacementTransform(n int) *DisplacementTransform {
	return &DisplacementTransform{
		prealign: Identity(),
		params:   make([]float64, 3*n),
		n:        n,
	}
}

// SetPreAlignment replaces the rigid transform applied by TransformPoint.
func (t *DisplacementTransform) SetPreAlignment(m AffineMatrix) {
	t.prealign = m
}

// TransformPoint maps a point through the rigid pre-alignment.
func (t *DisplacementTransform) TransformPoint(p md3.Vec) md3.Vec {
	return TransformPoint(p, t.prealign)
}

// SetParameters activates a new displacement field. The vector must hold
// exactly 3 entries per vertex.
func (t *DisplacementTransform) SetParameters(params []float64) error {
	if len(params) != 3*t.n {
		return &DimensionMismatchError{Got: len(params), Want: 3 * t.n}
	}
	if len(t.params) != len(params) {
		t.params = make([]float64, len(params))
	}
	copy(t.params, params)
	return nil
}

// Parameters returns the active displacement field parameters. Callers must
// treat the slice as read-only.
func (t *DisplacementTransform) Parameters() []float64 {
	return t.params
}

// Displacement returns the active offset for the given vertex identifier.
func (t *DisplacementTransform) Displacement(i int) md3.Vec {
	return md3.Vec{X: t.params[3*i], Y: t.params[3*i+1], Z: t.params[3*i+2]}
}

// Apply produces the displaced copy of a mesh: each vertex at its rest
// position plus its displacement. The pre-alignment is deliberately not
// applied here; the displacement field absorbs it over the course of the
// optimization.
func (t *DisplacementTransform) Apply(m *Mesh) *Mesh {
	displaced := make([]md3.Vec, m.NumVertices())
	for i, v := range m.Vertices() {
		displaced[i] = md3.Add(v, t.Displacement(i))
	}
	return NewMesh(m.Name+"-displaced", displaced)
}
