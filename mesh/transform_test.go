package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/geometry/md3"
)

func vecApproxEqual(a, b md3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestTransformPoint_Identity(t *testing.T) {
	p := md3.Vec{X: 1.5, Y: -2, Z: 3}
	if got := TransformPoint(p, Identity()); got != p {
		t.Errorf("identity moved point: %+v", got)
	}
}

func TestTransformPoint_Translation(t *testing.T) {
	p := md3.Vec{X: 1, Y: 2, Z: 3}
	got := TransformPoint(p, Translation(10, -20, 0.5))
	want := md3.Vec{X: 11, Y: -18, Z: 3.5}
	if got != want {
		t.Errorf("translated point = %+v, want %+v", got, want)
	}
}

func TestRotationDeg_AboutZ(t *testing.T) {
	got := TransformPoint(md3.Vec{X: 1}, RotationDeg(90, md3.Vec{Z: 1}))
	if !vecApproxEqual(got, md3.Vec{Y: 1}, 1e-12) {
		t.Errorf("90 deg about Z: (1,0,0) -> %+v, want (0,1,0)", got)
	}
}

func TestRotationDeg_AboutArbitraryAxis(t *testing.T) {
	// Rotating the axis itself must be a no-op, and rotation preserves
	// lengths.
	axis := md3.Vec{X: 1, Y: 1, Z: 1}
	m := RotationDeg(73, axis)

	onAxis := TransformPoint(axis, m)
	if !vecApproxEqual(onAxis, axis, 1e-12) {
		t.Errorf("axis moved under its own rotation: %+v", onAxis)
	}

	p := md3.Vec{X: 2, Y: -1, Z: 0.5}
	rotated := TransformPoint(p, m)
	if math.Abs(md3.Norm(rotated)-md3.Norm(p)) > 1e-12 {
		t.Errorf("rotation changed length: %v != %v", md3.Norm(rotated), md3.Norm(p))
	}
}

func TestRotation_ZeroAxis(t *testing.T) {
	if Rotation(1.0, md3.Vec{}) != Identity() {
		t.Error("zero axis should produce identity")
	}
}

func TestMultiplyMatrices_MatchesSequentialApplication(t *testing.T) {
	m1 := RotationDeg(30, md3.Vec{Z: 1})
	m2 := Translation(5, -2, 1)
	combined := MultiplyMatrices(m1, m2)

	p := md3.Vec{X: 1, Y: 2, Z: 3}
	sequential := TransformPoint(TransformPoint(p, m2), m1)
	if got := TransformPoint(p, combined); !vecApproxEqual(got, sequential, 1e-12) {
		t.Errorf("composed transform = %+v, sequential = %+v", got, sequential)
	}
}

func TestAlignmentConfig_Matrix(t *testing.T) {
	cfg := AlignmentConfig{
		RotationDeg: 90,
		Translation: &TranslationOffset{X: 1},
	}
	// Rotation first (default Z axis), then translation.
	got := TransformPoint(md3.Vec{X: 1}, cfg.Matrix())
	if !vecApproxEqual(got, md3.Vec{X: 1, Y: 1}, 1e-12) {
		t.Errorf("aligned point = %+v, want (1,1,0)", got)
	}

	if (AlignmentConfig{}).Matrix() != Identity() {
		t.Error("zero alignment config should be identity")
	}
}

// ---------------------------------------------------------------------------
// DisplacementTransform
// ---------------------------------------------------------------------------

func TestDisplacementTransform_Parameters(t *testing.T) {
	tr := NewDisplacementTransform(2)

	if err := tr.SetParameters([]float64{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatalf("SetParameters() error: %v", err)
	}
	if got := tr.Displacement(1); got != (md3.Vec{X: 4, Y: 5, Z: 6}) {
		t.Errorf("Displacement(1) = %+v, want (4,5,6)", got)
	}

	err := tr.SetParameters([]float64{1, 2, 3})
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("short SetParameters error = %v, want DimensionMismatchError", err)
	}
	if mismatch.Got != 3 || mismatch.Want != 6 {
		t.Errorf("mismatch = %d/%d, want 3/6", mismatch.Got, mismatch.Want)
	}
}

func TestDisplacementTransform_CopiesParameters(t *testing.T) {
	tr := NewDisplacementTransform(1)
	params := []float64{1, 2, 3}
	if err := tr.SetParameters(params); err != nil {
		t.Fatalf("SetParameters() error: %v", err)
	}
	params[0] = 100
	if got := tr.Displacement(0); got != (md3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("transform sees caller mutation: %+v", got)
	}
}

func TestDisplacementTransform_TransformPointUsesPreAlignmentOnly(t *testing.T) {
	tr := NewDisplacementTransform(1)
	tr.SetPreAlignment(Translation(10, 0, 0))
	if err := tr.SetParameters([]float64{5, 5, 5}); err != nil {
		t.Fatalf("SetParameters() error: %v", err)
	}
	// The displacement field must not leak into the point mapping.
	got := tr.TransformPoint(md3.Vec{X: 1})
	if got != (md3.Vec{X: 11}) {
		t.Errorf("TransformPoint = %+v, want (11,0,0)", got)
	}
}

func TestDisplacementTransform_Apply(t *testing.T) {
	tr := NewDisplacementTransform(2)
	tr.SetPreAlignment(Translation(100, 100, 100)) // Must not affect Apply
	if err := tr.SetParameters([]float64{1, 0, 0, 0, -1, 0}); err != nil {
		t.Fatalf("SetParameters() error: %v", err)
	}

	m := NewMesh("m", []md3.Vec{{}, {X: 5}})
	displaced := tr.Apply(m)

	if displaced.NumVertices() != 2 {
		t.Fatalf("displaced vertex count = %d, want 2", displaced.NumVertices())
	}
	if got := displaced.Vertex(0); got != (md3.Vec{X: 1}) {
		t.Errorf("vertex 0 = %+v, want (1,0,0)", got)
	}
	if got := displaced.Vertex(1); got != (md3.Vec{X: 5, Y: -1}) {
		t.Errorf("vertex 1 = %+v, want (5,-1,0)", got)
	}
	// Source mesh untouched.
	if m.Vertex(0) != (md3.Vec{}) {
		t.Error("Apply mutated the source mesh")
	}
}
