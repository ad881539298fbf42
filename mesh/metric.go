package mesh

import (
	"fmt"

	"github.com/soypat/geometry/md3"
)

// CorrespondenceMetric measures how far a displaced moving mesh sits from
// its per-vertex correspondences on a fixed reference mesh. At Initialize
// time every moving vertex is matched, under the transform's rigid
// pre-alignment, to its nearest fixed vertex; cost evaluation then sums
// squared distances from each displaced vertex to that frozen target.
//
// Targets are resolved exactly once. Evaluation never re-matches against
// the deforming mesh; re-matching per iteration would be a different
// algorithm, not a fix.
//
// The metric does not own the meshes or the transform. It is not safe for
// concurrent evaluations against the same transform instance, because
// evaluation activates the supplied parameters on the transform.
type CorrespondenceMetric struct {
	fixed     *Mesh
	moving    *Mesh
	transform Transform
	index     NearestNeighborIndex

	// targets maps each moving vertex identifier to its fixed-frame target
	// position. Written only by Initialize, read by the evaluators.
	targets  []md3.Vec
	computed bool
}

// NewCorrespondenceMetric wires the metric to its collaborators. Initialize
// must run before any evaluation.
func NewCorrespondenceMetric(fixed, moving *Mesh, transform Transform) *CorrespondenceMetric {
	return &CorrespondenceMetric{fixed: fixed, moving: moving, transform: transform}
}

// SetNearestNeighborIndex swaps the correspondence search implementation.
// The index must be exact (see NearestNeighborIndex); nil restores the
// brute-force default.
func (m *CorrespondenceMetric) SetNearestNeighborIndex(idx NearestNeighborIndex) {
	m.index = idx
}

// Initialized reports whether the correspondence map has been computed.
func (m *CorrespondenceMetric) Initialized() bool {
	return m.computed
}

// TargetPosition returns the frozen target for a moving vertex identifier.
func (m *CorrespondenceMetric) TargetPosition(i int) (md3.Vec, bool) {
	if !m.computed || i < 0 || i >= len(m.targets) {
		return md3.Vec{}, false
	}
	return m.targets[i], true
}

// Initialize validates the inputs, forces lazy meshes to materialize and
// computes the target position of each moving vertex. Calling it again
// reruns the correspondence build and overwrites the previous map; it is
// the only mutator of the map.
func (m *CorrespondenceMetric) Initialize() error {
	if m.transform == nil {
		return &MissingInputError{Input: "transform"}
	}
	if m.moving == nil {
		return &MissingInputError{Input: "moving mesh"}
	}
	if m.fixed == nil {
		return &MissingInputError{Input: "fixed mesh"}
	}

	// Deferred mesh sources must produce their vertices before any read.
	if err := m.moving.EnsureLoaded(); err != nil {
		return fmt.Errorf("loading moving mesh: %w", err)
	}
	if err := m.fixed.EnsureLoaded(); err != nil {
		return fmt.Errorf("loading fixed mesh: %w", err)
	}

	return m.computeTargetPositions()
}

// computeTargetPositions matches every moving vertex, in identifier order,
// to the closest fixed vertex under the current pre-alignment and records
// the fixed vertex's position (not its identifier) as the target.
func (m *CorrespondenceMetric) computeTargetPositions() error {
	idx := m.index
	if idx == nil {
		idx = &BruteForceIndex{}
	}
	if err := idx.Build(m.fixed.Vertices()); err != nil {
		return fmt.Errorf("building correspondence index: %w", err)
	}

	targets := make([]md3.Vec, m.moving.NumVertices())
	for i, v := range m.moving.Vertices() {
		mapped := m.transform.TransformPoint(v)
		nearest, _, err := idx.Nearest(mapped)
		if err != nil {
			return fmt.Errorf("matching vertex %d: %w", i, err)
		}
		targets[i] = nearest
	}

	m.targets = targets
	m.computed = true
	return nil
}

// ApplyParameters validates the parameter vector and activates it on the
// transform. Both evaluators call it so the transform mutation is explicit
// rather than buried inside a getter.
func (m *CorrespondenceMetric) ApplyParameters(params []float64) error {
	if want := 3 * m.moving.NumVertices(); len(params) != want {
		return &DimensionMismatchError{Got: len(params), Want: want}
	}
	return m.transform.SetParameters(params)
}

// Value evaluates the cost: the sum over all moving vertices of the squared
// Euclidean distance between the displaced vertex position (rest position
// plus the vertex's parameter triple) and its frozen target.
func (m *CorrespondenceMetric) Value(params []float64) (float64, error) {
	if err := m.checkEvaluate("Value"); err != nil {
		return 0, err
	}
	if err := m.ApplyParameters(params); err != nil {
		return 0, err
	}

	total := 0.0
	for i, rest := range m.moving.Vertices() {
		displacement := md3.Vec{X: params[3*i], Y: params[3*i+1], Z: params[3*i+2]}
		current := md3.Add(rest, displacement)
		total += squaredDistance(m.targets[i], current)
	}
	return total, nil
}

// Derivative evaluates the partial derivative of the cost with respect to
// every displacement component, laid out exactly like the parameter vector.
//
// The derivative is taken at the rest position: -2*(target - rest) per
// component, independent of the supplied displacement. The analytically
// consistent form would be 2*(rest + displacement - target); downstream
// results are validated against the rest-position form and changing it
// alters optimizer convergence, so keep this formula as is.
func (m *CorrespondenceMetric) Derivative(params []float64) ([]float64, error) {
	if err := m.checkEvaluate("Derivative"); err != nil {
		return nil, err
	}
	if err := m.ApplyParameters(params); err != nil {
		return nil, err
	}

	derivative := make([]float64, 3*m.moving.NumVertices())
	for i, rest := range m.moving.Vertices() {
		d := md3.Sub(m.targets[i], rest)
		derivative[3*i] = -2 * d.X
		derivative[3*i+1] = -2 * d.Y
		derivative[3*i+2] = -2 * d.Z
	}
	return derivative, nil
}

// ValueAndDerivative evaluates cost and derivative with the same
// parameters.
func (m *CorrespondenceMetric) ValueAndDerivative(params []float64) (float64, []float64, error) {
	value, err := m.Value(params)
	if err != nil {
		return 0, nil, err
	}
	derivative, err := m.Derivative(params)
	if err != nil {
		return 0, nil, err
	}
	return value, derivative, nil
}

func (m *CorrespondenceMetric) checkEvaluate(op string) error {
	if m.fixed == nil {
		return &MissingInputError{Input: "fixed mesh"}
	}
	if m.moving == nil {
		return &MissingInputError{Input: "moving mesh"}
	}
	if !m.computed {
		return &NotInitializedError{Op: op}
	}
	return nil
}
