package mesh

import (
	"fmt"
	"log"

	"github.com/soypat/geometry/md3"
)

// RegistrationResult contains the outcome of a registration run.
type RegistrationResult struct {
	Displaced   *Mesh     // Moving mesh with the final displacement field applied
	Parameters  []float64 // Final per-vertex displacement parameters
	Targets     []md3.Vec // Target position per moving vertex identifier
	InitialCost float64   // Cost at zero displacement
	FinalCost   float64   // Cost at Parameters
	Iterations  int       // Optimizer iterations performed
	Converged   bool      // Whether the optimizer converged
}

// RegisterMeshes deforms the moving mesh toward the fixed mesh. It matches
// every moving vertex to its nearest fixed vertex once, under the
// configured pre-alignment, then minimizes the summed squared distance to
// those targets over the per-vertex displacement field.
func RegisterMeshes(fixed, moving *Mesh, config Config) (*RegistrationResult, error) {
	if fixed == nil {
		return nil, &MissingInputError{Input: "fixed mesh"}
	}
	if moving == nil {
		return nil, &MissingInputError{Input: "moving mesh"}
	}

	// The displacement field is sized off the moving mesh, so a lazy mesh
	// must materialize before the transform exists. Initialize forces the
	// fixed mesh later.
	if err := moving.EnsureLoaded(); err != nil {
		return nil, fmt.Errorf("loading moving mesh: %w", err)
	}

	transform := NewDisplacementTransform(moving.NumVertices())
	transform.SetPreAlignment(config.Alignment.Matrix())

	metric := NewCorrespondenceMetric(fixed, moving, transform)
	if err := metric.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing metric: %w", err)
	}

	initial := make([]float64, 3*moving.NumVertices())
	initialCost, err := metric.Value(initial)
	if err != nil {
		return nil, err
	}

	descent := GradientDescentConfig{
		StepSize:          config.Registration.StepSize,
		MaxIterations:     config.Registration.MaxIterations,
		ConvergenceThresh: config.Registration.ConvergenceThresh,
	}
	result, err := MinimizeGradientDescent(metric, initial, descent)
	if err != nil {
		return nil, err
	}

	if err := transform.SetParameters(result.Parameters); err != nil {
		return nil, err
	}

	log.Printf("RegisterMeshes: %s -> %s cost %.4f -> %.4f in %d iterations (converged=%v)",
		moving.Name, fixed.Name, initialCost, result.Cost, result.Iterations, result.Converged)

	targets := make([]md3.Vec, moving.NumVertices())
	for i := range targets {
		targets[i], _ = metric.TargetPosition(i)
	}

	return &RegistrationResult{
		Displaced:   transform.Apply(moving),
		Parameters:  result.Parameters,
		Targets:     targets,
		InitialCost: initialCost,
		FinalCost:   result.Cost,
		Iterations:  result.Iterations,
		Converged:   result.Converged,
	}, nil
}
