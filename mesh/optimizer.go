package mesh

import "fmt"

// Objective is the cost surface the optimizer walks: a scalar value and its
// gradient with respect to every parameter.
type Objective interface {
	ValueAndDerivative(params []float64) (float64, []float64, error)
}

// GradientDescentConfig holds configuration for the descent loop.
type GradientDescentConfig struct {
	StepSize          float64 // Fixed step length along the negative gradient
	MaxIterations     int     // Maximum number of iterations
	ConvergenceThresh float64 // Stop when cost improvement is below this
}

// DefaultGradientDescentConfig returns sensible defaults for meshes in
// millimeter units.
func DefaultGradientDescentConfig() GradientDescentConfig {
	return GradientDescentConfig{
		StepSize:          0.1,
		MaxIterations:     100,
		ConvergenceThresh: 1e-6,
	}
}

// GradientDescentResult contains the outcome of a descent run.
type GradientDescentResult struct {
	Parameters []float64 // Best parameters seen
	Cost       float64   // Cost at Parameters
	Iterations int       // Number of iterations performed
	Converged  bool      // Whether the improvement threshold was reached
}

// MinimizeGradientDescent runs fixed-step steepest descent from the initial
// parameter vector. A step that increases the cost is refused and ends the
// run, keeping the best parameters seen so far. No line search is
// performed.
func MinimizeGradientDescent(obj Objective, initial []float64, config GradientDescentConfig) (GradientDescentResult, error) {
	params := append([]float64(nil), initial...)

	cost, gradient, err := obj.ValueAndDerivative(params)
	if err != nil {
		return GradientDescentResult{}, fmt.Errorf("evaluating initial cost: %w", err)
	}

	result := GradientDescentResult{
		Parameters: append([]float64(nil), params...),
		Cost:       cost,
	}

	for iter := 0; iter < config.MaxIterations; iter++ {
		result.Iterations = iter + 1

		candidate := make([]float64, len(params))
		for i := range params {
			candidate[i] = params[i] - config.StepSize*gradient[i]
		}

		newCost, newGradient, err := obj.ValueAndDerivative(candidate)
		if err != nil {
			return result, fmt.Errorf("iteration %d: %w", iter+1, err)
		}

		if newCost > cost {
			// Overshot the minimum; keep the best point.
			break
		}

		improvement := cost - newCost
		params = candidate
		cost = newCost
		gradient = newGradient
		result.Parameters = append(result.Parameters[:0], params...)
		result.Cost = cost

		if improvement < config.ConvergenceThresh {
			result.Converged = true
			break
		}
	}

	return result, nil
}
