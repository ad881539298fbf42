package mesh

import "fmt"

// MissingInputError reports a registration input (transform, fixed mesh or
// moving mesh) that was never assigned. It is fatal to the current
// operation and never retried.
type MissingInputError struct {
	Input string
}

func (e *MissingInputError) Error() string {
	return e.Input + " is not present"
}

// NotInitializedError reports a cost or derivative evaluation requested
// before Initialize has built the correspondence map. Failing fast here
// beats silently evaluating against an empty map.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return e.Op + " called before Initialize"
}

// DimensionMismatchError reports a parameter vector whose length does not
// match 3x the moving mesh vertex count.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("parameter vector length %d, want %d", e.Got, e.Want)
}
