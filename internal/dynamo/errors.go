package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for propagation runs.
var (
	// ErrInvalidState indicates a state vector with invalid values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the integration became numerically unstable.
	ErrUnstable = errors.New("dynamo: propagation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrStepTooSmall indicates the adaptive step fell below its floor.
	ErrStepTooSmall = errors.New("dynamo: adaptive step below minimum")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// PropagationError wraps an error with run context.
type PropagationError struct {
	Step    int
	Z       float64
	State   State
	Wrapped error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("step %d (z=%.4e): %v", e.Step, e.Z, e.Wrapped)
}

func (e *PropagationError) Unwrap() error {
	return e.Wrapped
}
