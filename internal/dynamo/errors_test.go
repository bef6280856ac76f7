package dynamo

import (
	"errors"
	"strings"
	"testing"
)

func TestStepErrorMessage(t *testing.T) {
	var err error = StepError{Z: 1.5e-7, Step: 42, Message: "invalid state (NaN/Inf)"}

	msg := err.Error()
	for _, want := range []string{"42", "1.5000e-07", "invalid state"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestPropagationErrorMessage(t *testing.T) {
	var err error = &PropagationError{
		Step:    7,
		Z:       2.0e-8,
		Wrapped: ErrStepTooSmall,
	}

	msg := err.Error()
	for _, want := range []string{"7", "2.0000e-08", ErrStepTooSmall.Error()} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestPropagationErrorUnwrap(t *testing.T) {
	err := &PropagationError{Step: 1, Z: 0, Wrapped: ErrStepTooSmall}

	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("expected errors.Is to reach the wrapped sentinel")
	}

	var pe *PropagationError
	if !errors.As(error(err), &pe) {
		t.Error("expected errors.As to recover the wrapper")
	}
}
