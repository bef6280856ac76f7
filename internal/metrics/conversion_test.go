package metrics

import (
	"math"
	"testing"

	"github.com/okrogh/thglab/internal/dynamo"
	"github.com/okrogh/thglab/internal/physics"
)

func TestConversionPeak(t *testing.T) {
	m := NewConversion()

	m.Observe(dynamo.State{10 + 0i, 0}, 0)
	m.Observe(dynamo.State{8 + 0i, 3 + 4i}, 0.5)
	m.Observe(dynamo.State{9 + 0i, 1 + 0i}, 1.0)

	want := 25.0 / 100.0
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected peak conversion %f, got %f", want, m.Value())
	}
}

func TestConversionReset(t *testing.T) {
	m := NewConversion()

	m.Observe(dynamo.State{10 + 0i, 5 + 0i}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero conversion")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero conversion after reset")
	}
}

func TestDepletion(t *testing.T) {
	m := NewDepletion()

	m.Observe(dynamo.State{10 + 0i, 0}, 0)
	m.Observe(dynamo.State{5 + 0i, 0}, 0.5)
	m.Observe(dynamo.State{7 + 0i, 0}, 1.0)

	want := 25.0 / 100.0
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected min fundamental %f, got %f", want, m.Value())
	}
}

func TestConservationTracksInvariant(t *testing.T) {
	dyn := physics.NewTHG()
	m := NewConservation(dyn)

	x := dynamo.State{10 + 0i, 0}
	m.Observe(x, 0)
	m.Observe(x, 1e-7)

	if m.Value() != 0 {
		t.Errorf("expected zero drift for identical states, got %e", m.Value())
	}

	// Drop the fundamental without a compensating harmonic: drift appears.
	m.Observe(dynamo.State{5 + 0i, 0}, 2e-7)
	if m.Value() < 0.5 {
		t.Errorf("expected large drift, got %e", m.Value())
	}
}
