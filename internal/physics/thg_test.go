package physics

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/okrogh/thglab/internal/dynamo"
)

func TestTHGDimensions(t *testing.T) {
	m := NewTHG()
	if m.StateDim() != 2 {
		t.Errorf("expected state dim 2, got %d", m.StateDim())
	}
}

func TestTHGSeedDerivative(t *testing.T) {
	// With no harmonic present the fundamental does not change and the
	// harmonic grows as (i/n3)·E1³·exp(-i·Δβ·z).
	tests := []struct {
		name      string
		e1        complex128
		n1, n3    float64
		deltaBeta float64
		z         float64
	}{
		{"entry", 10000 + 0i, 1.46, 1.47, 1e4, 0},
		{"mid", 10000 + 0i, 1.46, 1.47, 1e4, 1e-7},
		{"complex seed", 500 + 300i, 1.5, 1.6, 1e6, 5e-8},
		{"large mismatch", 10000 + 0i, 1.46, 1.47, 1e10, 1.3e-7},
	}

	for _, tt := range tests {
		m := &THG{N1: tt.n1, N3: tt.n3, DeltaBeta: tt.deltaBeta}
		dx := m.Derive(dynamo.State{tt.e1, 0}, tt.z)

		if cmplx.Abs(dx[0]) > 1e-12 {
			t.Errorf("%s: expected zero fundamental derivative, got %v", tt.name, dx[0])
		}

		want := 1i / complex(tt.n3, 0) * tt.e1 * tt.e1 * tt.e1 *
			cmplx.Exp(complex(0, -tt.deltaBeta*tt.z))
		if cmplx.Abs(dx[1]-want) > 1e-6*cmplx.Abs(want) {
			t.Errorf("%s: harmonic derivative mismatch: got %v, want %v", tt.name, dx[1], want)
		}
	}
}

func TestTHGInvariant(t *testing.T) {
	m := NewTHG()
	x := dynamo.State{3 + 4i, 1 - 2i}

	want := m.N1*25 + m.N3*5
	if math.Abs(m.Invariant(x)-want) > 1e-12 {
		t.Errorf("expected invariant %f, got %f", want, m.Invariant(x))
	}
}

func TestTHGLossDamping(t *testing.T) {
	m := NewTHG()
	m.Loss = 2.0

	dx := m.Derive(dynamo.State{100 + 0i, 0}, 0)

	// No harmonic: the fundamental derivative is pure attenuation -α/2·E1.
	want := complex(-m.Loss/2*100, 0)
	if cmplx.Abs(dx[0]-want) > 1e-9 {
		t.Errorf("expected damping %v, got %v", want, dx[0])
	}
}

func TestTHGSetParam(t *testing.T) {
	m := NewTHG()

	if err := m.SetParam("delta_beta", 1e7); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if m.DeltaBeta != 1e7 {
		t.Errorf("expected delta_beta 1e7, got %g", m.DeltaBeta)
	}

	if err := m.SetParam("n1", -1); err == nil {
		t.Error("expected error for non-positive index")
	}

	if err := m.SetParam("bogus", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}
