package dynamo

import (
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1 + 2i, 3 - 4i}
	c := s.Clone()

	c[0] = 99
	if s[0] != 1+2i {
		t.Error("mutating the clone changed the original")
	}
}

func TestStateIsValid(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name  string
		s     State
		valid bool
	}{
		{"finite", State{1 + 2i, 0}, true},
		{"empty", State{}, true},
		{"nan real", State{complex(nan, 0)}, false},
		{"nan imag", State{complex(0, nan)}, false},
		{"inf", State{complex(inf, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestStateNorm(t *testing.T) {
	s := State{3 + 4i}
	if math.Abs(s.Norm()-5) > 1e-12 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}

	s2 := State{1 + 0i, 0 + 2i, 2 + 0i}
	if math.Abs(s2.Norm()-3) > 1e-12 {
		t.Errorf("expected norm 3, got %f", s2.Norm())
	}
}

func TestStateIntensity(t *testing.T) {
	s := State{3 + 4i, 1 - 1i}
	if math.Abs(s.Intensity(0)-25) > 1e-12 {
		t.Errorf("expected intensity 25, got %f", s.Intensity(0))
	}
	if math.Abs(s.Intensity(1)-2) > 1e-12 {
		t.Errorf("expected intensity 2, got %f", s.Intensity(1))
	}
}

func TestStateArithmetic(t *testing.T) {
	a := State{1 + 1i, 2 + 0i}
	b := State{2 - 1i, 1 + 3i}

	sum := a.Add(b)
	if sum[0] != 3+0i || sum[1] != 3+3i {
		t.Errorf("unexpected sum %v", sum)
	}

	diff := a.Sub(b)
	if diff[0] != -1+2i || diff[1] != 1-3i {
		t.Errorf("unexpected difference %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2+2i || scaled[1] != 4+0i {
		t.Errorf("unexpected scaled state %v", scaled)
	}

	// a is untouched by any of it.
	if a[0] != 1+1i || a[1] != 2+0i {
		t.Errorf("operand mutated: %v", a)
	}
}

func TestStateSubNormDistance(t *testing.T) {
	a := State{3 + 0i}
	b := State{0 + 4i}

	if d := a.Sub(b).Norm(); math.Abs(d-5) > 1e-12 {
		t.Errorf("expected distance 5, got %f", d)
	}
}
