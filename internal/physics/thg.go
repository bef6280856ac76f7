package physics

import (
	"fmt"
	"math/cmplx"

	"github.com/okrogh/thglab/internal/dynamo"
)

// THG implements the coupled-mode equations for third-harmonic generation.
// State layout: x[0] = E1 (fundamental envelope), x[1] = E3 (third harmonic).
//
//	dE1/dz = (i/n1)·conj(E1)²·E3·exp(+i·Δβ·z) − (α/2)·E1
//	dE3/dz = (i/n3)·E1³·exp(−i·Δβ·z) − (α/2)·E3
//
// With α=0 the equations conserve n1·|E1|² + n3·|E3|².
type THG struct {
	N1        float64 // refractive index at the fundamental
	N3        float64 // refractive index at the third harmonic
	DeltaBeta float64 // phase mismatch [1/m]
	Loss      float64 // field attenuation α [1/m], 0 for a lossless medium
}

func NewTHG() *THG {
	return &THG{
		N1:        1.46,
		N3:        1.47,
		DeltaBeta: 1e4,
		Loss:      0,
	}
}

func (m *THG) StateDim() int {
	return 2
}

func (m *THG) Derive(x dynamo.State, z float64) dynamo.State {
	e1 := x[0]
	e3 := x[1]

	phase := cmplx.Exp(complex(0, m.DeltaBeta*z))
	c1 := cmplx.Conj(e1)

	d1 := 1i / complex(m.N1, 0) * c1 * c1 * e3 * phase
	d3 := 1i / complex(m.N3, 0) * e1 * e1 * e1 * cmplx.Conj(phase)

	if m.Loss != 0 {
		damp := complex(m.Loss/2, 0)
		d1 -= damp * e1
		d3 -= damp * e3
	}

	return dynamo.State{d1, d3}
}

// Invariant returns n1·|E1|² + n3·|E3|², conserved when Loss is zero.
func (m *THG) Invariant(x dynamo.State) float64 {
	return m.N1*x.Intensity(0) + m.N3*x.Intensity(1)
}

func (m *THG) GetParams() map[string]float64 {
	return map[string]float64{
		"n1":         m.N1,
		"n3":         m.N3,
		"delta_beta": m.DeltaBeta,
		"loss":       m.Loss,
	}
}

func (m *THG) SetParam(name string, value float64) error {
	switch name {
	case "n1":
		if value <= 0 {
			return dynamo.ErrParameterBounds
		}
		m.N1 = value
	case "n3":
		if value <= 0 {
			return dynamo.ErrParameterBounds
		}
		m.N3 = value
	case "delta_beta":
		m.DeltaBeta = value
	case "loss":
		if value < 0 {
			return dynamo.ErrParameterBounds
		}
		m.Loss = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
