package dynamo

import (
	"fmt"
	"math"
	"math/cmplx"
)

// State is a vector of complex field envelopes at a propagation position.
type State []complex128

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		re, im := real(v), imag(v)
		sum += re*re + im*im
	}
	return math.Sqrt(sum)
}

// Intensity returns |s[i]|^2.
func (s State) Intensity(i int) float64 {
	re, im := real(s[i]), imag(s[i])
	return re*re + im*im
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * complex(factor, 0)
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System describes a propagation ODE dX/dz = f(X, z).
type System interface {
	Derive(x State, z float64) State
	StateDim() int
}

// Conserved is implemented by systems with a known invariant quantity.
type Conserved interface {
	Invariant(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, z float64, dz float64) State
}

// AdaptiveIntegrator steppers control their own step size. StepAdaptive
// may retry a rejected step with a smaller size, so it returns the step
// actually taken alongside the suggested size for the next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, z, dz, tol float64) (newX State, taken, next float64, err error)
}

type Metric interface {
	Name() string
	Observe(x State, z float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(x State, z float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Length        float64 // propagation distance [m]
	Samples       int     // evenly spaced output positions, including z=0
	Dz            float64 // initial step size; 0 means Length/(10*Samples)
	Tolerance     float64
	MaxDz         float64
	MinDz         float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Length:        2e-7,
		Samples:       100,
		Tolerance:     1e-6,
		ValidateState: true,
	}
}

// Result holds one sampled solution trajectory.
type Result struct {
	Z              []float64
	States         []State
	Metrics        map[string]float64
	InvariantDrift float64
	StepsTaken     int
	Errors         []error
}

type StepError struct {
	Z       float64
	Step    int
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (z=%.4e): %s", e.Step, e.Z, e.Message)
}
