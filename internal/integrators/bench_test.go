package integrators

import (
	"testing"

	"github.com/okrogh/thglab/internal/dynamo"
)

type benchSystem struct{}

func (b *benchSystem) StateDim() int { return 2 }
func (b *benchSystem) Derive(x dynamo.State, z float64) dynamo.State {
	return dynamo.State{1i * x[1], -1i * x[0]}
}

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := &benchSystem{}
	x := dynamo.State{1 + 0i, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := &benchSystem{}
	x := dynamo.State{1 + 0i, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK23(b *testing.B) {
	integrator := NewRK23()
	dyn := &benchSystem{}
	x := dynamo.State{1 + 0i, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}
