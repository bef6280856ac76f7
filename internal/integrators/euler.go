package integrators

import "github.com/okrogh/thglab/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, z float64, dz float64) dynamo.State {
	return x.Add(dyn.Derive(x, z).Scale(dz))
}
