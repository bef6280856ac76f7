package metrics

import (
	"math"

	"github.com/okrogh/thglab/internal/dynamo"
)

// Conservation tracks the maximum relative drift of the system invariant
// across the sampled trajectory. Zero for systems without an invariant.
type Conservation struct {
	name     string
	dyn      dynamo.System
	initial  float64
	maxDrift float64
	samples  int
}

func NewConservation(dyn dynamo.System) *Conservation {
	return &Conservation{
		name: "invariant_drift",
		dyn:  dyn,
	}
}

func (c *Conservation) Name() string { return c.name }

func (c *Conservation) Observe(x dynamo.State, z float64) {
	conserved, ok := c.dyn.(dynamo.Conserved)
	if !ok {
		return
	}

	inv := conserved.Invariant(x)

	if c.samples == 0 {
		c.initial = inv
	}
	c.samples++

	if c.initial != 0 {
		drift := math.Abs(inv-c.initial) / math.Abs(c.initial)
		c.maxDrift = math.Max(c.maxDrift, drift)
	}
}

func (c *Conservation) Value() float64 {
	return c.maxDrift
}

func (c *Conservation) Reset() {
	c.initial = 0
	c.maxDrift = 0
	c.samples = 0
}
