package metrics

import (
	"math"

	"github.com/okrogh/thglab/internal/dynamo"
)

// Conversion tracks the peak harmonic intensity normalized by the input
// fundamental intensity, max |E3(z)|² / |E1(0)|².
type Conversion struct {
	name    string
	i0      float64
	peak    float64
	samples int
}

func NewConversion() *Conversion {
	return &Conversion{name: "peak_conversion"}
}

func (c *Conversion) Name() string { return c.name }

func (c *Conversion) Observe(x dynamo.State, z float64) {
	if len(x) < 2 {
		return
	}
	if c.samples == 0 {
		c.i0 = x.Intensity(0)
	}
	c.samples++

	if c.i0 > 0 {
		c.peak = math.Max(c.peak, x.Intensity(1)/c.i0)
	}
}

func (c *Conversion) Value() float64 {
	return c.peak
}

func (c *Conversion) Reset() {
	c.i0 = 0
	c.peak = 0
	c.samples = 0
}

// Depletion tracks the minimum normalized fundamental intensity,
// min |E1(z)|² / |E1(0)|².
type Depletion struct {
	name    string
	i0      float64
	min     float64
	samples int
}

func NewDepletion() *Depletion {
	return &Depletion{name: "min_fundamental", min: 1}
}

func (d *Depletion) Name() string { return d.name }

func (d *Depletion) Observe(x dynamo.State, z float64) {
	if len(x) < 1 {
		return
	}
	if d.samples == 0 {
		d.i0 = x.Intensity(0)
	}
	d.samples++

	if d.i0 > 0 {
		d.min = math.Min(d.min, x.Intensity(0)/d.i0)
	}
}

func (d *Depletion) Value() float64 {
	return d.min
}

func (d *Depletion) Reset() {
	d.i0 = 0
	d.min = 1
	d.samples = 0
}
