package sweep

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/okrogh/thglab/internal/dynamo"
	"github.com/okrogh/thglab/internal/metrics"
	"github.com/okrogh/thglab/internal/sim"
)

// Config describes a phase-mismatch sweep.
type Config struct {
	Points      int
	MinMismatch float64
	MaxMismatch float64
}

func DefaultConfig() Config {
	return Config{
		Points:      30,
		MinMismatch: 1e4,
		MaxMismatch: 1e10,
	}
}

// Values returns the log-spaced mismatch sequence for the sweep.
func (c Config) Values() []float64 {
	if c.Points == 1 {
		return []float64{c.MinMismatch}
	}
	return floats.LogSpan(make([]float64, c.Points), c.MinMismatch, c.MaxMismatch)
}

// Run is the outcome of one sweep value.
type Run struct {
	Index     int
	DeltaBeta float64
	Result    *dynamo.Result
	Err       error
}

// Driver executes independent propagation runs across the sweep values.
type Driver struct {
	newSystem     func(deltaBeta float64) dynamo.System
	newIntegrator func() dynamo.Integrator
	x0            dynamo.State
	simCfg        dynamo.Config
}

func NewDriver(
	newSystem func(deltaBeta float64) dynamo.System,
	newIntegrator func() dynamo.Integrator,
	x0 dynamo.State,
	simCfg dynamo.Config,
) *Driver {
	return &Driver{
		newSystem:     newSystem,
		newIntegrator: newIntegrator,
		x0:            x0,
		simCfg:        simCfg,
	}
}

// Run integrates every sweep value. With workers <= 1 the runs execute
// strictly in order and onRun fires after each one completes, before the
// next begins. With more workers the values run concurrently on separate
// simulators; onRun is serialized but completion order is not guaranteed.
func (d *Driver) Run(ctx context.Context, values []float64, workers int, onRun func(Run)) []Run {
	runs := make([]Run, len(values))

	if workers <= 1 {
		for i, v := range values {
			runs[i] = d.one(ctx, i, v)
			if onRun != nil {
				onRun(runs[i])
			}
			if ctx.Err() != nil {
				break
			}
		}
		return runs
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, v := range values {
		wg.Add(1)
		go func(idx int, deltaBeta float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			run := d.one(ctx, idx, deltaBeta)

			mu.Lock()
			runs[idx] = run
			if onRun != nil {
				onRun(run)
			}
			mu.Unlock()
		}(i, v)
	}

	wg.Wait()
	return runs
}

func (d *Driver) one(ctx context.Context, idx int, deltaBeta float64) Run {
	dyn := d.newSystem(deltaBeta)
	s := sim.New(dyn, d.newIntegrator())
	s.AddMetric(metrics.NewConservation(dyn))
	s.AddMetric(metrics.NewConversion())
	s.AddMetric(metrics.NewDepletion())

	result, err := s.Run(ctx, d.x0.Clone(), d.simCfg)
	return Run{Index: idx, DeltaBeta: deltaBeta, Result: result, Err: err}
}
