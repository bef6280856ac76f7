package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/okrogh/thglab/internal/dynamo"
)

// Simulator integrates one propagation run and samples it on an evenly
// spaced grid. Instances are not safe for concurrent use.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates from z=0 to cfg.Length, recording the state at
// cfg.Samples evenly spaced positions. The first sample is x0 itself.
// Numeric failures stop the run early; the partial trajectory is returned
// with the failure recorded in Result.Errors.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}

	result := &dynamo.Result{
		Z:       make([]float64, 0, cfg.Samples),
		States:  make([]dynamo.State, 0, cfg.Samples),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	interval := cfg.Length / float64(cfg.Samples-1)
	dz := cfg.Dz
	if dz <= 0 {
		dz = interval / 10
	}
	maxDz := cfg.MaxDz
	if maxDz <= 0 {
		maxDz = interval
	}
	minDz := cfg.MinDz
	if minDz <= 0 {
		minDz = cfg.Length * 1e-12
	}

	x := x0.Clone()
	z := 0.0

	s.sample(result, x, z)

	var initialInv float64
	conserved, hasInv := s.dyn.(dynamo.Conserved)
	if hasInv {
		initialInv = conserved.Invariant(x)
	}

	adaptive, isAdaptive := s.integrator.(dynamo.AdaptiveIntegrator)

	for i := 1; i < cfg.Samples; i++ {
		zTarget := cfg.Length * float64(i) / float64(cfg.Samples-1)

		for z < zTarget-minDz/2 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}

			step := math.Min(dz, zTarget-z)

			var newX dynamo.State
			if isAdaptive {
				var taken, next float64
				var stepErr error
				newX, taken, next, stepErr = adaptive.StepAdaptive(s.dyn, x, z, step, cfg.Tolerance)
				if stepErr != nil {
					result.Errors = append(result.Errors,
						&dynamo.PropagationError{Step: result.StepsTaken, Z: z, State: x, Wrapped: stepErr})
					return result, nil
				}
				dz = math.Max(minDz, math.Min(next, maxDz))
				step = taken
			} else {
				newX = s.integrator.Step(s.dyn, x, z, step)
			}

			if cfg.ValidateState && !newX.IsValid() {
				result.Errors = append(result.Errors,
					dynamo.StepError{Z: z, Step: result.StepsTaken, Message: "invalid state (NaN/Inf)"})
				return result, nil
			}

			x = newX
			z += step
			result.StepsTaken++
		}

		z = zTarget
		s.sample(result, x, z)

		if hasInv && initialInv != 0 {
			drift := math.Abs(conserved.Invariant(x)-initialInv) / math.Abs(initialInv)
			result.InvariantDrift = math.Max(result.InvariantDrift, drift)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) sample(result *dynamo.Result, x dynamo.State, z float64) {
	result.Z = append(result.Z, z)
	result.States = append(result.States, x.Clone())

	for _, m := range s.metrics {
		m.Observe(x, z)
	}
	for _, obs := range s.observers {
		obs.OnSample(x, z)
	}
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if cfg.Length <= 0 {
		return fmt.Errorf("length must be positive, got %g", cfg.Length)
	}
	if cfg.Samples < 2 {
		return fmt.Errorf("at least 2 samples required, got %d", cfg.Samples)
	}
	if cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", cfg.Tolerance)
	}
	return nil
}
