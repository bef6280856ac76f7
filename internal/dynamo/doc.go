// Package dynamo provides core primitives for coupled-wave propagation.
//
// The package defines the fundamental interfaces and types for numerical
// integration of envelope ODEs along a propagation axis (dX/dz = f(X, z)):
//
//   - [State]: vector of complex field envelopes
//   - [System]: interface for propagation ODE systems
//   - [Integrator]: numerical stepper interface
//   - [Conserved]: systems exposing an invariant quantity
//
// # Example
//
//	dyn := physics.NewTHG()
//	integ := integrators.NewRK23()
//	s := sim.New(dyn, integ)
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Sweep values are independent;
// the sweep package runs them on separate simulators when parallelism is
// requested.
package dynamo
