// Package physics provides the nonlinear coupled-wave models.
//
// Each model implements the [dynamo.System] interface, defining the
// envelope equations governing the fields along the propagation axis:
//
//   - [THG]: third-harmonic generation, fundamental + harmonic pair
//
// Models also implement [dynamo.Configurable] for runtime parameter
// adjustment and [dynamo.Conserved] where an invariant exists.
package physics
