// Package model implements an articulated rigid-body mechanism as a
// parent-indexed kinematic tree, together with the recursive dynamics
// primitives the constrained solvers build on:
//
//   - [Model.UpdateKinematics]: positions, velocities, accelerations per body
//   - [Model.InverseDynamics]: recursive Newton-Euler (generalized forces)
//   - [Model.CompositeInertiaMatrix]: composite-rigid-body mass matrix
//   - [Model.ForwardDynamics]: articulated-body forward dynamics
//   - [Model.PointJacobian], [Model.PointAcceleration]: point-level queries
//
// Bodies are stored in a flat slice addressed by index; body 0 is the fixed
// root, and Lambda[i] < i gives each body's parent, so outward recursions are
// descending index loops and inward recursions ascending ones. Every dynamics
// pass caches per-body state (transforms, velocities, articulated inertias,
// coupling terms) on the model as a side effect; a Model therefore must not
// be shared across concurrently executing passes.
package model
