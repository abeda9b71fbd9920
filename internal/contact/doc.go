// Package contact computes constrained forward dynamics for articulated
// rigid-body mechanisms under acceleration-level point constraints, and
// resolves impacts into constraint impulses.
//
// A [ConstraintSet] collects point constraints (body, body-local point,
// axis-aligned world normal, target relative acceleration) and, once bound to
// a model, owns all solver scratch storage so repeated per-step solves do not
// allocate. Two solver families consume it:
//
//   - [ForwardDynamicsLagrangian] assembles and solves the full
//     mass-matrix/Jacobian KKT system, O((dof+nc)^3).
//   - [ForwardDynamics] never forms the mass matrix: it builds the nc x nc
//     contact-space inertia by propagating unit test forces through the tree,
//     reusing the articulated-body quantities of the unconstrained pass,
//     O(dof*nc + nc^3).
//
// Both produce the same accelerations and constraint forces up to numerical
// tolerance. [ComputeImpulses] is the velocity-level sibling for collision
// response, and [ForwardDynamicsDirect] a brute-force reference retained as a
// cross-validation oracle.
//
// Precondition violations (constraints appended after binding, non-axis
// normals, dimension mismatches) are programmer errors and panic.
package contact
