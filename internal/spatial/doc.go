// Package spatial provides the 6-D spatial algebra used by the articulated
// dynamics algorithms.
//
// A spatial vector stacks an angular and a linear 3-vector; motion vectors
// (velocities, accelerations, joint axes) and force vectors (forces, momenta)
// share the representation but transform differently:
//
//   - [Transform.Apply] maps motion vectors between coordinate frames
//   - [Transform.ApplyTranspose] maps force vectors from a frame to its parent
//   - [Transform.ApplyAdjoint] maps force vectors in the same direction as
//     Apply maps motion vectors
//
// Transforms are kept in compact {E, r} Plücker form (rotation plus
// translation) and expanded to full 6x6 matrices only where articulated
// inertias are propagated.
package spatial
