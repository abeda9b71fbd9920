package contact

import "github.com/hmartens/treedyn/internal/model"

// ComputeImpulses resolves an instantaneous velocity discontinuity: given
// pre-impact joint velocities qdotMinus, it computes post-impact velocities
// and per-constraint impulses such that every constrained point reaches the
// velocity stored in the set's target slot (commonly zero) along its normal.
//
// The KKT assembly matches ForwardDynamicsLagrangian, with the generalized
// momentum H*qdotMinus on the right-hand side in place of the force terms.
// Post-impact velocities are written to qdotPlus; impulses to cs.Force.
func ComputeImpulses(m *model.Model, q, qdotMinus []float64, cs *ConstraintSet, qdotPlus []float64) {
	cs.mustBind(m)
	if len(qdotPlus) != cs.dof {
		panic("contact: qdotPlus length does not match model dof")
	}
	nc := cs.Size()
	dof := cs.dof

	zeroFloats(cs.qddot0)
	m.UpdateKinematics(q, cs.qddot0, cs.qddot0)
	m.CompositeInertiaMatrix(q, cs.H)

	cs.computeJacobian(m)

	cs.assembleKKT()
	// momentum conservation: H qdot^- carries over through the impact
	for i := 0; i < dof; i++ {
		var hqd float64
		for j := 0; j < dof; j++ {
			hqd += cs.H.At(i, j) * qdotMinus[j]
		}
		cs.kktB.SetVec(i, hqd)
	}
	for i := 0; i < nc; i++ {
		cs.kktB.SetVec(dof+i, cs.TargetAccel[i])
	}

	solveLinear(cs.Solver, cs.kktA, cs.kktB, cs.kktX)

	for i := 0; i < dof; i++ {
		qdotPlus[i] = cs.kktX.AtVec(i)
	}
	for i := 0; i < nc; i++ {
		cs.Force[i] = cs.kktX.AtVec(dof + i)
	}
}
