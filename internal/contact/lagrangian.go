package contact

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/model"
)

// ForwardDynamicsLagrangian computes constrained joint accelerations by
// assembling and solving the full KKT system
//
//	[ H  G^T ] [ qddot ]   [ tau - C ]
//	[ G   0  ] [ lambda] = [ -gamma  ]
//
// with H the mass matrix, C the bias forces and G the constraint Jacobian.
// Accelerations are written to qddot; constraint forces to cs.Force. Cost is
// cubic in dof+nc.
func ForwardDynamicsLagrangian(m *model.Model, q, qdot, tau []float64, cs *ConstraintSet, qddot []float64) {
	cs.mustBind(m)
	if len(qddot) != cs.dof {
		panic("contact: qddot length does not match model dof")
	}
	nc := cs.Size()
	dof := cs.dof

	// bias forces at zero joint acceleration
	zeroFloats(cs.qddot0)
	m.InverseDynamics(q, qdot, cs.qddot0, cs.C, nil)

	m.CompositeInertiaMatrix(q, cs.H)

	cs.computeJacobian(m)

	// constraint bias: axis component of the zero-acceleration point
	// acceleration, shifted by the prescribed target
	m.UpdateKinematics(q, qdot, cs.qddot0)
	prevBody := 0
	prevPoint := r3.Vec{}
	var accel r3.Vec
	for i := 0; i < nc; i++ {
		axis := axisIndex(cs.Normal[i])
		if cs.Body[i] != prevBody || cs.Point[i] != prevPoint {
			accel = m.PointAcceleration(cs.Body[i], cs.Point[i])
			prevBody, prevPoint = cs.Body[i], cs.Point[i]
		}
		cs.Gamma[i] = axisComponent(accel, axis) - cs.TargetAccel[i]
	}

	cs.assembleKKT()
	for i := 0; i < dof; i++ {
		cs.kktB.SetVec(i, tau[i]-cs.C[i])
	}
	for i := 0; i < nc; i++ {
		cs.kktB.SetVec(dof+i, -cs.Gamma[i])
	}

	solveLinear(cs.Solver, cs.kktA, cs.kktB, cs.kktX)

	for i := 0; i < dof; i++ {
		qddot[i] = cs.kktX.AtVec(i)
	}
	for i := 0; i < nc; i++ {
		cs.Force[i] = cs.kktX.AtVec(dof + i)
	}
}

// computeJacobian fills G row by row: row i is the axis-selected row of the
// point Jacobian of constraint i. Consecutive constraints sharing the same
// (body, point) reuse the previous Jacobian, since only the axis differs.
// Relies on body transforms cached by the preceding dynamics pass.
func (cs *ConstraintSet) computeJacobian(m *model.Model) {
	prevBody := 0
	prevPoint := r3.Vec{}
	for i := 0; i < cs.Size(); i++ {
		axis := axisIndex(cs.Normal[i])
		if cs.Body[i] != prevBody || cs.Point[i] != prevPoint {
			m.PointJacobian(cs.Body[i], cs.Point[i], cs.gi)
			prevBody, prevPoint = cs.Body[i], cs.Point[i]
		}
		for j := 0; j < cs.dof; j++ {
			cs.G.Set(i, j, cs.gi.At(axis, j))
		}
	}
}

// assembleKKT writes the symmetric block matrix [[H, G^T], [G, 0]].
func (cs *ConstraintSet) assembleKKT() {
	dof := cs.dof
	cs.kktA.Zero()
	for i := 0; i < dof; i++ {
		for j := 0; j < dof; j++ {
			cs.kktA.Set(i, j, cs.H.At(i, j))
		}
	}
	for i := 0; i < cs.Size(); i++ {
		for j := 0; j < dof; j++ {
			g := cs.G.At(i, j)
			cs.kktA.Set(dof+i, j, g)
			cs.kktA.Set(j, dof+i, g)
		}
	}
}
