package contact

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/model"
	"github.com/hmartens/treedyn/internal/spatial"
)

// ForwardDynamics computes constrained joint accelerations without ever
// forming the mass matrix. It solves the unconstrained system once, measures
// the effect of a unit test force at each constrained point by propagating it
// through the tree, solves the resulting nc x nc contact-space system for the
// constraint forces, and applies them in a single corrective sweep. Cost is
// O(dof*nc + nc^3) against the Lagrangian solver's O((dof+nc)^3); the two
// agree up to numerical tolerance.
//
// Accelerations are written to qddot; constraint forces to cs.Force.
func ForwardDynamics(m *model.Model, q, qdot, tau []float64, cs *ConstraintSet, qddot []float64) {
	cs.mustBind(m)
	if len(qddot) != cs.dof {
		panic("contact: qddot length does not match model dof")
	}
	nc := cs.Size()

	// unconstrained baseline; articulated quantities stay cached on the
	// model for the propagation passes below
	m.ForwardDynamics(q, qdot, tau, cs.qddot0, nil)
	m.UpdateAccelerations(cs.qddot0)

	for ci := 0; ci < nc; ci++ {
		cs.pointAccel0[ci] = m.PointAcceleration(cs.Body[ci], cs.Point[ci])
		nDotA := r3.Dot(cs.Normal[ci], cs.pointAccel0[ci])
		cs.kRHS.SetVec(ci, cs.TargetAccel[ci]-nDotA)
	}

	// the accumulator may hold forces from a previous step
	zeroSpatial(cs.fExt)

	for ci := 0; ci < nc; ci++ {
		body := cs.Body[ci]
		normal := cs.Normal[ci]

		// unit spatial force opposing the normal, acting at the
		// constrained point, expressed about the base origin
		pointBase := m.BodyToBase(body, cs.Point[ci])
		cs.fT[ci] = spatial.NewVector(
			r3.Scale(-1, r3.Cross(pointBase, normal)),
			r3.Scale(-1, normal),
		)
		cs.fExt[body] = cs.fT[ci]

		accelerationDeltas(m, cs, cs.qddotT, body)
		cs.fExt[body] = spatial.Vector{}

		for k := range cs.qddotT {
			cs.qddotT[k] += cs.qddot0[k]
		}
		m.UpdateAccelerations(cs.qddotT)

		for cj := 0; cj < nc; cj++ {
			accelT := m.PointAcceleration(cs.Body[cj], cs.Point[cj])
			cs.K.Set(ci, cj, r3.Dot(cs.Normal[cj], r3.Sub(accelT, cs.pointAccel0[cj])))
		}
	}

	if nc > 0 {
		solveLinear(cs.Solver, cs.K, cs.kRHS, cs.kSol)
	}

	for ci := 0; ci < nc; ci++ {
		cs.Force[ci] = cs.kSol.AtVec(ci)
		body := cs.Body[ci]
		cs.fExt[body] = cs.fExt[body].Add(cs.fT[ci].Scale(cs.Force[ci]))
	}

	applyConstraintForces(m, cs, qddot)
}

// accelerationDeltas computes the change in joint accelerations caused by the
// test force currently stored in cs.fExt at body, reusing the articulated
// inertias, coupling vectors and joint-space inertias cached by the last
// unconstrained forward-dynamics pass.
//
// The outward pass touches only indices up to the loaded body (parent indices
// are always smaller, so the accumulation reaches the root through the
// ancestor chain alone); the inward pass must visit every body, because the
// test force changes every joint acceleration. This asymmetry is what makes
// the propagation linear in the tree size.
func accelerationDeltas(m *model.Model, cs *ConstraintSet, qddotT []float64, body int) {
	for i := range cs.dPA {
		cs.dPA[i] = spatial.Vector{}
		cs.dA[i] = spatial.Vector{}
		cs.dU[i] = 0
	}

	for i := body; i > 0; i-- {
		if i == body {
			cs.dPA[i] = m.XBase[i].ApplyAdjoint(cs.fExt[i]).Scale(-1)
		}
		cs.dU[i] = -m.S[i].Dot(cs.dPA[i])
		if lambda := m.Lambda[i]; lambda != 0 {
			pa := cs.dPA[i].Add(m.U[i].Scale(cs.dU[i] / m.D[i]))
			cs.dPA[lambda] = cs.dPA[lambda].Add(m.XLambda[i].ApplyTranspose(pa))
		}
	}

	cs.dA[0] = spatial.Vector{}
	for i := 1; i < m.NumBodies(); i++ {
		lambda := m.Lambda[i]
		xa := m.XLambda[i].Apply(cs.dA[lambda])
		qddotT[i-1] = (cs.dU[i] - m.U[i].Dot(xa)) / m.D[i]
		cs.dA[i] = xa.Add(m.S[i].Scale(qddotT[i-1]))
	}
}

// applyConstraintForces substitutes the accumulated per-body constraint
// forces into the articulated-body recursion and reads off the final joint
// accelerations. It is a force-substitution sweep, not a re-solve: velocities,
// transforms, coupling vectors and joint-space inertias all come from the
// unconstrained pass.
func applyConstraintForces(m *model.Model, cs *ConstraintSet, qddot []float64) {
	n := m.NumBodies()

	for i := 1; i < n; i++ {
		inertia := m.Bodies[i].SpatialInertia
		cs.dPA[i] = spatial.CrossForce(m.V[i], inertia.MulVec(m.V[i]))
		cs.dIA[i] = inertia
		if !cs.fExt[i].IsZero() {
			cs.dPA[i] = cs.dPA[i].Sub(m.XBase[i].ApplyAdjoint(cs.fExt[i]))
		}
	}

	for i := n - 1; i > 0; i-- {
		cs.dUVec[i] = cs.dIA[i].MulVec(m.S[i])
		cs.dD[i] = m.S[i].Dot(m.U[i])
		cs.dU[i] = m.Tau[i] - m.S[i].Dot(cs.dPA[i])

		if lambda := m.Lambda[i]; lambda != 0 {
			ia := cs.dIA[i].Sub(spatial.Outer(cs.dUVec[i], cs.dUVec[i]).Scale(1 / cs.dD[i]))
			pa := cs.dPA[i].Add(ia.MulVec(m.Avp[i])).Add(cs.dUVec[i].Scale(cs.dU[i] / cs.dD[i]))
			xl := m.XLambda[i]
			cs.dIA[lambda] = cs.dIA[lambda].Add(xl.ToMatrixTranspose().Mul(ia).Mul(xl.ToMatrix()))
			cs.dPA[lambda] = cs.dPA[lambda].Add(xl.ApplyTranspose(pa))
		}
	}

	grav := spatial.NewVector(r3.Vec{}, m.Gravity)
	for i := 1; i < n; i++ {
		lambda := m.Lambda[i]
		if lambda == 0 {
			cs.dA[i] = m.XLambda[i].Apply(grav.Scale(-1)).Add(m.Avp[i])
		} else {
			cs.dA[i] = m.XLambda[i].Apply(cs.dA[lambda]).Add(m.Avp[i])
		}
		qddot[i-1] = (cs.dU[i] - m.U[i].Dot(cs.dA[i])) / m.D[i]
		cs.dA[i] = cs.dA[i].Add(m.S[i].Scale(qddot[i-1]))
	}
}
