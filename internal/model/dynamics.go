package model

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/spatial"
)

// gravityAccel is the fictitious base acceleration -g that folds gravity into
// the recursive passes.
func (m *Model) gravityAccel() spatial.Vector {
	return spatial.NewVector(r3.Vec{}, m.Gravity).Scale(-1)
}

// InverseDynamics computes the generalized forces tau realizing qddot at
// state (q, qdot) via the recursive Newton-Euler algorithm. fext, when
// non-nil, holds per-body external spatial forces in base coordinates.
// Called with qddot = 0 it yields the bias-force vector C. Body transforms
// and velocities are updated as a side effect; body accelerations are left
// offset by -gravity and must be refreshed before point queries.
func (m *Model) InverseDynamics(q, qdot, qddot, tau []float64, fext []spatial.Vector) {
	m.checkDim("q", q)
	m.checkDim("qdot", qdot)
	m.checkDim("qddot", qddot)
	m.checkDim("tau", tau)

	n := len(m.Bodies)
	f := make([]spatial.Vector, n)

	m.V[0] = spatial.Vector{}
	m.A[0] = m.gravityAccel()
	for i := 1; i < n; i++ {
		lambda := m.Lambda[i]
		xj, s := m.jcalc(i, q[i-1])
		m.S[i] = s
		m.XLambda[i] = xj.Mul(m.XT[i])
		if lambda == 0 {
			m.XBase[i] = m.XLambda[i]
		} else {
			m.XBase[i] = m.XLambda[i].Mul(m.XBase[lambda])
		}

		vj := s.Scale(qdot[i-1])
		m.V[i] = m.XLambda[i].Apply(m.V[lambda]).Add(vj)
		m.Avp[i] = spatial.CrossMotion(m.V[i], vj)
		m.A[i] = m.XLambda[i].Apply(m.A[lambda]).Add(s.Scale(qddot[i-1])).Add(m.Avp[i])

		inertia := m.Bodies[i].SpatialInertia
		f[i] = inertia.MulVec(m.A[i]).Add(spatial.CrossForce(m.V[i], inertia.MulVec(m.V[i])))
		if fext != nil && !fext[i].IsZero() {
			f[i] = f[i].Sub(m.XBase[i].ApplyAdjoint(fext[i]))
		}
	}

	for i := n - 1; i > 0; i-- {
		tau[i-1] = m.S[i].Dot(f[i])
		if lambda := m.Lambda[i]; lambda != 0 {
			f[lambda] = f[lambda].Add(m.XLambda[i].ApplyTranspose(f[i]))
		}
	}
}

// CompositeInertiaMatrix fills h (dof x dof) with the joint-space mass matrix
// via the composite-rigid-body algorithm. Only position kinematics are
// evaluated.
func (m *Model) CompositeInertiaMatrix(q []float64, h *mat.Dense) {
	m.checkDim("q", q)
	r, c := h.Dims()
	if r != m.DOFCount() || c != m.DOFCount() {
		panic("model: mass matrix must be dof x dof")
	}

	n := len(m.Bodies)
	for i := 1; i < n; i++ {
		xj, s := m.jcalc(i, q[i-1])
		m.S[i] = s
		m.XLambda[i] = xj.Mul(m.XT[i])
	}

	ic := make([]spatial.Matrix, n)
	for i := 1; i < n; i++ {
		ic[i] = m.Bodies[i].SpatialInertia
	}

	h.Zero()
	for i := n - 1; i > 0; i-- {
		if lambda := m.Lambda[i]; lambda != 0 {
			xl := m.XLambda[i]
			ic[lambda] = ic[lambda].Add(xl.ToMatrixTranspose().Mul(ic[i]).Mul(xl.ToMatrix()))
		}
		f := ic[i].MulVec(m.S[i])
		h.Set(i-1, i-1, m.S[i].Dot(f))
		j := i
		for m.Lambda[j] != 0 {
			f = m.XLambda[j].ApplyTranspose(f)
			j = m.Lambda[j]
			hij := f.Dot(m.S[j])
			h.Set(i-1, j-1, hij)
			h.Set(j-1, i-1, hij)
		}
	}
}

// ForwardDynamics solves for qddot at state (q, qdot) under generalized
// forces tau via the articulated-body algorithm. fext, when non-nil, holds
// per-body external spatial forces in base coordinates.
//
// All per-body articulated quantities (PA, IA, U, D, UBias, Tau) and the
// velocity kinematics are left cached on the model; the contact solvers'
// test-force and force-substitution passes reuse them. Body accelerations are
// left offset by -gravity; refresh with UpdateAccelerations before point
// queries.
func (m *Model) ForwardDynamics(q, qdot, tau, qddot []float64, fext []spatial.Vector) {
	m.checkDim("q", q)
	m.checkDim("qdot", qdot)
	m.checkDim("tau", tau)
	m.checkDim("qddot", qddot)

	n := len(m.Bodies)

	m.V[0] = spatial.Vector{}
	for i := 1; i < n; i++ {
		lambda := m.Lambda[i]
		xj, s := m.jcalc(i, q[i-1])
		m.S[i] = s
		m.XLambda[i] = xj.Mul(m.XT[i])
		if lambda == 0 {
			m.XBase[i] = m.XLambda[i]
		} else {
			m.XBase[i] = m.XLambda[i].Mul(m.XBase[lambda])
		}

		vj := s.Scale(qdot[i-1])
		m.V[i] = m.XLambda[i].Apply(m.V[lambda]).Add(vj)
		m.Avp[i] = spatial.CrossMotion(m.V[i], vj)

		m.Tau[i] = tau[i-1]
		m.IA[i] = m.Bodies[i].SpatialInertia
		m.PA[i] = spatial.CrossForce(m.V[i], m.IA[i].MulVec(m.V[i]))
		if fext != nil && !fext[i].IsZero() {
			m.PA[i] = m.PA[i].Sub(m.XBase[i].ApplyAdjoint(fext[i]))
		}
	}

	for i := n - 1; i > 0; i-- {
		m.U[i] = m.IA[i].MulVec(m.S[i])
		m.D[i] = m.S[i].Dot(m.U[i])
		m.UBias[i] = m.Tau[i] - m.S[i].Dot(m.PA[i])

		if lambda := m.Lambda[i]; lambda != 0 {
			ia := m.IA[i].Sub(spatial.Outer(m.U[i], m.U[i]).Scale(1 / m.D[i]))
			pa := m.PA[i].Add(ia.MulVec(m.Avp[i])).Add(m.U[i].Scale(m.UBias[i] / m.D[i]))
			xl := m.XLambda[i]
			m.IA[lambda] = m.IA[lambda].Add(xl.ToMatrixTranspose().Mul(ia).Mul(xl.ToMatrix()))
			m.PA[lambda] = m.PA[lambda].Add(xl.ApplyTranspose(pa))
		}
	}

	grav := m.gravityAccel()
	for i := 1; i < n; i++ {
		lambda := m.Lambda[i]
		if lambda == 0 {
			m.A[i] = m.XLambda[i].Apply(grav).Add(m.Avp[i])
		} else {
			m.A[i] = m.XLambda[i].Apply(m.A[lambda]).Add(m.Avp[i])
		}
		qddot[i-1] = (m.UBias[i] - m.U[i].Dot(m.A[i])) / m.D[i]
		m.A[i] = m.A[i].Add(m.S[i].Scale(qddot[i-1]))
	}
}
