package contact

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/model"
	"github.com/hmartens/treedyn/internal/spatial"
)

// ForwardDynamicsDirect is the brute-force sibling of ForwardDynamics: it
// builds the same contact-space system by running the full unconstrained
// forward-dynamics recursion once per test force instead of propagating
// deltas through cached articulated-body state. Same asymptotic cost, none of
// the sharing. Retained purely as a cross-validation oracle for the
// propagation-based solver; not intended for production stepping.
func ForwardDynamicsDirect(m *model.Model, q, qdot, tau []float64, cs *ConstraintSet, qddot []float64) {
	cs.mustBind(m)
	if len(qddot) != cs.dof {
		panic("contact: qddot length does not match model dof")
	}
	nc := cs.Size()
	dof := cs.dof
	nb := m.NumBodies()

	qddot0 := make([]float64, dof)
	qddotT := make([]float64, dof)
	fT := make([]spatial.Vector, nc)
	fExt := make([]spatial.Vector, nb)
	accel0 := make([]r3.Vec, nc)

	var k *mat.Dense
	var rhs, sol *mat.VecDense
	if nc > 0 {
		k = mat.NewDense(nc, nc, nil)
		rhs = mat.NewVecDense(nc, nil)
		sol = mat.NewVecDense(nc, nil)
	}

	m.ForwardDynamics(q, qdot, tau, qddot0, nil)
	m.UpdateAccelerations(qddot0)
	for ci := 0; ci < nc; ci++ {
		accel0[ci] = m.PointAcceleration(cs.Body[ci], cs.Point[ci])
		rhs.SetVec(ci, cs.TargetAccel[ci]-r3.Dot(cs.Normal[ci], accel0[ci]))
	}

	for ci := 0; ci < nc; ci++ {
		body := cs.Body[ci]
		normal := cs.Normal[ci]
		pointBase := m.BodyToBase(body, cs.Point[ci])
		fT[ci] = spatial.NewVector(
			r3.Scale(-1, r3.Cross(pointBase, normal)),
			r3.Scale(-1, normal),
		)

		fExt[body] = fT[ci]
		m.ForwardDynamics(q, qdot, tau, qddotT, fExt)
		fExt[body] = spatial.Vector{}

		m.UpdateAccelerations(qddotT)
		for cj := 0; cj < nc; cj++ {
			accelT := m.PointAcceleration(cs.Body[cj], cs.Point[cj])
			k.Set(ci, cj, r3.Dot(cs.Normal[cj], r3.Sub(accelT, accel0[cj])))
		}
	}

	if nc > 0 {
		solveLinear(cs.Solver, k, rhs, sol)
	}

	for ci := 0; ci < nc; ci++ {
		cs.Force[ci] = sol.AtVec(ci)
		fExt[cs.Body[ci]] = fExt[cs.Body[ci]].Add(fT[ci].Scale(cs.Force[ci]))
	}

	m.ForwardDynamics(q, qdot, tau, qddot, fExt)
}
