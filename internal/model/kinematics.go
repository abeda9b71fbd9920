package model

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/spatial"
)

// UpdateKinematics recomputes all body transforms, spatial velocities and
// spatial accelerations for the given state. The base acceleration is zero:
// gravity enters the dynamics passes as forces, not as a kinematic offset, so
// point accelerations reported afterwards are the true coordinate-induced
// ones.
func (m *Model) UpdateKinematics(q, qdot, qddot []float64) {
	m.checkDim("q", q)
	m.checkDim("qdot", qdot)
	m.checkDim("qddot", qddot)

	m.V[0] = spatial.Vector{}
	m.A[0] = spatial.Vector{}
	for i := 1; i < len(m.Bodies); i++ {
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
	}
}

// UpdateAccelerations refreshes only the spatial accelerations from qddot,
// reusing transforms, velocities and velocity-product terms from the last
// full pass. This is the cheap refresh run between test-force propagations.
func (m *Model) UpdateAccelerations(qddot []float64) {
	m.checkDim("qddot", qddot)

	m.A[0] = spatial.Vector{}
	for i := 1; i < len(m.Bodies); i++ {
		lambda := m.Lambda[i]
		m.A[i] = m.XLambda[i].Apply(m.A[lambda]).Add(m.S[i].Scale(qddot[i-1])).Add(m.Avp[i])
	}
}

// BodyToBase maps a point from body-local to base coordinates using the
// cached transforms.
func (m *Model) BodyToBase(body int, point r3.Vec) r3.Vec {
	x := m.XBase[body]
	return r3.Add(x.E.Transpose().MulVec(point), x.R)
}

// PointJacobian fills g (3 x dof, zeroed here) with the Jacobian of the
// base-frame position of a body-local point, using cached transforms. Only
// the columns of joints on the body's ancestor chain are nonzero.
func (m *Model) PointJacobian(body int, point r3.Vec, g *mat.Dense) {
	r, c := g.Dims()
	if r != 3 || c != m.DOFCount() {
		panic("model: point jacobian must be 3 x dof")
	}
	g.Zero()

	pointBase := m.BodyToBase(body, point)
	xp := spatial.Trans(pointBase)
	for j := body; j != 0; j = m.Lambda[j] {
		col := xp.Apply(m.XBase[j].Inverse().Apply(m.S[j])).Linear()
		g.Set(0, j-1, col.X)
		g.Set(1, j-1, col.Y)
		g.Set(2, j-1, col.Z)
	}
}

// PointVelocity returns the base-frame velocity of a body-local point, using
// cached kinematics.
func (m *Model) PointVelocity(body int, point r3.Vec) r3.Vec {
	return m.pointSpatial(body, point, m.V[body]).Linear()
}

// PointAcceleration returns the conventional base-frame acceleration of a
// body-local point under the accelerations of the last kinematics refresh.
func (m *Model) PointAcceleration(body int, point r3.Vec) r3.Vec {
	pv := m.pointSpatial(body, point, m.V[body])
	pa := m.pointSpatial(body, point, m.A[body])
	omega := pv.Angular()
	return r3.Add(pa.Linear(), r3.Cross(omega, pv.Linear()))
}

// pointSpatial re-expresses a body-frame spatial vector in a frame aligned
// with the base and centered at the point.
func (m *Model) pointSpatial(body int, point r3.Vec, v spatial.Vector) spatial.Vector {
	pointBase := m.BodyToBase(body, point)
	px := spatial.Trans(pointBase).Mul(m.XBase[body].Inverse())
	return px.Apply(v)
}
