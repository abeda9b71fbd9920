package model

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/spatial"
)

const gravityZ = -9.81

// fallingMass is a single mass on a vertical prismatic joint.
func fallingMass(mass float64) *Model {
	m := New(r3.Vec{Z: gravityZ})
	m.AddBody(0, spatial.TransformIdentity(),
		Joint{Type: JointPrismatic, Axis: r3.Vec{Z: 1}},
		NewBody(mass, r3.Vec{}, spatial.Mat3{}))
	return m
}

// pointPendulum is a point mass on a revolute joint about the base y axis,
// hanging a distance l below the pivot at q = 0.
func pointPendulum(mass, l float64) *Model {
	m := New(r3.Vec{Z: gravityZ})
	m.AddBody(0, spatial.TransformIdentity(),
		Joint{Type: JointRevolute, Axis: r3.Vec{Y: 1}},
		NewBody(mass, r3.Vec{Z: -l}, spatial.Mat3{}))
	return m
}

// planarArm is a three-link serial chain of revolute y joints with unit link
// offsets along -z, each link a point mass at its far end.
func planarArm() *Model {
	m := New(r3.Vec{Z: gravityZ})
	body := NewBody(1.5, r3.Vec{Z: -1}, spatial.Mat3{})
	b1 := m.AddBody(0, spatial.TransformIdentity(),
		Joint{Type: JointRevolute, Axis: r3.Vec{Y: 1}}, body)
	b2 := m.AddBody(b1, spatial.Trans(r3.Vec{Z: -1}),
		Joint{Type: JointRevolute, Axis: r3.Vec{Y: 1}}, body)
	m.AddBody(b2, spatial.Trans(r3.Vec{Z: -1}),
		Joint{Type: JointRevolute, Axis: r3.Vec{X: 1}}, body)
	return m
}

func TestFallingMassAcceleration(t *testing.T) {
	m := fallingMass(2.0)
	q := []float64{0.5}
	qdot := []float64{0.1}
	tau := []float64{0}
	qddot := []float64{0}

	m.ForwardDynamics(q, qdot, tau, qddot, nil)

	if math.Abs(qddot[0]-gravityZ) > 1e-12 {
		t.Errorf("free fall acceleration = %v, want %v", qddot[0], gravityZ)
	}
}

func TestPendulumEquilibriumAndSwing(t *testing.T) {
	l := 0.8
	m := pointPendulum(1.3, l)
	qdot := []float64{0}
	tau := []float64{0}
	qddot := []float64{0}

	m.ForwardDynamics([]float64{0}, qdot, tau, qddot, nil)
	if math.Abs(qddot[0]) > 1e-12 {
		t.Errorf("hanging pendulum accelerates: qddot = %v", qddot[0])
	}

	// qddot = -(g/l) sin q for a point pendulum
	q := math.Pi / 2
	m.ForwardDynamics([]float64{q}, qdot, tau, qddot, nil)
	want := -(-gravityZ) / l * math.Sin(q)
	if math.Abs(qddot[0]-want) > 1e-10 {
		t.Errorf("horizontal pendulum qddot = %v, want %v", qddot[0], want)
	}
}

func TestForwardInverseRoundTrip(t *testing.T) {
	m := planarArm()
	q := []float64{0.3, -0.7, 1.2}
	qdot := []float64{0.5, -0.2, 0.9}
	tau := []float64{1.1, -0.4, 0.25}
	qddot := make([]float64, 3)

	m.ForwardDynamics(q, qdot, tau, qddot, nil)

	back := make([]float64, 3)
	m.InverseDynamics(q, qdot, qddot, back, nil)
	for i := range tau {
		if math.Abs(back[i]-tau[i]) > 1e-10 {
			t.Errorf("joint %d: inverse dynamics returns %v, want %v", i, back[i], tau[i])
		}
	}
}

func TestMassMatrixEquationOfMotion(t *testing.T) {
	m := planarArm()
	q := []float64{-0.4, 0.8, 0.15}
	qdot := []float64{1.0, -0.6, 0.3}
	tau := []float64{0.7, 0.2, -1.3}
	qddot := make([]float64, 3)
	m.ForwardDynamics(q, qdot, tau, qddot, nil)

	h := mat.NewDense(3, 3, nil)
	m.CompositeInertiaMatrix(q, h)
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if math.Abs(h.At(i, j)-h.At(j, i)) > 1e-12 {
				t.Errorf("mass matrix asymmetric at (%d,%d): %v vs %v", i, j, h.At(i, j), h.At(j, i))
			}
		}
		if h.At(i, i) <= 0 {
			t.Errorf("mass matrix diagonal %d = %v, want > 0", i, h.At(i, i))
		}
	}

	// H qddot + C = tau, with C the inverse dynamics at zero acceleration
	c := make([]float64, 3)
	m.InverseDynamics(q, qdot, make([]float64, 3), c, nil)
	for i := 0; i < 3; i++ {
		sum := c[i]
		for j := 0; j < 3; j++ {
			sum += h.At(i, j) * qddot[j]
		}
		if math.Abs(sum-tau[i]) > 1e-10 {
			t.Errorf("equation of motion row %d: H qddot + C = %v, want %v", i, sum, tau[i])
		}
	}
}

func TestExternalForceBalancesGravity(t *testing.T) {
	m := fallingMass(3.0)
	fext := make([]spatial.Vector, m.NumBodies())
	fext[1] = spatial.NewVector(r3.Vec{}, r3.Vec{Z: 3.0 * -gravityZ})

	qddot := []float64{0}
	m.ForwardDynamics([]float64{0}, []float64{0}, []float64{0}, qddot, fext)
	if math.Abs(qddot[0]) > 1e-12 {
		t.Errorf("supported mass accelerates: qddot = %v", qddot[0])
	}
}

func TestPointKinematics(t *testing.T) {
	m := fallingMass(1.0)
	q := []float64{0.7}
	qdot := []float64{-0.3}
	qddot := []float64{1.5}
	m.UpdateKinematics(q, qdot, qddot)

	p := m.BodyToBase(1, r3.Vec{X: 0.2})
	if math.Abs(p.X-0.2) > 1e-14 || math.Abs(p.Y) > 1e-14 || math.Abs(p.Z-0.7) > 1e-14 {
		t.Errorf("base position = %v, want {0.2 0 0.7}", p)
	}

	v := m.PointVelocity(1, r3.Vec{})
	if math.Abs(v.Z-qdot[0]) > 1e-14 || math.Abs(v.X) > 1e-14 || math.Abs(v.Y) > 1e-14 {
		t.Errorf("point velocity = %v, want {0 0 %v}", v, qdot[0])
	}

	a := m.PointAcceleration(1, r3.Vec{})
	if math.Abs(a.Z-qddot[0]) > 1e-14 {
		t.Errorf("point acceleration = %v, want {0 0 %v}", a, qddot[0])
	}
}

func TestPointJacobianMatchesVelocity(t *testing.T) {
	m := planarArm()
	q := []float64{0.6, -0.25, 0.9}
	qdot := []float64{0.4, 1.1, -0.7}
	m.UpdateKinematics(q, qdot, make([]float64, 3))

	point := r3.Vec{Z: -0.5}
	v := m.PointVelocity(3, point)

	g := mat.NewDense(3, 3, nil)
	m.PointJacobian(3, point, g)
	jv := r3.Vec{}
	for j := 0; j < 3; j++ {
		jv = r3.Add(jv, r3.Scale(qdot[j], r3.Vec{X: g.At(0, j), Y: g.At(1, j), Z: g.At(2, j)}))
	}

	if math.Abs(jv.X-v.X) > 1e-10 || math.Abs(jv.Y-v.Y) > 1e-10 || math.Abs(jv.Z-v.Z) > 1e-10 {
		t.Errorf("G qdot = %v, point velocity = %v", jv, v)
	}
}

func TestDimensionMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("short coordinate vector did not panic")
		}
	}()
	m := planarArm()
	m.UpdateKinematics([]float64{0}, []float64{0, 0, 0}, []float64{0, 0, 0})
}
