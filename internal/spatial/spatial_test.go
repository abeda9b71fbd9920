package spatial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vecApproxEqual(t *testing.T, got, want Vector, tol float64, msg string) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s: component %d: got %v, want %v", msg, i, got[i], want[i])
		}
	}
}

func TestSkewMatchesCross(t *testing.T) {
	v := r3.Vec{X: 1.2, Y: -0.7, Z: 3.1}
	w := r3.Vec{X: -2.0, Y: 0.4, Z: 0.9}

	got := Skew(v).MulVec(w)
	want := r3.Cross(v, w)

	if math.Abs(got.X-want.X) > 1e-14 || math.Abs(got.Y-want.Y) > 1e-14 || math.Abs(got.Z-want.Z) > 1e-14 {
		t.Errorf("skew product %v does not match cross product %v", got, want)
	}
}

func TestRotAxisZ(t *testing.T) {
	theta := 0.37
	e := RotAxis(r3.Vec{Z: 1}, theta)

	c, s := math.Cos(theta), math.Sin(theta)
	want := Mat3{{c, s, 0}, {-s, c, 0}, {0, 0, 1}}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(e[i][j]-want[i][j]) > 1e-14 {
				t.Fatalf("RotAxis(z): entry (%d,%d) = %v, want %v", i, j, e[i][j], want[i][j])
			}
		}
	}
}

func TestTransformInverse(t *testing.T) {
	x := Rot(RotAxis(r3.Vec{X: 0.6, Y: 0.8}, 1.1)).Mul(Trans(r3.Vec{X: 0.3, Y: -1.2, Z: 2.0}))
	v := Vector{0.1, -0.4, 0.9, 1.7, 0.2, -0.8}

	round := x.Inverse().Apply(x.Apply(v))
	vecApproxEqual(t, round, v, 1e-12, "X^-1 X v")

	round = x.Apply(x.Inverse().Apply(v))
	vecApproxEqual(t, round, v, 1e-12, "X X^-1 v")
}

func TestTransformMulComposes(t *testing.T) {
	x := Rot(RotAxis(r3.Vec{Y: 1}, 0.5)).Mul(Trans(r3.Vec{X: 1}))
	y := Rot(RotAxis(r3.Vec{Z: 1}, -0.9)).Mul(Trans(r3.Vec{Y: 2, Z: -0.5}))
	v := Vector{0.3, 1.1, -0.2, 0.7, -1.5, 0.4}

	composed := x.Mul(y).Apply(v)
	sequential := x.Apply(y.Apply(v))
	vecApproxEqual(t, composed, sequential, 1e-12, "(XY)v vs X(Yv)")
}

func TestApplyMatchesMatrixForm(t *testing.T) {
	x := Rot(RotAxis(r3.Vec{X: 1}, 0.8)).Mul(Trans(r3.Vec{X: -0.4, Y: 0.9, Z: 1.3}))
	v := Vector{1, -2, 0.5, 0.25, 3, -1}

	vecApproxEqual(t, x.Apply(v), x.ToMatrix().MulVec(v), 1e-12, "Apply vs ToMatrix")
	vecApproxEqual(t, x.ApplyTranspose(v), x.ToMatrixTranspose().MulVec(v), 1e-12, "ApplyTranspose vs ToMatrixTranspose")
}

func TestCrossForceIsDualOfCrossMotion(t *testing.T) {
	v := Vector{0.4, -1.1, 0.6, 2.0, 0.3, -0.7}
	f := Vector{1.5, 0.2, -0.9, 0.8, -0.1, 1.2}
	w := Vector{-0.3, 0.7, 1.4, -2.1, 0.5, 0.9}

	// f · (v x w) == -(v x* f) · w
	lhs := f.Dot(CrossMotion(v, w))
	rhs := -CrossForce(v, f).Dot(w)
	if math.Abs(lhs-rhs) > 1e-12 {
		t.Errorf("duality violated: %v vs %v", lhs, rhs)
	}
}

func TestRigidBodyInertiaPointMassAtOrigin(t *testing.T) {
	inertia := RigidBodyInertia(2.5, r3.Vec{}, Mat3{})

	var want Matrix
	want[3][3] = 2.5
	want[4][4] = 2.5
	want[5][5] = 2.5
	if inertia != want {
		t.Errorf("point mass inertia = %v, want mass on linear diagonal only", inertia)
	}
}

func TestRigidBodyInertiaOffsetMass(t *testing.T) {
	m := 2.0
	l := 1.5
	inertia := RigidBodyInertia(m, r3.Vec{Z: -l}, Mat3{})

	// parallel-axis term: rotational inertia m*l^2 about x and y, zero about z
	if math.Abs(inertia[0][0]-m*l*l) > 1e-14 || math.Abs(inertia[1][1]-m*l*l) > 1e-14 {
		t.Errorf("offset mass rotational inertia = %v, %v, want %v", inertia[0][0], inertia[1][1], m*l*l)
	}
	if math.Abs(inertia[2][2]) > 1e-14 {
		t.Errorf("inertia about the offset axis = %v, want 0", inertia[2][2])
	}
	// coupling block must be m * skew(com)
	if math.Abs(inertia[0][4]-m*l) > 1e-14 {
		t.Errorf("coupling entry = %v, want %v", inertia[0][4], m*l)
	}
}
