package spatial

import "gonum.org/v1/gonum/spatial/r3"

// Matrix is a row-major 6x6 spatial matrix, used for rigid-body and
// articulated-body inertias.
type Matrix [6][6]float64

func (m Matrix) MulVec(v Vector) Vector {
	var out Vector
	for i := 0; i < 6; i++ {
		var s float64
		for j := 0; j < 6; j++ {
			s += m[i][j] * v[j]
		}
		out[i] = s
	}
	return out
}

func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			var s float64
			for k := 0; k < 6; k++ {
				s += m[i][k] * n[k][j]
			}
			out[i][j] = s
		}
	}
	return out
}

func (m Matrix) Add(n Matrix) Matrix {
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			m[i][j] += n[i][j]
		}
	}
	return m
}

func (m Matrix) Sub(n Matrix) Matrix {
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			m[i][j] -= n[i][j]
		}
	}
	return m
}

func (m Matrix) Scale(s float64) Matrix {
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			m[i][j] *= s
		}
	}
	return m
}

// Outer computes the outer product a b^T. With a == b it is the rank-one
// term subtracted when projecting an articulated inertia across a joint.
func Outer(a, b Vector) Matrix {
	var out Matrix
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			out[i][j] = a[i] * b[j]
		}
	}
	return out
}

// RigidBodyInertia assembles the 6x6 spatial inertia of a rigid body from its
// mass, center of mass (in body coordinates) and rotational inertia about the
// center of mass.
func RigidBodyInertia(mass float64, com r3.Vec, icom Mat3) Matrix {
	cx := Skew(com)
	top := icom.Add(cx.Mul(cx.Transpose()).Scale(mass))
	mcx := cx.Scale(mass)
	mcxT := mcx.Transpose()

	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = top[i][j]
			out[i][j+3] = mcx[i][j]
			out[i+3][j] = mcxT[i][j]
		}
	}
	out[3][3] = mass
	out[4][4] = mass
	out[5][5] = mass
	return out
}
