package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Diag3 builds a diagonal matrix from d.
func Diag3(d r3.Vec) Mat3 {
	return Mat3{{d.X, 0, 0}, {0, d.Y, 0}, {0, 0, d.Z}}
}

// Skew returns the cross-product matrix of v, so Skew(v).MulVec(w) == v x w.
func Skew(v r3.Vec) Mat3 {
	return Mat3{
		{0, -v.Z, v.Y},
		{v.Z, 0, -v.X},
		{-v.Y, v.X, 0},
	}
}

func (m Mat3) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return out
}

func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func (m Mat3) Add(n Mat3) Mat3 {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += n[i][j]
		}
	}
	return m
}

func (m Mat3) Sub(n Mat3) Mat3 {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] -= n[i][j]
		}
	}
	return m
}

func (m Mat3) Scale(s float64) Mat3 {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] *= s
		}
	}
	return m
}

// RotAxis returns the coordinate-transform rotation about a unit axis: the
// matrix E that re-expresses base-frame coordinates in a frame rotated by
// angle about axis. It is the transpose of the usual Rodrigues rotation.
func RotAxis(axis r3.Vec, angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	e := Identity3().Scale(c)
	e = e.Sub(Skew(axis).Scale(s))
	outer := Mat3{
		{axis.X * axis.X, axis.X * axis.Y, axis.X * axis.Z},
		{axis.Y * axis.X, axis.Y * axis.Y, axis.Y * axis.Z},
		{axis.Z * axis.X, axis.Z * axis.Y, axis.Z * axis.Z},
	}
	return e.Add(outer.Scale(1 - c))
}
