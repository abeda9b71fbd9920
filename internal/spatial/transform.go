package spatial

import "gonum.org/v1/gonum/spatial/r3"

// Transform is a Plücker coordinate transform in compact {E, R} form. It maps
// motion vectors from frame A to frame B, where B is A translated by R and
// then rotated by E.
type Transform struct {
	E Mat3
	R r3.Vec
}

func TransformIdentity() Transform {
	return Transform{E: Identity3()}
}

// Rot builds a pure rotation transform.
func Rot(e Mat3) Transform {
	return Transform{E: e}
}

// Trans builds a pure translation transform.
func Trans(r r3.Vec) Transform {
	return Transform{E: Identity3(), R: r}
}

// Apply transforms a motion vector.
func (x Transform) Apply(v Vector) Vector {
	a, l := v.Angular(), v.Linear()
	return NewVector(
		x.E.MulVec(a),
		x.E.MulVec(r3.Sub(l, r3.Cross(x.R, a))),
	)
}

// ApplyTranspose computes X^T f for a force vector f, carrying a force
// expressed in this frame back to the frame X maps from.
func (x Transform) ApplyTranspose(f Vector) Vector {
	n, l := f.Angular(), f.Linear()
	et := x.E.Transpose()
	etl := et.MulVec(l)
	return NewVector(
		r3.Add(et.MulVec(n), r3.Cross(x.R, etl)),
		etl,
	)
}

// ApplyAdjoint computes X* f, transforming a force vector in the same
// direction Apply transforms motion vectors.
func (x Transform) ApplyAdjoint(f Vector) Vector {
	n, l := f.Angular(), f.Linear()
	return NewVector(
		x.E.MulVec(r3.Sub(n, r3.Cross(x.R, l))),
		x.E.MulVec(l),
	)
}

// Mul composes transforms: (x.Mul(y)).Apply(v) == x.Apply(y.Apply(v)).
func (x Transform) Mul(y Transform) Transform {
	return Transform{
		E: x.E.Mul(y.E),
		R: r3.Add(y.R, y.E.Transpose().MulVec(x.R)),
	}
}

func (x Transform) Inverse() Transform {
	return Transform{
		E: x.E.Transpose(),
		R: r3.Scale(-1, x.E.MulVec(x.R)),
	}
}

// ToMatrix expands the transform to its full 6x6 motion-space matrix.
func (x Transform) ToMatrix() Matrix {
	erx := x.E.Mul(Skew(x.R)).Scale(-1)
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = x.E[i][j]
			out[i+3][j] = erx[i][j]
			out[i+3][j+3] = x.E[i][j]
		}
	}
	return out
}

// ToMatrixTranspose is the transpose of ToMatrix, used when articulated
// inertias are pulled across a joint: I_parent += X^T I X.
func (x Transform) ToMatrixTranspose() Matrix {
	erx := x.E.Mul(Skew(x.R)).Scale(-1)
	erxT := erx.Transpose()
	et := x.E.Transpose()
	var out Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = et[i][j]
			out[i][j+3] = erxT[i][j]
			out[i+3][j+3] = et[i][j]
		}
	}
	return out
}
