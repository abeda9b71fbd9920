package spatial

import "gonum.org/v1/gonum/spatial/r3"

// Vector is a spatial vector: components 0..2 are angular, 3..5 linear.
type Vector [6]float64

// NewVector builds a spatial vector from its angular and linear parts.
func NewVector(angular, linear r3.Vec) Vector {
	return Vector{angular.X, angular.Y, angular.Z, linear.X, linear.Y, linear.Z}
}

func (v Vector) Angular() r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }
func (v Vector) Linear() r3.Vec  { return r3.Vec{X: v[3], Y: v[4], Z: v[5]} }

func (v Vector) Add(w Vector) Vector {
	for i := range v {
		v[i] += w[i]
	}
	return v
}

func (v Vector) Sub(w Vector) Vector {
	for i := range v {
		v[i] -= w[i]
	}
	return v
}

func (v Vector) Scale(s float64) Vector {
	for i := range v {
		v[i] *= s
	}
	return v
}

func (v Vector) Dot(w Vector) float64 {
	var s float64
	for i := range v {
		s += v[i] * w[i]
	}
	return s
}

func (v Vector) IsZero() bool {
	return v == Vector{}
}

// CrossMotion computes the motion-space cross product v x w, the spatial
// analogue of the angular-velocity cross product for motion vectors.
func CrossMotion(v, w Vector) Vector {
	a, b := v.Angular(), v.Linear()
	wa, wl := w.Angular(), w.Linear()
	return NewVector(
		r3.Cross(a, wa),
		r3.Add(r3.Cross(a, wl), r3.Cross(b, wa)),
	)
}

// CrossForce computes the force-space cross product v x* f, dual to
// CrossMotion; it appears in the velocity-dependent bias force I*v x* (I v).
func CrossForce(v, f Vector) Vector {
	a, b := v.Angular(), v.Linear()
	fa, fl := f.Angular(), f.Linear()
	return NewVector(
		r3.Add(r3.Cross(a, fa), r3.Cross(b, fl)),
		r3.Cross(a, fl),
	)
}
