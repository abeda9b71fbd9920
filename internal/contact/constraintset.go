package contact

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/model"
	"github.com/hmartens/treedyn/internal/spatial"
)

// ConstraintSet holds the active point constraints of a mechanism together
// with all scratch storage the solvers need. Its lifecycle has two phases:
// constraints may be appended while the set is unbound; Bind freezes the
// topology and allocates every buffer, after which the set is passed into
// solver calls for the rest of its life, optionally Clear-ed between steps.
//
// A set and the model it is bound to form one unit of mutable state: calls
// using them must not overlap. Sets bound to distinct models are independent.
type ConstraintSet struct {
	// Solver selects the linear-solver strategy for every solve performed
	// with this set. See LinearSolver.
	Solver LinearSolver

	Name        []string
	Body        []int
	Point       []r3.Vec
	Normal      []r3.Vec
	TargetAccel []float64

	// Force receives the solved constraint forces (or impulses), one per
	// constraint, in constraint order.
	Force []float64

	bound bool
	dof   int
	nb    int

	// dense-solver scratch
	H     *mat.Dense
	C     []float64
	G     *mat.Dense
	Gamma []float64
	gi    *mat.Dense
	kktA  *mat.Dense
	kktB  *mat.VecDense
	kktX  *mat.VecDense

	// contact-space scratch
	K           *mat.Dense
	kRHS        *mat.VecDense
	kSol        *mat.VecDense
	qddot0      []float64
	qddotT      []float64
	fT          []spatial.Vector // per-constraint unit test forces
	fExt        []spatial.Vector // per-body accumulated constraint forces
	pointAccel0 []r3.Vec

	// per-body perturbed articulated-body state
	dPA   []spatial.Vector
	dA    []spatial.Vector
	dU    []float64
	dIA   []spatial.Matrix
	dUVec []spatial.Vector
	dD    []float64
}

// NewConstraintSet returns an empty, unbound set using the robust solver
// strategy.
func NewConstraintSet() *ConstraintSet {
	return &ConstraintSet{Solver: SolverSVD}
}

// Size is the number of constraints in the set.
func (cs *ConstraintSet) Size() int { return len(cs.Body) }

// Bound reports whether Bind has been called.
func (cs *ConstraintSet) Bound() bool { return cs.bound }

// AddConstraint appends a point constraint and returns its index. The normal
// must be one of the world coordinate axes; this is checked at solve time.
// The target acceleration is the prescribed relative acceleration of the
// point along the normal (a target velocity for impulse solves). Panics if
// the set is already bound.
func (cs *ConstraintSet) AddConstraint(body int, point, normal r3.Vec, name string, targetAccel float64) int {
	if cs.bound {
		panic("contact: AddConstraint on a bound constraint set")
	}
	cs.Name = append(cs.Name, name)
	cs.Body = append(cs.Body, body)
	cs.Point = append(cs.Point, point)
	cs.Normal = append(cs.Normal, normal)
	cs.TargetAccel = append(cs.TargetAccel, targetAccel)
	cs.Force = append(cs.Force, 0)
	return len(cs.Body) - 1
}

// Bind freezes the constraint topology and allocates all scratch storage
// sized by the model's degrees of freedom and the constraint count. One-shot:
// binding an already bound set panics, and re-binding to a different model is
// unsupported.
func (cs *ConstraintSet) Bind(m *model.Model) {
	if cs.bound {
		panic("contact: Bind on an already bound constraint set")
	}
	dof := m.DOFCount()
	if dof == 0 {
		panic("contact: Bind on a model with no degrees of freedom")
	}
	nc := cs.Size()
	nb := m.NumBodies()
	cs.dof = dof
	cs.nb = nb

	cs.H = mat.NewDense(dof, dof, nil)
	cs.C = make([]float64, dof)
	cs.Gamma = make([]float64, nc)
	cs.gi = mat.NewDense(3, dof, nil)
	cs.kktA = mat.NewDense(dof+nc, dof+nc, nil)
	cs.kktB = mat.NewVecDense(dof+nc, nil)
	cs.kktX = mat.NewVecDense(dof+nc, nil)

	if nc > 0 {
		cs.G = mat.NewDense(nc, dof, nil)
		cs.K = mat.NewDense(nc, nc, nil)
		cs.kRHS = mat.NewVecDense(nc, nil)
		cs.kSol = mat.NewVecDense(nc, nil)
	}

	cs.qddot0 = make([]float64, dof)
	cs.qddotT = make([]float64, dof)
	cs.fT = make([]spatial.Vector, nc)
	cs.fExt = make([]spatial.Vector, nb)
	cs.pointAccel0 = make([]r3.Vec, nc)

	cs.dPA = make([]spatial.Vector, nb)
	cs.dA = make([]spatial.Vector, nb)
	cs.dU = make([]float64, nb)
	cs.dIA = make([]spatial.Matrix, nb)
	cs.dUVec = make([]spatial.Vector, nb)
	cs.dD = make([]float64, nb)

	cs.bound = true
}

// Clear zeroes every numeric buffer in place, leaving topology and
// allocation untouched, so the set behaves like a freshly bound one with zero
// initial state.
func (cs *ConstraintSet) Clear() {
	for i := range cs.TargetAccel {
		cs.TargetAccel[i] = 0
		cs.Force[i] = 0
	}
	if !cs.bound {
		return
	}

	cs.H.Zero()
	zeroFloats(cs.C)
	zeroFloats(cs.Gamma)
	cs.gi.Zero()
	cs.kktA.Zero()
	cs.kktB.Zero()
	cs.kktX.Zero()
	if cs.Size() > 0 {
		cs.G.Zero()
		cs.K.Zero()
		cs.kRHS.Zero()
		cs.kSol.Zero()
	}

	zeroFloats(cs.qddot0)
	zeroFloats(cs.qddotT)
	zeroSpatial(cs.fT)
	zeroSpatial(cs.fExt)
	for i := range cs.pointAccel0 {
		cs.pointAccel0[i] = r3.Vec{}
	}

	zeroSpatial(cs.dPA)
	zeroSpatial(cs.dA)
	zeroFloats(cs.dU)
	for i := range cs.dIA {
		cs.dIA[i] = spatial.Matrix{}
	}
	zeroSpatial(cs.dUVec)
	zeroFloats(cs.dD)
}

// mustBind panics unless the set is bound and its dimensions match the
// model's.
func (cs *ConstraintSet) mustBind(m *model.Model) {
	if !cs.bound {
		panic("contact: constraint set is not bound")
	}
	if cs.dof != m.DOFCount() || cs.nb != m.NumBodies() {
		panic(fmt.Sprintf("contact: constraint set bound to %d dof / %d bodies, model has %d / %d",
			cs.dof, cs.nb, m.DOFCount(), m.NumBodies()))
	}
}

// axisIndex maps a world coordinate axis to its component index. Any other
// normal is a contract violation.
func axisIndex(n r3.Vec) int {
	switch n {
	case r3.Vec{X: 1}:
		return 0
	case r3.Vec{Y: 1}:
		return 1
	case r3.Vec{Z: 1}:
		return 2
	}
	panic(fmt.Sprintf("contact: constraint normal %+v is not a coordinate axis", n))
}

func zeroFloats(v []float64) {
	for i := range v {
		v[i] = 0
	}
}

func zeroSpatial(v []spatial.Vector) {
	for i := range v {
		v[i] = spatial.Vector{}
	}
}

func axisComponent(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}
