package model

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/hmartens/treedyn/internal/spatial"
)

// JointType selects the motion subspace of a single-degree-of-freedom joint.
type JointType int

const (
	JointRevolute JointType = iota
	JointPrismatic
)

// Joint is a one-degree-of-freedom joint about or along a unit axis given in
// the joint frame.
type Joint struct {
	Type JointType
	Axis r3.Vec
}

// Body carries the inertial parameters of one rigid body.
type Body struct {
	Mass           float64
	CenterOfMass   r3.Vec
	Inertia        spatial.Mat3 // about the center of mass
	SpatialInertia spatial.Matrix
}

// NewBody assembles a body and its 6x6 spatial inertia.
func NewBody(mass float64, com r3.Vec, inertia spatial.Mat3) Body {
	return Body{
		Mass:           mass,
		CenterOfMass:   com,
		Inertia:        inertia,
		SpatialInertia: spatial.RigidBodyInertia(mass, com, inertia),
	}
}

// Model is a kinematic tree of rigid bodies. Index 0 is the fixed root; the
// degree of freedom driving body i is coordinate i-1. All per-body slices are
// indexed by body.
//
// The slices below AddBody's fields are scratch state written by the dynamics
// passes: transforms and velocities by every pass, and the articulated-body
// quantities (PA, IA, U, D, UBias) by ForwardDynamics, where they stay valid
// for reuse until the next pass runs.
type Model struct {
	Gravity r3.Vec

	Lambda []int
	Bodies []Body
	Joints []Joint
	XT     []spatial.Transform // fixed transform from parent frame to joint frame

	S       []spatial.Vector // joint motion subspace
	XLambda []spatial.Transform
	XBase   []spatial.Transform
	V       []spatial.Vector
	Avp     []spatial.Vector // velocity-product accelerations
	A       []spatial.Vector
	Tau     []float64

	PA    []spatial.Vector // articulated bias forces
	IA    []spatial.Matrix // articulated inertias
	U     []spatial.Vector // coupling vectors IA*S
	D     []float64        // joint-space inertia S·U
	UBias []float64        // tau - S·pA
}

// New creates a model containing only the fixed root body.
func New(gravity r3.Vec) *Model {
	m := &Model{Gravity: gravity}
	m.Lambda = append(m.Lambda, 0)
	m.Bodies = append(m.Bodies, Body{})
	m.Joints = append(m.Joints, Joint{})
	m.XT = append(m.XT, spatial.TransformIdentity())
	m.S = append(m.S, spatial.Vector{})
	m.XLambda = append(m.XLambda, spatial.TransformIdentity())
	m.XBase = append(m.XBase, spatial.TransformIdentity())
	m.V = append(m.V, spatial.Vector{})
	m.Avp = append(m.Avp, spatial.Vector{})
	m.A = append(m.A, spatial.Vector{})
	m.Tau = append(m.Tau, 0)
	m.PA = append(m.PA, spatial.Vector{})
	m.IA = append(m.IA, spatial.Matrix{})
	m.U = append(m.U, spatial.Vector{})
	m.D = append(m.D, 0)
	m.UBias = append(m.UBias, 0)
	return m
}

// AddBody attaches a body to parent through joint, with xt the fixed
// transform from the parent frame to the joint frame, and returns the new
// body index. Panics on an out-of-range parent: tree topology is a
// programmer-supplied invariant.
func (m *Model) AddBody(parent int, xt spatial.Transform, joint Joint, body Body) int {
	if parent < 0 || parent >= len(m.Bodies) {
		panic(fmt.Sprintf("model: parent index %d out of range", parent))
	}
	m.Lambda = append(m.Lambda, parent)
	m.Bodies = append(m.Bodies, body)
	m.Joints = append(m.Joints, joint)
	m.XT = append(m.XT, xt)
	m.S = append(m.S, spatial.Vector{})
	m.XLambda = append(m.XLambda, spatial.TransformIdentity())
	m.XBase = append(m.XBase, spatial.TransformIdentity())
	m.V = append(m.V, spatial.Vector{})
	m.Avp = append(m.Avp, spatial.Vector{})
	m.A = append(m.A, spatial.Vector{})
	m.Tau = append(m.Tau, 0)
	m.PA = append(m.PA, spatial.Vector{})
	m.IA = append(m.IA, spatial.Matrix{})
	m.U = append(m.U, spatial.Vector{})
	m.D = append(m.D, 0)
	m.UBias = append(m.UBias, 0)
	return len(m.Bodies) - 1
}

// NumBodies counts all bodies including the fixed root.
func (m *Model) NumBodies() int { return len(m.Bodies) }

// DOFCount is the number of joint coordinates.
func (m *Model) DOFCount() int { return len(m.Bodies) - 1 }

// jcalc evaluates joint i at coordinate q: the joint transform and the motion
// subspace column.
func (m *Model) jcalc(i int, q float64) (spatial.Transform, spatial.Vector) {
	j := m.Joints[i]
	switch j.Type {
	case JointRevolute:
		return spatial.Rot(spatial.RotAxis(j.Axis, q)), spatial.NewVector(j.Axis, r3.Vec{})
	case JointPrismatic:
		return spatial.Trans(r3.Scale(q, j.Axis)), spatial.NewVector(r3.Vec{}, j.Axis)
	}
	panic(fmt.Sprintf("model: unknown joint type %d", j.Type))
}

func (m *Model) checkDim(name string, v []float64) {
	if len(v) != m.DOFCount() {
		panic(fmt.Sprintf("model: %s has length %d, want %d", name, len(v), m.DOFCount()))
	}
}
