package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/hmartens/treedyn/internal/contact"
	"github.com/hmartens/treedyn/internal/model"
)

// Simulator steps a mechanism forward in time under its active constraints
// using semi-implicit Euler: accelerations from the constrained solve update
// the velocities first, and the updated velocities move the coordinates.
type Simulator struct {
	m         *model.Model
	cs        *contact.ConstraintSet
	torque    TorqueFunc
	observers []Observer
	qddot     []float64 // per-step scratch, reused across Step calls
}

func New(m *model.Model, cs *contact.ConstraintSet) *Simulator {
	return &Simulator{m: m, cs: cs, qddot: make([]float64, m.DOFCount())}
}

func (s *Simulator) SetTorque(f TorqueFunc) { s.torque = f }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() *model.Model                 { return s.m }
func (s *Simulator) Constraints() *contact.ConstraintSet { return s.cs }

// Run integrates from (q0, qdot0) for cfg.Duration. The returned Result holds
// whatever trajectory was produced even when the run stops early; Result.Err
// carries the reason. ctx cancellation stops the run between steps.
func (s *Simulator) Run(ctx context.Context, q0, qdot0 []float64, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	dof := s.m.DOFCount()
	if len(q0) != dof || len(qdot0) != dof {
		return nil, fmt.Errorf("sim: initial state has %d/%d coordinates, model has %d", len(q0), len(qdot0), dof)
	}

	steps := int(cfg.Duration / cfg.Dt)
	nc := s.cs.Size()
	result := &Result{
		Times:  make([]float64, 0, steps+1),
		Q:      make([][]float64, 0, steps+1),
		QDot:   make([][]float64, 0, steps+1),
		Forces: make([][]float64, 0, steps),
	}

	q := append([]float64(nil), q0...)
	qdot := append([]float64(nil), qdot0...)
	qddot := s.qddot
	tau := make([]float64, dof)
	t := 0.0

	result.Times = append(result.Times, t)
	result.Q = append(result.Q, append([]float64(nil), q...))
	result.QDot = append(result.QDot, append([]float64(nil), qdot...))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Err = ctx.Err()
			return result, ctx.Err()
		default:
		}

		for k := range tau {
			tau[k] = 0
		}
		if s.torque != nil {
			s.torque(t, q, qdot, tau)
		}

		switch cfg.Method {
		case MethodLagrangian:
			contact.ForwardDynamicsLagrangian(s.m, q, qdot, tau, s.cs, qddot)
		default:
			contact.ForwardDynamics(s.m, q, qdot, tau, s.cs, qddot)
		}

		for k := 0; k < dof; k++ {
			qdot[k] += cfg.Dt * qddot[k]
			q[k] += cfg.Dt * qdot[k]
		}
		t += cfg.Dt

		if cfg.Validate && !stateValid(q, qdot) {
			result.Err = SimError{Step: i, Time: t, Message: "state is NaN or Inf"}
			return result, result.Err
		}

		result.StepsTaken++
		result.Times = append(result.Times, t)
		result.Q = append(result.Q, append([]float64(nil), q...))
		result.QDot = append(result.QDot, append([]float64(nil), qdot...))
		forces := make([]float64, nc)
		copy(forces, s.cs.Force)
		result.Forces = append(result.Forces, forces)

		for _, o := range s.observers {
			o.OnStep(t, q, qdot, forces)
		}
	}

	return result, nil
}

// Step advances a single step for callers that drive time themselves, such
// as the live view. State slices are updated in place; the solved constraint
// forces stay in the set. Reuses the simulator's scratch, so it does not
// allocate.
func (s *Simulator) Step(q, qdot, tau []float64, cfg Config) {
	switch cfg.Method {
	case MethodLagrangian:
		contact.ForwardDynamicsLagrangian(s.m, q, qdot, tau, s.cs, s.qddot)
	default:
		contact.ForwardDynamics(s.m, q, qdot, tau, s.cs, s.qddot)
	}
	for k := range q {
		qdot[k] += cfg.Dt * s.qddot[k]
		q[k] += cfg.Dt * qdot[k]
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %v", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %v", cfg.Duration)
	}
	return nil
}

func stateValid(q, qdot []float64) bool {
	for i := range q {
		if math.IsNaN(q[i]) || math.IsInf(q[i], 0) {
			return false
		}
		if math.IsNaN(qdot[i]) || math.IsInf(qdot[i], 0) {
			return false
		}
	}
	return true
}
