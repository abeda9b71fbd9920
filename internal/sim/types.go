package sim

import "fmt"

// Method selects the constrained forward-dynamics algorithm used for each
// step.
type Method int

const (
	// MethodRecursive propagates test forces through the kinematic tree
	// and solves a contact-space system. Cheapest for long chains.
	MethodRecursive Method = iota
	// MethodLagrangian assembles and solves the full mass-matrix system
	// with the constraint Jacobian.
	MethodLagrangian
)

func (m Method) String() string {
	switch m {
	case MethodRecursive:
		return "recursive"
	case MethodLagrangian:
		return "lagrangian"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps the config-file spelling of a method to its value.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "recursive":
		return MethodRecursive, nil
	case "lagrangian":
		return MethodLagrangian, nil
	}
	return 0, fmt.Errorf("sim: unknown method %q", s)
}

// TorqueFunc supplies joint torques for a step. A nil TorqueFunc means an
// unactuated mechanism.
type TorqueFunc func(t float64, q, qdot, tau []float64)

// Observer is called once per completed step with borrowed slices; observers
// must copy what they keep.
type Observer interface {
	OnStep(t float64, q, qdot, forces []float64)
}

// Config holds the per-run integration parameters.
type Config struct {
	Dt       float64
	Duration float64
	Method   Method
	// Validate stops the run with a SimError as soon as any coordinate
	// goes NaN or Inf.
	Validate bool
}

// Result collects the trajectory of one run. Q, QDot and Forces are sampled
// per step; Forces has one row per step with one column per constraint.
type Result struct {
	Times      []float64
	Q          [][]float64
	QDot       [][]float64
	Forces     [][]float64
	StepsTaken int
	Err        error
}

// SimError marks a run that stopped early, with the step and time where it
// happened.
type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("sim: step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
