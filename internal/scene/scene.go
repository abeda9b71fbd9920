package scene

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/hmartens/treedyn/internal/contact"
	"github.com/hmartens/treedyn/internal/model"
	"github.com/hmartens/treedyn/internal/spatial"
)

const DefaultGravity = -9.81

// Scene is a declarative description of a mechanism: a kinematic tree of
// bodies plus the point constraints acting on it. It is the YAML surface of
// the package; Build turns it into live simulation objects.
type Scene struct {
	Name        string           `yaml:"name"`
	Gravity     [3]float64       `yaml:"gravity"`
	Solver      string           `yaml:"solver"` // svd (default) or lu
	Bodies      []BodySpec       `yaml:"bodies"`
	Constraints []ConstraintSpec `yaml:"constraints"`
	InitQ       []float64        `yaml:"init_q"`
	InitQDot    []float64        `yaml:"init_qdot"`
}

// BodySpec describes one body and the joint connecting it to its parent.
// Parent is the name of an earlier body, or empty for the fixed base.
type BodySpec struct {
	Name    string     `yaml:"name"`
	Parent  string     `yaml:"parent"`
	Joint   string     `yaml:"joint"` // revolute or prismatic
	Axis    string     `yaml:"axis"`  // x, y or z
	Offset  [3]float64 `yaml:"offset"`
	Mass    float64    `yaml:"mass"`
	COM     [3]float64 `yaml:"com"`
	Inertia [3]float64 `yaml:"inertia"` // principal moments about the COM
}

// ConstraintSpec pins a body-local point along one world axis.
type ConstraintSpec struct {
	Name   string     `yaml:"name"`
	Body   string     `yaml:"body"`
	Point  [3]float64 `yaml:"point"`
	Normal string     `yaml:"normal"` // x, y or z
	Target float64    `yaml:"target"`
}

// Load reads a scene from a YAML file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &sc, nil
}

// Save writes a scene as YAML.
func Save(path string, sc *Scene) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Default is a two-link arm swinging under gravity with its tip held on the
// vertical plane x = 0 by a single constraint.
func Default() *Scene {
	return &Scene{
		Name:    "tip_on_plane",
		Gravity: [3]float64{0, 0, DefaultGravity},
		Bodies: []BodySpec{
			{Name: "upper", Joint: "revolute", Axis: "y", Mass: 1.0, COM: [3]float64{0, 0, -0.5}, Inertia: [3]float64{0.05, 0.05, 0.01}},
			{Name: "lower", Parent: "upper", Joint: "revolute", Axis: "y", Offset: [3]float64{0, 0, -1}, Mass: 1.0, COM: [3]float64{0, 0, -0.5}, Inertia: [3]float64{0.05, 0.05, 0.01}},
		},
		Constraints: []ConstraintSpec{
			{Name: "tip_x", Body: "lower", Point: [3]float64{0, 0, -1}, Normal: "x"},
		},
		InitQ:    []float64{0.3, -0.6},
		InitQDot: []float64{0, 0},
	}
}

// Build instantiates the scene: the model, a constraint set already bound to
// it, and the initial state vectors (zero-padded to the model's coordinate
// count).
func (sc *Scene) Build() (*model.Model, *contact.ConstraintSet, []float64, []float64, error) {
	if len(sc.Bodies) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("scene %q: no bodies", sc.Name)
	}

	m := model.New(toVec(sc.Gravity))
	indices := map[string]int{"": 0}
	for _, b := range sc.Bodies {
		if b.Name == "" {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: unnamed body", sc.Name)
		}
		if _, dup := indices[b.Name]; dup {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: duplicate body %q", sc.Name, b.Name)
		}
		parent, ok := indices[b.Parent]
		if !ok {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: body %q: unknown parent %q", sc.Name, b.Name, b.Parent)
		}
		joint, err := parseJoint(b.Joint, b.Axis)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: body %q: %w", sc.Name, b.Name, err)
		}
		if b.Mass < 0 {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: body %q: negative mass %v", sc.Name, b.Name, b.Mass)
		}
		body := model.NewBody(b.Mass, toVec(b.COM), spatial.Diag3(toVec(b.Inertia)))
		indices[b.Name] = m.AddBody(parent, spatial.Trans(toVec(b.Offset)), joint, body)
	}

	cs := contact.NewConstraintSet()
	switch sc.Solver {
	case "", "svd":
	case "lu":
		cs.Solver = contact.SolverLU
	default:
		return nil, nil, nil, nil, fmt.Errorf("scene %q: solver must be lu or svd, got %q", sc.Name, sc.Solver)
	}
	for _, c := range sc.Constraints {
		body, ok := indices[c.Body]
		if !ok || body == 0 {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: constraint %q: unknown body %q", sc.Name, c.Name, c.Body)
		}
		normal, err := parseAxis(c.Normal)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("scene %q: constraint %q: %w", sc.Name, c.Name, err)
		}
		cs.AddConstraint(body, toVec(c.Point), normal, c.Name, c.Target)
	}
	cs.Bind(m)

	dof := m.DOFCount()
	if len(sc.InitQ) > dof || len(sc.InitQDot) > dof {
		return nil, nil, nil, nil, fmt.Errorf("scene %q: initial state longer than %d coordinates", sc.Name, dof)
	}
	q := make([]float64, dof)
	qdot := make([]float64, dof)
	copy(q, sc.InitQ)
	copy(qdot, sc.InitQDot)

	return m, cs, q, qdot, nil
}

func parseJoint(kind, axis string) (model.Joint, error) {
	a, err := parseAxis(axis)
	if err != nil {
		return model.Joint{}, err
	}
	switch kind {
	case "revolute":
		return model.Joint{Type: model.JointRevolute, Axis: a}, nil
	case "prismatic":
		return model.Joint{Type: model.JointPrismatic, Axis: a}, nil
	}
	return model.Joint{}, fmt.Errorf("unknown joint type %q", kind)
}

func parseAxis(s string) (r3.Vec, error) {
	switch s {
	case "x":
		return r3.Vec{X: 1}, nil
	case "y":
		return r3.Vec{Y: 1}, nil
	case "z":
		return r3.Vec{Z: 1}, nil
	}
	return r3.Vec{}, fmt.Errorf("axis must be x, y or z, got %q", s)
}

func toVec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
