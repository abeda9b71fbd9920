package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hmartens/treedyn/internal/sim"
)

const (
	graphWidth      = 60
	graphHeight     = 10
	historyCapacity = 600
	forceBarWidth   = 30
	forceBarScale   = 25.0 // newtons at full bar
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	forceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type TickMsg time.Time

// Model drives a live simulation: each animation tick advances the simulator
// by enough steps to keep wall time and simulated time in lockstep.
type Model struct {
	sim     *sim.Simulator
	cfg     sim.Config
	name    string
	q, qdot []float64
	tau     []float64
	q0      []float64
	qdot0   []float64
	t       float64
	running bool
	history []float64 // first coordinate, for the trace
	fps     int
}

func NewModel(s *sim.Simulator, cfg sim.Config, name string, q0, qdot0 []float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		sim:     s,
		cfg:     cfg,
		name:    name,
		q:       append([]float64(nil), q0...),
		qdot:    append([]float64(nil), qdot0...),
		tau:     make([]float64, len(q0)),
		q0:      append([]float64(nil), q0...),
		qdot0:   append([]float64(nil), qdot0...),
		running: true,
		history: make([]float64, 0, historyCapacity),
		fps:     fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			copy(m.q, m.q0)
			copy(m.qdot, m.qdot0)
			m.t = 0
			m.history = m.history[:0]
			m.sim.Constraints().Clear()
		}
	case TickMsg:
		if m.running {
			stepsPerTick := int(1 / (m.cfg.Dt * float64(m.fps)))
			if stepsPerTick < 1 {
				stepsPerTick = 1
			}
			for i := 0; i < stepsPerTick; i++ {
				m.sim.Step(m.q, m.qdot, m.tau, m.cfg)
				m.t += m.cfg.Dt
			}
			m.history = append(m.history, m.q[0])
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	title := m.name
	if !m.running {
		title += "  " + pausedStyle.Render("[paused]")
	}
	b.WriteString(headerStyle.Render(title) + "\n")
	b.WriteString(labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%8.3f s", m.t)) + "\n\n")

	for i := range m.q {
		row := fmt.Sprintf("q[%d]", i)
		b.WriteString(labelStyle.Render(row) +
			valueStyle.Render(fmt.Sprintf("%9.4f   %9.4f /s", m.q[i], m.qdot[i])) + "\n")
	}

	cs := m.sim.Constraints()
	if cs.Size() > 0 {
		b.WriteString("\n")
		for i := 0; i < cs.Size(); i++ {
			b.WriteString(labelStyle.Render(cs.Name[i]) +
				forceStyle.Render(forceBar(cs.Force[i])) +
				valueStyle.Render(fmt.Sprintf(" %8.3f N", cs.Force[i])) + "\n")
		}
	}

	if len(m.history) > 1 {
		plot := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("q[0]"))
		b.WriteString(graphStyle.Render(plot) + "\n")
	}

	b.WriteString(helpStyle.Render("space pause · r reset · q quit"))
	return b.String()
}

// forceBar renders a signed magnitude bar centered on zero.
func forceBar(f float64) string {
	half := forceBarWidth / 2
	n := int(f / forceBarScale * float64(half))
	if n > half {
		n = half
	}
	if n < -half {
		n = -half
	}
	bar := []rune(strings.Repeat(" ", forceBarWidth+1))
	bar[half] = '|'
	if n >= 0 {
		for i := 1; i <= n; i++ {
			bar[half+i] = '█'
		}
	} else {
		for i := 1; i <= -n; i++ {
			bar[half-i] = '█'
		}
	}
	return string(bar)
}

// Run starts the live view and blocks until the user quits.
func Run(s *sim.Simulator, cfg sim.Config, name string, q0, qdot0 []float64, fps int) error {
	p := tea.NewProgram(NewModel(s, cfg, name, q0, qdot0, fps))
	_, err := p.Run()
	return err
}
