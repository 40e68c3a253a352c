package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sphsim/internal/sph"
)

const (
	width           = 72
	height          = 28
	historyCapacity = 300
	maxStepsPerTick = 64
)

// tunable lists the parameters the view can adjust at runtime. The neighbor
// capacity is fixed by the index and is not among them.
var tunable = []string{"stiffness", "viscosity", "gravity", "damping", "dt", "h"}

type TickMsg time.Time

// Model is the live view state. It owns a working copy of the particles and
// steps the solver on every tick while running.
type Model struct {
	solver        *sph.Solver
	initial       sph.Particles
	ps            sph.Particles
	initialParams sph.Params
	title         string

	step          int
	t             float64
	stats         sph.StepStats
	err           error
	notice        string
	running       bool
	stepsPerTick  int
	selected      int
	canvas        *Canvas
	energyHistory []float64
	nbrHistory    []float64
	theme         Theme
	styles        styles
	showHelp      bool
	fps           int
}

// NewModel builds a live view over solver. ps is copied; the caller keeps
// ownership of its slice.
func NewModel(solver *sph.Solver, ps sph.Particles, title string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		solver:        solver,
		initial:       ps.Clone(),
		ps:            ps.Clone(),
		initialParams: solver.Params(),
		title:         title,
		running:       true,
		stepsPerTick:  4,
		canvas:        NewCanvas(width, height),
		energyHistory: make([]float64, 0, historyCapacity),
		nbrHistory:    make([]float64, 0, historyCapacity),
		theme:         ThemeOcean,
		styles:        newStyles(ThemeOcean),
		fps:           fps,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
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
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(tunable)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs stepsPerTick solver steps. A step error pauses the view and
// is shown until reset.
func (m *Model) advance() {
	dt := m.solver.Params().Dt
	for i := 0; i < m.stepsPerTick; i++ {
		stats, err := m.solver.Step(m.ps)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.stats = stats
		m.step++
		m.t += dt
	}
	m.energyHistory = append(m.energyHistory, m.ps.KineticEnergy())
	m.nbrHistory = append(m.nbrHistory, float64(m.stats.MaxNeighbors))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
		m.nbrHistory = m.nbrHistory[1:]
	}
}

func (m *Model) adjustParam(factor float64) {
	key := tunable[m.selected]
	p := m.solver.Params()
	next, err := p.SetField(key, p.Fields()[key]*factor)
	if err == nil {
		err = m.solver.SetParams(next)
	}
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
}

func (m *Model) reset() {
	m.ps = m.initial.Clone()
	m.step, m.t = 0, 0
	m.stats = sph.StepStats{}
	m.err = nil
	m.notice = ""
	m.energyHistory = m.energyHistory[:0]
	m.nbrHistory = m.nbrHistory[:0]
	// initialParams already passed validation in NewSolver
	_ = m.solver.SetParams(m.initialParams)
}

func (m Model) View() string {
	p := m.solver.Params()
	m.canvas.PlotParticles(m.ps, p.HalfWidth, p.HalfHeight)
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.title)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(st.warn.Render("HALTED: "+m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(fmt.Sprintf("RUNNING x%d\n\n", m.stepsPerTick))
	default:
		s.WriteString("PAUSED\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.step))
	row("Time", fmt.Sprintf("%.4fs", m.t))
	row("Particles", fmt.Sprintf("%d", len(m.ps)))
	row("Backend", fmt.Sprintf("%s (%d)", m.solver.Backend().Name(), m.solver.Backend().Workers()))
	row("Max nbrs", fmt.Sprintf("%d / %d", m.stats.MaxNeighbors, p.NeighborCapacity))
	row("", Sparkline(m.nbrHistory, 24))
	if m.stats.Overflows > 0 {
		row("Overflow", st.warn.Render(fmt.Sprintf("%d", m.stats.Overflows)))
	} else {
		row("Overflow", "0")
	}

	s.WriteString("\nPARAMETERS\n")
	fields := p.Fields()
	initial := m.initialParams.Fields()
	for i, k := range tunable {
		val := fields[k]
		ratio := 0.5
		if initial[k] != 0 {
			ratio = val / (2 * initial[k])
		}
		line := fmt.Sprintf("%-10s %s %.4g", k, "["+ProgressBar(ratio, 10)+"]", val)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	if m.notice != "" {
		s.WriteString(st.warn.Render(m.notice) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause R:Reset Q:Quit\nTab ↑↓:Tune +-:Speed T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space    Pause/Resume
  R        Reset particles and parameters
  Tab      Select next parameter
  Up/K     Increase parameter (+5%)
  Down/J   Decrease parameter (-5%)
  +/-      Solver steps per frame
  T        Cycle themes
  ?        Toggle this help
  Q        Quit
`

// Run starts the live view in the alternate screen and blocks until quit.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
