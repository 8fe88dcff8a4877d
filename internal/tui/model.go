// Package tui is an interactive terminal front end for the calculator
// registry. Every keystroke in a field goes through the calculator engine,
// so errors and results update as the user types.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/tui/components"
	"github.com/rgehrsitz/fincalc/internal/usage"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

// Options configures a Model
type Options struct {
	Registry   *calculator.Registry
	Recorder   usage.Recorder
	Logger     calculator.Logger
	Calculator string // opened directly when set
}

// Model represents the entire application state
type Model struct {
	registry *calculator.Registry
	defs     []calculator.Definition
	recorder usage.Recorder
	logger   calculator.Logger

	// Navigation
	scene         Scene
	previousScene Scene
	cursor        int

	// Terminal dimensions
	width  int
	height int

	// Open calculator
	def       calculator.Definition
	engine    *calculator.Engine[calculator.Result]
	state     calculator.State[calculator.Result]
	inputs    []components.FieldInput
	focus     int
	showTable bool

	err error
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	reg := opts.Registry
	if reg == nil {
		reg = calculator.Default()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = usage.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = calculator.NopLogger{}
	}

	m := Model{
		registry: reg,
		defs:     reg.List(),
		recorder: rec,
		logger:   logger,
		scene:    ScenePicker,
		width:    100,
		height:   30,
	}
	if opts.Calculator != "" {
		m = m.openCalculator(opts.Calculator)
	}
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.scene == SceneForm {
		return textinput.Blink
	}
	return nil
}

// Engine exposes the open calculator's engine; nil on the picker
func (m Model) Engine() *calculator.Engine[calculator.Result] {
	return m.engine
}

// State is the last engine snapshot of the open calculator
func (m Model) State() calculator.State[calculator.Result] {
	return m.state
}

// Scene returns the active scene
func (m Model) Scene() Scene {
	return m.scene
}

func (m Model) openCalculator(id string) Model {
	def, ok := m.registry.Get(id)
	if !ok {
		m.err = fmt.Errorf("unknown calculator: %s", id)
		return m
	}
	for i, d := range m.defs {
		if d.ID == id {
			m.cursor = i
		}
	}

	m.def = def
	m.engine = def.NewEngine(
		calculator.WithRecorder(m.recorder),
		calculator.WithLogger(m.logger),
	)
	m.inputs = make([]components.FieldInput, len(def.Fields))
	m.showTable = false
	m.focus = 0
	m.previousScene = m.scene
	m.scene = SceneForm

	st := m.engine.State()
	for i, f := range def.Fields {
		m.inputs[i] = components.NewFieldInput(f, st.Values[f.Key])
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m.applyState(st)
}

func (m Model) closeCalculator() Model {
	m.engine = nil
	m.inputs = nil
	m.state = calculator.State[calculator.Result]{}
	m.scene = ScenePicker
	return m
}

// applyState stores the snapshot and copies field errors onto the inputs
func (m Model) applyState(s calculator.State[calculator.Result]) Model {
	m.state = s
	for i := range m.inputs {
		msg, _ := validation.FieldError(s.Errors, m.inputs[i].Field.Key)
		m.inputs[i].Error = msg
	}
	return m
}

func (m Model) setFocus(i int) (Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, m.inputs[i].Focus()
}
