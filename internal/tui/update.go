package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.previousScene = m.scene
		m.scene = msg.Scene
		return m, nil

	case OpenCalculatorMsg:
		m = m.openCalculator(msg.ID)
		return m, formCmd(m)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	if m.scene == SceneForm && len(m.inputs) > 0 {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd, _ = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch m.scene {
	case SceneHelp:
		m.scene = m.previousScene
		return m, nil
	case ScenePicker:
		return m.updatePicker(msg)
	case SceneForm:
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.defs)-1 {
			m.cursor++
		}
	case "?":
		m.previousScene = m.scene
		m.scene = SceneHelp
	case "enter":
		if len(m.defs) > 0 {
			m = m.openCalculator(m.defs[m.cursor].ID)
			return m, formCmd(m)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeCalculator(), nil
	case "tab", "down":
		return m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m.setFocus(m.focus - 1)
	case "enter":
		m.engine.Validate()
		return m.applyState(m.engine.State()), nil
	case "ctrl+r":
		st := m.engine.Reset()
		for i := range m.inputs {
			m.inputs[i].SetValue(st.Values[m.inputs[i].Field.Key])
		}
		return m.applyState(st), nil
	case "ctrl+t":
		m.showTable = !m.showTable
		return m, nil
	case "f1":
		m.previousScene = m.scene
		m.scene = SceneHelp
		return m, nil
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	in, cmd, changed := m.inputs[m.focus].Update(msg)
	m.inputs[m.focus] = in
	if changed {
		st := m.engine.UpdateField(in.Field.Key, in.Value())
		m = m.applyState(st)
	}
	return m, cmd
}

func formCmd(m Model) tea.Cmd {
	if m.scene != SceneForm {
		return nil
	}
	return m.Init()
}
