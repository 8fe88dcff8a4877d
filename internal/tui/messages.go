package tui

// Scene represents different screens in the TUI
type Scene int

const (
	ScenePicker Scene = iota
	SceneForm
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case ScenePicker:
		return "Calculators"
	case SceneForm:
		return "Calculator"
	case SceneHelp:
		return "Help"
	}
	return "Unknown"
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// OpenCalculatorMsg opens the form for a calculator
type OpenCalculatorMsg struct {
	ID string
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
