package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/tui/theme"
)

// FieldInput is an editable text box bound to one calculator field
type FieldInput struct {
	Field calculator.Field
	Input textinput.Model
	Error string
}

// NewFieldInput creates an input showing value in its editable form
func NewFieldInput(field calculator.Field, value any) FieldInput {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 512
	ti.Width = 40
	if field.Help != "" {
		ti.Placeholder = field.Help
	}
	ti.SetValue(calculator.FormatInput(value))
	ti.CursorEnd()
	return FieldInput{Field: field, Input: ti}
}

// Focus gives the input the cursor
func (f *FieldInput) Focus() tea.Cmd {
	return f.Input.Focus()
}

// Blur removes the cursor
func (f *FieldInput) Blur() {
	f.Input.Blur()
}

// Update forwards msg to the text box and reports whether the text changed
func (f FieldInput) Update(msg tea.Msg) (FieldInput, tea.Cmd, bool) {
	before := f.Input.Value()
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return f, cmd, f.Input.Value() != before
}

// Value returns the current text
func (f FieldInput) Value() string {
	return f.Input.Value()
}

// SetValue replaces the text with value's editable form
func (f *FieldInput) SetValue(value any) {
	f.Input.SetValue(calculator.FormatInput(value))
	f.Input.CursorEnd()
}

// View renders label, box and any error underneath
func (f FieldInput) View() string {
	label := theme.LabelStyle.Render(f.Field.Label)
	if f.Input.Focused() {
		label = theme.FocusedLabelStyle.Render(f.Field.Label)
	}
	out := label + " " + f.Input.View()
	if f.Error != "" {
		out += "\n" + theme.LabelStyle.Render("") + " " + theme.ErrorStyle.Render(f.Error)
	}
	return out
}
