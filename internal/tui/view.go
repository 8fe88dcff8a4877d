package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/tui/components"
	"github.com/rgehrsitz/fincalc/internal/tui/theme"
)

// maxTableRows limits table rows drawn under the results
const maxTableRows = 12

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(theme.ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}

	var content string
	switch m.scene {
	case ScenePicker:
		content = m.renderPicker()
	case SceneForm:
		content = m.renderForm()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

func (m Model) renderApp(content string) string {
	title := theme.TitleStyle.Render("fincalc")
	crumb := m.scene.String()
	if m.scene == SceneForm {
		crumb += " / " + m.def.Name
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		theme.SubtitleStyle.Render(crumb),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderStatusBar() string {
	var shortcuts []string
	switch m.scene {
	case ScenePicker:
		shortcuts = []string{
			formatShortcut("↑/↓", "move"),
			formatShortcut("enter", "open"),
			formatShortcut("?", "help"),
			formatShortcut("q", "quit"),
		}
	case SceneForm:
		shortcuts = []string{
			formatShortcut("tab", "next field"),
			formatShortcut("enter", "calculate"),
			formatShortcut("ctrl+r", "reset"),
			formatShortcut("ctrl+t", "table"),
			formatShortcut("esc", "back"),
		}
	default:
		shortcuts = []string{formatShortcut("any key", "back")}
	}
	return theme.StatusBarStyle.Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(key, desc string) string {
	return theme.StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderPicker() string {
	var b strings.Builder
	for i, d := range m.defs {
		line := fmt.Sprintf("  %-22s %s", d.Name, theme.SubtitleStyle.Render(d.Description))
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render("> "+fmt.Sprintf("%-22s", d.Name)) + " " + theme.SubtitleStyle.Render(d.Description)
		}
		b.WriteString(line + "\n")
	}
	return theme.BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderForm() string {
	parts := []string{theme.SubtitleStyle.Render(m.def.Description), ""}
	for _, in := range m.inputs {
		parts = append(parts, in.View())
	}
	parts = append(parts, "", m.renderStatus())

	if r := m.state.Result; r != nil {
		cards := make([]*components.MetricCard, 0, len(r.Metrics))
		for _, metric := range r.Metrics {
			cards = append(cards, components.FromMetric(metric))
		}
		parts = append(parts, components.MetricGrid(cards, max(1, m.width/28)))
		if m.showTable && r.Table != nil {
			parts = append(parts, renderTable(r.Table))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatus() string {
	switch {
	case !m.state.IsDirty && m.state.Result == nil && len(m.state.Errors) == 0:
		return theme.SubtitleStyle.Render("Edit a value or press enter to calculate")
	case len(m.state.Errors) == 1:
		return theme.ErrorStyle.Render("1 field needs attention")
	case len(m.state.Errors) > 1:
		return theme.ErrorStyle.Render(fmt.Sprintf("%d fields need attention", len(m.state.Errors)))
	case m.state.Result == nil:
		return theme.ErrorStyle.Render("These inputs cannot be calculated")
	}
	return theme.ValidStyle.Render("✓ Calculated")
}

func renderTable(t *calculator.Table) string {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	rows := t.Rows
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}
	for _, r := range rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], len(cell))
			}
		}
	}
	line := func(cells []string) string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = fmt.Sprintf("%*s", widths[i], c)
		}
		return strings.Join(out, "  ")
	}

	lines := []string{theme.TableHeaderStyle.Render(line(t.Columns))}
	for _, r := range rows {
		lines = append(lines, line(r))
	}
	if more := len(t.Rows) - len(rows); more > 0 {
		lines = append(lines, theme.SubtitleStyle.Render(fmt.Sprintf("… %d more rows", more)))
	}
	return theme.BorderStyle.Render(t.Title + "\n" + strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	helpText := `fincalc - personal finance calculators

CALCULATOR LIST:
  ↑/↓ or j/k   Move
  enter        Open calculator
  q            Quit

CALCULATOR FORM:
  tab/↓        Next field
  shift+tab/↑  Previous field
  enter        Validate every field and calculate
  ctrl+r       Reset to defaults
  ctrl+t       Show or hide the detail table
  esc          Back to the list
  f1           This help

Values are checked as you type. Lists use compact forms:
  debts       name:balance:rate:minimum; ...
  cashflows   -10000, 3000, 4200
  brackets    0-11925:10, 11925+:12`
	return theme.BorderStyle.Render(helpText)
}
