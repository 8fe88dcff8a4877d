package output

import (
	"bytes"
	"fmt"
	"strings"
)

// DefaultConsoleRows caps table rows printed by the compact console format
const DefaultConsoleRows = 12

// ConsoleFormatter prints a human-readable report. The compact form prints
// the first and last rows of long tables; Full prints every row and the
// modeling assumptions.
type ConsoleFormatter struct {
	MaxRows int
	Full    bool
}

func (c ConsoleFormatter) Name() string {
	if c.Full {
		return "console-full"
	}
	return "console"
}

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	title := report.Title
	if title == "" {
		title = "FINANCIAL CALCULATIONS"
	}
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, strings.ToUpper(title))
	fmt.Fprintln(&buf, rule)

	for _, e := range report.Entries {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "%s (%s)\n", e.Name, e.Calculator)
		fmt.Fprintln(&buf, strings.Repeat("-", 72))

		if len(e.Errors) > 0 {
			fmt.Fprintln(&buf, "Input errors:")
			for _, ve := range e.Errors {
				fmt.Fprintf(&buf, "  %-22s %s\n", ve.Field, ve.Message)
			}
			continue
		}
		if e.Result == nil {
			fmt.Fprintln(&buf, "No result: the calculation could not be completed for these inputs.")
			continue
		}

		width := 0
		for _, m := range e.Result.Metrics {
			width = max(width, len(m.Label))
		}
		for _, m := range e.Result.Metrics {
			fmt.Fprintf(&buf, "  %-*s  %s\n", width+1, m.Label+":", m.Formatted())
		}
		if t := e.Result.Table; t != nil && len(t.Rows) > 0 {
			fmt.Fprintln(&buf)
			c.writeTable(&buf, t.Title, t.Columns, t.Rows)
		}
	}

	if c.Full {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ASSUMPTIONS")
		for _, a := range DefaultAssumptions {
			fmt.Fprintf(&buf, "  - %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeTable(buf *bytes.Buffer, title string, columns []string, rows [][]string) {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, r := range rows {
		for i, cell := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], len(cell))
			}
		}
	}
	line := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%*s", widths[i], cell)
		}
		fmt.Fprintf(buf, "  %s\n", strings.Join(parts, "  "))
	}

	if title != "" {
		fmt.Fprintf(buf, "  %s\n", title)
	}
	line(columns)

	shown := rows
	hidden := 0
	if !c.Full && c.MaxRows > 0 && len(rows) > c.MaxRows {
		head := c.MaxRows - 1
		hidden = len(rows) - c.MaxRows
		shown = append(append([][]string{}, rows[:head]...), rows[len(rows)-1])
	}
	for i, r := range shown {
		if hidden > 0 && i == len(shown)-1 {
			fmt.Fprintf(buf, "  ... %d more rows ...\n", hidden)
		}
		line(r)
	}
}
