package calculator

import (
	"fmt"
	"strconv"

	"github.com/rgehrsitz/fincalc/internal/money"
)

// Format selects how a metric is printed
type Format string

const (
	FormatCurrency Format = "currency"
	FormatPercent  Format = "percent"
	FormatMonths   Format = "months"
	FormatCount    Format = "count"
	FormatNumber   Format = "number"
	FormatText     Format = "text"
)

// Metric is one headline figure of a result
type Metric struct {
	Key    string  `json:"key" yaml:"key"`
	Label  string  `json:"label" yaml:"label"`
	Value  float64 `json:"value" yaml:"value"`
	Format Format  `json:"format" yaml:"format"`
	Text   string  `json:"text,omitempty" yaml:"text,omitempty"`
}

// Formatted renders the metric for display
func (m Metric) Formatted() string {
	switch m.Format {
	case FormatCurrency:
		return money.FormatCurrency(m.Value)
	case FormatPercent:
		return money.FormatPercentage(m.Value, 2)
	case FormatMonths:
		return formatMonths(int(m.Value))
	case FormatCount:
		return strconv.Itoa(int(m.Value))
	case FormatText:
		return m.Text
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

func formatMonths(n int) string {
	if n < 0 {
		return "never"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%d months", months)
	case months == 0:
		return fmt.Sprintf("%d months (%d years)", n, years)
	}
	return fmt.Sprintf("%d months (%dy %dm)", n, years, months)
}

// Table is tabular detail such as an amortization schedule
type Table struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Result is what every registered calculator computes. Data carries the
// typed outcome (for example a domain.MortgageResult) for JSON consumers.
type Result struct {
	Calculator string   `json:"calculator" yaml:"calculator"`
	Metrics    []Metric `json:"metrics" yaml:"metrics"`
	Table      *Table   `json:"table,omitempty" yaml:"table,omitempty"`
	Data       any      `json:"data,omitempty" yaml:"data,omitempty"`
}

// Metric looks a metric up by key
func (r Result) Metric(key string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Value returns a metric's value, or 0 when absent
func (r Result) Value(key string) float64 {
	m, _ := r.Metric(key)
	return m.Value
}

func currency(key, label string, v float64) Metric {
	return Metric{Key: key, Label: label, Value: v, Format: FormatCurrency}
}

func percent(key, label string, v float64) Metric {
	return Metric{Key: key, Label: label, Value: v, Format: FormatPercent}
}

func months(key, label string, n int) Metric {
	return Metric{Key: key, Label: label, Value: float64(n), Format: FormatMonths}
}

func count(key, label string, n int) Metric {
	return Metric{Key: key, Label: label, Value: float64(n), Format: FormatCount}
}
