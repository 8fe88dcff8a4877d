package output

import (
	"time"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

// Entry is one calculator run in a report
type Entry struct {
	Name       string             `json:"name" yaml:"name"`
	Calculator string             `json:"calculator" yaml:"calculator"`
	Values     validation.Values  `json:"values" yaml:"values"`
	Errors     []validation.Error `json:"errors,omitempty" yaml:"errors,omitempty"`
	Result     *calculator.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// Valid reports whether the run produced a result
func (e Entry) Valid() bool {
	return e.Result != nil
}

// Report is the formatter input
type Report struct {
	Title       string    `json:"title" yaml:"title"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
	Entries     []Entry   `json:"entries" yaml:"entries"`
}

// NewReport creates an empty report stamped with the current time
func NewReport(title string) *Report {
	return &Report{Title: title, GeneratedAt: time.Now()}
}

// Add appends the state of a calculator engine
func (r *Report) Add(name, calculatorID string, s calculator.State[calculator.Result]) *Report {
	r.Entries = append(r.Entries, Entry{
		Name:       name,
		Calculator: calculatorID,
		Values:     s.Values,
		Errors:     s.Errors,
		Result:     s.Result,
	})
	return r
}
