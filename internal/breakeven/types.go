package breakeven

import (
	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/shopspring/decimal"
)

// Request asks which value of one input makes a result metric hit Target.
// Values override the calculator defaults for every other input.
type Request struct {
	Calculator    string            `json:"calculator"`
	Values        validation.Values `json:"values,omitempty"`
	Vary          string            `json:"vary"`
	Metric        string            `json:"metric"`
	Target        decimal.Decimal   `json:"target"`
	Min           decimal.Decimal   `json:"min"`
	Max           decimal.Decimal   `json:"max"`
	Tolerance     decimal.Decimal   `json:"tolerance"`
	MaxIterations int               `json:"maxIterations"`
}

// Result is the outcome of a solve
type Result struct {
	Request         Request            `json:"request"`
	Success         bool               `json:"success"`
	Iterations      int                `json:"iterations"`
	ConvergenceInfo string             `json:"convergenceInfo"`
	Value           decimal.Decimal    `json:"value"`
	Achieved        decimal.Decimal    `json:"achieved"`
	Baseline        *decimal.Decimal   `json:"baseline,omitempty"`
	BaselineMetric  *decimal.Decimal   `json:"baselineMetric,omitempty"`
	Values          validation.Values  `json:"values"`
	Outcome         *calculator.Result `json:"outcome,omitempty"`
}

// Change is how far the solved value moved from the baseline input
func (r *Result) Change() (decimal.Decimal, bool) {
	if r.Baseline == nil {
		return decimal.Zero, false
	}
	return r.Value.Sub(*r.Baseline), true
}

// MultiResult solves the same target by varying several inputs one at a time
type MultiResult struct {
	Results         []Result `json:"results"`
	Failures        []string `json:"failures,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the bisection
type SolverOptions struct {
	Tolerance     decimal.Decimal // accepted distance from the target metric
	MaxIterations int
}

// DefaultSolverOptions returns a one-cent tolerance and 100 iterations
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.RequireFromString("0.01"),
		MaxIterations: 100,
	}
}

// Validate checks that the request is internally consistent
func (r *Request) Validate() error {
	switch {
	case r.Calculator == "":
		return &BreakEvenError{Operation: "validate_request", Message: "calculator is required"}
	case r.Vary == "":
		return &BreakEvenError{Operation: "validate_request", Message: "field to vary is required"}
	case r.Metric == "":
		return &BreakEvenError{Operation: "validate_request", Message: "target metric is required"}
	case r.Min.GreaterThanOrEqual(r.Max):
		return &BreakEvenError{Operation: "validate_request", Message: "min must be less than max"}
	case r.Tolerance.IsNegative():
		return &BreakEvenError{Operation: "validate_request", Message: "tolerance cannot be negative"}
	case r.MaxIterations < 0:
		return &BreakEvenError{Operation: "validate_request", Message: "max iterations cannot be negative"}
	}
	return nil
}

// BreakEvenError represents errors from the solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
