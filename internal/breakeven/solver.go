package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/transform"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Solver finds the input value at which a calculator metric reaches a target
type Solver struct {
	Registry *calculator.Registry
	Options  SolverOptions
}

// NewSolver creates a solver over the given calculators
func NewSolver(registry *calculator.Registry, options SolverOptions) *Solver {
	if registry == nil {
		registry = calculator.Default()
	}
	return &Solver{
		Registry: registry,
		Options:  options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(registry *calculator.Registry) *Solver {
	return NewSolver(registry, DefaultSolverOptions())
}

// point is one evaluation of the calculator
type point struct {
	x      decimal.Decimal
	diff   decimal.Decimal // metric minus target
	values validation.Values
	result *calculator.Result
}

// Solve bisects [Min, Max] on the varied field. The metric must lie on
// opposite sides of the target at the two bounds. Integer fields are
// searched over whole numbers and return the closest one.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	def, ok := s.Registry.Get(req.Calculator)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("unknown calculator: %s", req.Calculator)}
	}
	field, ok := def.Field(req.Vary)
	if !ok {
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("calculator %s has no field %s", def.ID, req.Vary)}
	}
	integer := field.Kind == calculator.KindInteger
	switch field.Kind {
	case calculator.KindNumber, calculator.KindCurrency, calculator.KindPercent, calculator.KindInteger:
	default:
		return nil, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("field %s is not numeric", req.Vary)}
	}

	lo, hi := req.Min, req.Max
	if integer {
		lo, hi = lo.Ceil(), hi.Floor()
		if lo.GreaterThanOrEqual(hi) {
			return nil, &BreakEvenError{Operation: "solve", Message: "range holds fewer than two whole values"}
		}
	}

	base := def.InitialValues().Merge(req.Values)
	result := &Result{Request: req}
	s.baseline(def, req, base, result)

	evaluate := func(x decimal.Decimal) (point, error) {
		result.Iterations++
		return s.evaluate(def, req, base, x, integer)
	}

	low, err := evaluate(lo)
	if err != nil {
		return nil, err
	}
	high, err := evaluate(hi)
	if err != nil {
		return nil, err
	}

	best := closer(low, high)
	if within(best, req.Tolerance) {
		return finish(result, best, req, true, "Target met at a bound"), nil
	}
	if low.diff.Sign() == high.diff.Sign() {
		return nil, &BreakEvenError{
			Operation: "solve",
			Message: fmt.Sprintf("target %s is not reachable: %s ranges from %s to %s for %s in [%s, %s]",
				req.Target.String(), req.Metric,
				low.diff.Add(req.Target).StringFixed(2), high.diff.Add(req.Target).StringFixed(2),
				req.Vary, lo.String(), hi.String()),
		}
	}

	for result.Iterations < req.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if integer && high.x.Sub(low.x).LessThanOrEqual(decimal.NewFromInt(1)) {
			return finish(result, best, req, within(best, req.Tolerance),
				fmt.Sprintf("Closest whole value; %s misses the target by %s", req.Metric, best.diff.Abs().StringFixed(2))), nil
		}

		x := low.x.Add(high.x).Div(two)
		if integer {
			x = x.Floor()
		}
		mid, err := evaluate(x)
		if err != nil {
			return nil, err
		}
		best = closer(best, mid)
		if within(mid, req.Tolerance) {
			return finish(result, mid, req, true,
				fmt.Sprintf("Converged within %s of the target", req.Tolerance.String())), nil
		}
		if mid.diff.Sign() == low.diff.Sign() {
			low = mid
		} else {
			high = mid
		}
	}

	return finish(result, best, req, false, fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)), nil
}

// SolveEach solves the same target varying each range in turn. Failed
// solves are reported in Failures instead of aborting the run.
func (s *Solver) SolveEach(ctx context.Context, base Request, ranges []Range) (*MultiResult, error) {
	if len(ranges) == 0 {
		return nil, &BreakEvenError{Operation: "solve_each", Message: "at least one field range is required"}
	}

	out := &MultiResult{}
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req := base
		req.Vary, req.Min, req.Max = r.Field, r.Min, r.Max
		res, err := s.Solve(ctx, req)
		if err != nil {
			out.Failures = append(out.Failures, fmt.Sprintf("%s: %v", r.Field, err))
			continue
		}
		out.Results = append(out.Results, *res)
	}

	if len(out.Results) == 0 {
		return out, &BreakEvenError{Operation: "solve_each", Message: "no field could reach the target"}
	}
	out.Recommendations = s.recommend(base, out.Results)
	return out, nil
}

// Range bounds one field for SolveEach
type Range struct {
	Field string          `json:"field"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
}

func (s *Solver) evaluate(def calculator.Definition, req Request, base validation.Values, x decimal.Decimal, integer bool) (point, error) {
	var value any = x.InexactFloat64()
	if integer {
		value = int(x.IntPart())
	}
	values, err := transform.ApplyTransforms(base, []transform.ValueTransform{
		&transform.SetValue{Field: req.Vary, Value: value},
	})
	if err != nil {
		return point{}, &BreakEvenError{Operation: "solve", Message: "failed to apply value", Cause: err}
	}

	engine := def.NewEngine(calculator.WithInitialValues(values))
	engine.Validate()
	state := engine.State()
	if state.Result == nil {
		msg := "calculation failed"
		if len(state.Errors) > 0 {
			msg = state.Errors[0].Field + ": " + state.Errors[0].Message
		}
		return point{}, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("inputs are invalid at %s=%s (%s)", req.Vary, x.String(), msg),
		}
	}
	metric, ok := state.Result.Metric(req.Metric)
	if !ok {
		return point{}, &BreakEvenError{Operation: "solve", Message: fmt.Sprintf("calculator %s has no metric %s", def.ID, req.Metric)}
	}
	return point{
		x:      x,
		diff:   decimal.NewFromFloat(metric.Value).Sub(req.Target),
		values: state.Values,
		result: state.Result,
	}, nil
}

// baseline records the varied input and metric before solving, when the
// unmodified inputs are valid
func (s *Solver) baseline(def calculator.Definition, req Request, base validation.Values, result *Result) {
	x, ok := base.Float(req.Vary)
	if !ok {
		return
	}
	engine := def.NewEngine(calculator.WithInitialValues(base))
	engine.Validate()
	state := engine.State()
	if state.Result == nil {
		return
	}
	bx := decimal.NewFromFloat(x)
	result.Baseline = &bx
	if m, ok := state.Result.Metric(req.Metric); ok {
		bm := decimal.NewFromFloat(m.Value)
		result.BaselineMetric = &bm
	}
}

func finish(result *Result, p point, req Request, success bool, info string) *Result {
	result.Success = success
	result.ConvergenceInfo = info
	result.Value = p.x
	result.Achieved = p.diff.Add(req.Target)
	result.Values = p.values
	result.Outcome = p.result
	return result
}

func within(p point, tolerance decimal.Decimal) bool {
	return p.diff.Abs().LessThanOrEqual(tolerance)
}

func closer(a, b point) point {
	if b.diff.Abs().LessThan(a.diff.Abs()) {
		return b
	}
	return a
}
