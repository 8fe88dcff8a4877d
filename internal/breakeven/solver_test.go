package breakeven

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func paymentRequest() Request {
	return Request{
		Calculator: "mortgage",
		Values:     validation.Values{"home_price": 350000.0, "down_payment": 70000.0, "interest_rate": 6.0},
		Vary:       "home_price",
		Metric:     "monthly_payment",
		Target:     d("2000"),
		Min:        d("300000"),
		Max:        d("600000"),
	}
}

func TestNewDefaultSolver(t *testing.T) {
	solver := NewDefaultSolver(nil)
	if solver.Registry == nil {
		t.Fatal("Expected a default registry")
	}
	if !solver.Options.Tolerance.Equal(d("0.01")) {
		t.Errorf("Expected tolerance 0.01, got %s", solver.Options.Tolerance)
	}
	if solver.Options.MaxIterations != 100 {
		t.Errorf("Expected 100 iterations, got %d", solver.Options.MaxIterations)
	}
}

func TestSolve_HomePriceForPayment(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())

	result, err := solver.Solve(context.Background(), paymentRequest())
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected convergence, got %q", result.ConvergenceInfo)
	}
	if result.Value.LessThan(d("381000")) || result.Value.GreaterThan(d("383000")) {
		t.Errorf("Expected a home price near 381,900, got %s", result.Value)
	}
	if result.Achieved.Sub(d("2000")).Abs().GreaterThan(d("0.01")) {
		t.Errorf("Expected a payment within a cent of 2000, got %s", result.Achieved)
	}
	if result.Baseline == nil || !result.Baseline.Equal(d("350000")) {
		t.Errorf("Expected baseline 350000, got %v", result.Baseline)
	}
	if result.BaselineMetric == nil || !result.BaselineMetric.Equal(d("1678.74")) {
		t.Errorf("Expected baseline payment 1678.74, got %v", result.BaselineMetric)
	}
	if change, ok := result.Change(); !ok || !change.IsPositive() {
		t.Errorf("Expected a positive change, got %s", change)
	}
	if result.Outcome == nil || result.Outcome.Calculator != "mortgage" {
		t.Error("Expected the outcome at the solved value")
	}
	if result.Iterations > 100 {
		t.Errorf("Expected at most 100 evaluations, got %d", result.Iterations)
	}
}

func TestSolve_IntegerFieldReturnsClosestWholeValue(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())

	result, err := solver.Solve(context.Background(), Request{
		Calculator: "loan-payment",
		Values:     validation.Values{"principal": 25000.0, "annual_rate": 7.0},
		Vary:       "years",
		Metric:     "monthly_payment",
		Target:     d("500"),
		Min:        d("1"),
		Max:        d("40"),
	})
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if result.Success {
		t.Error("No whole number of years pays exactly 500")
	}
	if !result.Value.Equal(d("5")) {
		t.Errorf("Expected 5 years, got %s", result.Value)
	}
	if !strings.Contains(result.ConvergenceInfo, "Closest whole value") {
		t.Errorf("Unexpected convergence info %q", result.ConvergenceInfo)
	}
	if years := result.Values["years"]; years != 5 {
		t.Errorf("Expected solved values to carry years=5, got %v", years)
	}
}

func TestSolve_Errors(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())

	tests := []struct {
		name   string
		modify func(*Request)
		want   string
	}{
		{"missing calculator", func(r *Request) { r.Calculator = "" }, "calculator is required"},
		{"missing field", func(r *Request) { r.Vary = "" }, "field to vary is required"},
		{"missing metric", func(r *Request) { r.Metric = "" }, "target metric is required"},
		{"inverted range", func(r *Request) { r.Min, r.Max = r.Max, r.Min }, "min must be less than max"},
		{"negative tolerance", func(r *Request) { r.Tolerance = d("-1") }, "tolerance cannot be negative"},
		{"unknown calculator", func(r *Request) { r.Calculator = "lottery" }, "unknown calculator: lottery"},
		{"unknown field", func(r *Request) { r.Vary = "hoa_fees" }, "has no field hoa_fees"},
		{"unknown metric", func(r *Request) { r.Metric = "vibes" }, "has no metric vibes"},
		{"unreachable", func(r *Request) { r.Vary, r.Min, r.Max = "property_tax", d("0"), d("1000") }, "is not reachable"},
		{"invalid at bound", func(r *Request) { r.Vary, r.Min, r.Max = "down_payment", d("0"), d("500000") }, "Down payment cannot exceed the home price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := paymentRequest()
			tt.modify(&req)
			_, err := solver.Solve(context.Background(), req)
			if err == nil {
				t.Fatal("Expected an error")
			}
			var be *BreakEvenError
			if !errors.As(err, &be) {
				t.Errorf("Expected BreakEvenError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestSolve_UnparseableInputIsReported(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())
	_, err := solver.Solve(context.Background(), Request{
		Calculator: "loan-payment",
		Values:     validation.Values{"principal": 25000.0, "annual_rate": 7.0, "future_value": "five thousand"},
		Vary:       "years",
		Metric:     "monthly_payment",
		Target:     d("500"),
		Min:        d("1"),
		Max:        d("40"),
	})
	if err == nil {
		t.Fatal("Expected an error for an unparseable balloon")
	}
	if !strings.Contains(err.Error(), "future_value: Enter a valid number") {
		t.Errorf("Expected the parse error in %q", err.Error())
	}
}

func TestSolve_NonNumericField(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())
	_, err := solver.Solve(context.Background(), Request{
		Calculator: "debt-payoff",
		Vary:       "strategy",
		Metric:     "total_interest",
		Target:     d("100"),
		Min:        d("0"),
		Max:        d("1"),
	})
	if err == nil || !strings.Contains(err.Error(), "not numeric") {
		t.Errorf("Expected a not numeric error, got %v", err)
	}
}

func TestSolve_ContextCancelled(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, paymentRequest())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSolveEach(t *testing.T) {
	solver := NewDefaultSolver(calculator.Default())

	multi, err := solver.SolveEach(context.Background(), paymentRequest(), []Range{
		{Field: "home_price", Min: d("300000"), Max: d("600000")},
		{Field: "interest_rate", Min: d("0"), Max: d("15")},
		{Field: "down_payment", Min: d("0"), Max: d("300000")},
		{Field: "property_tax", Min: d("0"), Max: d("1000")},
	})
	if err != nil {
		t.Fatalf("SolveEach failed: %v", err)
	}
	if len(multi.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(multi.Results))
	}
	if len(multi.Failures) != 1 || !strings.HasPrefix(multi.Failures[0], "property_tax:") {
		t.Errorf("Expected property_tax to fail, got %v", multi.Failures)
	}
	if len(multi.Recommendations) != 3 {
		t.Fatalf("Expected 3 recommendations, got %v", multi.Recommendations)
	}
	if !strings.HasPrefix(multi.Recommendations[0], "Change home_price from $350,000.00 to ") {
		t.Errorf("Expected the smallest relative change first, got %q", multi.Recommendations[0])
	}
	if !strings.HasSuffix(multi.Recommendations[0], "to reach monthly_payment 2000.00") {
		t.Errorf("Unexpected recommendation %q", multi.Recommendations[0])
	}

	out := (&TableFormatter{}).FormatMulti(multi)
	for _, want := range []string{"BREAK-EVEN OPTIONS", "interest_rate", "! property_tax", "RECOMMENDATIONS"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestSolveEach_NoRanges(t *testing.T) {
	_, err := NewDefaultSolver(nil).SolveEach(context.Background(), paymentRequest(), nil)
	if err == nil {
		t.Error("Expected an error without ranges")
	}
}
