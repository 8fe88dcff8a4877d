package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

const (
	// IRRMaxIterations caps Newton-Raphson so worst-case latency stays bounded
	IRRMaxIterations = 100
	// DefaultIRRGuess is the starting rate, in percent
	DefaultIRRGuess = 10.0
)

var irrTolerance = decimal.RequireFromString("0.000001")

// CalculateNPV discounts cashflows at rate (a percentage); cashflows[0] is
// undiscounted.
func CalculateNPV(rate float64, cashflows []float64) (float64, error) {
	r := money.Rate(rate)
	if !money.One.Add(r).IsPositive() {
		return 0, invalid("npv", "rate must be greater than -100%")
	}
	npv, _ := npvAndDerivative(r, decimals(cashflows))
	return money.Cents(npv), nil
}

// CalculateIRR finds the rate (a percentage) at which the NPV of cashflows
// is zero using Newton-Raphson from guess. It stops when a step moves the
// rate by less than 1e-6 and fails with ErrNoConvergence after
// IRRMaxIterations rather than returning an unconverged estimate.
func CalculateIRR(cashflows []float64, guess float64) (float64, error) {
	if len(cashflows) < 2 {
		return 0, invalid("irr", "at least two cashflows are required")
	}
	if !hasSignChange(cashflows) {
		return 0, invalid("irr", "cashflows need at least one sign change")
	}

	flows := decimals(cashflows)
	rate := money.Rate(guess)
	for i := 0; i < IRRMaxIterations; i++ {
		if !money.One.Add(rate).IsPositive() {
			return 0, &CalculationError{
				Operation: "irr",
				Message:   fmt.Sprintf("rate diverged below -100%% after %d iterations", i),
				Cause:     ErrNoConvergence,
			}
		}

		npv, derivative := npvAndDerivative(rate, flows)
		if derivative.IsZero() {
			return 0, &CalculationError{Operation: "irr", Message: "cannot step from current rate", Cause: ErrZeroDerivative}
		}

		next := rate.Sub(money.Div(npv, derivative))
		if next.Sub(rate).Abs().LessThan(irrTolerance) {
			return money.Float(next.Mul(money.Hundred)), nil
		}
		rate = next
	}

	return 0, &CalculationError{
		Operation: "irr",
		Message:   fmt.Sprintf("no root found within %d iterations", IRRMaxIterations),
		Cause:     ErrNoConvergence,
	}
}

// npvAndDerivative evaluates
//
//	npv(r)  = sum cf[t] / (1+r)^t
//	npv'(r) = sum -t * cf[t] / (1+r)^(t+1)
func npvAndDerivative(rate decimal.Decimal, flows []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	base := money.One.Add(rate)
	npv, derivative := decimal.Zero, decimal.Zero
	discount := money.One
	for t, cf := range flows {
		if t > 0 {
			discount = discount.Mul(base).Round(40)
		}
		npv = npv.Add(money.Div(cf, discount))
		if t > 0 {
			term := cf.Mul(decimal.NewFromInt(int64(t))).Neg()
			derivative = derivative.Add(money.Div(term, discount.Mul(base)))
		}
	}
	return npv, derivative
}

func decimals(values []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = money.Of(v)
	}
	return out
}

func hasSignChange(cashflows []float64) bool {
	pos, neg := false, false
	for _, cf := range cashflows {
		pos = pos || cf > 0
		neg = neg || cf < 0
	}
	return pos && neg
}
