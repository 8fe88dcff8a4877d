package calculation

import (
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// PaymentTiming selects ordinary annuity (end of period) or annuity-due
type PaymentTiming int

const (
	PaymentAtEnd   PaymentTiming = 0
	PaymentAtStart PaymentTiming = 1
)

// CalculatePMT returns the periodic payment that amortizes principal over
// periods at the periodic rate (a fraction, 0.005 for 0.5%/month). Following
// spreadsheet sign convention, a positive principal yields a negative payment.
func CalculatePMT(principal, rate float64, periods int) (float64, error) {
	return CalculatePMTWithOptions(principal, rate, periods, 0, PaymentAtEnd)
}

// CalculatePMTWithOptions is CalculatePMT with a target future value and
// payment timing.
func CalculatePMTWithOptions(principal, rate float64, periods int, futureValue float64, timing PaymentTiming) (float64, error) {
	if periods <= 0 {
		return 0, invalid("pmt", "periods must be positive")
	}
	if timing != PaymentAtEnd && timing != PaymentAtStart {
		return 0, invalid("pmt", "payment timing must be 0 (end) or 1 (start)")
	}
	p := pmt(money.Of(principal), money.Of(rate), int64(periods), money.Of(futureValue), timing)
	return money.Float(p), nil
}

// pmt is the decimal core shared by the loan calculators.
//
//	rate == 0: -(pv + fv) / n
//	otherwise: -(r * (fv + pv*(1+r)^n)) / ((1 + r*type) * ((1+r)^n - 1))
func pmt(pv, rate decimal.Decimal, n int64, fv decimal.Decimal, timing PaymentTiming) decimal.Decimal {
	if rate.IsZero() {
		return money.Div(pv.Add(fv), decimal.NewFromInt(n)).Neg()
	}
	growth := money.PowInt(money.One.Add(rate), n)
	numerator := rate.Mul(fv.Add(pv.Mul(growth)))
	denominator := money.One.Add(rate.Mul(decimal.NewFromInt(int64(timing)))).Mul(growth.Sub(money.One))
	return money.Div(numerator, denominator).Neg()
}

// monthlyPayment is the positive level payment for a fully amortizing loan
// quoted with an annual percentage rate.
func monthlyPayment(principal decimal.Decimal, annualPercent float64, months int64) decimal.Decimal {
	return pmt(principal, money.MonthlyRate(annualPercent), months, decimal.Zero, PaymentAtEnd).Neg()
}
