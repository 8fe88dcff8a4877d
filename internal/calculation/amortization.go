package calculation

import (
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// GenerateAmortizationSchedule builds the month-by-month schedule of a fixed
// payment loan. annualRate is a percentage. The running balance is kept at
// full precision and reported in cents. A row's principal is the drop in the
// reported balance, so principal sums to the loan and the final row absorbs
// the rounding residual.
func GenerateAmortizationSchedule(principal, annualRate float64, years int) []domain.AmortizationRow {
	months := int64(years) * 12
	if months <= 0 || principal <= 0 {
		return nil
	}

	balance := money.Of(principal)
	monthlyRate := money.MonthlyRate(annualRate)
	payment := monthlyPayment(balance, annualRate, months)
	prevReported := balance.Round(money.CentPlaces)

	schedule := make([]domain.AmortizationRow, 0, months)
	totalInterest := decimal.Zero
	for month := int64(1); month <= months; month++ {
		interest := balance.Mul(monthlyRate)
		principalPaid := payment.Sub(interest)
		if month == months {
			principalPaid = balance
		}
		balance = balance.Sub(principalPaid)
		totalInterest = totalInterest.Add(interest)

		reported := balance.Round(money.CentPlaces)
		if month == months || balance.Abs().LessThan(halfCent) {
			reported = decimal.Zero
		}
		if reported.GreaterThan(prevReported) {
			reported = prevReported
		}
		rowPrincipal := prevReported.Sub(reported)
		rowPayment := money.Cents(payment)
		if month == months {
			rowPayment = money.Cents(rowPrincipal.Add(interest.Round(money.CentPlaces)))
		}

		schedule = append(schedule, domain.AmortizationRow{
			Month:         int(month),
			Payment:       rowPayment,
			Principal:     money.Cents(rowPrincipal),
			Interest:      money.Cents(interest),
			Balance:       money.Cents(reported),
			TotalInterest: money.Cents(totalInterest),
		})
		prevReported = reported
	}
	return schedule
}

var halfCent = decimal.RequireFromString("0.005")

// AmortizationSummary totals a schedule
type AmortizationSummary struct {
	MonthlyPayment float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest" yaml:"totalInterest"`
	TotalPaid      float64 `json:"totalPaid" yaml:"totalPaid"`
	Months         int     `json:"months" yaml:"months"`
}

// SummarizeSchedule reports the level payment and totals of a schedule
func SummarizeSchedule(schedule []domain.AmortizationRow) AmortizationSummary {
	if len(schedule) == 0 {
		return AmortizationSummary{}
	}
	totalPaid := decimal.Zero
	for _, row := range schedule {
		totalPaid = totalPaid.Add(decimal.NewFromFloat(row.Principal)).Add(decimal.NewFromFloat(row.Interest))
	}
	last := schedule[len(schedule)-1]
	return AmortizationSummary{
		MonthlyPayment: schedule[0].Payment,
		TotalInterest:  last.TotalInterest,
		TotalPaid:      money.Cents(totalPaid),
		Months:         len(schedule),
	}
}

// RemainingBalance is the closed-form balance after paymentsMade payments:
// B = P * ((1+r)^n - (1+r)^p) / ((1+r)^n - 1)
func RemainingBalance(principal, annualRate float64, years, paymentsMade int) float64 {
	n := int64(years) * 12
	p := int64(paymentsMade)
	switch {
	case n <= 0 || principal <= 0 || p >= n:
		return 0
	case p <= 0:
		return money.Cents(money.Of(principal))
	}

	pv := money.Of(principal)
	r := money.MonthlyRate(annualRate)
	if r.IsZero() {
		remaining := pv.Sub(money.Div(pv, decimal.NewFromInt(n)).Mul(decimal.NewFromInt(p)))
		return money.Cents(remaining)
	}
	growthN := money.PowInt(money.One.Add(r), n)
	growthP := money.PowInt(money.One.Add(r), p)
	return money.Cents(money.Div(pv.Mul(growthN.Sub(growthP)), growthN.Sub(money.One)))
}
