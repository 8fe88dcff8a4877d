package calculation

import (
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultCompoundsPerYear is used when a caller leaves compounding unset
const DefaultCompoundsPerYear = 12

// CalculateCompoundInterest grows principal at the compounding frequency and,
// separately, a monthly contribution stream as an ordinary annuity.
func CalculateCompoundInterest(in domain.CompoundInterestInput) domain.CompoundInterestResult {
	principal := money.Of(in.Principal)
	contribution := money.Of(in.MonthlyContribution)
	months := money.Of(in.Years).Mul(money.Twelve)

	principalGrowth := principal.Mul(compoundGrowth(in.Rate, in.CompoundsPerYear, in.Years))
	contributionGrowth := annuityFutureValue(contribution, in.Rate, months)

	final := principalGrowth.Add(contributionGrowth)
	contributed := principal.Add(contribution.Mul(months))

	return domain.CompoundInterestResult{
		FinalAmount:        money.Cents(final),
		TotalContributions: money.Cents(contributed),
		TotalInterest:      money.Cents(final.Sub(contributed)),
		EffectiveRate:      money.Float(EffectiveAnnualRate(in.Rate, in.CompoundsPerYear).Round(4)),
	}
}

// EffectiveAnnualRate returns ((1 + r/n)^n - 1) as a percentage
func EffectiveAnnualRate(annualPercent float64, compoundsPerYear int) decimal.Decimal {
	n := compoundsOrDefault(compoundsPerYear)
	periodic := money.Div(money.Rate(annualPercent), decimal.NewFromInt(n))
	return money.PowInt(money.One.Add(periodic), n).Sub(money.One).Mul(money.Hundred)
}

// CalculateFutureValue projects a lump sum plus an optional monthly
// contribution stream to the end of the horizon.
func CalculateFutureValue(in domain.TimeValueInput) float64 {
	months := money.Of(in.Years).Mul(money.Twelve)
	lump := money.Of(in.Amount).Mul(compoundGrowth(in.AnnualRate, in.CompoundsPerYear, in.Years))
	stream := annuityFutureValue(money.Of(in.MonthlyContribution), in.AnnualRate, months)
	return money.Cents(lump.Add(stream))
}

// CalculatePresentValue discounts a future amount to today. When a monthly
// contribution stream is given, the result is the lump sum that, together
// with the contributions, reaches the future amount. It can be negative when
// the contributions alone overshoot.
func CalculatePresentValue(in domain.TimeValueInput) float64 {
	months := money.Of(in.Years).Mul(money.Twelve)
	stream := annuityFutureValue(money.Of(in.MonthlyContribution), in.AnnualRate, months)
	target := money.Of(in.Amount).Sub(stream)
	return money.Cents(money.Div(target, compoundGrowth(in.AnnualRate, in.CompoundsPerYear, in.Years)))
}

// CalculateRequiredMonthlySavings solves for the monthly deposit that closes
// the gap between goal and what currentSavings grows to on its own. It never
// returns a negative requirement.
func CalculateRequiredMonthlySavings(goal, annualRate, years, currentSavings float64) float64 {
	months := money.Of(years).Mul(money.Twelve)
	r := money.MonthlyRate(annualRate)

	projected := money.Of(currentSavings).Mul(money.Pow(money.One.Add(r), months))
	gap := money.Of(goal).Sub(projected)
	if !gap.IsPositive() {
		return 0
	}
	if !months.IsPositive() {
		return money.Cents(gap)
	}
	if r.IsZero() {
		return money.Cents(money.Div(gap, months))
	}
	factor := money.Pow(money.One.Add(r), months).Sub(money.One)
	return money.Cents(money.Div(gap.Mul(r), factor))
}

// compoundGrowth is (1 + r/n)^(n*t)
func compoundGrowth(annualPercent float64, compoundsPerYear int, years float64) decimal.Decimal {
	n := decimal.NewFromInt(compoundsOrDefault(compoundsPerYear))
	periodic := money.Div(money.Rate(annualPercent), n)
	return money.Pow(money.One.Add(periodic), n.Mul(money.Of(years)))
}

// annuityFutureValue is C * ((1+r)^m - 1) / r with r the monthly rate; a
// zero rate degenerates to C * m.
func annuityFutureValue(contribution decimal.Decimal, annualPercent float64, months decimal.Decimal) decimal.Decimal {
	if contribution.IsZero() || !months.IsPositive() {
		return decimal.Zero
	}
	r := money.MonthlyRate(annualPercent)
	if r.IsZero() {
		return contribution.Mul(months)
	}
	factor := money.Pow(money.One.Add(r), months).Sub(money.One)
	return money.Div(contribution.Mul(factor), r)
}

func compoundsOrDefault(n int) int64 {
	if n <= 0 {
		return DefaultCompoundsPerYear
	}
	return int64(n)
}
