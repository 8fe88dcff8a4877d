package calculation

import (
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// PMIThresholdPercent is the down payment share at or above which PMI is
// not charged.
const PMIThresholdPercent = 20

// CalculateMortgage combines principal and interest with escrowed property
// tax, insurance, and PMI. PMI is included only when the down payment is
// below 20% of the home price.
func CalculateMortgage(in domain.MortgageInput) domain.MortgageResult {
	price := money.Of(in.HomePrice)
	down := money.Of(in.DownPayment)
	loan := price.Sub(down)
	if loan.IsNegative() {
		loan = decimal.Zero
	}
	months := int64(in.LoanTermYears) * 12

	pi := decimal.Zero
	if months > 0 && loan.IsPositive() {
		pi = monthlyPayment(loan, in.InterestRate, months)
	}

	downPercent := decimal.Zero
	if price.IsPositive() {
		downPercent = money.Div(down, price).Mul(money.Hundred)
	}

	tax := money.Div(money.Of(in.PropertyTax), money.Twelve)
	insurance := money.Div(money.Of(in.Insurance), money.Twelve)
	pmi := decimal.Zero
	if downPercent.LessThan(decimal.NewFromInt(PMIThresholdPercent)) {
		pmi = money.Div(loan.Mul(money.Rate(in.PMI)), money.Twelve)
	}

	total := pi.Add(tax).Add(insurance).Add(pmi)
	n := decimal.NewFromInt(months)
	totalInterest := pi.Mul(n).Sub(loan)
	if totalInterest.IsNegative() {
		totalInterest = decimal.Zero
	}

	return domain.MortgageResult{
		MonthlyPayment:       money.Cents(total),
		PrincipalAndInterest: money.Cents(pi),
		MonthlyPropertyTax:   money.Cents(tax),
		MonthlyInsurance:     money.Cents(insurance),
		MonthlyPMI:           money.Cents(pmi),
		TotalInterest:        money.Cents(totalInterest),
		TotalCost:            money.Cents(total.Mul(n).Add(down)),
		LoanAmount:           money.Cents(loan),
		DownPaymentPercent:   money.Cents(downPercent),
	}
}
