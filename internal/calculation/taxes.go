package calculation

import (
	"math"

	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Brackets are contiguous and ordered from the lowest, starting at 0.
// 2. Each bracket taxes (Max - Min) dollars at Rate; the top bracket uses
//    Max = +Inf.
// 3. The built-in 2025 table is the single-filer federal schedule with no
//    inflation indexing.

// CalculateProgressiveTax consumes income bracket by bracket and stops as
// soon as it is exhausted.
func CalculateProgressiveTax(income float64, brackets []domain.TaxBracket) float64 {
	tax, _ := progressiveTax(money.Of(income), brackets)
	return money.Cents(tax)
}

// progressiveTax returns the tax and the marginal rate of the last dollar
func progressiveTax(income decimal.Decimal, brackets []domain.TaxBracket) (decimal.Decimal, decimal.Decimal) {
	remaining := income
	total := decimal.Zero
	marginal := decimal.Zero
	for _, bracket := range brackets {
		if !remaining.IsPositive() {
			break
		}
		taxable := remaining
		if !math.IsInf(bracket.Max, 1) {
			width := money.Of(bracket.Max).Sub(money.Of(bracket.Min))
			if !width.IsPositive() {
				continue
			}
			taxable = decimal.Min(remaining, width)
		}
		rate := money.Of(bracket.Rate)
		total = total.Add(taxable.Mul(rate))
		remaining = remaining.Sub(taxable)
		marginal = rate
	}
	return total, marginal
}

// FederalTaxCalculator applies a standard deduction before the brackets
type FederalTaxCalculator struct {
	Year              int
	StandardDeduction float64
	Brackets          []domain.TaxBracket
}

// TaxBreakdown is the outcome of FederalTaxCalculator.Calculate. Rates are
// percentages.
type TaxBreakdown struct {
	GrossIncome   float64 `json:"grossIncome" yaml:"grossIncome"`
	TaxableIncome float64 `json:"taxableIncome" yaml:"taxableIncome"`
	Tax           float64 `json:"tax" yaml:"tax"`
	EffectiveRate float64 `json:"effectiveRate" yaml:"effectiveRate"`
	MarginalRate  float64 `json:"marginalRate" yaml:"marginalRate"`
	AfterTax      float64 `json:"afterTax" yaml:"afterTax"`
}

// DefaultBrackets2025 is the 2025 single-filer federal schedule
func DefaultBrackets2025() []domain.TaxBracket {
	return []domain.TaxBracket{
		{Min: 0, Max: 11925, Rate: 0.10},
		{Min: 11925, Max: 48475, Rate: 0.12},
		{Min: 48475, Max: 103350, Rate: 0.22},
		{Min: 103350, Max: 197300, Rate: 0.24},
		{Min: 197300, Max: 250525, Rate: 0.32},
		{Min: 250525, Max: 626350, Rate: 0.35},
		{Min: 626350, Max: math.Inf(1), Rate: 0.37},
	}
}

// NewFederalTaxCalculator2025 creates a calculator for 2025 single filers
func NewFederalTaxCalculator2025() *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year:              2025,
		StandardDeduction: 15000,
		Brackets:          DefaultBrackets2025(),
	}
}

// NewFederalTaxCalculator builds a calculator from caller-supplied brackets,
// falling back to the 2025 table when none are given.
func NewFederalTaxCalculator(standardDeduction float64, brackets []domain.TaxBracket) *FederalTaxCalculator {
	if len(brackets) == 0 {
		brackets = DefaultBrackets2025()
	}
	return &FederalTaxCalculator{Year: 2025, StandardDeduction: standardDeduction, Brackets: brackets}
}

// Calculate computes tax on grossIncome after the standard deduction
func (ftc *FederalTaxCalculator) Calculate(grossIncome float64) TaxBreakdown {
	gross := money.Of(grossIncome)
	taxable := gross.Sub(money.Of(ftc.StandardDeduction))
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	tax, marginal := progressiveTax(taxable, ftc.Brackets)
	effective := decimal.Zero
	if gross.IsPositive() {
		effective = money.Div(tax, gross).Mul(money.Hundred)
	}

	return TaxBreakdown{
		GrossIncome:   money.Cents(gross),
		TaxableIncome: money.Cents(taxable),
		Tax:           money.Cents(tax),
		EffectiveRate: money.Cents(effective),
		MarginalRate:  money.Cents(marginal.Mul(money.Hundred)),
		AfterTax:      money.Cents(gross.Sub(tax)),
	}
}
