package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fincalc/internal/calculation"
)

// StrategyResult is one payoff strategy's outcome plus its deltas from the base
type StrategyResult struct {
	Strategy      string          `json:"strategy"`
	Description   string          `json:"description,omitempty"`
	Months        int             `json:"months"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	RemainingDebt decimal.Decimal `json:"remainingDebt"`
	PaidOff       bool            `json:"paidOff"`
	PayoffOrder   []string        `json:"payoffOrder"`

	// Comparison to Base
	InterestDiffFromBase decimal.Decimal `json:"interestDiffFromBase"`
	InterestPctFromBase  decimal.Decimal `json:"interestPctFromBase"`
	MonthsDiffFromBase   int             `json:"monthsDiffFromBase"`
}

// ComparisonSet is a base strategy against its alternatives for one debt list
type ComparisonSet struct {
	BaseStrategy       string           `json:"baseStrategy"`
	ExtraPayment       decimal.Decimal  `json:"extraPayment"`
	StartingDebt       decimal.Decimal  `json:"startingDebt"`
	DebtCount          int              `json:"debtCount"`
	BaseResult         *StrategyResult  `json:"baseResult"`
	AlternativeResults []StrategyResult `json:"alternativeResults"`
	Recommendations    []string         `json:"recommendations"`
}

// All returns the base followed by the alternatives
func (cs *ComparisonSet) All() []StrategyResult {
	out := make([]StrategyResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator turns payoff plans into comparable results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics extracts the comparison metrics of a plan
func (mc *MetricsCalculator) CalculateMetrics(name string, plan *calculation.DebtPayoffPlan) StrategyResult {
	s := plan.Summary
	return StrategyResult{
		Strategy:      name,
		Months:        s.Months,
		TotalInterest: decimal.NewFromFloat(s.TotalInterest),
		TotalPaid:     decimal.NewFromFloat(s.TotalPaid),
		RemainingDebt: decimal.NewFromFloat(s.RemainingDebt),
		PaidOff:       s.PaidOff,
		PayoffOrder:   append([]string(nil), plan.PayoffOrder...),
	}
}

// CalculateComparison fills the deltas of result relative to base
func (mc *MetricsCalculator) CalculateComparison(result, base StrategyResult) StrategyResult {
	result.InterestDiffFromBase = result.TotalInterest.Sub(base.TotalInterest)
	if !base.TotalInterest.IsZero() {
		result.InterestPctFromBase = result.InterestDiffFromBase.
			Div(base.TotalInterest).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	result.MonthsDiffFromBase = result.Months - base.Months
	return result
}

// GenerateRecommendations names the cheapest and the fastest strategy when
// either beats the base.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := *compSet.BaseResult

	cheapest := base
	for _, alt := range compSet.AlternativeResults {
		if alt.PaidOff && alt.TotalInterest.LessThan(cheapest.TotalInterest) {
			cheapest = alt
		}
	}
	if cheapest.Strategy != base.Strategy {
		saved := base.TotalInterest.Sub(cheapest.TotalInterest)
		recommendations = append(recommendations,
			"Lowest Interest: "+cheapest.Strategy+" saves $"+saved.StringFixed(2)+" in interest over "+base.Strategy)
	}

	fastest := base
	for _, alt := range compSet.AlternativeResults {
		if alt.PaidOff && (!fastest.PaidOff || alt.Months < fastest.Months) {
			fastest = alt
		}
	}
	if fastest.Strategy != base.Strategy {
		recommendations = append(recommendations,
			"Fastest Payoff: "+fastest.Strategy+" clears all debts "+
				fmt.Sprintf("%d months sooner", base.Months-fastest.Months))
	}

	if len(recommendations) == 0 && base.PaidOff {
		recommendations = append(recommendations,
			"Keep "+base.Strategy+": no alternative pays less interest or finishes sooner")
	}
	if !base.PaidOff {
		recommendations = append(recommendations,
			"Raise the monthly payment: "+base.Strategy+" leaves $"+base.RemainingDebt.StringFixed(2)+" unpaid after 30 years")
	}
	return recommendations
}
