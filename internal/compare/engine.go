package compare

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/fincalc/internal/calculation"
	"github.com/rgehrsitz/fincalc/internal/domain"
)

// CompareEngine runs several payoff strategies over the same debts
type CompareEngine struct {
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine() *CompareEngine {
	return &CompareEngine{MetricsCalculator: NewMetricsCalculator()}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseStrategy string   // defaults to avalanche
	Alternatives []string // defaults to snowball
	ExtraPayment float64
}

// Compare plans the base strategy and every alternative
func (ce *CompareEngine) Compare(ctx context.Context, debts []domain.Debt, options CompareOptions) (*ComparisonSet, error) {
	base := options.BaseStrategy
	if base == "" {
		base = string(domain.StrategyAvalanche)
	}
	alternatives := options.Alternatives
	if len(alternatives) == 0 {
		alternatives = []string{string(domain.StrategySnowball)}
	}

	basePlan, err := calculation.PlanDebtPayoff(debts, options.ExtraPayment, base)
	if err != nil {
		return nil, fmt.Errorf("failed to plan base strategy %s: %w", base, err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(base, basePlan)

	results := []StrategyResult{}
	for _, name := range alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan, err := calculation.PlanDebtPayoff(debts, options.ExtraPayment, name)
		if err != nil {
			return nil, fmt.Errorf("failed to plan strategy %s: %w", name, err)
		}
		alt := ce.MetricsCalculator.CalculateMetrics(name, plan)
		results = append(results, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseStrategy:       base,
		ExtraPayment:       decimal.NewFromFloat(options.ExtraPayment),
		StartingDebt:       decimal.NewFromFloat(basePlan.Summary.StartingDebt),
		DebtCount:          len(debts),
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}
