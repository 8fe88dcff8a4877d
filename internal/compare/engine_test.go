package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/fincalc/internal/calculation"
	"github.com/rgehrsitz/fincalc/internal/domain"
)

func sampleDebts() []domain.Debt {
	return []domain.Debt{
		{ID: "a", Name: "Credit Card", Balance: 5000, MinimumPayment: 100, InterestRate: 20},
		{ID: "b", Name: "Car Loan", Balance: 2000, MinimumPayment: 50, InterestRate: 10},
	}
}

func TestCompare_AvalancheAgainstSnowball(t *testing.T) {
	compSet, err := NewCompareEngine().Compare(context.Background(), sampleDebts(), CompareOptions{ExtraPayment: 200})
	require.NoError(t, err)

	assert.Equal(t, "avalanche", compSet.BaseStrategy)
	assert.Equal(t, 2, compSet.DebtCount)
	assert.True(t, compSet.StartingDebt.Equal(decimal.NewFromInt(7000)))

	base := compSet.BaseResult
	require.NotNil(t, base)
	assert.Equal(t, 26, base.Months)
	assert.Equal(t, "1218.27", base.TotalInterest.StringFixed(2))
	assert.Equal(t, []string{"Credit Card", "Car Loan"}, base.PayoffOrder)

	require.Len(t, compSet.AlternativeResults, 1)
	snow := compSet.AlternativeResults[0]
	assert.Equal(t, "snowball", snow.Strategy)
	assert.Equal(t, 28, snow.Months)
	assert.Equal(t, "444.19", snow.InterestDiffFromBase.StringFixed(2))
	assert.Equal(t, "36.46", snow.InterestPctFromBase.StringFixed(2))
	assert.Equal(t, 2, snow.MonthsDiffFromBase)
	assert.Equal(t, []string{"Car Loan", "Credit Card"}, snow.PayoffOrder)

	assert.Equal(t, []string{"Keep avalanche: no alternative pays less interest or finishes sooner"}, compSet.Recommendations)
	assert.Len(t, compSet.All(), 2)
}

func TestCompare_SnowballBaseRecommendsAvalanche(t *testing.T) {
	compSet, err := NewCompareEngine().Compare(context.Background(), sampleDebts(), CompareOptions{
		BaseStrategy: "snowball",
		Alternatives: []string{"avalanche"},
		ExtraPayment: 200,
	})
	require.NoError(t, err)

	require.Len(t, compSet.Recommendations, 2)
	assert.Equal(t, "Lowest Interest: avalanche saves $444.19 in interest over snowball", compSet.Recommendations[0])
	assert.Equal(t, "Fastest Payoff: avalanche clears all debts 2 months sooner", compSet.Recommendations[1])
	assert.Equal(t, -2, compSet.AlternativeResults[0].MonthsDiffFromBase)
	assert.True(t, compSet.AlternativeResults[0].InterestDiffFromBase.IsNegative())
}

func TestCompare_CustomStrategy(t *testing.T) {
	compSet, err := NewCompareEngine().Compare(context.Background(), sampleDebts(), CompareOptions{
		Alternatives: []string{"snowball", "custom:b,a"},
		ExtraPayment: 200,
	})
	require.NoError(t, err)
	require.Len(t, compSet.AlternativeResults, 2)

	custom := compSet.AlternativeResults[1]
	assert.Equal(t, "custom:b,a", custom.Strategy)
	assert.Equal(t, compSet.AlternativeResults[0].TotalInterest.String(), custom.TotalInterest.String())
}

func TestCompare_Errors(t *testing.T) {
	engine := NewCompareEngine()

	_, err := engine.Compare(context.Background(), sampleDebts(), CompareOptions{BaseStrategy: "random"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, calculation.ErrInvalidInput))
	assert.Contains(t, err.Error(), "base strategy random")

	_, err = engine.Compare(context.Background(), sampleDebts(), CompareOptions{Alternatives: []string{"bogus"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy bogus")

	_, err = engine.Compare(context.Background(), sampleDebts(), CompareOptions{ExtraPayment: -1})
	assert.True(t, errors.Is(err, calculation.ErrInvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Compare(ctx, sampleDebts(), CompareOptions{ExtraPayment: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateRecommendations_NotPaidOff(t *testing.T) {
	debts := []domain.Debt{{Name: "Forever", Balance: 10000, MinimumPayment: 50, InterestRate: 6}}
	compSet, err := NewCompareEngine().Compare(context.Background(), debts, CompareOptions{})
	require.NoError(t, err)

	assert.False(t, compSet.BaseResult.PaidOff)
	require.NotEmpty(t, compSet.Recommendations)
	assert.Contains(t, compSet.Recommendations[len(compSet.Recommendations)-1], "Raise the monthly payment")
}

func TestGenerateRecommendations_Empty(t *testing.T) {
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))
	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &StrategyResult{Strategy: "avalanche"}}))
}
