package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureSet() *ComparisonSet {
	return &ComparisonSet{
		BaseStrategy: "avalanche",
		ExtraPayment: decimal.NewFromInt(200),
		StartingDebt: decimal.NewFromInt(7000),
		DebtCount:    2,
		BaseResult: &StrategyResult{
			Strategy:      "avalanche",
			Months:        26,
			TotalInterest: decimal.RequireFromString("1218.27"),
			TotalPaid:     decimal.RequireFromString("8218.27"),
			PaidOff:       true,
			PayoffOrder:   []string{"Credit Card", "Car Loan"},
		},
		AlternativeResults: []StrategyResult{{
			Strategy:             "snowball",
			Months:               28,
			TotalInterest:        decimal.RequireFromString("1662.46"),
			TotalPaid:            decimal.RequireFromString("8662.46"),
			PaidOff:              true,
			PayoffOrder:          []string{"Car Loan", "Credit Card"},
			InterestDiffFromBase: decimal.RequireFromString("444.19"),
			InterestPctFromBase:  decimal.RequireFromString("36.46"),
			MonthsDiffFromBase:   2,
		}},
		Recommendations: []string{"Keep avalanche: no alternative pays less interest or finishes sooner"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(fixtureSet())

	assert.Contains(t, out, "DEBT PAYOFF STRATEGY COMPARISON")
	assert.Contains(t, out, "Base Strategy: avalanche")
	assert.Contains(t, out, "Debts: 2 totaling $7000.00, extra payment $200.00/month")
	assert.Contains(t, out, "avalanche (base)")
	assert.Contains(t, out, "$1662.46")
	assert.Contains(t, out, "Interest:  +$444.19 (36.5%)")
	assert.Contains(t, out, "Duration:  +2 months")
	assert.Contains(t, out, "Car Loan -> Credit Card")
	assert.Contains(t, out, "RECOMMENDATIONS")
}

func TestTableFormatter_NoAlternatives(t *testing.T) {
	set := fixtureSet()
	set.AlternativeResults = nil
	set.Recommendations = nil
	set.BaseResult.PaidOff = false

	out := (&TableFormatter{}).Format(set)
	assert.NotContains(t, out, "COMPARISON TO BASE")
	assert.NotContains(t, out, "RECOMMENDATIONS")
	assert.Contains(t, out, "not paid off")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	set := fixtureSet()
	assert.Equal(t, "Base: avalanche | snowball: +$444.19 interest", (&TableFormatter{}).FormatCompact(set))

	set.AlternativeResults[0].InterestDiffFromBase = decimal.Zero
	assert.Equal(t, "Base: avalanche | snowball: =", (&TableFormatter{}).FormatCompact(set))
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(fixtureSet())
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Strategy", rows[0][0])
	assert.Equal(t, []string{"avalanche", "base", "26", "1218.27", "8218.27", "true", "0.00", "0.00", "0", "Credit Card;Car Loan"}, rows[1])
	assert.Equal(t, "alternative", rows[2][1])
	assert.Equal(t, "444.19", rows[2][6])
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(fixtureSet())
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "avalanche", decoded["baseStrategy"])
		assert.Len(t, decoded["alternativeResults"], 1)
	}
}
