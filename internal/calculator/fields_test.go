package calculator

import (
	"math"
	"testing"

	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      any
		want    any
		wantErr bool
	}{
		{"1,250.50", 1250.5, false},
		{"$99", 99.0, false},
		{42, 42.0, false},
		{"", "", false},
		{"  ", "", false},
		{nil, "", false},
		{"abc", nil, true},
		{true, nil, true},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestParseInteger(t *testing.T) {
	got, err := ParseInteger("30")
	require.NoError(t, err)
	assert.Equal(t, 30, got)

	_, err = ParseInteger("2.5")
	assert.EqualError(t, err, "Enter a whole number")
}

func TestParseChoice(t *testing.T) {
	p := ParseChoice("avalanche", "snowball")
	got, err := p(" Snowball ")
	require.NoError(t, err)
	assert.Equal(t, "snowball", got)

	_, err = p("fastest")
	assert.EqualError(t, err, "Choose one of avalanche, snowball")
	_, err = p(3)
	assert.Error(t, err)
}

func TestParseDebts(t *testing.T) {
	got, err := ParseDebts("Card:5,000:19.9%:100; Auto:2000:6.5:250")
	require.NoError(t, err)
	debts := got.([]domain.Debt)
	require.Len(t, debts, 2)
	assert.Equal(t, "Card", debts[0].Name)
	assert.Equal(t, 5000.0, debts[0].Balance)
	assert.Equal(t, 19.9, debts[0].InterestRate)
	assert.Equal(t, 100.0, debts[0].MinimumPayment)
	assert.NotEmpty(t, debts[0].ID)
	assert.NotEqual(t, debts[0].ID, debts[1].ID)

	got, err = ParseDebts([]any{
		map[string]any{"id": "x", "balance": 1200, "minimumPayment": 40, "interestRate": 12.5},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Debt{{ID: "x", Name: "Debt 1", Balance: 1200, MinimumPayment: 40, InterestRate: 12.5}}, got)

	in := []domain.Debt{{ID: "keep", Name: "Loan", Balance: 10}}
	got, err = ParseDebts(in)
	require.NoError(t, err)
	got.([]domain.Debt)[0].Balance = 99
	assert.Equal(t, 10.0, in[0].Balance, "input slice is copied")

	_, err = ParseDebts("Card:5000:19.9")
	assert.Error(t, err)
	_, err = ParseDebts(12)
	assert.Error(t, err)

	got, err = ParseDebts("")
	require.NoError(t, err)
	assert.Equal(t, []domain.Debt{}, got)
}

func TestParseCashflows(t *testing.T) {
	got, err := ParseCashflows("-1000, 300 400;500")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1000, 300, 400, 500}, got)

	got, err = ParseCashflows([]any{-100, "110"})
	require.NoError(t, err)
	assert.Equal(t, []float64{-100, 110}, got)

	_, err = ParseCashflows([]any{"x"})
	assert.Error(t, err)
	_, err = ParseCashflows("1, two")
	assert.Error(t, err)
}

func TestParseBrackets(t *testing.T) {
	got, err := ParseBrackets("0-10000:10%, 10000-40000:12, 40000+:22")
	require.NoError(t, err)
	brackets := got.([]domain.TaxBracket)
	require.Len(t, brackets, 3)
	assert.Equal(t, domain.TaxBracket{Min: 0, Max: 10000, Rate: 0.1}, brackets[0])
	assert.Equal(t, 0.12, brackets[1].Rate)
	assert.True(t, math.IsInf(brackets[2].Max, 1))

	got, err = ParseBrackets([]any{
		map[string]any{"min": 0, "max": 20000, "rate": 0.1},
		map[string]any{"min": 20000, "rate": 0.2},
	})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got.([]domain.TaxBracket)[1].Max, 1), "open top bracket")

	_, err = ParseBrackets("0-100")
	assert.Error(t, err)
	_, err = ParseBrackets(5)
	assert.Error(t, err)
}

func TestField_Parser(t *testing.T) {
	assert.Nil(t, Field{Kind: "text"}.Parser())
	assert.NotNil(t, Field{Kind: KindCurrency}.Parser())

	p := Field{Kind: KindChoice, Options: []string{"end", "start"}}.Parser()
	got, err := p("START")
	require.NoError(t, err)
	assert.Equal(t, "start", got)
}

func TestMetric_Formatted(t *testing.T) {
	assert.Equal(t, "$1,678.74", currency("p", "P", 1678.74).Formatted())
	assert.Equal(t, "9.10%", percent("r", "R", 9.1).Formatted())
	assert.Equal(t, "26 months (2y 2m)", months("m", "M", 26).Formatted())
	assert.Equal(t, "24 months (2 years)", months("m", "M", 24).Formatted())
	assert.Equal(t, "9 months", months("m", "M", 9).Formatted())
	assert.Equal(t, "never", months("m", "M", -1).Formatted())
	assert.Equal(t, "3", count("c", "C", 3).Formatted())
	assert.Equal(t, "1.5", Metric{Value: 1.5}.Formatted())
}

func TestFormatInput_RoundTrips(t *testing.T) {
	assert.Equal(t, "", FormatInput(nil))
	assert.Equal(t, "1250.5", FormatInput(1250.5))
	assert.Equal(t, "30", FormatInput(30))
	assert.Equal(t, "end", FormatInput("end"))
	assert.Equal(t, "-10000, 3000, 4200.5", FormatInput([]float64{-10000, 3000, 4200.5}))

	debts := []domain.Debt{
		{Name: "Card", Balance: 5000, InterestRate: 19.99, MinimumPayment: 100},
		{Name: "Auto", Balance: 2000, InterestRate: 10, MinimumPayment: 50},
	}
	text := FormatInput(debts)
	assert.Equal(t, "Card:5000:19.99:100; Auto:2000:10:50", text)
	parsed, err := ParseDebts(text)
	require.NoError(t, err)
	back := parsed.([]domain.Debt)
	require.Len(t, back, 2)
	assert.Equal(t, 19.99, back[0].InterestRate)
	assert.Equal(t, 50.0, back[1].MinimumPayment)

	brackets := []domain.TaxBracket{
		{Min: 0, Max: 11925, Rate: 0.1},
		{Min: 11925, Max: math.Inf(1), Rate: 0.12},
	}
	text = FormatInput(brackets)
	assert.Equal(t, "0-11925:10, 11925+:12", text)
	parsed, err = ParseBrackets(text)
	require.NoError(t, err)
	assert.Equal(t, brackets, parsed)
}
