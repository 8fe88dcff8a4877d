package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{"int", 42, "42", false},
		{"int64", int64(-7), "-7", false},
		{"float", 0.1, "0.1", false},
		{"string", "1,250.50", "1250.5", false},
		{"dollar string", "$99", "99", false},
		{"decimal", decimal.RequireFromString("3.14159"), "3.14159", false},
		{"empty string", "  ", "", true},
		{"garbage", "abc", "", true},
		{"nil", nil, "", true},
		{"unsupported", struct{}{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestOf_InvalidStringIsZero(t *testing.T) {
	assert.True(t, Of("not a number").IsZero())
	assert.Equal(t, "12.5", Of("12.5").String())
	assert.Equal(t, "3", Of(3).String())
}

func TestCents_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 1.01, Cents(decimal.RequireFromString("1.005")))
	assert.Equal(t, 2.68, Cents(decimal.RequireFromString("2.675")))
	assert.Equal(t, -1.01, Cents(decimal.RequireFromString("-1.005")))
	assert.Equal(t, 0.33, Round2(1.0/3.0))
}

func TestPowInt(t *testing.T) {
	base := decimal.RequireFromString("1.005")

	assert.True(t, PowInt(base, 0).Equal(One))
	assert.True(t, PowInt(base, 1).Equal(base))
	assert.Equal(t, "1.010025", PowInt(base, 2).String())

	// (1.005)^360 ~= 6.022575212
	got := PowInt(base, 360).InexactFloat64()
	assert.InDelta(t, 6.022575212, got, 1e-8)

	inv := PowInt(base, -360)
	assert.InDelta(t, 1.0, inv.Mul(PowInt(base, 360)).InexactFloat64(), 1e-12)
}

func TestPow_FractionalExponent(t *testing.T) {
	got := Pow(decimal.NewFromInt(4), decimal.RequireFromString("0.5"))
	assert.InDelta(t, 2.0, got.InexactFloat64(), 1e-12)

	integral := Pow(decimal.NewFromInt(2), decimal.NewFromInt(10))
	assert.Equal(t, "1024", integral.String())
}

func TestRates(t *testing.T) {
	assert.Equal(t, "0.06", Rate(6).String())
	assert.InDelta(t, 0.005, MonthlyRate(6).InexactFloat64(), 1e-18)
}

func TestDiv_Precision(t *testing.T) {
	third := Div(One, decimal.NewFromInt(3))
	assert.Equal(t, int32(-Precision), third.Exponent())
}

func TestClamp(t *testing.T) {
	lo, hi := decimal.Zero, Hundred
	assert.True(t, Clamp(decimal.NewFromInt(150), lo, hi).Equal(hi))
	assert.True(t, Clamp(decimal.NewFromInt(-5), lo, hi).Equal(lo))
	assert.True(t, Clamp(decimal.NewFromInt(50), lo, hi).Equal(decimal.NewFromInt(50)))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{999.999, "$1,000.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-80, "-$80.00"},
		{-0.001, "$0.00"},
		{1342.05, "$1,342.05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in), "input %v", tt.in)
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "6.50%", FormatPercentage(6.5, 2))
	assert.Equal(t, "10%", FormatPercentage(9.6, 0))
	assert.Equal(t, "33.3%", FormatPercentage(33.333, 1))
	assert.Equal(t, "7%", FormatPercentage(7, -1))
}
