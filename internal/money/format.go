package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a US dollar amount: "$1,234.56", "-$80.00".
func FormatCurrency(amount float64) string {
	return FormatDecimalCurrency(decimal.NewFromFloat(amount))
}

// FormatDecimalCurrency is FormatCurrency for values already in decimal form.
func FormatDecimalCurrency(amount decimal.Decimal) string {
	s := amount.Round(CentPlaces).StringFixed(CentPlaces)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "0.00" {
		neg = false
	}

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercentage renders a percentage value (6.5 -> "6.50%") with the
// given number of decimals.
func FormatPercentage(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(value).StringFixed(int32(decimals)) + "%"
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
