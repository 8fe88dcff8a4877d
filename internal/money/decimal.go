// Package money is the decimal arithmetic layer used by every monetary and
// rate computation. Callers hand in plain numbers (or strings, or decimals),
// all math runs on shopspring/decimal, and plain float64 values come back out.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Precision is the number of fractional digits kept by divisions.
	Precision int32 = 28

	// workPrecision bounds intermediate products inside PowInt so repeated
	// squaring does not grow the coefficient without limit.
	workPrecision int32 = 40

	// CentPlaces is the rounding scale for reported currency values.
	CentPlaces int32 = 2
)

var (
	Zero    = decimal.Zero
	One     = decimal.NewFromInt(1)
	Twelve  = decimal.NewFromInt(12)
	Hundred = decimal.NewFromInt(100)
)

// Value is the set of inputs the layer normalizes.
type Value interface {
	int | int64 | float64 | string | decimal.Decimal
}

// Of converts a supported value to a decimal. Unparseable strings become zero;
// use Parse when the caller needs the error.
func Of[T Value](v T) decimal.Decimal {
	d, err := Parse(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Parse normalizes numbers, numeric strings, and decimals.
func Parse(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, fmt.Errorf("nil decimal")
		}
		return *x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("non-finite number %v", x)
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		return Parse(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint64:
		return decimal.NewFromInt(int64(x)), nil
	case string:
		s := strings.TrimSpace(strings.NewReplacer(",", "", "$", "", "_", "").Replace(x))
		if s == "" {
			return decimal.Zero, fmt.Errorf("empty number")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid number %q: %w", x, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing number")
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", v)
	}
}

// Float returns the plain number handed back to callers.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Cents rounds half-up to two places and returns a plain number.
func Cents(d decimal.Decimal) float64 {
	return d.Round(CentPlaces).InexactFloat64()
}

// Round2 rounds a float to cents through the decimal layer.
func Round2(f float64) float64 {
	return Cents(decimal.NewFromFloat(f))
}

// Div divides at the layer's fixed precision.
func Div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, Precision)
}

// Rate converts a percentage (6 for 6%) to a fraction.
func Rate(percent float64) decimal.Decimal {
	return Div(decimal.NewFromFloat(percent), Hundred)
}

// MonthlyRate converts an annual percentage to a periodic monthly fraction.
func MonthlyRate(annualPercent float64) decimal.Decimal {
	return Div(Rate(annualPercent), Twelve)
}

// PowInt raises base to an integer exponent by repeated squaring.
func PowInt(base decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return One
	}
	if n < 0 {
		return Div(One, PowInt(base, -n))
	}
	result := One
	b := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b).Round(workPrecision)
		}
		n >>= 1
		if n > 0 {
			b = b.Mul(b).Round(workPrecision)
		}
	}
	return result
}

// Pow raises base to exp. Integral exponents stay in decimal arithmetic;
// fractional exponents fall back to float math for the power step only.
func Pow(base, exp decimal.Decimal) decimal.Decimal {
	if exp.Equal(exp.Truncate(0)) {
		return PowInt(base, exp.IntPart())
	}
	f := math.Pow(base.InexactFloat64(), exp.InexactFloat64())
	return decimal.NewFromFloat(f)
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(d, hi))
}
