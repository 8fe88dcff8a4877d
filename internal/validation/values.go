package validation

import (
	"math"
	"slices"
	"strings"

	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
)

// Values holds a calculator's field values keyed by field name
type Values map[string]any

// Clone returns a deep copy of v. Nested maps and slices are copied so the
// copy can be handed out without exposing engine state.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

// Merge returns a copy of v with every key of partial applied on top
func (v Values) Merge(partial Values) Values {
	out := v.Clone()
	if out == nil {
		out = Values{}
	}
	for k, val := range partial {
		out[k] = cloneValue(val)
	}
	return out
}

// Float reads a numeric field, reporting false when it is absent or not a number
func (v Values) Float(key string) (float64, bool) {
	return ToFloat(v[key])
}

// FloatOr reads a numeric field with a fallback
func (v Values) FloatOr(key string, def float64) float64 {
	if f, ok := v.Float(key); ok {
		return f
	}
	return def
}

// Int reads a numeric field truncated toward zero
func (v Values) Int(key string) (int, bool) {
	f, ok := v.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// String reads a string field
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// ToFloat converts numbers, numeric strings, and decimals to float64.
func ToFloat(value any) (float64, bool) {
	switch x := value.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case bool, nil:
		return 0, false
	}
	d, err := money.Parse(value)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// IsEmpty reports whether a value counts as missing: nil, an empty or
// whitespace-only string, or a nil pointer. Zero and false are not empty.
func IsEmpty(value any) bool {
	switch x := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case *float64:
		return x == nil
	case *string:
		return x == nil
	}
	return false
}

func cloneValue(val any) any {
	switch x := val.(type) {
	case map[string]any:
		if x == nil {
			return x
		}
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = cloneValue(e)
		}
		return m
	case Values:
		return x.Clone()
	case []any:
		if x == nil {
			return x
		}
		s := make([]any, len(x))
		for i, e := range x {
			s[i] = cloneValue(e)
		}
		return s
	case []float64:
		return slices.Clone(x)
	case []string:
		return slices.Clone(x)
	case []domain.Debt:
		return slices.Clone(x)
	case []domain.TaxBracket:
		return slices.Clone(x)
	}
	return val
}
