package transform

import (
	"fmt"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/shopspring/decimal"
)

// SetValue replaces a field outright
type SetValue struct {
	Field string
	Value any
}

func (t *SetValue) Name() string { return "set" }

func (t *SetValue) Description() string {
	return fmt.Sprintf("set %s to %s", t.Field, calculator.FormatInput(t.Value))
}

func (t *SetValue) Validate(base validation.Values) error {
	if t.Field == "" {
		return NewTransformError(t.Name(), t.Field, "field is required", nil)
	}
	if _, ok := base[t.Field]; !ok {
		return NewTransformError(t.Name(), t.Field, "no such field", nil)
	}
	return nil
}

func (t *SetValue) Apply(base validation.Values) (validation.Values, error) {
	return base.Merge(validation.Values{t.Field: t.Value}), nil
}

// AdjustValue adds Delta to a numeric field. Negative deltas lower it.
type AdjustValue struct {
	Field string
	Delta decimal.Decimal
}

func (t *AdjustValue) Name() string { return "add" }

func (t *AdjustValue) Description() string {
	sign := "+"
	if t.Delta.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("%s %s%s", t.Field, sign, t.Delta.String())
}

func (t *AdjustValue) Validate(base validation.Values) error {
	_, err := numericField(t.Name(), t.Field, base)
	return err
}

func (t *AdjustValue) Apply(base validation.Values) (validation.Values, error) {
	cur, err := numericField(t.Name(), t.Field, base)
	if err != nil {
		return nil, err
	}
	next := money.Float(money.Of(cur).Add(t.Delta))
	return base.Merge(validation.Values{t.Field: keepInteger(base[t.Field], next)}), nil
}

// ScaleValue multiplies a numeric field by Factor
type ScaleValue struct {
	Field  string
	Factor decimal.Decimal
}

func (t *ScaleValue) Name() string { return "scale" }

func (t *ScaleValue) Description() string {
	return fmt.Sprintf("%s x%s", t.Field, t.Factor.String())
}

func (t *ScaleValue) Validate(base validation.Values) error {
	if t.Factor.IsNegative() {
		return NewTransformError(t.Name(), t.Field, "factor cannot be negative", nil)
	}
	_, err := numericField(t.Name(), t.Field, base)
	return err
}

func (t *ScaleValue) Apply(base validation.Values) (validation.Values, error) {
	cur, err := numericField(t.Name(), t.Field, base)
	if err != nil {
		return nil, err
	}
	next := money.Float(money.Of(cur).Mul(t.Factor))
	return base.Merge(validation.Values{t.Field: keepInteger(base[t.Field], next)}), nil
}

func numericField(name, field string, base validation.Values) (float64, error) {
	if field == "" {
		return 0, NewTransformError(name, field, "field is required", nil)
	}
	raw, ok := base[field]
	if !ok {
		return 0, NewTransformError(name, field, "no such field", nil)
	}
	f, ok := validation.ToFloat(raw)
	if !ok {
		return 0, NewTransformError(name, field, fmt.Sprintf("value %v is not a number", raw), nil)
	}
	return f, nil
}

// keepInteger rounds the result back to an int when the field held one
func keepInteger(prev any, next float64) any {
	if _, ok := prev.(int); ok {
		return int(money.Of(next).Round(0).IntPart())
	}
	return next
}
