// Package validation holds the composable field rules used by calculators.
// A rule is a predicate over one field's value (and, for cross-field rules,
// every value) paired with the message reported when it fails.
package validation

import (
	"fmt"
)

// Rule is a single check on a field
type Rule struct {
	// Name identifies the rule kind in logs and listings ("required", "min").
	Name string

	Check func(value any, all Values) bool

	// Message is reported on failure unless MessageFunc is set.
	Message     string
	MessageFunc func(value any) string
}

// Validate runs the check. A rule without a check always passes.
func (r Rule) Validate(value any, all Values) bool {
	if r.Check == nil {
		return true
	}
	return r.Check(value, all)
}

// MessageFor renders the failure message for value
func (r Rule) MessageFor(value any) string {
	if r.MessageFunc != nil {
		return r.MessageFunc(value)
	}
	return r.Message
}

// WithMessage returns a copy of r reporting msg
func (r Rule) WithMessage(msg string) Rule {
	r.Message = msg
	r.MessageFunc = nil
	return r
}

// Required rejects nil and blank strings. Zero and false pass.
func Required(msg string) Rule {
	if msg == "" {
		msg = "This field is required"
	}
	return Rule{
		Name:    "required",
		Message: msg,
		Check: func(value any, _ Values) bool {
			return !IsEmpty(value)
		},
	}
}

// Min requires a number >= min. Empty values pass so optional fields can be
// left blank; pair with Required when a value must be present.
func Min(min float64, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %s", trimFloat(min))
	}
	return Rule{
		Name:    "min",
		Message: msg,
		Check: numeric(func(f float64) bool {
			return f >= min
		}),
	}
}

// Max requires a number <= max
func Max(max float64, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at most %s", trimFloat(max))
	}
	return Rule{
		Name:    "max",
		Message: msg,
		Check: numeric(func(f float64) bool {
			return f <= max
		}),
	}
}

// Percentage requires a number in [0, 100]
func Percentage(msg string) Rule {
	if msg == "" {
		msg = "Must be between 0 and 100"
	}
	return Rule{
		Name:    "percentage",
		Message: msg,
		Check: numeric(func(f float64) bool {
			return f >= 0 && f <= 100
		}),
	}
}

// Positive requires a number > 0
func Positive(msg string) Rule {
	if msg == "" {
		msg = "Must be greater than 0"
	}
	return Rule{
		Name:    "positive",
		Message: msg,
		Check: numeric(func(f float64) bool {
			return f > 0
		}),
	}
}

// Custom wraps an arbitrary cross-field predicate
func Custom(name string, check func(value any, all Values) bool, msg string) Rule {
	return Rule{Name: name, Check: check, Message: msg}
}

// AtMostField requires this field's number to be <= the number in other.
// The rule passes while either side is empty or non-numeric.
func AtMostField(other, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must not exceed %s", other)
	}
	return Rule{
		Name:    "lte_field",
		Message: msg,
		Check:   compareField(other, func(a, b float64) bool { return a <= b }),
	}
}

// AtLeastField requires this field's number to be >= the number in other
func AtLeastField(other, msg string) Rule {
	if msg == "" {
		msg = fmt.Sprintf("Must be at least %s", other)
	}
	return Rule{
		Name:    "gte_field",
		Message: msg,
		Check:   compareField(other, func(a, b float64) bool { return a >= b }),
	}
}

// NotEmptyList requires a slice-valued field to hold at least one element
func NotEmptyList(msg string) Rule {
	if msg == "" {
		msg = "Add at least one entry"
	}
	return Rule{
		Name:    "not_empty",
		Message: msg,
		Check: func(value any, _ Values) bool {
			n, ok := length(value)
			return ok && n > 0
		},
	}
}

func numeric(pred func(float64) bool) func(any, Values) bool {
	return func(value any, _ Values) bool {
		if IsEmpty(value) {
			return true
		}
		f, ok := ToFloat(value)
		return ok && pred(f)
	}
}

func compareField(other string, cmp func(a, b float64) bool) func(any, Values) bool {
	return func(value any, all Values) bool {
		a, ok := ToFloat(value)
		if !ok {
			return true
		}
		b, ok := all.Float(other)
		if !ok {
			return true
		}
		return cmp(a, b)
	}
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
