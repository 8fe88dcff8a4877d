package transform

import (
	"fmt"

	"github.com/rgehrsitz/fincalc/internal/validation"
)

// ValueTransform is a what-if adjustment to a calculator's inputs.
// Transforms compose: each one receives the output of the previous one and
// never mutates its input.
type ValueTransform interface {
	// Apply returns a modified copy of base
	Apply(base validation.Values) (validation.Values, error)

	// Name is the short identifier used in specs ("add", "scale")
	Name() string

	// Description says what the transform does in words
	Description() string

	// Validate checks the transform against base without applying it
	Validate(base validation.Values) error
}

// ApplyTransforms runs transforms in order over a copy of base
func ApplyTransforms(base validation.Values, transforms []ValueTransform) (validation.Values, error) {
	if base == nil {
		return nil, fmt.Errorf("base values cannot be nil")
	}

	current := base.Clone()
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// Describe joins the descriptions of transforms for report titles
func Describe(transforms []ValueTransform) string {
	out := ""
	for i, t := range transforms {
		if i > 0 {
			out += "; "
		}
		out += t.Description()
	}
	return out
}

// TransformError reports a transform that could not be validated or applied
type TransformError struct {
	TransformName string
	Field         string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Field, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError
func NewTransformError(transformName, field, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Field:         field,
		Reason:        reason,
		Err:           err,
	}
}
