package calculation

import "errors"

var (
	// ErrInvalidInput marks arguments outside a formula's domain
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoConvergence is returned when an iterative solver hits its cap
	ErrNoConvergence = errors.New("did not converge")
	// ErrZeroDerivative stops Newton-Raphson when the slope vanishes
	ErrZeroDerivative = errors.New("derivative is zero")
)

// CalculationError wraps a failure with the operation that produced it
type CalculationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}

func invalid(operation, message string) error {
	return &CalculationError{Operation: operation, Message: message, Cause: ErrInvalidInput}
}
