package sequencing

import "github.com/rgehrsitz/fincalc/internal/domain"

// SequencingStrategy decides which debt receives the extra payment first.
// Order returns a new slice; the input is never reordered in place.
type SequencingStrategy interface {
	Name() string
	Order(debts []domain.Debt) []domain.Debt
}

// cloneDebts copies the slice so strategies can sort freely
func cloneDebts(debts []domain.Debt) []domain.Debt {
	out := make([]domain.Debt, len(debts))
	copy(out, debts)
	return out
}
