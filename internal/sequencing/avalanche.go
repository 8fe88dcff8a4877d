package sequencing

import (
	"sort"

	"github.com/rgehrsitz/fincalc/internal/domain"
)

// AvalancheStrategy: highest interest rate first.
// Minimizes total interest; ties keep input order.
type AvalancheStrategy struct{}

func NewAvalancheStrategy() *AvalancheStrategy { return &AvalancheStrategy{} }

func (s *AvalancheStrategy) Name() string { return string(domain.StrategyAvalanche) }

func (s *AvalancheStrategy) Order(debts []domain.Debt) []domain.Debt {
	ordered := cloneDebts(debts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].InterestRate > ordered[j].InterestRate
	})
	return ordered
}
