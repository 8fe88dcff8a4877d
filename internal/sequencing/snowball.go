package sequencing

import (
	"sort"

	"github.com/rgehrsitz/fincalc/internal/domain"
)

// SnowballStrategy: smallest balance first, for early wins.
type SnowballStrategy struct{}

func NewSnowballStrategy() *SnowballStrategy { return &SnowballStrategy{} }

func (s *SnowballStrategy) Name() string { return string(domain.StrategySnowball) }

func (s *SnowballStrategy) Order(debts []domain.Debt) []domain.Debt {
	ordered := cloneDebts(debts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Balance < ordered[j].Balance
	})
	return ordered
}
