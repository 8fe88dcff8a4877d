package sequencing

import "github.com/rgehrsitz/fincalc/internal/domain"

// CustomStrategy targets debts in a user-specified order of IDs or names.
// Debts not named in the sequence follow in avalanche order. If the
// sequence is invalid (unknown or repeated entries), it falls back to avalanche.
type CustomStrategy struct {
	Sequence []string
}

func NewCustomStrategy(sequence []string) *CustomStrategy { return &CustomStrategy{Sequence: sequence} }

func (s *CustomStrategy) Name() string { return "custom" }

func (s *CustomStrategy) Order(debts []domain.Debt) []domain.Debt {
	fallback := NewAvalancheStrategy().Order(debts)

	lookup := map[string]int{}
	for i, d := range fallback {
		if d.ID != "" {
			lookup[d.ID] = i
		}
		if _, taken := lookup[d.Name]; !taken && d.Name != "" {
			lookup[d.Name] = i
		}
	}

	used := make([]bool, len(fallback))
	ordered := make([]domain.Debt, 0, len(fallback))
	for _, key := range s.Sequence {
		idx, ok := lookup[key]
		if !ok || used[idx] {
			return fallback
		}
		used[idx] = true
		ordered = append(ordered, fallback[idx])
	}
	for i, d := range fallback {
		if !used[i] {
			ordered = append(ordered, d)
		}
	}
	return ordered
}
