package sequencing

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/fincalc/internal/domain"
)

// CreateStrategy resolves a strategy by name. An empty name means avalanche.
// "custom:a,b,c" builds a CustomStrategy with the listed debt IDs or names.
func CreateStrategy(name string) (SequencingStrategy, error) {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	switch {
	case lower == "" || lower == string(domain.StrategyAvalanche):
		return NewAvalancheStrategy(), nil
	case lower == string(domain.StrategySnowball):
		return NewSnowballStrategy(), nil
	case strings.HasPrefix(lower, "custom:"):
		var seq []string
		for _, part := range strings.Split(name[len("custom:"):], ",") {
			if p := strings.TrimSpace(part); p != "" {
				seq = append(seq, p)
			}
		}
		return NewCustomStrategy(seq), nil
	default:
		return nil, fmt.Errorf("unknown payoff strategy %q (want avalanche or snowball)", name)
	}
}
