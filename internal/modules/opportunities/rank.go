package opportunities

import (
	"sort"

	"github.com/aristath/espresso/internal/domain"
)

// Result sizing
const (
	MinResults   = 3
	DefaultLimit = 10
)

// ResultSize is max(limit, MinResults) bounded by the candidate count.
func ResultSize(limit, candidates int) int {
	return min(max(limit, MinResults), candidates)
}

// Rank orders candidates by profile match, then liquidity, then score,
// with the symbol as a stable tie-break, and keeps ResultSize of them. A
// poor profile match sinks to the bottom but is not removed.
func Rank(candidates []domain.Opportunity, limit int) []domain.Opportunity {
	ranked := append([]domain.Opportunity(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.IsMatch != b.IsMatch {
			return a.IsMatch
		}
		if a.IsRVOLOk != b.IsRVOLOk {
			return a.IsRVOLOk
		}
		if a.OppScore != b.OppScore {
			return a.OppScore > b.OppScore
		}
		return a.Symbol < b.Symbol
	})
	return ranked[:ResultSize(limit, len(ranked))]
}
