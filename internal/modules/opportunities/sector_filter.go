package opportunities

import (
	"github.com/aristath/espresso/internal/domain"
)

// CandidatePool narrows universe to the coverage sectors. Symbols without
// a sector mapping always pass; an empty coverage list passes everything.
// When fewer than MinResults symbols survive the whole universe is used,
// so a narrow coverage list still yields a full result set.
func CandidatePool(universe []string, coverage []string) []string {
	if len(coverage) == 0 {
		return append([]string(nil), universe...)
	}
	allowed := make(map[string]bool, len(coverage))
	for _, s := range coverage {
		allowed[s] = true
	}

	pool := make([]string, 0, len(universe))
	for _, sym := range universe {
		sector, mapped := domain.SectorOf(sym)
		if !mapped || allowed[sector] {
			pool = append(pool, sym)
		}
	}
	if len(pool) < MinResults {
		return append([]string(nil), universe...)
	}
	return pool
}
