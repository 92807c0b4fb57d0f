package opportunities

import (
	"math"

	"github.com/aristath/espresso/internal/domain"
)

// Profile is the rule set for one risk profile. A symbol matches when its
// beta is inside [MinBeta, MaxBeta] and, if Sectors is set, its sector is
// listed. Stop and target sit StopATR and TargetATR average true ranges
// from the entry.
type Profile struct {
	Name         domain.RiskProfile
	MinBeta      float64
	MaxBeta      float64
	Sectors      []string
	StopATR      float64
	TargetATR    float64
	PositionSize string
}

// Profiles is the rule table keyed by risk profile.
var Profiles = map[domain.RiskProfile]Profile{
	domain.ProfileDefensive: {
		Name:         domain.ProfileDefensive,
		MinBeta:      math.Inf(-1),
		MaxBeta:      1.0,
		Sectors:      []string{"Staples", "Utilities", "Healthcare", "Financials"},
		StopATR:      1.5,
		TargetATR:    2.0,
		PositionSize: "2-3%",
	},
	domain.ProfileBalanced: {
		Name:         domain.ProfileBalanced,
		MinBeta:      0.6,
		MaxBeta:      1.6,
		StopATR:      2.0,
		TargetATR:    3.0,
		PositionSize: "3-5%",
	},
	domain.ProfileSpeculative: {
		Name:         domain.ProfileSpeculative,
		MinBeta:      1.1,
		MaxBeta:      math.Inf(1),
		Sectors:      []string{"Technology", "Discretionary", "Communication", "Energy"},
		StopATR:      2.5,
		TargetATR:    5.0,
		PositionSize: "5-8%",
	},
}

// ProfileFor returns the rules for p; unknown profiles get BALANCED.
func ProfileFor(p domain.RiskProfile) Profile {
	if profile, ok := Profiles[p]; ok {
		return profile
	}
	return Profiles[domain.ProfileBalanced]
}

// Matches reports whether a symbol with beta and sector fits the profile.
func (p Profile) Matches(beta float64, sector string) bool {
	if beta < p.MinBeta || beta > p.MaxBeta {
		return false
	}
	if len(p.Sectors) == 0 {
		return true
	}
	for _, s := range p.Sectors {
		if s == sector {
			return true
		}
	}
	return false
}
