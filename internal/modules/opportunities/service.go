package opportunities

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/utils"
	"github.com/aristath/espresso/internal/work"
)

// DefaultBeta is assumed when risk metrics cannot be computed
const DefaultBeta = 1.0

// Service produces ranked trade ideas for a risk profile.
type Service struct {
	indicators IndicatorEngine
	risk       RiskEngine
	narrator   Narrator
	catalysts  CatalystSource
	pool       *work.Pool
	universe   func() []string
	log        zerolog.Logger
}

// NewService creates a new opportunities service
func NewService(
	indicators IndicatorEngine,
	risk RiskEngine,
	narrator Narrator,
	catalysts CatalystSource,
	pool *work.Pool,
	log zerolog.Logger,
) *Service {
	return &Service{
		indicators: indicators,
		risk:       risk,
		narrator:   narrator,
		catalysts:  catalysts,
		pool:       pool,
		universe:   domain.Universe,
		log:        log.With().Str("module", "opportunities").Logger(),
	}
}

// Get scores the coverage pool for profile and returns the ranked top
// ideas. limit <= 0 means DefaultLimit. Symbols with too little history
// are skipped; the call never fails as a whole.
func (s *Service) Get(ctx context.Context, profile domain.RiskProfile, settings domain.Settings, limit int) []domain.Opportunity {
	if limit <= 0 {
		limit = DefaultLimit
	}
	timer := utils.NewTimer("opportunities", s.log)
	defer timer.Stop()

	rules := ProfileFor(profile)
	pool := CandidatePool(s.universe(), settings.CoverageSectors)

	scored := work.Map(ctx, s.pool, pool, func(ctx context.Context, symbol string) *domain.Opportunity {
		return s.score(ctx, symbol, rules, settings.RVOLThreshold)
	})

	candidates := make([]domain.Opportunity, 0, len(scored))
	for _, opp := range scored {
		if opp != nil {
			candidates = append(candidates, *opp)
		}
	}

	ranked := Rank(candidates, limit)
	s.log.Debug().
		Str("profile", string(rules.Name)).
		Int("pool", len(pool)).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Msg("Ranked opportunities")
	return ranked
}

// score builds one opportunity, or nil when the symbol cannot be scored.
func (s *Service) score(ctx context.Context, symbol string, rules Profile, rvolThreshold float64) *domain.Opportunity {
	ind, err := s.indicators.Indicators(ctx, symbol)
	if err != nil {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("Skipping symbol")
		return nil
	}

	beta := DefaultBeta
	if metrics, err := s.risk.Metrics(ctx, symbol); err == nil {
		beta = metrics.Beta
	} else if !errors.Is(err, context.Canceled) {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("Beta unavailable, assuming market beta")
	}

	sector, _ := domain.SectorOf(symbol)
	confidence := Confidence(ind)

	return &domain.Opportunity{
		Symbol:     symbol,
		Name:       domain.NameOf(symbol),
		Sector:     sector,
		Confidence: confidence,
		OppScore:   OppScore(ind, confidence),
		Narrative:  s.narrator.WithIndicators(ctx, symbol, &ind),
		TradeSetup: BuildSetup(ind.Price, s.indicators.ATR(ctx, symbol), rules, ind),
		Catalyst:   s.catalysts.Catalyst(ctx, symbol),
		RVOL:       ind.RVOL,
		Beta:       beta,
		IsMatch:    rules.Matches(beta, sector),
		IsRVOLOk:   ind.RVOL >= rvolThreshold,
	}
}
