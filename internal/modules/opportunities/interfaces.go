package opportunities

import (
	"context"

	"github.com/aristath/espresso/internal/domain"
)

// IndicatorEngine computes technical indicators and volatility for a
// symbol. indicators.Engine implements it.
type IndicatorEngine interface {
	Indicators(ctx context.Context, symbol string) (domain.IndicatorSet, error)
	ATR(ctx context.Context, symbol string) float64
}

// RiskEngine supplies beta for profile matching. risk.Engine implements it.
type RiskEngine interface {
	Metrics(ctx context.Context, symbol string) (domain.RiskMetrics, error)
}

// Narrator explains an indicator set. narrative.Generator implements it.
type Narrator interface {
	WithIndicators(ctx context.Context, symbol string, ind *domain.IndicatorSet) []domain.NarrativeToken
}

// CatalystSource labels the next event for a symbol. earnings.Service
// implements it.
type CatalystSource interface {
	Catalyst(ctx context.Context, symbol string) string
}
