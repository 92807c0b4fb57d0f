package indicators

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
)

// History periods fetched by the engine
const (
	IndicatorPeriod = "6mo"
	ATRPeriod       = "1mo"
	DailyInterval   = "1d"
)

// HistorySource provides daily bars. marketdata.Service satisfies it.
type HistorySource interface {
	History(ctx context.Context, symbol, period, interval string) []domain.Bar
}

// Engine computes indicators for a symbol from cached history.
type Engine struct {
	data HistorySource
	log  zerolog.Logger
}

// NewEngine creates an indicator engine over data.
func NewEngine(data HistorySource, log zerolog.Logger) *Engine {
	return &Engine{
		data: data,
		log:  log.With().Str("component", "indicators").Logger(),
	}
}

// Indicators returns the indicator set for symbol over six months of
// daily bars, or ErrInsufficientData.
func (e *Engine) Indicators(ctx context.Context, symbol string) (domain.IndicatorSet, error) {
	bars := e.data.History(ctx, symbol, IndicatorPeriod, DailyInterval)
	set, err := Compute(bars)
	if err != nil {
		e.log.Debug().Err(err).Str("symbol", symbol).Msg("Indicators unavailable")
		return domain.IndicatorSet{}, err
	}
	return set, nil
}

// ATR returns the 14-bar average true range over one month of bars.
// It never fails.
func (e *Engine) ATR(ctx context.Context, symbol string) float64 {
	return ATR(e.data.History(ctx, symbol, ATRPeriod, DailyInterval), ATRLength)
}
