package market_regime

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/work"
)

// History windows
const (
	RegimePeriod   = "3mo"
	RotationPeriod = "1mo"
	dailyInterval  = "1d"
)

// HistorySource provides daily bars. marketdata.Service satisfies it.
type HistorySource interface {
	History(ctx context.Context, symbol, period, interval string) []domain.Bar
}

// Detector reads benchmark and sector history for regime and rotation.
type Detector struct {
	data      HistorySource
	pool      *work.Pool
	benchmark string
	sectors   []domain.SectorETF
	log       zerolog.Logger
}

// NewDetector creates a detector on benchmark (SPY when empty) over the
// rotation sector set.
func NewDetector(data HistorySource, pool *work.Pool, benchmark string, log zerolog.Logger) *Detector {
	if benchmark == "" {
		benchmark = domain.DefaultBenchmark
	}
	return &Detector{
		data:      data,
		pool:      pool,
		benchmark: benchmark,
		sectors:   domain.RotationSectors,
		log:       log.With().Str("component", "market_regime").Logger(),
	}
}

// Regime classifies the benchmark's last three months.
func (d *Detector) Regime(ctx context.Context) domain.Regime {
	regime := DetectRegime(d.data.History(ctx, d.benchmark, RegimePeriod, dailyInterval))
	d.log.Debug().Str("regime", regime.Regime).Str("trend", regime.Trend).Str("volatility", regime.Volatility).Msg("Market regime detected")
	return regime
}

// Rotation ranks the sector ETFs by one-week momentum over a month of bars.
func (d *Detector) Rotation(ctx context.Context) []domain.SectorPerformance {
	bars := work.Map(ctx, d.pool, d.sectors, func(ctx context.Context, etf domain.SectorETF) []domain.Bar {
		return d.data.History(ctx, etf.Symbol, RotationPeriod, dailyInterval)
	})
	series := make(map[string][]domain.Bar, len(d.sectors))
	for i, etf := range d.sectors {
		series[etf.Symbol] = bars[i]
	}
	return Rotation(d.sectors, series)
}
