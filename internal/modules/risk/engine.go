package risk

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/work"
)

// History windows
const (
	MetricsPeriod     = "1y"
	CorrelationPeriod = "3mo"
	ComparisonPeriod  = "1y"
	dailyInterval     = "1d"
)

// DefaultComparisons are used when Comparison is given no peers
var DefaultComparisons = []string{domain.SP500Symbol, "XLK"}

// HistorySource provides daily bars. marketdata.Service satisfies it.
type HistorySource interface {
	History(ctx context.Context, symbol, period, interval string) []domain.Bar
}

// Engine fetches history and computes risk figures.
type Engine struct {
	data      HistorySource
	pool      *work.Pool
	benchmark string
	now       func() time.Time
	log       zerolog.Logger
}

// NewEngine creates a risk engine measuring beta against benchmark.
func NewEngine(data HistorySource, pool *work.Pool, benchmark string, log zerolog.Logger) *Engine {
	if benchmark == "" {
		benchmark = domain.DefaultBenchmark
	}
	return &Engine{
		data:      data,
		pool:      pool,
		benchmark: benchmark,
		now:       time.Now,
		log:       log.With().Str("component", "risk").Logger(),
	}
}

// Metrics returns one year of risk metrics for symbol, or
// ErrInsufficientData.
func (e *Engine) Metrics(ctx context.Context, symbol string) (domain.RiskMetrics, error) {
	series := e.fetch(ctx, []string{symbol, e.benchmark}, MetricsPeriod)
	metrics, err := Compute(series[symbol], series[e.benchmark])
	if err != nil {
		e.log.Debug().Err(err).Str("symbol", symbol).Msg("Risk metrics unavailable")
		return domain.RiskMetrics{}, err
	}
	return metrics, nil
}

// PortfolioCorrelation averages the pairwise correlation of three months
// of daily returns across symbols.
func (e *Engine) PortfolioCorrelation(ctx context.Context, symbols []string) domain.PortfolioCorrelation {
	if len(symbols) < 2 {
		return Portfolio(symbols, nil)
	}
	return Portfolio(symbols, e.fetch(ctx, symbols, CorrelationPeriod))
}

// Comparison reports trailing performance of target and its peers plus
// their price correlation matrix.
func (e *Engine) Comparison(ctx context.Context, target string, others []string) domain.Comparison {
	if len(others) == 0 {
		others = DefaultComparisons
	}
	symbols := dedupe(append([]string{target}, others...))
	series := e.fetch(ctx, symbols, ComparisonPeriod)

	now := e.now()
	performance := make([]domain.PerformanceStats, 0, len(symbols))
	for _, sym := range symbols {
		if len(series[sym]) == 0 {
			continue
		}
		performance = append(performance, Performance(sym, series[sym], now))
	}

	return domain.Comparison{
		Performance: performance,
		Correlation: CorrelationMatrix(symbols, series),
	}
}

func (e *Engine) fetch(ctx context.Context, symbols []string, period string) map[string][]domain.Bar {
	results := work.Map(ctx, e.pool, symbols, func(ctx context.Context, sym string) []domain.Bar {
		return e.data.History(ctx, sym, period, dailyInterval)
	})
	series := make(map[string][]domain.Bar, len(symbols))
	for i, sym := range symbols {
		series[sym] = results[i]
	}
	return series
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
