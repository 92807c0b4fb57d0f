package narrative

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/work"
)

// NewsLookback bounds the headlines considered as a catalyst
const NewsLookback = 48 * time.Hour

// MarketData is the subset of marketdata.Service the generator reads.
type MarketData interface {
	Quote(ctx context.Context, symbol string) domain.Quote
	News(ctx context.Context, symbol string, lookback time.Duration) []domain.NewsItem
}

// IndicatorSource computes indicators for a symbol.
type IndicatorSource interface {
	Indicators(ctx context.Context, symbol string) (domain.IndicatorSet, error)
}

// Generator collects narrative inputs from market data.
type Generator struct {
	data       MarketData
	indicators IndicatorSource
	pool       *work.Pool
	now        func() time.Time
	log        zerolog.Logger
}

// NewGenerator creates a narrative generator.
func NewGenerator(data MarketData, indicators IndicatorSource, pool *work.Pool, log zerolog.Logger) *Generator {
	return &Generator{
		data:       data,
		indicators: indicators,
		pool:       pool,
		now:        time.Now,
		log:        log.With().Str("component", "narrative").Logger(),
	}
}

// ForSymbol computes indicators for symbol and narrates them.
func (g *Generator) ForSymbol(ctx context.Context, symbol string) []domain.NarrativeToken {
	ind, err := g.indicators.Indicators(ctx, symbol)
	if err != nil {
		return Unavailable()
	}
	return g.WithIndicators(ctx, symbol, &ind)
}

// WithIndicators narrates precomputed indicators. News is only fetched
// when the consolidation branch needs a catalyst.
func (g *Generator) WithIndicators(ctx context.Context, symbol string, ind *domain.IndicatorSet) []domain.NarrativeToken {
	if ind == nil {
		return Unavailable()
	}
	in := Input{Indicators: ind}
	if NeedsCatalyst(ind) {
		in.News = g.data.News(ctx, symbol, NewsLookback)
	}

	stock := g.data.Quote(ctx, symbol).ChangePercent
	in.StockChange = &stock
	if etf, ok := domain.SymbolToSector[symbol]; ok {
		sector := g.data.Quote(ctx, etf).ChangePercent
		in.SectorChange = &sector
	}
	market := g.data.Quote(ctx, domain.SP500Symbol).ChangePercent
	in.MarketChange = &market

	return Build(in)
}

// Morning narrates the current session from index and sector quotes.
func (g *Generator) Morning(ctx context.Context) []domain.NarrativeToken {
	symbols := make([]string, 0, len(domain.MarketIndices)+len(domain.CoreSectors))
	for _, idx := range domain.MarketIndices {
		symbols = append(symbols, idx.Symbol)
	}
	for _, s := range domain.CoreSectors {
		symbols = append(symbols, s.Symbol)
	}

	quotes := work.Map(ctx, g.pool, symbols, func(ctx context.Context, sym string) domain.Quote {
		return g.data.Quote(ctx, sym)
	})

	in := MorningInput{
		Now:     g.now(),
		Indices: make(map[string]float64, len(domain.MarketIndices)),
		Sectors: make(map[string]float64, len(domain.CoreSectors)),
	}
	for i, q := range quotes {
		if q.Symbol == "" {
			continue // task panicked
		}
		if i < len(domain.MarketIndices) {
			in.Indices[symbols[i]] = q.ChangePercent
		} else {
			in.Sectors[symbols[i]] = q.ChangePercent
		}
	}

	return Morning(in)
}
