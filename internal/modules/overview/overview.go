// Package overview answers the market summary questions: where the major
// indices stand, which coverage names moved most today, and what the
// headlines are talking about.
package overview

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/work"
)

// DefaultMovers is how many gainers and losers are listed
const DefaultMovers = 5

// MaxTalkingPoints bounds the headlines used as talking points
const MaxTalkingPoints = 4

// NewsLookback is the age limit for headlines served on their own
const NewsLookback = 7 * 24 * time.Hour

// FallbackTalkingPoints stand in when no headline is available
var FallbackTalkingPoints = []string{
	"Market is currently open - Live trading in progress",
	"Monitor earnings reports and Federal Reserve announcements",
}

// MarketData is the slice of marketdata.Service the overview reads.
type MarketData interface {
	Quote(ctx context.Context, symbol string) domain.Quote
	News(ctx context.Context, symbol string, lookback time.Duration) []domain.NewsItem
}

// Service builds overview answers on the shared worker pool.
type Service struct {
	data     MarketData
	pool     *work.Pool
	headline string
	universe func() []string
	log      zerolog.Logger
}

// NewService creates an overview whose talking points come from the
// headlines of symbol, normally the benchmark ETF.
func NewService(data MarketData, pool *work.Pool, symbol string, log zerolog.Logger) *Service {
	return &Service{
		data:     data,
		pool:     pool,
		headline: symbol,
		universe: domain.Universe,
		log:      log.With().Str("module", "overview").Logger(),
	}
}

// Indices quotes the S&P 500, NASDAQ and Dow in that order, named by
// index rather than by ticker.
func (s *Service) Indices(ctx context.Context) []domain.Quote {
	quotes := work.Map(ctx, s.pool, domain.MarketIndices, func(ctx context.Context, idx domain.Index) domain.Quote {
		q := s.data.Quote(ctx, idx.Symbol)
		q.Name = idx.Name
		return q
	})
	return present(quotes)
}

// Movers quotes the coverage universe and returns the n best and n worst
// by percent change. n <= 0 means DefaultMovers.
func (s *Service) Movers(ctx context.Context, n int) domain.Movers {
	quotes := work.Map(ctx, s.pool, s.universe(), func(ctx context.Context, sym string) domain.Quote {
		return s.data.Quote(ctx, sym)
	})
	movers := SplitMovers(present(quotes), n)
	s.log.Debug().Int("gainers", len(movers.Gainers)).Int("losers", len(movers.Losers)).Msg("Movers ranked")
	return movers
}

// News returns classified headlines for symbol from the last week.
func (s *Service) News(ctx context.Context, symbol string) []domain.NewsItem {
	return s.data.News(ctx, symbol, NewsLookback)
}

// TalkingPoints returns the latest headlines of the talking-point symbol.
func (s *Service) TalkingPoints(ctx context.Context) []string {
	return TalkingPoints(s.data.News(ctx, s.headline, NewsLookback))
}

// SplitMovers orders quotes by percent change. Gainers run best first,
// losers worst first; with fewer than 2n quotes the lists overlap.
func SplitMovers(quotes []domain.Quote, n int) domain.Movers {
	if n <= 0 {
		n = DefaultMovers
	}
	sorted := append([]domain.Quote{}, quotes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePercent > sorted[j].ChangePercent
	})

	n = min(n, len(sorted))
	losers := make([]domain.Quote, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		losers = append(losers, sorted[i])
	}
	return domain.Movers{
		Gainers: sorted[:n],
		Losers:  losers,
	}
}

// TalkingPoints takes up to MaxTalkingPoints headlines from items, newest
// first. No headlines yields FallbackTalkingPoints.
func TalkingPoints(items []domain.NewsItem) []string {
	points := make([]string, 0, MaxTalkingPoints)
	for _, item := range items {
		if item.Headline == "" {
			continue
		}
		points = append(points, item.Headline)
		if len(points) == MaxTalkingPoints {
			break
		}
	}
	if len(points) == 0 {
		return append([]string{}, FallbackTalkingPoints...)
	}
	return points
}

// present drops quotes left empty by a failed task.
func present(quotes []domain.Quote) []domain.Quote {
	out := make([]domain.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.Symbol != "" {
			out = append(out, q)
		}
	}
	return out
}
