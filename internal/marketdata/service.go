package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/clientdata"
	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/modules/sentiment"
	"github.com/aristath/espresso/internal/utils"
	"github.com/aristath/espresso/pkg/formulas"
)

// Service reads market data through the cache. Quote and History never
// fail: unusable upstream data is replaced by the synthetic series, which
// is never written to the cache.
type Service struct {
	gateway Gateway
	cache   *clientdata.Repository
	synth   *Synthesizer
	now     func() time.Time
	log     zerolog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the clock used for news lookback and synthetic dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a cached market data service.
func NewService(gateway Gateway, cache *clientdata.Repository, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		cache:   cache,
		now:     time.Now,
		log:     log.With().Str("component", "marketdata").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.synth = NewSynthesizer(s.now)
	return s
}

// Synthesizer exposes the fallback generator.
func (s *Service) Synthesizer() *Synthesizer {
	return s.synth
}

// Quote returns the latest snapshot for symbol.
func (s *Service) Quote(ctx context.Context, symbol string) domain.Quote {
	symbol = utils.NormalizeSymbol(symbol)
	key := clientdata.NewKey(clientdata.KindQuote, symbol)

	q, _, err := clientdata.GetOrFetch(s.cache, key, func() (domain.Quote, error) {
		raw, err := s.gateway.Quote(ctx, symbol)
		if err != nil {
			return domain.Quote{}, err
		}
		return validQuote(symbol, raw)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote unavailable, using synthetic estimate")
		return s.synth.Quote(symbol)
	}
	return q
}

// History returns bars for period and interval, oldest first.
func (s *Service) History(ctx context.Context, symbol, period, interval string) []domain.Bar {
	symbol = utils.NormalizeSymbol(symbol)
	key := clientdata.NewKey(clientdata.KindHistory, symbol, period, interval)

	bars, _, err := clientdata.GetOrFetch(s.cache, key, func() ([]domain.Bar, error) {
		raw, err := s.gateway.History(ctx, symbol, period, interval)
		if err != nil {
			return nil, err
		}
		cleaned := CleanBars(raw)
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("history %s/%s: %w", period, interval, ErrNoData)
		}
		return cleaned, nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Str("period", period).Msg("History unavailable, using synthetic series")
		return s.synth.History(symbol, period)
	}
	return bars
}

// News returns classified headlines published within lookback, newest
// first. Failure yields an empty list; headlines are never synthesized.
func (s *Service) News(ctx context.Context, symbol string, lookback time.Duration) []domain.NewsItem {
	symbol = utils.NormalizeSymbol(symbol)
	key := clientdata.NewKey(clientdata.KindNews, symbol)

	items, _, err := clientdata.GetOrFetch(s.cache, key, func() ([]domain.NewsItem, error) {
		return s.gateway.News(ctx, symbol)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("News unavailable")
		return []domain.NewsItem{}
	}

	cutoff := s.now().Add(-lookback)
	recent := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Headline) == "" || item.PublishedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, item)
	}
	sentiment.ClassifyAll(recent)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].PublishedAt.After(recent[j].PublishedAt)
	})
	return recent
}

// Fundamentals returns valuation figures and whether they were available.
func (s *Service) Fundamentals(ctx context.Context, symbol string) (domain.Fundamentals, bool) {
	symbol = utils.NormalizeSymbol(symbol)
	key := clientdata.NewKey(clientdata.KindFundamentals, symbol)

	f, _, err := clientdata.GetOrFetch(s.cache, key, func() (domain.Fundamentals, error) {
		raw, err := s.gateway.Fundamentals(ctx, symbol)
		if err != nil {
			return domain.Fundamentals{}, err
		}
		if raw == nil {
			return domain.Fundamentals{}, ErrNoData
		}
		out := *raw
		out.Symbol = symbol
		return out, nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Fundamentals unavailable")
		return domain.Fundamentals{}, false
	}
	return f, true
}

type earningsRecord struct {
	Date *time.Time `json:"date"`
}

// NextEarnings returns the next report date, or nil when none is
// scheduled. An error means the calendar could not be read.
func (s *Service) NextEarnings(ctx context.Context, symbol string) (*time.Time, error) {
	symbol = utils.NormalizeSymbol(symbol)
	key := clientdata.NewKey(clientdata.KindEarnings, symbol)

	rec, _, err := clientdata.GetOrFetch(s.cache, key, func() (earningsRecord, error) {
		date, err := s.gateway.NextEarnings(ctx, symbol)
		if errors.Is(err, domain.ErrNoEarnings) {
			return earningsRecord{}, nil
		}
		if err != nil {
			return earningsRecord{}, err
		}
		return earningsRecord{Date: date}, nil
	})
	if err != nil {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("Earnings date unavailable")
		return nil, err
	}
	return rec.Date, nil
}

// CleanBars drops bars without a positive finite close, repairs the other
// price fields from the close and sorts by timestamp.
func CleanBars(bars []domain.Bar) []domain.Bar {
	out := make([]domain.Bar, 0, len(bars))
	for _, b := range bars {
		if !formulas.IsFinite(b.Close) || b.Close <= 0 {
			continue
		}
		if !formulas.IsFinite(b.Open) || b.Open <= 0 {
			b.Open = b.Close
		}
		if !formulas.IsFinite(b.High) || b.High <= 0 {
			b.High = b.Close
		}
		if !formulas.IsFinite(b.Low) || b.Low <= 0 {
			b.Low = b.Close
		}
		b.High = max(b.High, b.Open, b.Close)
		b.Low = min(b.Low, b.Open, b.Close)
		if !formulas.IsFinite(b.Volume) || b.Volume < 0 {
			b.Volume = 0
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func validQuote(symbol string, raw *domain.Quote) (domain.Quote, error) {
	if raw == nil {
		return domain.Quote{}, ErrNoData
	}
	q := *raw
	if !formulas.IsFinite(q.Price) || q.Price <= 0 || !formulas.IsFinite(q.PrevClose) || q.PrevClose <= 0 {
		return domain.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrNoData)
	}
	q.Symbol = symbol
	if q.Name == "" {
		q.Name = domain.NameOf(symbol)
	}
	q.Synthetic = false
	return q.WithChange(), nil
}
