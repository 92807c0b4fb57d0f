// Package marketdata is the single read path for market data. It puts the
// layered cache in front of the upstream gateway and substitutes a
// deterministic synthetic series whenever upstream data is unusable, so
// analytics always have something to compute on.
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/aristath/espresso/internal/domain"
)

// ErrNoData is returned when a gateway record is empty or malformed.
var ErrNoData = errors.New("no usable market data")

// ErrUnavailable is returned by Compose for a source that was not configured.
var ErrUnavailable = errors.New("market data source not configured")

// PriceSource serves quotes, OHLCV history and fundamentals.
type PriceSource interface {
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
	History(ctx context.Context, symbol, period, interval string) ([]domain.Bar, error)
	Fundamentals(ctx context.Context, symbol string) (*domain.Fundamentals, error)
}

// NewsSource serves recent headlines for a symbol.
type NewsSource interface {
	News(ctx context.Context, symbol string) ([]domain.NewsItem, error)
}

// EarningsSource serves the next earnings date. It returns an error
// wrapping domain.ErrNoEarnings when nothing is scheduled.
type EarningsSource interface {
	NextEarnings(ctx context.Context, symbol string) (*time.Time, error)
}

// Gateway is the full upstream surface consumed by Service.
type Gateway interface {
	PriceSource
	NewsSource
	EarningsSource
}

type composite struct {
	prices   PriceSource
	news     NewsSource
	earnings EarningsSource
}

// Compose joins independent sources into one Gateway. A nil source fails
// every call with ErrUnavailable.
func Compose(prices PriceSource, news NewsSource, earnings EarningsSource) Gateway {
	return &composite{prices: prices, news: news, earnings: earnings}
}

func (c *composite) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	if c.prices == nil {
		return nil, ErrUnavailable
	}
	return c.prices.Quote(ctx, symbol)
}

func (c *composite) History(ctx context.Context, symbol, period, interval string) ([]domain.Bar, error) {
	if c.prices == nil {
		return nil, ErrUnavailable
	}
	return c.prices.History(ctx, symbol, period, interval)
}

func (c *composite) Fundamentals(ctx context.Context, symbol string) (*domain.Fundamentals, error) {
	if c.prices == nil {
		return nil, ErrUnavailable
	}
	return c.prices.Fundamentals(ctx, symbol)
}

func (c *composite) News(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	if c.news == nil {
		return nil, ErrUnavailable
	}
	return c.news.News(ctx, symbol)
}

func (c *composite) NextEarnings(ctx context.Context, symbol string) (*time.Time, error) {
	if c.earnings == nil {
		return nil, ErrUnavailable
	}
	return c.earnings.NextEarnings(ctx, symbol)
}
