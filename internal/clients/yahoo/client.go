// Package yahoo implements the market data gateway on Yahoo Finance:
// quotes, history and fundamentals through go-yfinance, headlines through
// the per-symbol RSS feed.
package yahoo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
	"golang.org/x/time/rate"

	"github.com/aristath/espresso/internal/domain"
)

// ErrNoPrice is returned when Yahoo reports neither a price nor a previous close.
var ErrNoPrice = errors.New("yahoo returned no usable price")

// Client fetches from Yahoo Finance, sharing one request limiter across
// goroutines.
type Client struct {
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient creates a client allowing perSecond requests with a burst of one.
func NewClient(perSecond float64, log zerolog.Logger) *Client {
	if perSecond <= 0 {
		perSecond = 5
	}
	return &Client{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

func (c *Client) open(ctx context.Context, symbol string) (*ticker.Ticker, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	return t, nil
}

// Quote returns the latest snapshot. Price and the session's open, range
// and volume come from the quote endpoint with pre/post market price
// fallbacks; the info endpoint fills previous close, market cap, name and
// any session field the quote left empty.
func (c *Client) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	t, err := c.open(ctx, symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	quote, qErr := t.Quote()
	if qErr != nil {
		c.log.Debug().Err(qErr).Str("symbol", symbol).Msg("Quote endpoint failed, using info only")
	}
	info, iErr := t.Info()
	if iErr != nil {
		c.log.Debug().Err(iErr).Str("symbol", symbol).Msg("Info endpoint failed")
	}

	q := quoteFrom(symbol, quote, info)
	if q.Price <= 0 || q.PrevClose <= 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoPrice)
	}
	return &q, nil
}

// quoteFrom merges the quote and info payloads; either may be nil. Session
// fields Yahoo leaves empty default to the price.
func quoteFrom(symbol string, quote *models.Quote, info *models.Info) domain.Quote {
	q := domain.Quote{Symbol: symbol, Name: domain.NameOf(symbol)}

	if quote != nil {
		q.Price = firstPositive(quote.RegularMarketPrice, quote.PreMarketPrice, quote.PostMarketPrice)
		q.Open = quote.RegularMarketOpen
		q.High = quote.RegularMarketDayHigh
		q.Low = quote.RegularMarketDayLow
		q.Volume = float64(quote.RegularMarketVolume)
		q.PrevClose = quote.RegularMarketPreviousClose
	}

	if info != nil {
		q.Price = firstPositive(q.Price, info.CurrentPrice)
		q.PrevClose = firstPositive(info.RegularMarketPreviousClose, q.PrevClose, info.PreviousClose)
		q.Open = firstPositive(q.Open, info.RegularMarketOpen, info.Open)
		q.High = firstPositive(q.High, info.RegularMarketDayHigh, info.DayHigh)
		q.Low = firstPositive(q.Low, info.RegularMarketDayLow, info.DayLow)
		if q.Volume <= 0 {
			q.Volume = float64(max(info.RegularMarketVolume, info.Volume))
		}
		q.MarketCap = float64(info.MarketCap)
		if info.LongName != "" {
			q.Name = info.LongName
		} else if info.ShortName != "" {
			q.Name = info.ShortName
		}
	}

	q.Open = firstPositive(q.Open, q.Price)
	q.High = firstPositive(q.High, q.Price)
	q.Low = firstPositive(q.Low, q.Price)
	return q
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// History returns OHLCV bars oldest first.
func (c *Client) History(ctx context.Context, symbol, period, interval string) ([]domain.Bar, error) {
	t, err := c.open(ctx, symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   interval,
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", symbol, err)
	}

	out := make([]domain.Bar, 0, len(bars))
	for _, bar := range bars {
		out = append(out, domain.Bar{
			Timestamp: bar.Date,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    float64(bar.Volume),
		})
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("period", period).
		Int("bars", len(out)).
		Msg("Fetched history")

	return out, nil
}

// Fundamentals maps the info endpoint onto valuation, profitability and
// growth figures. Ratios reported as fractions are converted to percent.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*domain.Fundamentals, error) {
	t, err := c.open(ctx, symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get info for %s: %w", symbol, err)
	}
	if info == nil {
		return nil, fmt.Errorf("empty info for %s", symbol)
	}

	return &domain.Fundamentals{
		Symbol:          symbol,
		PE:              info.TrailingPE,
		ForwardPE:       info.ForwardPE,
		PEG:             info.PegRatio,
		PriceToBook:     info.PriceToBook,
		MarketCap:       float64(info.MarketCap),
		OperatingMargin: info.OperatingMargins * 100,
		NetMargin:       info.ProfitMargins * 100,
		ROE:             info.ReturnOnEquity * 100,
		RevenueGrowth:   info.RevenueGrowth * 100,
		EarningsGrowth:  info.EarningsGrowth * 100,
	}, nil
}
