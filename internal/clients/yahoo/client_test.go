package yahoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wnjoon/go-yfinance/pkg/models"
)

func TestQuoteFrom_SessionFields(t *testing.T) {
	quote := &models.Quote{
		RegularMarketPrice:         190.5,
		RegularMarketOpen:          188.0,
		RegularMarketDayHigh:       191.2,
		RegularMarketDayLow:        187.4,
		RegularMarketVolume:        52_000_000,
		RegularMarketPreviousClose: 187.9,
	}
	info := &models.Info{LongName: "Apple Inc.", RegularMarketPreviousClose: 188.1, MarketCap: 2_900_000_000_000}

	q := quoteFrom("AAPL", quote, info)

	assert.Equal(t, 190.5, q.Price)
	assert.Equal(t, 188.0, q.Open)
	assert.Equal(t, 191.2, q.High)
	assert.Equal(t, 187.4, q.Low)
	assert.Equal(t, 52_000_000.0, q.Volume)
	assert.Equal(t, 188.1, q.PrevClose, "info previous close wins")
	assert.Equal(t, 2.9e12, q.MarketCap)
	assert.Equal(t, "Apple Inc.", q.Name)
}

func TestQuoteFrom_InfoOnly(t *testing.T) {
	info := &models.Info{
		ShortName:     "SPDR S&P 500",
		CurrentPrice:  512,
		PreviousClose: 508,
		Open:          509,
		DayHigh:       513,
		DayLow:        507,
		Volume:        70_000_000,
	}

	q := quoteFrom("SPY", nil, info)

	assert.Equal(t, 512.0, q.Price)
	assert.Equal(t, 508.0, q.PrevClose)
	assert.Equal(t, 509.0, q.Open)
	assert.Equal(t, 513.0, q.High)
	assert.Equal(t, 507.0, q.Low)
	assert.Equal(t, 70_000_000.0, q.Volume)
	assert.Equal(t, "SPDR S&P 500", q.Name)
}

func TestQuoteFrom_PreMarketAndEmptySession(t *testing.T) {
	q := quoteFrom("NVDA", &models.Quote{PreMarketPrice: 481, RegularMarketPreviousClose: 478}, nil)

	assert.Equal(t, 481.0, q.Price)
	assert.Equal(t, 478.0, q.PrevClose)
	assert.Equal(t, 481.0, q.Open, "empty session fields default to the price")
	assert.Equal(t, 481.0, q.High)
	assert.Equal(t, 481.0, q.Low)
	assert.Zero(t, q.Volume)
	assert.Equal(t, "NVIDIA Corporation", q.Name)
}
