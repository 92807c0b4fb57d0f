// Package testing provides fixtures and mocks shared by espresso tests.
package testing

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/clientdata"
	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/marketdata"
)

// FixedNow is a Wednesday afternoon in UTC, used as the clock in tests
var FixedNow = time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)

// Clock returns FixedNow
func Clock() time.Time {
	return FixedNow
}

// DailyBars builds one bar per close on consecutive days ending the day
// before FixedNow. Open is the previous close; high and low sit 1% around
// the close.
func DailyBars(closes []float64, volumes ...float64) []domain.Bar {
	bars := make([]domain.Bar, len(closes))
	start := FixedNow.AddDate(0, 0, -len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		volume := 1_000_000.0
		if i < len(volumes) {
			volume = volumes[i]
		} else if len(volumes) > 0 {
			volume = volumes[len(volumes)-1]
		}
		bars[i] = domain.Bar{
			Timestamp: start.AddDate(0, 0, i).Truncate(24 * time.Hour),
			Open:      open,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    volume,
		}
	}
	return bars
}

// LinearCloses returns n closes starting at start and moving by step
func LinearCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

// FlatCloses returns n copies of value
func FlatCloses(n int, value float64) []float64 {
	return LinearCloses(n, value, 0)
}

// NewTestCache creates a cache repository in a temp dir with its own
// metrics registry
func NewTestCache(t *testing.T) *clientdata.Repository {
	t.Helper()
	repo, err := clientdata.NewRepository(clientdata.Options{
		Dir:        t.TempDir(),
		Registerer: prometheus.NewRegistry(),
		Log:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return repo
}

// NewTestMarketData wires gateway behind a fresh cache with the fixed clock
func NewTestMarketData(t *testing.T, gateway marketdata.Gateway) *marketdata.Service {
	t.Helper()
	return marketdata.NewService(gateway, NewTestCache(t), zerolog.Nop(), marketdata.WithClock(Clock))
}
