package indicators

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/domain"
	testingpkg "github.com/aristath/espresso/internal/testing"
)

func TestCompute_InsufficientData(t *testing.T) {
	_, err := Compute(testingpkg.DailyBars(testingpkg.FlatCloses(49, 100)))
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Compute(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCompute_FlatSeries(t *testing.T) {
	set, err := Compute(testingpkg.DailyBars(testingpkg.FlatCloses(60, 100)))
	require.NoError(t, err)

	assert.Equal(t, 50.0, set.RSI)
	assert.Equal(t, 0.0, set.MACD)
	assert.Equal(t, 0.0, set.MACDSignal)
	assert.Equal(t, 100.0, set.BBUpper)
	assert.Equal(t, 100.0, set.BBMiddle)
	assert.Equal(t, 100.0, set.BBLower)
	assert.Equal(t, 1.0, set.RVOL)
	assert.Equal(t, 100.0, set.SMA50)
	assert.Equal(t, 0.0, set.SMA50Distance)
	assert.Equal(t, 100.0, set.Price)
}

func TestCompute_RisingSeries(t *testing.T) {
	closes := testingpkg.LinearCloses(60, 1, 1) // 1..60
	set, err := Compute(testingpkg.DailyBars(closes))
	require.NoError(t, err)

	assert.Equal(t, 100.0, set.RSI)
	assert.Greater(t, set.MACD, 0.0)
	assert.Equal(t, 35.5, set.SMA50)
	assert.Equal(t, 69.01, set.SMA50Distance)
	assert.Equal(t, 50.5, set.BBMiddle)
	assert.Equal(t, 62.33, set.BBUpper)
	assert.Equal(t, 38.67, set.BBLower)
	assert.Equal(t, 60.0, set.Price)
}

func TestCompute_FallingSeriesRSIZero(t *testing.T) {
	set, err := Compute(testingpkg.DailyBars(testingpkg.LinearCloses(60, 200, -1)))
	require.NoError(t, err)
	assert.Equal(t, 0.0, set.RSI)
	assert.Less(t, set.SMA50Distance, 0.0)
}

func TestCompute_RelativeVolume(t *testing.T) {
	volumes := make([]float64, 60)
	for i := range volumes {
		volumes[i] = 1_000_000
	}
	volumes[59] = 3_000_000

	set, err := Compute(testingpkg.DailyBars(testingpkg.FlatCloses(60, 50), volumes...))
	require.NoError(t, err)
	assert.Equal(t, 2.73, set.RVOL)
	assert.Equal(t, 3_000_000.0, set.Volume)
}

func TestCompute_ZeroVolumeDefaultsRVOL(t *testing.T) {
	set, err := Compute(testingpkg.DailyBars(testingpkg.FlatCloses(60, 50), 0))
	require.NoError(t, err)
	assert.Equal(t, DefaultRVOL, set.RVOL)
}

func TestATR(t *testing.T) {
	bars := testingpkg.DailyBars(testingpkg.FlatCloses(20, 100))
	assert.InDelta(t, 2.0, ATR(bars, ATRLength), 1e-9)

	assert.Equal(t, DefaultATR, ATR(bars[:5], ATRLength))
	assert.Equal(t, DefaultATR, ATR(nil, ATRLength))
}

func TestATR_UsesGapsAgainstPreviousClose(t *testing.T) {
	bars := []domain.Bar{
		{High: 11, Low: 9, Close: 10},
		{High: 16, Low: 14, Close: 15}, // gap up: |16-10| = 6
	}
	assert.InDelta(t, 4.0, ATR(bars, 2), 1e-9) // (2 + 6) / 2
}

func TestEngine(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetHistory("AAPL", testingpkg.DailyBars(testingpkg.FlatCloses(80, 100)))
	gw.SetHistory("NEW", testingpkg.DailyBars(testingpkg.FlatCloses(10, 100)))
	engine := NewEngine(testingpkg.NewTestMarketData(t, gw), zerolog.Nop())

	set, err := engine.Indicators(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 100.0, set.Price)
	assert.InDelta(t, 2.0, engine.ATR(context.Background(), "AAPL"), 1e-6)

	_, err = engine.Indicators(context.Background(), "NEW")
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Equal(t, DefaultATR, engine.ATR(context.Background(), "NEW"))
}
