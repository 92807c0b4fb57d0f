package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestEWM(t *testing.T) {
	assert.Nil(t, EWM(nil, 0.5))
	assert.Equal(t, []float64{1, 1.5, 2.25}, EWM([]float64{1, 2, 3}, 0.5))
	assert.InDelta(t, 2.0/13.0, SpanAlpha(12), 1e-12)
	assert.InDelta(t, 1.0/14.0, ComAlpha(13), 1e-12)
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		expected float64
	}{
		{"flat series is neutral", flat(100, 60), 50},
		{"only gains", ramp(100, 1, 60), 100},
		{"only losses", ramp(200, -1, 60), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi := CalculateRSI(tt.closes, 13)
			require.NotNil(t, rsi)
			assert.InDelta(t, tt.expected, *rsi, 1e-9)
		})
	}

	assert.Nil(t, CalculateRSI([]float64{100}, 13))
}

func TestCalculateRSI_Bounded(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/3)
	}
	rsi := CalculateRSI(closes, 13)
	require.NotNil(t, rsi)
	assert.GreaterOrEqual(t, *rsi, 0.0)
	assert.LessOrEqual(t, *rsi, 100.0)
}

func TestCalculateMACD(t *testing.T) {
	macd := CalculateMACD(flat(100, 60), 12, 26, 9)
	require.NotNil(t, macd)
	assert.InDelta(t, 0.0, macd.Line, 1e-9)
	assert.InDelta(t, 0.0, macd.Signal, 1e-9)

	up := CalculateMACD(ramp(100, 1, 60), 12, 26, 9)
	require.NotNil(t, up)
	assert.Greater(t, up.Line, 0.0)

	assert.Nil(t, CalculateMACD(nil, 12, 26, 9))
}

func TestCalculateBollingerBands(t *testing.T) {
	bb := CalculateBollingerBands(flat(100, 20), 20, 2)
	require.NotNil(t, bb)
	assert.Equal(t, 100.0, bb.Upper)
	assert.Equal(t, 100.0, bb.Middle)
	assert.Equal(t, 100.0, bb.Lower)

	bb = CalculateBollingerBands([]float64{1, 2, 3, 4}, 4, 2)
	require.NotNil(t, bb)
	assert.InDelta(t, 2.5, bb.Middle, 1e-9)
	assert.InDelta(t, 2.5+2*math.Sqrt(5.0/3.0), bb.Upper, 1e-9)
	assert.InDelta(t, 2.5-2*math.Sqrt(5.0/3.0), bb.Lower, 1e-9)

	assert.Nil(t, CalculateBollingerBands([]float64{1, 2}, 20, 2))
}

func TestCalculateSMA(t *testing.T) {
	sma := CalculateSMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NotNil(t, sma)
	assert.InDelta(t, 3.0, *sma, 1e-9)

	sma = CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NotNil(t, sma)
	assert.InDelta(t, 4.5, *sma, 1e-9)

	assert.Nil(t, CalculateSMA([]float64{1, 2}, 5))
	assert.Nil(t, CalculateSMA([]float64{1, 2}, 0))
}

func TestTrueRangeAndATR(t *testing.T) {
	high := []float64{10, 11, 12}
	low := []float64{9, 10, 11}
	closes := []float64{9.5, 10.5, 11.5}

	tr := TrueRange(high, low, closes)
	require.Len(t, tr, 3)
	assert.InDelta(t, 1.0, tr[0], 1e-9)
	assert.InDelta(t, 1.5, tr[1], 1e-9)
	assert.InDelta(t, 1.5, tr[2], 1e-9)

	atr := CalculateATR(high, low, closes, 2)
	require.NotNil(t, atr)
	assert.InDelta(t, 1.5, *atr, 1e-9)

	atr = CalculateATR(high, low, closes, 3)
	require.NotNil(t, atr)
	assert.InDelta(t, 4.0/3.0, *atr, 1e-9)

	assert.Nil(t, CalculateATR(high, low, closes, 14))
	assert.Nil(t, TrueRange(high, low[:1], closes))

	rangeATR := CalculateRangeATR(high, low, 3)
	require.NotNil(t, rangeATR)
	assert.InDelta(t, 1.0, *rangeATR, 1e-9)
}

func TestCalculateBeta(t *testing.T) {
	bench := []float64{0.01, -0.02, 0.015, 0.005, -0.01}
	stock := make([]float64, len(bench))
	for i, r := range bench {
		stock[i] = 2 * r
	}

	assert.InDelta(t, 2.0, CalculateBeta(stock, bench), 1e-9)
	assert.Equal(t, 1.0, CalculateBeta(stock, flat(0.5, 5)))
}

func TestCalculateSharpeRatio(t *testing.T) {
	assert.Equal(t, 0.0, CalculateSharpeRatio(flat(0.25, 8), DefaultRiskFreeRate))

	sharpe := CalculateSharpeRatio([]float64{0.01, 0.02, 0.03}, DefaultRiskFreeRate)
	expected := (0.02 - 0.04/252) / 0.01 * math.Sqrt(252)
	assert.InDelta(t, expected, sharpe, 1e-9)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		returns  []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"only gains", []float64{0.01, 0.02}, 0},
		{"first loss starts the peak", []float64{-0.1}, 0},
		{"halved from peak", []float64{0.1, -0.5, 0.2}, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateMaxDrawdown(tt.returns), 1e-9)
		})
	}
}

func TestStatsHelpers(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev([]float64{1}))
	assert.InDelta(t, 1.0, Correlation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.Equal(t, 0.0, Correlation([]float64{1, 2, 3}, []float64{5, 5, 5}))
	assert.Equal(t, []float64{0.1, -0.5}, CalculateReturns([]float64{100, 110, 55}))
	assert.InDelta(t, 10.0, PercentChange(110, 100), 1e-9)
	assert.Equal(t, 0.0, PercentChange(110, 0))
	assert.Equal(t, 3.14, Round(3.14159, 2))
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(math.NaN()))
}
