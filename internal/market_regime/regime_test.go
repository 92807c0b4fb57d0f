package market_regime

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/domain"
	testingpkg "github.com/aristath/espresso/internal/testing"
	"github.com/aristath/espresso/internal/work"
)

// tight narrows every bar's range to +/-0.1 around the close.
func tight(bars []domain.Bar) []domain.Bar {
	for i := range bars {
		bars[i].High = bars[i].Close + 0.1
		bars[i].Low = bars[i].Close - 0.1
	}
	return bars
}

func TestDetectRegime(t *testing.T) {
	tests := []struct {
		name       string
		bars       []domain.Bar
		regime     string
		trend      string
		volatility string
	}{
		{
			name:   "steady rise",
			bars:   tight(testingpkg.DailyBars(testingpkg.LinearCloses(60, 100, 1))),
			regime: RegimeBullishGrind, trend: TrendStrongUp, volatility: VolatilityLow,
		},
		{
			name:   "choppy rise",
			bars:   testingpkg.DailyBars(testingpkg.LinearCloses(60, 100, 1)),
			regime: RegimeVolatileBull, trend: TrendStrongUp, volatility: VolatilityHigh,
		},
		{
			name:   "decline",
			bars:   tight(testingpkg.DailyBars(testingpkg.LinearCloses(60, 200, -1))),
			regime: RegimeBearish, trend: TrendStrongDown, volatility: VolatilityLow,
		},
		{
			name:   "flat and wide",
			bars:   testingpkg.DailyBars(testingpkg.FlatCloses(60, 100)),
			regime: RegimeChoppy, trend: TrendSideways, volatility: VolatilityHigh,
		},
		{
			name:   "flat and quiet",
			bars:   tight(testingpkg.DailyBars(testingpkg.FlatCloses(60, 100))),
			regime: RegimeNeutral, trend: TrendSideways, volatility: VolatilityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectRegime(tt.bars)
			assert.Equal(t, tt.regime, got.Regime)
			assert.Equal(t, tt.trend, got.Trend)
			assert.Equal(t, tt.volatility, got.Volatility)
			assert.NotEmpty(t, got.Description)
		})
	}
}

func TestDetectRegime_Values(t *testing.T) {
	got := DetectRegime(tight(testingpkg.DailyBars(testingpkg.LinearCloses(60, 100, 1))))
	assert.Equal(t, 149.5, got.SMA20) // mean of 140..159
	assert.Equal(t, 134.5, got.SMA50) // mean of 110..159
	assert.Equal(t, 0.13, got.ATRPct) // 0.2 / 159
}

func TestDetectRegime_Insufficient(t *testing.T) {
	got := DetectRegime(testingpkg.DailyBars(testingpkg.LinearCloses(49, 100, 1)))
	assert.Equal(t, InsufficientRegime(), got)
	assert.Equal(t, "Insufficient data to determine regime.", got.Description)
}

func TestTrend(t *testing.T) {
	assert.Equal(t, TrendUp, Trend(105, 106, 100))
	assert.Equal(t, TrendDown, Trend(95, 94, 100))
	assert.Equal(t, TrendSideways, Trend(100, 101, 100))
}

func TestClassify_UptrendIsNeutral(t *testing.T) {
	regime, description := Classify(TrendUp, VolatilityHigh)
	assert.Equal(t, RegimeNeutral, regime)
	assert.Equal(t, "Market is directionless.", description)

	regime, _ = Classify(TrendStrongUp, VolatilityNormal)
	assert.Equal(t, RegimeNeutral, regime)
}

func TestRotation(t *testing.T) {
	sectors := []domain.SectorETF{{Symbol: "XLK", Name: "Technology"}, {Symbol: "XLE", Name: "Energy"}, {Symbol: "XLU", Name: "Utilities"}}
	series := map[string][]domain.Bar{
		"XLK": testingpkg.DailyBars(testingpkg.LinearCloses(22, 100, -1)),
		"XLE": testingpkg.DailyBars(testingpkg.LinearCloses(22, 100, 1)),
	}

	got := Rotation(sectors, series)

	require.Len(t, got, 2)
	assert.Equal(t, "XLE", got[0].Symbol)
	assert.Equal(t, "Energy", got[0].Name)
	assert.Equal(t, 0.83, got[0].Change1D) // 121 vs 120
	assert.Equal(t, 4.31, got[0].Change1W) // 121 vs 116
	assert.Equal(t, 21.0, got[0].Change1M) // 121 vs 100
	assert.Equal(t, "XLK", got[1].Symbol)
	assert.Less(t, got[1].Change1W, 0.0)
}

func TestSectorChange_ShortSeries(t *testing.T) {
	etf := domain.SectorETF{Symbol: "XLB", Name: "Materials"}

	one := SectorChange(etf, testingpkg.DailyBars([]float64{50}))
	assert.Equal(t, domain.SectorPerformance{Symbol: "XLB", Name: "Materials"}, one)

	few := SectorChange(etf, testingpkg.DailyBars([]float64{50, 55, 60}))
	assert.Equal(t, 9.09, few.Change1D)
	assert.Equal(t, 0.0, few.Change1W)
	assert.Equal(t, 20.0, few.Change1M)
}

func TestDetector(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetHistory("SPY", testingpkg.DailyBars(testingpkg.LinearCloses(60, 200, -1)))
	gw.SetHistory("XLK", testingpkg.DailyBars(testingpkg.LinearCloses(22, 100, 1)))
	det := NewDetector(testingpkg.NewTestMarketData(t, gw), work.NewPool(0, zerolog.Nop()), "", zerolog.Nop())

	assert.Equal(t, RegimeBearish, det.Regime(context.Background()).Regime)

	// Unstubbed ETFs fall back to synthetic bars, so every sector reports.
	rotation := det.Rotation(context.Background())
	assert.Len(t, rotation, len(domain.RotationSectors))
	for i := 1; i < len(rotation); i++ {
		assert.GreaterOrEqual(t, rotation[i-1].Change1W, rotation[i].Change1W)
	}
}
