package marketdata_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/marketdata"
	testingpkg "github.com/aristath/espresso/internal/testing"
)

var errUpstream = errors.New("upstream down")

func TestService_QuoteFromGateway(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetQuote(domain.Quote{Symbol: "AAPL", Price: 110, PrevClose: 100})
	svc := testingpkg.NewTestMarketData(t, gw)

	q := svc.Quote(context.Background(), "aapl")

	assert.False(t, q.Synthetic)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.InDelta(t, 10.0, q.Change, 1e-9)
	assert.InDelta(t, 10.0, q.ChangePercent, 1e-9)
}

func TestService_QuoteCachedWithinTTL(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetQuote(domain.Quote{Symbol: "MSFT", Price: 300, PrevClose: 299})
	svc := testingpkg.NewTestMarketData(t, gw)

	svc.Quote(context.Background(), "MSFT")
	svc.Quote(context.Background(), "MSFT")

	assert.Equal(t, 1, gw.Calls("Quote"))
}

func TestService_QuoteFallsBackToSynthetic(t *testing.T) {
	tests := []struct {
		name  string
		setup func(gw *testingpkg.MockGateway)
	}{
		{"gateway error", func(gw *testingpkg.MockGateway) { gw.SetError(errUpstream) }},
		{"missing prev close", func(gw *testingpkg.MockGateway) {
			gw.SetQuote(domain.Quote{Symbol: "NVDA", Price: 100})
		}},
		{"non-finite price", func(gw *testingpkg.MockGateway) {
			gw.SetQuote(domain.Quote{Symbol: "NVDA", Price: math.NaN(), PrevClose: 99})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testingpkg.NewMockGateway()
			tt.setup(gw)
			svc := testingpkg.NewTestMarketData(t, gw)

			q := svc.Quote(context.Background(), "NVDA")

			assert.True(t, q.Synthetic)
			assert.Equal(t, svc.Synthesizer().Quote("NVDA"), q)
			assert.Greater(t, q.Price, 0.0)
		})
	}
}

func TestService_SyntheticNeverCached(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetError(errUpstream)
	svc := testingpkg.NewTestMarketData(t, gw)

	svc.Quote(context.Background(), "AMD")
	gw.SetError(nil)
	gw.SetQuote(domain.Quote{Symbol: "AMD", Price: 150, PrevClose: 140})

	q := svc.Quote(context.Background(), "AMD")
	assert.False(t, q.Synthetic)
	assert.Equal(t, 150.0, q.Price)
	assert.Equal(t, 2, gw.Calls("Quote"))
}

func TestService_HistoryCleansBars(t *testing.T) {
	bars := testingpkg.DailyBars([]float64{10, 11, 12})
	bars = append(bars, domain.Bar{Timestamp: bars[2].Timestamp.Add(24 * time.Hour), Close: math.Inf(1)})
	bars[0], bars[1] = bars[1], bars[0]

	gw := testingpkg.NewMockGateway()
	gw.SetHistory("XOM", bars)
	svc := testingpkg.NewTestMarketData(t, gw)

	got := svc.History(context.Background(), "XOM", "1mo", "1d")

	require.Len(t, got, 3)
	assert.Equal(t, []float64{10, 11, 12}, domain.Closes(got))
}

func TestService_HistoryKeyedByShape(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetHistory("XOM", testingpkg.DailyBars([]float64{1, 2, 3}))
	svc := testingpkg.NewTestMarketData(t, gw)

	svc.History(context.Background(), "XOM", "1mo", "1d")
	svc.History(context.Background(), "XOM", "3mo", "1d")
	svc.History(context.Background(), "XOM", "1mo", "1d")

	assert.Equal(t, 2, gw.Calls("History"))
}

func TestService_HistoryFallsBackOnEmpty(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetHistory("ZZZZ", nil)
	svc := testingpkg.NewTestMarketData(t, gw)

	got := svc.History(context.Background(), "ZZZZ", "6mo", "1d")

	assert.Len(t, got, 126)
	assert.Equal(t, svc.Synthesizer().History("ZZZZ", "6mo"), got)
}

func TestService_NewsLookbackAndSentiment(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetNews("TSLA", []domain.NewsItem{
		{ID: "old", Headline: "Shares surge", PublishedAt: testingpkg.FixedNow.Add(-72 * time.Hour)},
		{ID: "a", Headline: "Deliveries beat estimates", PublishedAt: testingpkg.FixedNow.Add(-2 * time.Hour)},
		{ID: "b", Headline: "Recall widens", PublishedAt: testingpkg.FixedNow.Add(-1 * time.Hour)},
		{ID: "blank", Headline: "  ", PublishedAt: testingpkg.FixedNow},
	})
	svc := testingpkg.NewTestMarketData(t, gw)

	items := svc.News(context.Background(), "TSLA", 48*time.Hour)

	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, domain.Bearish, items[0].Sentiment)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, domain.Bullish, items[1].Sentiment)
}

func TestService_NewsFailureIsEmpty(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetError(errUpstream)
	svc := testingpkg.NewTestMarketData(t, gw)

	items := svc.News(context.Background(), "TSLA", time.Hour)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestService_Fundamentals(t *testing.T) {
	gw := testingpkg.NewMockGateway()
	gw.SetFundamentals("JPM", domain.Fundamentals{PE: 11.5, ROE: 15})
	svc := testingpkg.NewTestMarketData(t, gw)

	f, ok := svc.Fundamentals(context.Background(), "JPM")
	require.True(t, ok)
	assert.Equal(t, "JPM", f.Symbol)
	assert.Equal(t, 11.5, f.PE)

	_, ok = svc.Fundamentals(context.Background(), "NOPE")
	assert.False(t, ok)
}

func TestService_NextEarnings(t *testing.T) {
	date := time.Date(2026, 10, 29, 0, 0, 0, 0, time.UTC)
	gw := testingpkg.NewMockGateway()
	gw.SetEarnings("AAPL", date)
	gw.SetNoEarnings("BAC")
	svc := testingpkg.NewTestMarketData(t, gw)

	got, err := svc.NextEarnings(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, date.Equal(*got))

	got, err = svc.NextEarnings(context.Background(), "BAC")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.NextEarnings(context.Background(), "UNKNOWN")
	assert.ErrorIs(t, err, testingpkg.ErrNotFound)
}

func TestCompose_NilSourcesUnavailable(t *testing.T) {
	gw := marketdata.Compose(nil, nil, nil)

	_, err := gw.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, marketdata.ErrUnavailable)
	_, err = gw.News(context.Background(), "AAPL")
	assert.ErrorIs(t, err, marketdata.ErrUnavailable)
	_, err = gw.NextEarnings(context.Background(), "AAPL")
	assert.ErrorIs(t, err, marketdata.ErrUnavailable)
}
