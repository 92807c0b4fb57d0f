package risk

import (
	"time"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/formulas"
)

// HighCorrelationThreshold flags a basket whose members move together
const HighCorrelationThreshold = 0.7

// Return lookbacks in bars
const (
	barsDay   = 1
	barsWeek  = 5
	barsMonth = 21
	barsYear  = 252
)

// AverageCorrelation is the mean off-diagonal Pearson correlation of daily
// returns across series. Symbols without bars are left out; fewer than two
// remaining symbols yield 0.
func AverageCorrelation(symbols []string, series map[string][]domain.Bar) float64 {
	present := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if len(series[s]) > 1 {
			present = append(present, s)
		}
	}
	n := len(present)
	if n < 2 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			x, y := AlignedReturns(series[present[i]], series[present[j]])
			sum += 2 * formulas.Correlation(x, y)
		}
	}
	return formulas.Round(sum/float64(n*(n-1)), 2)
}

// Portfolio wraps AverageCorrelation with the warning flag.
func Portfolio(symbols []string, series map[string][]domain.Bar) domain.PortfolioCorrelation {
	avg := AverageCorrelation(symbols, series)
	return domain.PortfolioCorrelation{
		Symbols:   symbols,
		Average:   avg,
		Threshold: HighCorrelationThreshold,
		Warning:   avg > HighCorrelationThreshold,
	}
}

// CorrelationMatrix correlates date-aligned closing prices for every pair.
// The diagonal is 1.0; a pair without overlapping data is 0.0.
func CorrelationMatrix(symbols []string, series map[string][]domain.Bar) map[string]map[string]float64 {
	matrix := make(map[string]map[string]float64, len(symbols))
	for _, a := range symbols {
		row := make(map[string]float64, len(symbols))
		for _, b := range symbols {
			switch {
			case len(series[a]) == 0 || len(series[b]) == 0:
				row[b] = 0
			case a == b:
				row[b] = 1
			default:
				x, y := alignedCloses(series[a], series[b])
				row[b] = formulas.Round(formulas.Correlation(x, y), 2)
			}
		}
		matrix[a] = row
	}
	return matrix
}

// Performance returns trailing 1d/1w/1m/1y returns and year-to-date
// return in percent. A lookback longer than the series is 0.
func Performance(symbol string, bars []domain.Bar, now time.Time) domain.PerformanceStats {
	stats := domain.PerformanceStats{Symbol: symbol, Name: domain.NameOf(symbol)}
	if len(bars) == 0 {
		return stats
	}
	closes := domain.Closes(bars)
	current := closes[len(closes)-1]

	trailing := func(days int) float64 {
		if len(closes) <= days {
			return 0
		}
		return formulas.Round(formulas.PercentChange(current, closes[len(closes)-days-1]), 2)
	}
	stats.Change1D = trailing(barsDay)
	stats.Change1W = trailing(barsWeek)
	stats.Change1M = trailing(barsMonth)
	stats.Change1Y = trailing(barsYear)

	// Year-to-date is anchored on the first close from the last session
	// of the previous year onward.
	anchor := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	for _, b := range bars {
		if dateKey(b) >= anchor {
			stats.YTD = formulas.Round(formulas.PercentChange(current, b.Close), 2)
			break
		}
	}
	return stats
}

func alignedCloses(a, b []domain.Bar) ([]float64, []float64) {
	byDate := make(map[string]float64, len(b))
	for _, bar := range b {
		byDate[dateKey(bar)] = bar.Close
	}
	xs := make([]float64, 0, len(a))
	ys := make([]float64, 0, len(a))
	for _, bar := range a {
		if other, ok := byDate[dateKey(bar)]; ok {
			xs = append(xs, bar.Close)
			ys = append(ys, other)
		}
	}
	return xs, ys
}
