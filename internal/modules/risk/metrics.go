// Package risk measures a symbol's return profile against a benchmark and
// the co-movement of groups of symbols.
package risk

import (
	"errors"
	"fmt"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/formulas"
)

// ErrInsufficientData is returned when fewer than MinPoints returns align.
var ErrInsufficientData = errors.New("insufficient aligned returns for risk metrics")

// MinPoints is the number of date-aligned daily returns required
const MinPoints = 200

// Classification thresholds on raw fractions
const (
	aggressiveBeta       = 1.5
	aggressiveVolatility = 0.4
	defensiveBeta        = 0.8
	defensiveVolatility  = 0.2
)

// Compute derives beta, annualized volatility, Sharpe ratio and maximum
// drawdown from daily closes. Returns are computed per series and then
// inner-joined on calendar date.
func Compute(stock, bench []domain.Bar) (domain.RiskMetrics, error) {
	returns, benchReturns := AlignedReturns(stock, bench)
	if len(returns) < MinPoints {
		return domain.RiskMetrics{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(returns), MinPoints)
	}

	beta := formulas.CalculateBeta(returns, benchReturns)
	volatility := formulas.AnnualizedVolatility(returns)
	sharpe := formulas.CalculateSharpeRatio(returns, formulas.DefaultRiskFreeRate)
	drawdown := formulas.CalculateMaxDrawdown(returns)

	return domain.RiskMetrics{
		Beta:        formulas.Round(beta, 2),
		Volatility:  formulas.Round(volatility*100, 1),
		Sharpe:      formulas.Round(sharpe, 2),
		MaxDrawdown: formulas.Round(drawdown*100, 1),
		RiskLevel:   Classify(beta, volatility),
		Points:      len(returns),
	}, nil
}

// Classify maps beta and annualized volatility (as a fraction) to a risk level.
func Classify(beta, volatility float64) domain.RiskLevel {
	switch {
	case beta > aggressiveBeta || volatility > aggressiveVolatility:
		return domain.RiskAggressive
	case beta < defensiveBeta && volatility < defensiveVolatility:
		return domain.RiskDefensive
	default:
		return domain.RiskModerate
	}
}

// AlignedReturns returns the daily returns of a and b on the dates both
// series cover, in a's order.
func AlignedReturns(a, b []domain.Bar) ([]float64, []float64) {
	ra := dailyReturns(a)
	rb := dailyReturns(b)

	byDate := make(map[string]float64, len(rb))
	for _, r := range rb {
		byDate[r.date] = r.value
	}

	xs := make([]float64, 0, len(ra))
	ys := make([]float64, 0, len(ra))
	for _, r := range ra {
		if other, ok := byDate[r.date]; ok {
			xs = append(xs, r.value)
			ys = append(ys, other)
		}
	}
	return xs, ys
}

type datedValue struct {
	date  string
	value float64
}

// dailyReturns dates each return by the later bar. Returns off a zero or
// non-finite close are dropped.
func dailyReturns(bars []domain.Bar) []datedValue {
	if len(bars) < 2 {
		return nil
	}
	out := make([]datedValue, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev, cur := bars[i-1].Close, bars[i].Close
		if prev == 0 || !formulas.IsFinite(prev) || !formulas.IsFinite(cur) {
			continue
		}
		out = append(out, datedValue{date: dateKey(bars[i]), value: (cur - prev) / prev})
	}
	return out
}

func dateKey(b domain.Bar) string {
	return b.Timestamp.UTC().Format("2006-01-02")
}
