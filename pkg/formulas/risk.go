package formulas

import "math"

// DefaultRiskFreeRate is the annual risk-free rate used for Sharpe ratios
const DefaultRiskFreeRate = 0.04

// CalculateBeta returns cov(stock, bench) / var(bench), or 1.0 when the
// benchmark has no variance
func CalculateBeta(stockReturns, benchReturns []float64) float64 {
	variance := Variance(benchReturns)
	if variance == 0 || len(stockReturns) != len(benchReturns) {
		return 1.0
	}
	return Covariance(stockReturns, benchReturns) / variance
}

// CalculateSharpeRatio returns the annualized Sharpe ratio of daily returns:
//
//	mean(r - rf/252) / std(r) * sqrt(252)
//
// Returns 0 when the standard deviation is zero.
func CalculateSharpeRatio(dailyReturns []float64, riskFreeRate float64) float64 {
	std := StdDev(dailyReturns)
	if std == 0 {
		return 0
	}

	dailyRF := riskFreeRate / TradingDaysPerYear
	excess := make([]float64, len(dailyReturns))
	for i, r := range dailyReturns {
		excess[i] = r - dailyRF
	}

	return Mean(excess) / std * math.Sqrt(TradingDaysPerYear)
}

// CalculateMaxDrawdown returns min(cumulative/runningPeak - 1) over the
// compounded path of returns. The result is zero or negative (-0.25 = 25% drop).
func CalculateMaxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	peak := math.Inf(-1)
	maxDrawdown := 0.0

	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		if peak > 0 {
			if dd := cumulative/peak - 1; dd < maxDrawdown {
				maxDrawdown = dd
			}
		}
	}

	return maxDrawdown
}
