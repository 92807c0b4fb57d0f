// Package market_regime classifies the broad market from benchmark bars
// and ranks sector ETFs by recent momentum.
package market_regime

import (
	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/formulas"
)

// Trend labels
const (
	TrendStrongUp   = "STRONG UPTREND"
	TrendUp         = "UPTREND"
	TrendSideways   = "SIDEWAYS"
	TrendDown       = "DOWNTREND"
	TrendStrongDown = "STRONG DOWNTREND"
)

// Volatility labels
const (
	VolatilityHigh   = "HIGH"
	VolatilityNormal = "NORMAL"
	VolatilityLow    = "LOW"
)

// Regime labels
const (
	RegimeBullishGrind = "BULLISH GRIND"
	RegimeVolatileBull = "VOLATILE BULL"
	RegimeBearish      = "BEARISH"
	RegimeChoppy       = "CHOPPY"
	RegimeNeutral      = "NEUTRAL"
)

const (
	minRegimeBars     = 50
	shortSMA          = 20
	longSMA           = 50
	rangeATRPeriod    = 14
	highVolatilityPct = 1.5
	lowVolatilityPct  = 0.5
)

type regimeRule struct {
	trend, volatility   string // empty volatility matches any
	regime, description string
}

// regimeRules are checked in order; no match is NEUTRAL.
var regimeRules = []regimeRule{
	{TrendStrongUp, VolatilityLow, RegimeBullishGrind, "Steady uptrend with low volatility. Buy dips."},
	{TrendStrongUp, VolatilityHigh, RegimeVolatileBull, "Uptrend but choppy. Wide stops needed."},
	{TrendStrongDown, "", RegimeBearish, "Market in correction. Cash is king."},
	{TrendSideways, VolatilityHigh, RegimeChoppy, "No clear trend and high risk. Reduce size."},
}

const neutralDescription = "Market is directionless."

// InsufficientRegime is reported when fewer than 50 bars are available.
func InsufficientRegime() domain.Regime {
	return domain.Regime{
		Regime:      RegimeNeutral,
		Trend:       TrendSideways,
		Volatility:  VolatilityNormal,
		Description: "Insufficient data to determine regime.",
	}
}

// DetectRegime classifies trend from price versus the 20- and 50-bar
// averages and volatility from the 14-bar mean high-low range relative to
// price. It never fails.
func DetectRegime(bars []domain.Bar) domain.Regime {
	if len(bars) < minRegimeBars {
		return InsufficientRegime()
	}

	closes := domain.Closes(bars)
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	for i, b := range bars {
		high[i], low[i] = b.High, b.Low
	}

	price := closes[len(closes)-1]
	short := formulas.CalculateSMA(closes, shortSMA)
	long := formulas.CalculateSMA(closes, longSMA)
	if short == nil || long == nil {
		return InsufficientRegime()
	}
	sma20, sma50 := *short, *long

	var atrPct float64
	if atr := formulas.CalculateRangeATR(high, low, rangeATRPeriod); atr != nil && price > 0 {
		atrPct = *atr / price * 100
	}

	trend := Trend(price, sma20, sma50)
	volatility := Volatility(atrPct)
	regime, description := Classify(trend, volatility)

	return domain.Regime{
		Regime:      regime,
		Trend:       trend,
		Volatility:  volatility,
		Description: description,
		SMA20:       formulas.Round(sma20, 2),
		SMA50:       formulas.Round(sma50, 2),
		ATRPct:      formulas.Round(atrPct, 2),
	}
}

// Trend orders price against the short and long averages.
func Trend(price, sma20, sma50 float64) string {
	switch {
	case price > sma20 && sma20 > sma50:
		return TrendStrongUp
	case price < sma20 && sma20 < sma50:
		return TrendStrongDown
	case price > sma50:
		return TrendUp
	case price < sma50:
		return TrendDown
	default:
		return TrendSideways
	}
}

// Volatility buckets the ATR as a percent of price.
func Volatility(atrPct float64) string {
	switch {
	case atrPct > highVolatilityPct:
		return VolatilityHigh
	case atrPct < lowVolatilityPct:
		return VolatilityLow
	default:
		return VolatilityNormal
	}
}

// Classify maps trend and volatility to a regime label and description.
func Classify(trend, volatility string) (string, string) {
	for _, r := range regimeRules {
		if r.trend == trend && (r.volatility == "" || r.volatility == volatility) {
			return r.regime, r.description
		}
	}
	return RegimeNeutral, neutralDescription
}
