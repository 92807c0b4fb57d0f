// Package opportunities scores symbols on technical confluence, fits a
// trade setup to the requested risk profile and ranks the results.
package opportunities

import (
	"github.com/aristath/espresso/internal/domain"
)

// Confidence bounds
const (
	BaseConfidence = 50
	MinConfidence  = 50
	MaxConfidence  = 98
)

// Confidence scores technical confluence from RSI band, MACD direction,
// position inside the Bollinger bands and relative volume, clamped to
// [MinConfidence, MaxConfidence].
func Confidence(ind domain.IndicatorSet) int {
	score := BaseConfidence

	switch {
	case ind.RSI >= 30 && ind.RSI <= 70:
		score += 10
	case ind.RSI < 30:
		score += 15
	default:
		score -= 10
	}

	if ind.MACD > ind.MACDSignal {
		score += 10
	} else {
		score -= 5
	}

	price := ind.Price
	switch {
	case price > ind.BBUpper:
		score -= 15
	case price > ind.BBMiddle:
		score += 5
	case price >= ind.BBLower:
		score += 5
	default:
		score += 10
	}

	// The very-high-volume bonus stacks on top of the high-volume one.
	if ind.RVOL > 2.0 {
		score += 5
	}
	switch {
	case ind.RVOL > 1.5:
		score += 10
	case ind.RVOL < 0.8:
		score -= 5
	}

	return max(MinConfidence, min(MaxConfidence, score))
}

// OppScore adjusts confidence by volume tier and trend. It is not clamped.
func OppScore(ind domain.IndicatorSet, confidence int) int {
	score := confidence
	switch {
	case ind.RVOL > 2.0:
		score += 10
	case ind.RVOL > 1.5:
		score += 5
	case ind.RVOL < 0.8:
		score -= 5
	}
	if ind.Price > ind.SMA50 {
		score += 3
	}
	return score
}
