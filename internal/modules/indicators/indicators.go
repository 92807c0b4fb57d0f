// Package indicators derives the technical snapshot of a symbol from its
// daily bars: RSI, MACD, Bollinger bands, relative volume and the 50-day
// moving average.
package indicators

import (
	"errors"
	"fmt"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/formulas"
)

// ErrInsufficientData is returned when fewer than MinBars bars are given.
var ErrInsufficientData = errors.New("insufficient bars for indicators")

// Indicator parameters
const (
	MinBars       = 50
	RSICom        = 13 // Wilder smoothing for RSI-14
	MACDFast      = 12
	MACDSlow      = 26
	MACDSignal    = 9
	BBLength      = 20
	BBStdDev      = 2.0
	RVOLLength    = 20
	SMALength     = 50
	ATRLength     = 14
	DefaultRVOL   = 1.0
	DefaultATR    = 1.0
	decimalPlaces = 2
)

// Compute returns the indicator set for bars ordered oldest first.
func Compute(bars []domain.Bar) (domain.IndicatorSet, error) {
	if len(bars) < MinBars {
		return domain.IndicatorSet{}, fmt.Errorf("%w: have %d, need %d", ErrInsufficientData, len(bars), MinBars)
	}

	closes := domain.Closes(bars)
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	last := bars[len(bars)-1]

	rsi := formulas.NeutralRSI
	if v := formulas.CalculateRSI(closes, RSICom); v != nil && formulas.IsFinite(*v) {
		rsi = *v
	}

	var macd, signal float64
	if m := formulas.CalculateMACD(closes, MACDFast, MACDSlow, MACDSignal); m != nil {
		macd, signal = finiteOr(m.Line, 0), finiteOr(m.Signal, 0)
	}

	var bbUpper, bbMiddle, bbLower float64
	if bb := formulas.CalculateBollingerBands(closes, BBLength, BBStdDev); bb != nil {
		bbUpper, bbMiddle, bbLower = finiteOr(bb.Upper, last.Close), finiteOr(bb.Middle, last.Close), finiteOr(bb.Lower, last.Close)
	}

	rvol := DefaultRVOL
	if avg := formulas.CalculateSMA(volumes, RVOLLength); avg != nil && *avg > 0 {
		rvol = finiteOr(last.Volume / *avg, DefaultRVOL)
	}

	var sma50, distance float64
	if sma := formulas.CalculateSMA(closes, SMALength); sma != nil {
		sma50 = *sma
		if sma50 > 0 {
			distance = (last.Close - sma50) / sma50 * 100
		}
	}

	return domain.IndicatorSet{
		RSI:           round(rsi),
		MACD:          round(macd),
		MACDSignal:    round(signal),
		BBUpper:       round(bbUpper),
		BBMiddle:      round(bbMiddle),
		BBLower:       round(bbLower),
		RVOL:          round(rvol),
		SMA50:         round(sma50),
		SMA50Distance: round(distance),
		Price:         round(last.Close),
		Volume:        last.Volume,
	}, nil
}

// ATR returns the mean true range of the last period bars, or DefaultATR
// when there are too few bars or the result is not finite.
func ATR(bars []domain.Bar, period int) float64 {
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		high[i], low[i], closes[i] = b.High, b.Low, b.Close
	}

	atr := formulas.CalculateATR(high, low, closes, period)
	if atr == nil || !formulas.IsFinite(*atr) || *atr < 0 {
		return DefaultATR
	}
	return *atr
}

func finiteOr(v, fallback float64) float64 {
	if formulas.IsFinite(v) {
		return v
	}
	return fallback
}

func round(v float64) float64 {
	return formulas.Round(v, decimalPlaces)
}
