package formulas

import (
	"github.com/markcheno/go-talib"
)

// EWM computes a recursive exponentially weighted mean seeded with the first
// value: out[0] = v[0], out[i] = alpha*v[i] + (1-alpha)*out[i-1].
//
// talib.Ema seeds with an SMA of the first period instead, which shifts short
// series noticeably, so MACD and Wilder smoothing use this recurrence.
func EWM(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SpanAlpha converts an EMA span (e.g. 12, 26, 9) into a smoothing factor
func SpanAlpha(span int) float64 {
	return 2.0 / (float64(span) + 1.0)
}

// ComAlpha converts a center of mass into a smoothing factor (com=13 is Wilder's 14)
func ComAlpha(com float64) float64 {
	return 1.0 / (1.0 + com)
}

// EMASeries returns the span-based EWM of values
func EMASeries(values []float64, span int) []float64 {
	return EWM(values, SpanAlpha(span))
}

// CalculateSMA returns the simple moving average of the last length values,
// or nil if there are not enough values
func CalculateSMA(values []float64, length int) *float64 {
	if length <= 0 || len(values) < length {
		return nil
	}

	sma := talib.Sma(values, length)
	if len(sma) > 0 && IsFinite(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}

	return nil
}

// MACD holds the last MACD line and signal line values
type MACD struct {
	Line   float64 `json:"macd"`
	Signal float64 `json:"signal"`
}

// CalculateMACD computes MACD(fast, slow, signal) on closing prices.
// Returns nil on an empty series.
func CalculateMACD(closes []float64, fast, slow, signal int) *MACD {
	if len(closes) == 0 {
		return nil
	}

	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig := EMASeries(line, signal)

	return &MACD{
		Line:   line[len(line)-1],
		Signal: sig[len(sig)-1],
	}
}
