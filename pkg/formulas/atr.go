package formulas

import (
	"github.com/markcheno/go-talib"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|) per bar.
// The first bar has no previous close, so its range is high-low.
func TrueRange(high, low, close []float64) []float64 {
	n := len(close)
	if n == 0 || len(high) != n || len(low) != n {
		return nil
	}

	tr := talib.TRange(high, low, close)
	tr[0] = high[0] - low[0]
	return tr
}

// CalculateATR returns the rolling mean of the last period true ranges,
// or nil when fewer than period bars are available
func CalculateATR(high, low, close []float64, period int) *float64 {
	tr := TrueRange(high, low, close)
	if tr == nil {
		return nil
	}
	return CalculateSMA(tr, period)
}

// CalculateRangeATR averages high-low over the last period bars, ignoring gaps
func CalculateRangeATR(high, low []float64, period int) *float64 {
	if len(high) != len(low) {
		return nil
	}
	ranges := make([]float64, len(high))
	for i := range high {
		ranges[i] = high[i] - low[i]
	}
	return CalculateSMA(ranges, period)
}
