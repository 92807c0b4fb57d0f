package formulas

// BollingerBands represents Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateBollingerBands computes bands over the last length closes using
// the sample standard deviation. Returns nil if there are fewer than length closes.
func CalculateBollingerBands(closes []float64, length int, stdDevMultiplier float64) *BollingerBands {
	if length < 2 || len(closes) < length {
		return nil
	}

	window := closes[len(closes)-length:]
	middle := Mean(window)
	width := stdDevMultiplier * StdDev(window)

	return &BollingerBands{
		Upper:  middle + width,
		Middle: middle,
		Lower:  middle - width,
	}
}
