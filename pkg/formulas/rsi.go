package formulas

// NeutralRSI is returned when gains and losses are both flat
const NeutralRSI = 50.0

// CalculateRSI calculates RSI with Wilder smoothing: gains and losses are
// smoothed with an exponential mean of center of mass com (13 for RSI-14).
//
//	RSI = 100 - 100 / (1 + avgGain/avgLoss)
//
// Returns nil with fewer than two closes. When both averages are zero the
// result is NeutralRSI; a zero average loss with positive gains is 100.
func CalculateRSI(closes []float64, com float64) *float64 {
	if len(closes) < 2 {
		return nil
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i-1] = delta
		} else {
			losses[i-1] = -delta
		}
	}

	alpha := ComAlpha(com)
	avgGain := EWM(gains, alpha)
	avgLoss := EWM(losses, alpha)
	g := avgGain[len(avgGain)-1]
	l := avgLoss[len(avgLoss)-1]

	var rsi float64
	switch {
	case g == 0 && l == 0:
		rsi = NeutralRSI
	case l == 0:
		rsi = 100
	default:
		rsi = 100 - 100/(1+g/l)
	}

	return &rsi
}
