package opportunities

import (
	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/formulas"
)

// Time horizons
const (
	HorizonSwing         = "Swing (3-10 Days)"
	HorizonMeanReversion = "Mean Reversion (1-3 Days)"
	HorizonPosition      = "Position (2-4 Weeks)"
)

// TimeHorizon picks a holding period: strong volume with MACD confirmation
// is a swing, an oversold RSI a quick reversion, anything else a position.
func TimeHorizon(ind domain.IndicatorSet) string {
	switch {
	case ind.RVOL > 2.5 && ind.MACD > ind.MACDSignal:
		return HorizonSwing
	case ind.RSI < 30:
		return HorizonMeanReversion
	default:
		return HorizonPosition
	}
}

// BuildSetup places stop and target around price using the profile's ATR
// multiples. RiskReward is 0 when the stop is not below the entry and is
// never NaN or infinite.
func BuildSetup(price, atr float64, profile Profile, ind domain.IndicatorSet) domain.TradeSetup {
	stop := price - profile.StopATR*atr
	target := price + profile.TargetATR*atr

	var rr float64
	if risk := price - stop; risk > 0 {
		rr = (target - price) / risk
	}
	if !formulas.IsFinite(rr) {
		rr = 0
	}

	return domain.TradeSetup{
		Entry:        price,
		Stop:         formulas.Round(stop, 2),
		Target:       formulas.Round(target, 2),
		RiskReward:   formulas.Round(rr, 2),
		PositionSize: profile.PositionSize,
		TimeHorizon:  TimeHorizon(ind),
	}
}
