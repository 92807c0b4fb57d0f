package market_regime

import (
	"sort"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/formulas"
)

// Lookbacks in bars back from the latest close
const (
	rotationDayBack  = 1
	rotationWeekBack = 5
)

// SectorChange computes 1-day, 1-week and whole-window percent change for
// one ETF. Lookbacks longer than the series fall back to the latest close.
func SectorChange(etf domain.SectorETF, bars []domain.Bar) domain.SectorPerformance {
	closes := domain.Closes(bars)
	current := closes[len(closes)-1]

	prevDay, prevWeek := current, current
	if len(closes) > rotationDayBack {
		prevDay = closes[len(closes)-1-rotationDayBack]
	}
	if len(closes) > rotationWeekBack+1 {
		prevWeek = closes[len(closes)-1-rotationWeekBack]
	}

	return domain.SectorPerformance{
		Symbol:   etf.Symbol,
		Name:     etf.Name,
		Change1D: formulas.Round(formulas.PercentChange(current, prevDay), 2),
		Change1W: formulas.Round(formulas.PercentChange(current, prevWeek), 2),
		Change1M: formulas.Round(formulas.PercentChange(current, closes[0]), 2),
	}
}

// Rotation ranks sectors by 1-week change, best first. Sectors without
// bars are left out.
func Rotation(sectors []domain.SectorETF, series map[string][]domain.Bar) []domain.SectorPerformance {
	out := make([]domain.SectorPerformance, 0, len(sectors))
	for _, etf := range sectors {
		bars := series[etf.Symbol]
		if len(bars) == 0 {
			continue
		}
		out = append(out, SectorChange(etf, bars))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Change1W > out[j].Change1W
	})
	return out
}
