package marketdata

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aristath/espresso/internal/domain"
)

const (
	syntheticMaxBars   = 756 // three years of trading days
	syntheticDailyMove = 0.025
	syntheticMinVolume = 1_000_000
	syntheticMaxVolume = 50_000_000
	syntheticMinBase   = 50.0
	syntheticBaseRange = 200.0
)

// periodBars maps a history period to its length in daily bars.
var periodBars = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 22,
	"3mo": 63,
	"6mo": 126,
	"1y":  252,
	"2y":  504,
	"5y":  syntheticMaxBars,
	"max": syntheticMaxBars,
}

const defaultPeriodBars = 126

// Synthesizer produces the fallback series. Every symbol has one fixed
// daily walk ending on the current trading day; history requests take its
// tail and quotes read its last two bars, so all shapes agree. Prices do
// not depend on the clock, only timestamps do.
type Synthesizer struct {
	now func() time.Time
}

// NewSynthesizer creates a generator dated by now.
func NewSynthesizer(now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{now: now}
}

// Seed is the sum of the code points of the upper-cased symbol.
func Seed(symbol string) uint64 {
	var seed uint64
	for _, r := range strings.ToUpper(symbol) {
		seed += uint64(r)
	}
	return seed
}

// History returns the synthetic bars for period. Intervals other than
// daily are served as daily bars.
func (s *Synthesizer) History(symbol, period string) []domain.Bar {
	walk := s.walk(symbol)
	n := s.barsFor(period)
	if n > len(walk) {
		n = len(walk)
	}
	return walk[len(walk)-n:]
}

// Quote returns a snapshot consistent with the last two synthetic bars.
func (s *Synthesizer) Quote(symbol string) domain.Quote {
	walk := s.walk(symbol)
	last := walk[len(walk)-1]
	prev := walk[len(walk)-2]
	q := domain.Quote{
		Symbol:    strings.ToUpper(symbol),
		Name:      domain.NameOf(strings.ToUpper(symbol)),
		Price:     last.Close,
		PrevClose: prev.Close,
		Open:      last.Open,
		High:      last.High,
		Low:       last.Low,
		Volume:    last.Volume,
		Synthetic: true,
	}
	return q.WithChange()
}

func (s *Synthesizer) barsFor(period string) int {
	if period == "ytd" {
		now := s.now().UTC()
		jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return max(1, countWeekdays(jan1, now))
	}
	if n, ok := periodBars[period]; ok {
		return n
	}
	return defaultPeriodBars
}

// walk generates the full series. The raw walk is rescaled so the last
// close lands on the symbol's base price.
func (s *Synthesizer) walk(symbol string) []domain.Bar {
	symbol = strings.ToUpper(symbol)
	seed := Seed(symbol)
	rng := rand.New(rand.NewPCG(seed, seed*0x9e3779b97f4a7c15))

	base, ok := domain.BasePrices[symbol]
	if !ok {
		base = syntheticMinBase + rng.Float64()*syntheticBaseRange
	}

	dates := tradingDays(s.now(), syntheticMaxBars)
	bars := make([]domain.Bar, len(dates))
	price := base
	for i, day := range dates {
		open := price
		price *= 1 + (rng.Float64()*2-1)*syntheticDailyMove
		bars[i] = domain.Bar{
			Timestamp: day,
			Open:      open,
			High:      math.Max(open, price) * (1 + rng.Float64()*0.01),
			Low:       math.Min(open, price) * (1 - rng.Float64()*0.01),
			Close:     price,
			Volume:    math.Round(syntheticMinVolume + rng.Float64()*(syntheticMaxVolume-syntheticMinVolume)),
		}
	}

	scale := base / bars[len(bars)-1].Close
	for i := range bars {
		bars[i].Open *= scale
		bars[i].High *= scale
		bars[i].Low *= scale
		bars[i].Close *= scale
	}
	return bars
}

// tradingDays returns n weekday dates at UTC midnight, oldest first, ending
// on the last weekday on or before now.
func tradingDays(now time.Time, n int) []time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, n)
	for i := n - 1; i >= 0; {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days[i] = day
			i--
		}
		day = day.AddDate(0, 0, -1)
	}
	return days
}

func countWeekdays(from, to time.Time) int {
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}
