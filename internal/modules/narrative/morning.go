package narrative

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // market sessions are defined in New York time

	"github.com/aristath/espresso/internal/domain"
)

// Session boundaries in New York, seconds after midnight
const (
	marketOpenSeconds  = 9*3600 + 30*60
	marketCloseSeconds = 16 * 3600
)

var newYork = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("narrative: load %s: %v", name, err))
	}
	return loc
}

// MorningInput holds the index and sector percent changes behind the
// morning brief. Missing symbols are simply absent from the maps.
type MorningInput struct {
	Now     time.Time
	Indices map[string]float64
	Sectors map[string]float64
}

// Session names the trading session in effect at now.
func Session(now time.Time) string {
	t := now.In(newYork)
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	switch {
	case secs < marketOpenSeconds:
		return "PREMARKET SESSION"
	case secs > marketCloseSeconds:
		return "MARKET CLOSE RECAP"
	default:
		return "MARKET OPEN"
	}
}

// MarketAction classifies the average index change.
func MarketAction(avg float64) (string, domain.Sentiment) {
	switch {
	case avg > 1.0:
		return "BROAD RALLY", domain.Bullish
	case avg >= 0.3:
		return "POSITIVE MOMENTUM", domain.Bullish
	case avg > -0.3:
		return "RANGE-BOUND TRADING", domain.Neutral
	case avg >= -1.0:
		return "SELLING PRESSURE", domain.Bearish
	default:
		return "RISK-OFF MOVE", domain.Bearish
	}
}

// Morning builds the market brief: session, action from the average index
// move, headline index numbers and the leading core sector.
func Morning(in MorningInput) []domain.NarrativeToken {
	tokens := []domain.NarrativeToken{
		token(Session(in.Now)+":", domain.TokenAction, domain.Neutral),
	}

	var sum float64
	var n int
	for _, idx := range domain.MarketIndices {
		if change, ok := in.Indices[idx.Symbol]; ok {
			sum += change
			n++
		}
	}
	if n == 0 {
		return append(tokens, token("Market data unavailable.", domain.TokenContext, domain.Neutral))
	}

	action, sentiment := MarketAction(sum / float64(n))
	tokens = append(tokens, token(action, domain.TokenAction, sentiment))

	var parts []string
	if sp, ok := in.Indices[domain.SP500Symbol]; ok {
		parts = append(parts, fmt.Sprintf("S&P %s", signedPercent(sp)))
	}
	if nq, ok := in.Indices[domain.NasdaqSymbol]; ok {
		parts = append(parts, fmt.Sprintf("Nasdaq %s", signedPercent(nq)))
	}
	if len(parts) > 0 {
		tokens = append(tokens, token(strings.Join(parts, ", "), domain.TokenContext, domain.Neutral))
	}

	best, bestChange, found := "", 0.0, false
	for _, sector := range domain.CoreSectors {
		change, ok := in.Sectors[sector.Symbol]
		if ok && (!found || change > bestChange) {
			best, bestChange, found = sector.Name, change, true
		}
	}
	if found {
		tokens = append(tokens,
			token(strings.ToUpper(best)+" SECTOR OUTPERFORMING", domain.TokenCatalyst, domain.Bullish),
			token("("+signedPercent(bestChange)+")", domain.TokenContext, domain.Neutral),
		)
	}

	return tokens
}

func signedPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}
