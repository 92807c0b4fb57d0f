// Package narrative turns indicator readings, headlines and relative
// performance into short sequences of typed tokens. Build and Morning are
// pure; Generator gathers their inputs.
package narrative

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aristath/espresso/internal/domain"
)

// Decision thresholds
const (
	AccumulationRVOL   = 1.5
	OversoldRSI        = 30.0
	OverboughtRSI      = 70.0
	SectorRelThreshold = 0.5
	MarketRelThreshold = 1.0
	MaxHeadlineLen     = 60
)

// Input is everything Build needs. Nil Indicators means they could not be
// computed. News is newest first. A nil change means the quote is missing.
type Input struct {
	Indicators   *domain.IndicatorSet
	News         []domain.NewsItem
	StockChange  *float64
	SectorChange *float64
	MarketChange *float64
}

// Unavailable is the narrative returned without indicators.
func Unavailable() []domain.NarrativeToken {
	return []domain.NarrativeToken{token("Data unavailable", domain.TokenContext, domain.Neutral)}
}

// NeedsCatalyst reports whether Build will consult news for ind.
func NeedsCatalyst(ind *domain.IndicatorSet) bool {
	return ind != nil && ind.RVOL <= AccumulationRVOL && ind.RSI >= OversoldRSI && ind.RSI <= OverboughtRSI
}

// Build evaluates the signal tree top to bottom, first match wins, then
// appends the relative performance tokens.
func Build(in Input) []domain.NarrativeToken {
	ind := in.Indicators
	if ind == nil {
		return Unavailable()
	}

	tokens := make([]domain.NarrativeToken, 0, 5)
	sma := formatNumber(ind.SMA50)

	switch {
	case ind.RVOL > AccumulationRVOL:
		tokens = append(tokens,
			token("INSTITUTIONAL ACCUMULATION", domain.TokenAction, domain.Bullish),
			token(fmt.Sprintf("detected; volume is %sx average,", formatNumber(ind.RVOL)), domain.TokenEvidence, domain.Bullish),
		)
		if ind.Price > ind.SMA50 {
			tokens = append(tokens, token(fmt.Sprintf("confirming breakout above 50SMA ($%s).", sma), domain.TokenContext, domain.Bullish))
		} else {
			tokens = append(tokens, token(fmt.Sprintf("fighting resistance at 50SMA ($%s).", sma), domain.TokenContext, domain.Neutral))
		}

	case ind.RSI < OversoldRSI:
		tokens = append(tokens,
			token("OVERSOLD CAPITULATION", domain.TokenAction, domain.Bullish),
			token(fmt.Sprintf("RSI is %s, suggesting mean reversion bounce.", formatNumber(ind.RSI)), domain.TokenEvidence, domain.Bullish),
		)

	case ind.RSI > OverboughtRSI:
		tokens = append(tokens,
			token("OVEREXTENDED RALLY", domain.TokenAction, domain.Bearish),
			token(fmt.Sprintf("RSI is %s, profit taking likely.", formatNumber(ind.RSI)), domain.TokenEvidence, domain.Bearish),
		)

	default:
		tokens = append(tokens,
			token("CONSOLIDATING", domain.TokenAction, domain.Neutral),
			token(fmt.Sprintf("near 50-day SMA ($%s);", sma), domain.TokenContext, domain.Neutral),
			catalyst(in.News),
		)
	}

	return append(tokens, relative(in)...)
}

func catalyst(news []domain.NewsItem) domain.NarrativeToken {
	if len(news) == 0 {
		return token("awaiting catalyst.", domain.TokenCatalyst, domain.Neutral)
	}
	latest := news[0]
	sentiment := latest.Sentiment
	if sentiment == "" {
		sentiment = domain.Neutral
	}
	return token("News: "+Truncate(latest.Headline, MaxHeadlineLen), domain.TokenCatalyst, sentiment)
}

func relative(in Input) []domain.NarrativeToken {
	if in.StockChange == nil {
		return nil
	}
	var tokens []domain.NarrativeToken

	if in.SectorChange != nil {
		rel := *in.StockChange - *in.SectorChange
		if math.Abs(rel) > SectorRelThreshold {
			word, sentiment := "outperforming", domain.Bullish
			if rel < 0 {
				word, sentiment = "underperforming", domain.Bearish
			}
			tokens = append(tokens, token(fmt.Sprintf("%s sector by %.1f%%.", word, math.Abs(rel)), domain.TokenContext, sentiment))
		}
	}

	if in.MarketChange != nil && *in.StockChange-*in.MarketChange > MarketRelThreshold {
		tokens = append(tokens, token("Showing relative strength vs Market.", domain.TokenEvidence, domain.Bullish))
	}

	return tokens
}

// Truncate shortens s to at most limit characters, ending in "...".
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// formatNumber prints a rounded value the way it is displayed to users:
// shortest form, always with a decimal point.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func token(content string, kind domain.TokenType, sentiment domain.Sentiment) domain.NarrativeToken {
	return domain.NarrativeToken{Content: content, Type: kind, Sentiment: sentiment}
}
