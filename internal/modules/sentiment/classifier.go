// Package sentiment classifies headlines by counting words from fixed
// bullish and bearish vocabularies.
package sentiment

import (
	"strings"

	"github.com/aristath/espresso/internal/domain"
)

var bullishWords = wordSet(
	"beat", "beats", "exceed", "exceeds", "surge", "surges", "surged",
	"rally", "rallies", "rallied", "upgrade", "upgraded", "breakout",
	"breakthrough", "growth", "strong", "robust", "outperform", "acquisition",
	"approved", "approval", "win", "wins", "won", "positive", "record",
	"high", "soar", "soars", "jump", "jumps", "expand",
)

var bearishWords = wordSet(
	"miss", "misses", "missed", "decline", "declines", "declined", "fall",
	"falls", "fell", "drop", "drops", "dropped", "plunge", "plunges",
	"plunged", "downgrade", "downgraded", "lawsuit", "investigation", "probe",
	"recall", "cut", "cuts", "loss", "losses", "weak", "weakness",
	"underperform", "concern", "concerns", "warning", "warns", "warned",
	"risk", "low", "slump", "slumps", "tumble",
)

const trimChars = ".,:;!?"

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Score returns the number of bullish and bearish words in headline.
// A word counts toward at most one side.
func Score(headline string) (bullish, bearish int) {
	for _, field := range strings.Fields(strings.ToLower(headline)) {
		word := strings.Trim(field, trimChars)
		if _, ok := bullishWords[word]; ok {
			bullish++
		} else if _, ok := bearishWords[word]; ok {
			bearish++
		}
	}
	return bullish, bearish
}

// Classify labels headline BULLISH or BEARISH when one side has strictly
// more matches, NEUTRAL otherwise. Empty text is NEUTRAL.
func Classify(headline string) domain.Sentiment {
	bullish, bearish := Score(headline)
	switch {
	case bullish > bearish:
		return domain.Bullish
	case bearish > bullish:
		return domain.Bearish
	default:
		return domain.Neutral
	}
}

// ClassifyAll sets Sentiment on every item in place.
func ClassifyAll(items []domain.NewsItem) {
	for i := range items {
		items[i].Sentiment = Classify(items[i].Headline)
	}
}
