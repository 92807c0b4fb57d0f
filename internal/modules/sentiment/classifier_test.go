package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/espresso/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     domain.Sentiment
	}{
		{"bullish", "Apple beats estimates, shares surge", domain.Bullish},
		{"bearish", "Tesla shares plunge after recall", domain.Bearish},
		{"tie", "Strong quarter but guidance cut", domain.Neutral},
		{"no vocabulary", "Company holds annual meeting", domain.Neutral},
		{"empty", "", domain.Neutral},
		{"punctuation stripped", "Record!", domain.Bullish},
		{"case insensitive", "DOWNGRADED by analysts", domain.Bearish},
		{"substring does not match", "Highway construction begins", domain.Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.headline))
		})
	}
}

func TestScore(t *testing.T) {
	bullish, bearish := Score("Shares jump, then fall; analysts warn of weak demand.")
	assert.Equal(t, 1, bullish)
	assert.Equal(t, 2, bearish) // "fall" and "weak"; "warn" is not in the list
}

func TestClassifyAll(t *testing.T) {
	items := []domain.NewsItem{
		{Headline: "Revenue growth robust"},
		{Headline: "Probe widens"},
	}
	ClassifyAll(items)
	assert.Equal(t, domain.Bullish, items[0].Sentiment)
	assert.Equal(t, domain.Bearish, items[1].Sentiment)
}
