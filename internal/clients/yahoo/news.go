package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/espresso/internal/domain"
)

// DefaultFeedURL is the Yahoo Finance headline feed; %s is the symbol.
const DefaultFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// NewsFeed reads per-symbol headlines from an RSS feed.
type NewsFeed struct {
	urlTemplate string
	parser      *gofeed.Parser
	limiter     *rate.Limiter
	timeout     time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

// NewNewsFeed creates a feed reader. An empty template uses DefaultFeedURL.
func NewNewsFeed(urlTemplate string, perSecond float64, log zerolog.Logger) *NewsFeed {
	if urlTemplate == "" {
		urlTemplate = DefaultFeedURL
	}
	if perSecond <= 0 {
		perSecond = 2
	}
	return &NewsFeed{
		urlTemplate: urlTemplate,
		parser:      gofeed.NewParser(),
		limiter:     rate.NewLimiter(rate.Limit(perSecond), 1),
		timeout:     10 * time.Second,
		now:         time.Now,
		log:         log.With().Str("client", "yahoo_news").Logger(),
	}
}

// News returns headlines newest first. Items without a publish time are
// stamped with the fetch time; items without a title are dropped.
func (f *NewsFeed) News(ctx context.Context, symbol string) ([]domain.NewsItem, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feedURL := fmt.Sprintf(f.urlTemplate, url.QueryEscape(symbol))
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news feed for %s: %w", symbol, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "Yahoo Finance"
	}

	items := make([]domain.NewsItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		headline := strings.TrimSpace(item.Title)
		if headline == "" {
			continue
		}

		published := f.now()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		items = append(items, domain.NewsItem{
			ID:          symbol + "_" + id,
			Symbol:      symbol,
			Headline:    headline,
			Source:      source,
			URL:         item.Link,
			PublishedAt: published,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	f.log.Debug().Str("symbol", symbol).Int("items", len(items)).Msg("Fetched headlines")
	return items, nil
}
