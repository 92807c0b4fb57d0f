// Package alphavantage reads the Alpha Vantage earnings calendar.
package alphavantage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/espresso/internal/domain"
)

const (
	defaultBaseURL = "https://www.alphavantage.co/query"
	// calendarTTL keeps one horizon download per half day; the free tier
	// allows 25 requests a day.
	calendarTTL = 12 * time.Hour
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("alpha vantage api key not configured")

// Client downloads the earnings calendar and answers per-symbol lookups
// from the latest download.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
	log     zerolog.Logger

	mu        sync.Mutex
	fetchedAt time.Time
	calendar  map[string]time.Time
}

// NewClient creates a new Alpha Vantage client.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(12*time.Second), 1),
		now:     time.Now,
		log:     log.With().Str("client", "alphavantage").Logger(),
	}
}

// NextEarnings returns the next report date for symbol.
func (c *Client) NextEarnings(ctx context.Context, symbol string) (*time.Time, error) {
	calendar, err := c.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	date, ok := calendar[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrNoEarnings)
	}
	return &date, nil
}

// Calendar returns the earliest upcoming report date per symbol for the
// next three months, downloading at most once per calendarTTL.
func (c *Client) Calendar(ctx context.Context) (map[string]time.Time, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calendar != nil && c.now().Sub(c.fetchedAt) < calendarTTL {
		return c.calendar, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("function", "EARNINGS_CALENDAR")
	params.Set("horizon", "3month")
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	calendar, err := ParseEarningsCalendar(resp.Body)
	if err != nil {
		return nil, err
	}

	c.calendar = calendar
	c.fetchedAt = c.now()
	c.log.Debug().Int("symbols", len(calendar)).Msg("Downloaded earnings calendar")

	return calendar, nil
}

// ParseEarningsCalendar reads the CSV body
// (symbol,name,reportDate,fiscalDateEnding,estimate,currency) and keeps the
// earliest report date per symbol. A JSON body is an API error message.
func ParseEarningsCalendar(r io.Reader) (map[string]time.Time, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("API error: %s", trimmed)
	}

	reader := csv.NewReader(strings.NewReader(trimmed))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse earnings calendar: %w", err)
	}
	if len(records) == 0 {
		return map[string]time.Time{}, nil
	}

	symbolCol, dateCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "symbol":
			symbolCol = i
		case "reportDate":
			dateCol = i
		}
	}
	if symbolCol < 0 || dateCol < 0 {
		return nil, fmt.Errorf("unexpected earnings calendar header: %v", records[0])
	}

	calendar := make(map[string]time.Time)
	for _, rec := range records[1:] {
		if len(rec) <= symbolCol || len(rec) <= dateCol {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[dateCol]))
		if err != nil {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(rec[symbolCol]))
		if existing, ok := calendar[symbol]; !ok || date.Before(existing) {
			calendar[symbol] = date
		}
	}

	return calendar, nil
}
