// Package earnings turns next-earnings dates into catalyst labels and an
// upcoming-reports calendar for the coverage universe.
package earnings

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/work"
)

// Catalyst labels
const (
	CatalystNone    = "No upcoming catalyst"
	CatalystPassed  = "Earnings passed"
	CatalystUnknown = "TBD"
)

// CatalystWindowDays is how far ahead a report is counted down in days
const CatalystWindowDays = 30

// DefaultCalendarDays is the calendar window when none is given
const DefaultCalendarDays = 7

const dateLayout = "2006-01-02"

// DateSource returns the next earnings date; nil with no error means none
// is scheduled. marketdata.Service satisfies it.
type DateSource interface {
	NextEarnings(ctx context.Context, symbol string) (*time.Time, error)
}

// DaysUntil counts calendar days from today to date, ignoring time of day.
func DaysUntil(date, today time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// CatalystLabel describes the next report relative to today. A non-nil
// err means the calendar could not be read.
func CatalystLabel(date *time.Time, err error, today time.Time) string {
	switch {
	case err != nil:
		return CatalystUnknown
	case date == nil:
		return CatalystNone
	}

	days := DaysUntil(*date, today)
	switch {
	case days < 0:
		return CatalystPassed
	case days <= CatalystWindowDays:
		return fmt.Sprintf("Earnings in %d days (%s)", days, date.Format(dateLayout))
	default:
		return fmt.Sprintf("Earnings on %s", date.Format(dateLayout))
	}
}

// Service answers catalyst and calendar queries.
type Service struct {
	data     DateSource
	pool     *work.Pool
	universe []string
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates an earnings service over the default universe.
func NewService(data DateSource, pool *work.Pool, log zerolog.Logger) *Service {
	return &Service{
		data:     data,
		pool:     pool,
		universe: domain.Universe(),
		now:      time.Now,
		log:      log.With().Str("component", "earnings").Logger(),
	}
}

// Catalyst returns the catalyst label for symbol.
func (s *Service) Catalyst(ctx context.Context, symbol string) string {
	date, err := s.data.NextEarnings(ctx, symbol)
	return CatalystLabel(date, err, s.now())
}

// Calendar lists universe symbols reporting within days (0 counts today),
// soonest first. Symbols whose date cannot be read are skipped.
func (s *Service) Calendar(ctx context.Context, days int) []domain.EarningsEvent {
	if days <= 0 {
		days = DefaultCalendarDays
	}
	today := s.now()

	events := work.Map(ctx, s.pool, s.universe, func(ctx context.Context, sym string) *domain.EarningsEvent {
		date, err := s.data.NextEarnings(ctx, sym)
		if err != nil || date == nil {
			return nil
		}
		until := DaysUntil(*date, today)
		if until < 0 || until > days {
			return nil
		}
		return &domain.EarningsEvent{Symbol: sym, Date: date.Format(dateLayout), DaysUntil: until}
	})

	out := make([]domain.EarningsEvent, 0, len(events))
	for _, e := range events {
		if e != nil {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntil < out[j].DaysUntil
	})
	s.log.Debug().Int("days", days).Int("events", len(out)).Msg("Earnings calendar built")
	return out
}
