package testing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aristath/espresso/internal/domain"
)

// ErrNotFound is returned by MockGateway for symbols with no stubbed data
var ErrNotFound = errors.New("mock gateway: symbol not stubbed")

// MockGateway is an in-memory marketdata.Gateway for tests
type MockGateway struct {
	mu           sync.Mutex
	quotes       map[string]domain.Quote
	history      map[string][]domain.Bar
	news         map[string][]domain.NewsItem
	fundamentals map[string]domain.Fundamentals
	earnings     map[string]time.Time
	noEarnings   map[string]bool
	err          error
	calls        map[string]int
}

// NewMockGateway creates an empty mock gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{
		quotes:       make(map[string]domain.Quote),
		history:      make(map[string][]domain.Bar),
		news:         make(map[string][]domain.NewsItem),
		fundamentals: make(map[string]domain.Fundamentals),
		earnings:     make(map[string]time.Time),
		noEarnings:   make(map[string]bool),
		calls:        make(map[string]int),
	}
}

// SetQuote stubs the quote for symbol
func (m *MockGateway) SetQuote(q domain.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[strings.ToUpper(q.Symbol)] = q
}

// SetHistory stubs the bars returned for symbol regardless of period
func (m *MockGateway) SetHistory(symbol string, bars []domain.Bar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[strings.ToUpper(symbol)] = bars
}

// SetNews stubs headlines for symbol
func (m *MockGateway) SetNews(symbol string, items []domain.NewsItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.news[strings.ToUpper(symbol)] = items
}

// SetFundamentals stubs fundamentals for symbol
func (m *MockGateway) SetFundamentals(symbol string, f domain.Fundamentals) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fundamentals[strings.ToUpper(symbol)] = f
}

// SetEarnings stubs the next earnings date for symbol
func (m *MockGateway) SetEarnings(symbol string, date time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.earnings[strings.ToUpper(symbol)] = date
}

// SetNoEarnings makes symbol report an empty calendar
func (m *MockGateway) SetNoEarnings(symbol string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noEarnings[strings.ToUpper(symbol)] = true
}

// SetError makes every call fail with err until cleared with nil
func (m *MockGateway) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times method was invoked
func (m *MockGateway) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockGateway) enter(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	return m.err
}

// Quote returns the stubbed quote
func (m *MockGateway) Quote(_ context.Context, symbol string) (*domain.Quote, error) {
	if err := m.enter("Quote"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return &q, nil
}

// History returns the stubbed bars
func (m *MockGateway) History(_ context.Context, symbol, _, _ string) ([]domain.Bar, error) {
	if err := m.enter("History"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bars, ok := m.history[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return append([]domain.Bar(nil), bars...), nil
}

// News returns the stubbed headlines, or none
func (m *MockGateway) News(_ context.Context, symbol string) ([]domain.NewsItem, error) {
	if err := m.enter("News"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.NewsItem{}, m.news[symbol]...), nil
}

// Fundamentals returns the stubbed fundamentals
func (m *MockGateway) Fundamentals(_ context.Context, symbol string) (*domain.Fundamentals, error) {
	if err := m.enter("Fundamentals"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fundamentals[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return &f, nil
}

// NextEarnings returns the stubbed date. Unstubbed symbols fail.
func (m *MockGateway) NextEarnings(_ context.Context, symbol string) (*time.Time, error) {
	if err := m.enter("NextEarnings"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.noEarnings[symbol] {
		return nil, fmt.Errorf("%s: %w", symbol, domain.ErrNoEarnings)
	}
	date, ok := m.earnings[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	return &date, nil
}
