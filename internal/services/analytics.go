// Package services exposes the produced analytics API: one synchronous
// facade over the market data, indicator, risk, narrative, regime,
// opportunity and earnings engines.
//
// None of the methods fail under normal operation. Missing data turns
// into a value with Available set to false, an empty list, or a
// synthesized estimate flagged as such.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/market_regime"
	"github.com/aristath/espresso/internal/marketdata"
	"github.com/aristath/espresso/internal/modules/earnings"
	"github.com/aristath/espresso/internal/modules/history"
	"github.com/aristath/espresso/internal/modules/indicators"
	"github.com/aristath/espresso/internal/modules/narrative"
	"github.com/aristath/espresso/internal/modules/opportunities"
	"github.com/aristath/espresso/internal/modules/overview"
	"github.com/aristath/espresso/internal/modules/risk"
	"github.com/aristath/espresso/internal/modules/settings"
	"github.com/aristath/espresso/internal/utils"
)

// Defaults for chart requests
const (
	DefaultOHLCPeriod   = "6mo"
	DefaultOHLCInterval = "1d"
)

// IndicatorsResult wraps an indicator snapshot that may be unavailable
type IndicatorsResult struct {
	Symbol     string               `json:"symbol"`
	Available  bool                 `json:"available"`
	Indicators *domain.IndicatorSet `json:"indicators,omitempty"`
}

// RiskResult wraps risk metrics that may be unavailable
type RiskResult struct {
	Symbol    string              `json:"symbol"`
	Available bool                `json:"available"`
	Metrics   *domain.RiskMetrics `json:"metrics,omitempty"`
}

// FundamentalsResult wraps fundamentals that may be unavailable
type FundamentalsResult struct {
	Symbol       string               `json:"symbol"`
	Available    bool                 `json:"available"`
	Fundamentals *domain.Fundamentals `json:"fundamentals,omitempty"`
}

// OHLCResult is a cleaned bar series for charting
type OHLCResult struct {
	Symbol   string       `json:"symbol"`
	Period   string       `json:"period"`
	Interval string       `json:"interval"`
	Bars     []domain.Bar `json:"bars"`
}

// Deps are the engines behind the facade
type Deps struct {
	MarketData    *marketdata.Service
	Indicators    *indicators.Engine
	Risk          *risk.Engine
	Narrative     *narrative.Generator
	Regime        *market_regime.Detector
	Opportunities *opportunities.Service
	Earnings      *earnings.Service
	Overview      *overview.Service
	Settings      *settings.Store
	History       *history.Store
}

// Analytics is the produced API
type Analytics struct {
	deps Deps
	log  zerolog.Logger
}

// NewAnalytics creates the facade
func NewAnalytics(deps Deps, log zerolog.Logger) *Analytics {
	return &Analytics{
		deps: deps,
		log:  log.With().Str("service", "analytics").Logger(),
	}
}

// Indicators returns the technical snapshot for symbol
func (a *Analytics) Indicators(ctx context.Context, symbol string) IndicatorsResult {
	out := IndicatorsResult{Symbol: symbol}
	ind, err := a.deps.Indicators.Indicators(ctx, symbol)
	if err != nil {
		a.log.Debug().Err(err).Str("symbol", symbol).Msg("Indicators unavailable")
		return out
	}
	out.Available = true
	out.Indicators = &ind
	return out
}

// RiskMetrics returns beta, volatility, Sharpe and drawdown for symbol
func (a *Analytics) RiskMetrics(ctx context.Context, symbol string) RiskResult {
	out := RiskResult{Symbol: symbol}
	m, err := a.deps.Risk.Metrics(ctx, symbol)
	if err != nil {
		a.log.Debug().Err(err).Str("symbol", symbol).Msg("Risk metrics unavailable")
		return out
	}
	out.Available = true
	out.Metrics = &m
	return out
}

// Opportunities ranks trade ideas for profile under the given settings.
// limit <= 0 uses the default.
func (a *Analytics) Opportunities(ctx context.Context, profile domain.RiskProfile, s domain.Settings, limit int) []domain.Opportunity {
	return a.deps.Opportunities.Get(ctx, profile, s, limit)
}

// MorningNarrative summarizes the session and the broad market
func (a *Analytics) MorningNarrative(ctx context.Context) []domain.NarrativeToken {
	return a.deps.Narrative.Morning(ctx)
}

// Narrative explains the current setup of one symbol
func (a *Analytics) Narrative(ctx context.Context, symbol string) []domain.NarrativeToken {
	return a.deps.Narrative.ForSymbol(ctx, symbol)
}

// DetectRegime classifies the benchmark's trend and volatility
func (a *Analytics) DetectRegime(ctx context.Context) domain.Regime {
	return a.deps.Regime.Regime(ctx)
}

// SectorRotation ranks sector ETFs by weekly performance
func (a *Analytics) SectorRotation(ctx context.Context) []domain.SectorPerformance {
	return a.deps.Regime.Rotation(ctx)
}

// EarningsCalendar lists coverage symbols reporting within days
func (a *Analytics) EarningsCalendar(ctx context.Context, days int) []domain.EarningsEvent {
	return a.deps.Earnings.Calendar(ctx, days)
}

// Fundamentals returns valuation and growth figures for symbol
func (a *Analytics) Fundamentals(ctx context.Context, symbol string) FundamentalsResult {
	out := FundamentalsResult{Symbol: symbol}
	f, ok := a.deps.MarketData.Fundamentals(ctx, symbol)
	if !ok {
		return out
	}
	out.Available = true
	out.Fundamentals = &f
	return out
}

// PortfolioCorrelation averages pairwise return correlation of symbols
func (a *Analytics) PortfolioCorrelation(ctx context.Context, symbols []string) domain.PortfolioCorrelation {
	return a.deps.Risk.PortfolioCorrelation(ctx, symbols)
}

// Comparison sets symbol against peers; no peers means the defaults
func (a *Analytics) Comparison(ctx context.Context, symbol string, others []string) domain.Comparison {
	if len(others) == 0 {
		others = risk.DefaultComparisons
	}
	return a.deps.Risk.Comparison(ctx, symbol, others)
}

// OHLC returns the cleaned bar series for charting
func (a *Analytics) OHLC(ctx context.Context, symbol, period, interval string) OHLCResult {
	if period == "" {
		period = DefaultOHLCPeriod
	}
	if interval == "" {
		interval = DefaultOHLCInterval
	}
	return OHLCResult{
		Symbol:   symbol,
		Period:   period,
		Interval: interval,
		Bars:     a.deps.MarketData.History(ctx, symbol, period, interval),
	}
}

// MarketIndices quotes the S&P 500, NASDAQ and Dow
func (a *Analytics) MarketIndices(ctx context.Context) []domain.Quote {
	return a.deps.Overview.Indices(ctx)
}

// Movers lists the coverage universe's n best and worst performers today.
// n <= 0 uses the default.
func (a *Analytics) Movers(ctx context.Context, n int) domain.Movers {
	return a.deps.Overview.Movers(ctx, n)
}

// News returns the past week's classified headlines for symbol
func (a *Analytics) News(ctx context.Context, symbol string) []domain.NewsItem {
	return a.deps.Overview.News(ctx, symbol)
}

// TalkingPoints returns the latest benchmark headlines, or stock lines
// when there are none
func (a *Analytics) TalkingPoints(ctx context.Context) []string {
	return a.deps.Overview.TalkingPoints(ctx)
}

// Quote returns the latest snapshot, synthesized when the gateway fails
func (a *Analytics) Quote(ctx context.Context, symbol string) domain.Quote {
	return a.deps.MarketData.Quote(ctx, symbol)
}

// Settings returns the current user settings
func (a *Analytics) Settings() domain.Settings {
	return a.deps.Settings.Load()
}

// SaveSettings validates and stores s
func (a *Analytics) SaveSettings(s domain.Settings) error {
	return a.deps.Settings.Save(s)
}

// UpdateSettings applies change to the current settings and stores them
func (a *Analytics) UpdateSettings(change func(*domain.Settings) error) (domain.Settings, error) {
	return a.deps.Settings.Merge(change)
}

// ArchiveOpportunity stores opp in the history
func (a *Analytics) ArchiveOpportunity(opp domain.Opportunity) domain.HistoryEntry {
	return a.deps.History.Append(opp)
}

// History lists archived opportunities, newest first
func (a *Analytics) History() []domain.HistoryEntry {
	return a.deps.History.List()
}

// Warm primes the cache for the indices, the sector ETFs and the coverage
// universe. It is what the scheduled warm-up job runs.
func (a *Analytics) Warm(ctx context.Context) time.Duration {
	timer := utils.NewTimer("warmup", a.log)
	a.MorningNarrative(ctx)
	a.MarketIndices(ctx)
	a.Movers(ctx, 0)
	a.SectorRotation(ctx)
	a.DetectRegime(ctx)
	current := a.Settings()
	a.Opportunities(ctx, current.RiskProfile, current, 0)
	return timer.Stop()
}
