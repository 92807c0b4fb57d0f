// Package domain holds the value types shared across espresso modules.
//
// Every type here is computed fresh per request and is safe to copy. The
// cache layer is the only owner of mutable, time-indexed state.
package domain

import "time"

// TokenType classifies a narrative token
type TokenType string

const (
	TokenAction   TokenType = "ACTION"
	TokenEvidence TokenType = "EVIDENCE"
	TokenContext  TokenType = "CONTEXT"
	TokenCatalyst TokenType = "CATALYST"
)

// Sentiment is the directional reading of a token or headline
type Sentiment string

const (
	Bullish Sentiment = "BULLISH"
	Bearish Sentiment = "BEARISH"
	Neutral Sentiment = "NEUTRAL"
)

// RiskProfile selects the trade setup rules applied to opportunities
type RiskProfile string

const (
	ProfileDefensive   RiskProfile = "DEFENSIVE"
	ProfileBalanced    RiskProfile = "BALANCED"
	ProfileSpeculative RiskProfile = "SPECULATIVE"
)

// ParseRiskProfile returns the profile for name, falling back to BALANCED
func ParseRiskProfile(name string) RiskProfile {
	switch RiskProfile(name) {
	case ProfileDefensive, ProfileSpeculative:
		return RiskProfile(name)
	default:
		return ProfileBalanced
	}
}

// RiskLevel is the coarse classification of RiskMetrics
type RiskLevel string

const (
	RiskDefensive  RiskLevel = "DEFENSIVE"
	RiskModerate   RiskLevel = "MODERATE"
	RiskAggressive RiskLevel = "AGGRESSIVE"
)

// Bar is one OHLCV sample, ordered by Timestamp
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Closes extracts closing prices
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Quote is the latest snapshot for a symbol
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PrevClose     float64 `json:"prev_close"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Synthetic     bool    `json:"synthetic"`
}

// Movers are the day's best and worst performers, best and worst first.
type Movers struct {
	Gainers []Quote `json:"gainers"`
	Losers  []Quote `json:"losers"`
}

// WithChange fills Change and ChangePercent from Price and PrevClose.
// ChangePercent stays 0 when PrevClose is 0.
func (q Quote) WithChange() Quote {
	q.Change = q.Price - q.PrevClose
	q.ChangePercent = 0
	if q.PrevClose != 0 {
		q.ChangePercent = q.Change / q.PrevClose * 100
	}
	return q
}

// IndicatorSet is the technical snapshot derived from at least 50 daily bars
type IndicatorSet struct {
	RSI           float64 `json:"rsi"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	BBUpper       float64 `json:"bb_upper"`
	BBMiddle      float64 `json:"bb_middle"`
	BBLower       float64 `json:"bb_lower"`
	RVOL          float64 `json:"rvol"`
	SMA50         float64 `json:"sma_50"`
	SMA50Distance float64 `json:"sma_50_distance"`
	Price         float64 `json:"price"`
	Volume        float64 `json:"volume"`
}

// RiskMetrics summarizes a symbol's return profile against a benchmark.
// Volatility and MaxDrawdown are percentages (25.3 = 25.3%).
type RiskMetrics struct {
	Beta        float64   `json:"beta"`
	Volatility  float64   `json:"volatility"`
	Sharpe      float64   `json:"sharpe"`
	MaxDrawdown float64   `json:"max_drawdown"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Points      int       `json:"points"`
}

// NarrativeToken is one display-agnostic fragment of a narrative
type NarrativeToken struct {
	Content   string    `json:"content"`
	Type      TokenType `json:"type"`
	Sentiment Sentiment `json:"sentiment"`
}

// TradeSetup is a concrete entry/stop/target plan
type TradeSetup struct {
	Entry        float64 `json:"entry"`
	Stop         float64 `json:"stop"`
	Target       float64 `json:"target"`
	RiskReward   float64 `json:"risk_reward"`
	PositionSize string  `json:"position_size"`
	TimeHorizon  string  `json:"time_horizon"`
}

// Opportunity is a scored candidate with its setup and narrative
type Opportunity struct {
	Symbol     string           `json:"symbol"`
	Name       string           `json:"name"`
	Sector     string           `json:"sector,omitempty"`
	Confidence int              `json:"confidence"`
	OppScore   int              `json:"opp_score"`
	Narrative  []NarrativeToken `json:"narrative"`
	TradeSetup TradeSetup       `json:"trade_setup"`
	Catalyst   string           `json:"catalyst"`
	RVOL       float64          `json:"rvol"`
	Beta       float64          `json:"beta"`
	IsMatch    bool             `json:"is_match"`
	IsRVOLOk   bool             `json:"is_rvol_ok"`
}

// HistoryStatus tracks the lifecycle of an archived opportunity
type HistoryStatus string

const (
	StatusOpen    HistoryStatus = "OPEN"
	StatusClosed  HistoryStatus = "CLOSED"
	StatusExpired HistoryStatus = "EXPIRED"
)

// HistoryEntry is an archived opportunity
type HistoryEntry struct {
	Opportunity
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Status    HistoryStatus `json:"status"`
}

// NewsItem is a sentiment-classified headline
type NewsItem struct {
	ID          string    `json:"event_id"`
	Symbol      string    `json:"symbol"`
	Headline    string    `json:"headline"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"timestamp"`
	Sentiment   Sentiment `json:"sentiment"`
}

// Fundamentals holds valuation, profitability and growth figures.
// Margins, ROE and growth are percentages.
type Fundamentals struct {
	Symbol          string  `json:"symbol"`
	PE              float64 `json:"pe"`
	ForwardPE       float64 `json:"fpe"`
	PEG             float64 `json:"peg"`
	PriceToBook     float64 `json:"pb"`
	MarketCap       float64 `json:"mkt_cap"`
	OperatingMargin float64 `json:"op_margin"`
	NetMargin       float64 `json:"net_margin"`
	ROE             float64 `json:"roe"`
	RevenueGrowth   float64 `json:"rev_growth"`
	EarningsGrowth  float64 `json:"earn_growth"`
}

// EarningsEvent is one upcoming earnings date
type EarningsEvent struct {
	Symbol    string `json:"symbol"`
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
}

// Regime is the broad market classification
type Regime struct {
	Regime      string  `json:"regime"`
	Trend       string  `json:"trend"`
	Volatility  string  `json:"volatility"`
	Description string  `json:"description"`
	SMA20       float64 `json:"sma_20,omitempty"`
	SMA50       float64 `json:"sma_50,omitempty"`
	ATRPct      float64 `json:"atr_pct,omitempty"`
}

// SectorPerformance is one row of the sector rotation table
type SectorPerformance struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Change1D float64 `json:"1d"`
	Change1W float64 `json:"1w"`
	Change1M float64 `json:"1mo"`
}

// Settings are the user-facing options, persisted as JSON. Defaults come
// from the struct tags so new fields never go missing from older documents.
type Settings struct {
	RiskProfile     RiskProfile `json:"risk_profile" default:"BALANCED" validate:"oneof=DEFENSIVE BALANCED SPECULATIVE"`
	DarkMode        bool        `json:"dark_mode" default:"true"`
	Notifications   bool        `json:"notifications" default:"true"`
	RVOLThreshold   float64     `json:"rvol_threshold" default:"1.0" validate:"gte=0"`
	CoverageSectors []string    `json:"coverage_sectors" default:"[\"Technology\",\"Financials\",\"Energy\",\"Healthcare\",\"Industrials\",\"Staples\",\"Utilities\",\"Discretionary\",\"Materials\"]"`
}

// PortfolioCorrelation is the average pairwise correlation of daily returns
type PortfolioCorrelation struct {
	Symbols   []string `json:"symbols"`
	Average   float64  `json:"average"`
	Threshold float64  `json:"threshold"`
	Warning   bool     `json:"warning"`
}

// PerformanceStats are trailing returns in percent
type PerformanceStats struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Change1D float64 `json:"1d"`
	Change1W float64 `json:"1w"`
	Change1M float64 `json:"1m"`
	YTD      float64 `json:"ytd"`
	Change1Y float64 `json:"1y"`
}

// Comparison sets a symbol against its peers
type Comparison struct {
	Performance []PerformanceStats            `json:"performance"`
	Correlation map[string]map[string]float64 `json:"correlation"`
}
