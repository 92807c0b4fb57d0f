package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/modules/earnings"
	"github.com/aristath/espresso/internal/modules/overview"
	"github.com/aristath/espresso/internal/modules/settings"
	"github.com/aristath/espresso/internal/utils"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "espresso",
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.Quote(r.Context(), symbolParam(r)))
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.Indicators(r.Context(), symbolParam(r)))
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.RiskMetrics(r.Context(), symbolParam(r)))
}

func (s *Server) handleFundamentals(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.Fundamentals(r.Context(), symbolParam(r)))
}

func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.Narrative(r.Context(), symbolParam(r)))
}

func (s *Server) handleMorningNarrative(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.MorningNarrative(r.Context()))
}

func (s *Server) handleOHLC(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.writeJSON(w, http.StatusOK, s.analytics.OHLC(r.Context(), symbolParam(r), q.Get("period"), q.Get("interval")))
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	others := utils.ParseSymbols(r.URL.Query().Get("with"))
	s.writeJSON(w, http.StatusOK, s.analytics.Comparison(r.Context(), symbolParam(r), others))
}

// handleOpportunities ranks ideas for ?profile= (the saved profile when
// absent) and ?limit=
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	current := s.analytics.Settings()

	profile := current.RiskProfile
	if p := r.URL.Query().Get("profile"); p != "" {
		profile = domain.ParseRiskProfile(strings.ToUpper(p))
	}

	limit, err := intParam(r, "limit", s.limit)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":       profile,
		"opportunities": s.analytics.Opportunities(r.Context(), profile, current, limit),
	})
}

func (s *Server) handleIndices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.MarketIndices(r.Context()))
}

// handleMovers lists ?count= gainers and losers
func (s *Server) handleMovers(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "count", overview.DefaultMovers)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.analytics.Movers(r.Context(), n))
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.News(r.Context(), symbolParam(r)))
}

func (s *Server) handleTalkingPoints(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{
		"talking_points": s.analytics.TalkingPoints(r.Context()),
	})
}

func (s *Server) handleRegime(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.DetectRegime(r.Context()))
}

func (s *Server) handleSectorRotation(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.SectorRotation(r.Context()))
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", earnings.DefaultCalendarDays)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.analytics.EarningsCalendar(r.Context(), days))
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	symbols := utils.ParseSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) < 2 {
		s.writeError(w, http.StatusBadRequest, "symbols must list at least two comma-separated symbols")
		return
	}
	s.writeJSON(w, http.StatusOK, s.analytics.PortfolioCorrelation(r.Context(), symbols))
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.Settings())
}

// handleUpdateSettings merges a partial JSON document over the current
// settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	updated, err := s.analytics.UpdateSettings(func(current *domain.Settings) error {
		return json.Unmarshal(body, current)
	})
	var verr *settings.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
		return
	case err != nil:
		s.writeError(w, http.StatusBadRequest, "invalid settings document")
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.analytics.History())
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	var opp domain.Opportunity
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&opp); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid opportunity document")
		return
	}
	opp.Symbol = utils.NormalizeSymbol(opp.Symbol)
	if opp.Symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	s.writeJSON(w, http.StatusCreated, s.analytics.ArchiveOpportunity(opp))
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error body
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func symbolParam(r *http.Request) string {
	return utils.NormalizeSymbol(chi.URLParam(r, "symbol"))
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}
