package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/metrics"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/recommend"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/refresh"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/value"
)

// AnalyzeRequest is the body of POST /api/v1/value/analyze
type AnalyzeRequest struct {
	Odds            string  `json:"odds" validate:"required"`
	TrueProbability float64 `json:"true_probability" validate:"gte=0,lt=1"`
}

// PlanRequest is the body of POST /api/v1/value/plan
type PlanRequest struct {
	Bankroll float64           `json:"bankroll" validate:"gt=0"`
	Bets     []value.Candidate `json:"bets" validate:"dive"`
}

// ProfileResponse is the body of GET /api/v1/recommendations/{profile}
type ProfileResponse struct {
	Profile         string                  `json:"profile"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// RefreshResponse is the body of POST /api/v1/refresh
type RefreshResponse struct {
	Tick  refresh.TickEvent   `json:"tick"`
	State models.RefreshState `json:"state"`
}

// handleAllRecommendations evaluates every profile over the active bets
// Query params: sport_id
func (s *Server) handleAllRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	sportID, err := parseSportID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid sport_id", err)
		return
	}

	legs, err := s.activeLegs(r)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load active bets", err)
		return
	}

	recs, err := s.deps.Engine.BySport(legs, sportID)
	if err != nil {
		s.respondError(w, recommendStatus(err), "failed to build recommendations", err)
		return
	}

	elapsed := time.Since(start)
	counts := make(map[string]int, len(recs))
	for name, list := range recs {
		counts[string(name)] = len(list)
	}
	s.recLog.LogRecommendationsServed(len(legs), counts, float64(elapsed.Microseconds())/1000)
	metrics.RecordRecommendationDuration("all", elapsed.Seconds())

	s.respondJSON(w, http.StatusOK, recs)
}

// handleProfileRecommendations evaluates one named profile
// Query params: sport_id
func (s *Server) handleProfileRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "profile")

	if _, err := recommend.ProfileByName(name); err != nil {
		s.respondError(w, http.StatusNotFound, "unknown profile", err)
		return
	}

	sportID, err := parseSportID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid sport_id", err)
		return
	}

	legs, err := s.activeLegs(r)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load active bets", err)
		return
	}
	legs = filterSport(legs, sportID)

	var recs []models.Recommendation
	if name == string(recommend.ProfileSingle) {
		recs = s.deps.Engine.SingleBets(legs)
	} else {
		recs, err = s.deps.Engine.Parlays(legs, name)
		if err != nil {
			s.respondError(w, recommendStatus(err), "failed to build recommendations", err)
			return
		}
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	elapsed := time.Since(start)
	s.recLog.LogRecommendationsServed(len(legs), map[string]int{name: len(recs)}, float64(elapsed.Microseconds())/1000)
	metrics.RecordRecommendationDuration(name, elapsed.Seconds())

	s.respondJSON(w, http.StatusOK, ProfileResponse{Profile: name, Recommendations: recs})
}

func (s *Server) handleAnalyzeValue(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	analysis, err := s.deps.Strategy.Analyzer().Analyze(req.Odds, req.TrueProbability)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to analyze odds", err)
		return
	}

	s.respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleBettingPlan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PlanRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	plan, err := s.deps.Strategy.GenerateBettingPlan(req.Bankroll, req.Bets)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to generate betting plan", err)
		return
	}

	s.recLog.LogBettingPlan(plan.Bankroll, len(req.Bets), len(plan.ValueBets), plan.TotalRecommendedExposure, plan.ParlaySuggestion != nil)
	metrics.RecordValueBets(len(plan.ValueBets))
	metrics.RecordRecommendationDuration("plan", time.Since(start).Seconds())

	s.respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleRefreshNow(w http.ResponseWriter, r *http.Request) {
	if s.deps.Refresher == nil {
		s.respondError(w, http.StatusServiceUnavailable, "refresh is not configured", nil)
		return
	}

	tick, err := s.deps.Refresher.UpdateNow(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, refresh.ErrNoProvider) {
			status = http.StatusServiceUnavailable
		}
		s.respondError(w, status, "refresh failed", err)
		return
	}

	s.respondJSON(w, http.StatusOK, RefreshResponse{Tick: tick, State: s.deps.Refresher.State()})
}

func (s *Server) handleRefreshState(w http.ResponseWriter, r *http.Request) {
	if s.deps.Refresher == nil {
		s.respondError(w, http.StatusServiceUnavailable, "refresh is not configured", nil)
		return
	}
	s.respondJSON(w, http.StatusOK, s.deps.Refresher.State())
}

func (s *Server) activeLegs(r *http.Request) ([]models.LegCandidate, error) {
	if s.deps.Store == nil {
		return nil, errors.New("no bet store configured")
	}
	bets, err := s.deps.Store.GetActiveBets(r.Context())
	if err != nil {
		return nil, err
	}
	return recommend.LegsFromBets(bets), nil
}

func parseSportID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("sport_id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, errors.New("sport_id must be a non-negative integer")
	}
	return id, nil
}

func filterSport(legs []models.LegCandidate, sportID int64) []models.LegCandidate {
	if sportID == 0 {
		return legs
	}
	out := make([]models.LegCandidate, 0, len(legs))
	for _, leg := range legs {
		if leg.SportID == sportID {
			out = append(out, leg)
		}
	}
	return out
}

func recommendStatus(err error) int {
	switch {
	case errors.Is(err, recommend.ErrUnknownProfile):
		return http.StatusNotFound
	case errors.Is(err, recommend.ErrTooManyCandidates):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
