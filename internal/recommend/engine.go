package recommend

import (
	"fmt"
	"sort"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

// EvaluationHook observes how many leg sets a profile considered and how many it returned
type EvaluationHook func(profile ProfileName, evaluated, accepted int)

// Engine evaluates leg candidates against threshold profiles.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	maxCandidates int
	hook          EvaluationHook
}

// Option configures an Engine
type Option func(*Engine)

// WithMaxCandidates sets the ceiling on legs fed into a combination search
func WithMaxCandidates(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCandidates = n
		}
	}
}

// WithEvaluationHook registers a hook called after each profile evaluation
func WithEvaluationHook(hook EvaluationHook) Option {
	return func(e *Engine) {
		e.hook = hook
	}
}

// NewEngine creates an engine with the default candidate ceiling
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxCandidates: DefaultMaxCandidates}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SingleBets returns straight-bet recommendations for the single-bet profile
func (e *Engine) SingleBets(legs []models.LegCandidate) []models.Recommendation {
	profile, _ := ProfileByName(string(ProfileSingle))
	recs, _ := e.Evaluate(legs, profile)
	return recs
}

// Parlays returns recommendations for a named profile
func (e *Engine) Parlays(legs []models.LegCandidate, profileName string) ([]models.Recommendation, error) {
	profile, err := ProfileByName(profileName)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(legs, profile)
}

// All evaluates every built-in profile. Each profile key is always present.
func (e *Engine) All(legs []models.LegCandidate) (map[ProfileName][]models.Recommendation, error) {
	result := make(map[ProfileName][]models.Recommendation, len(builtinProfiles))
	for _, profile := range builtinProfiles {
		recs, err := e.Evaluate(legs, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", profile.Name, err)
		}
		if recs == nil {
			recs = []models.Recommendation{}
		}
		result[profile.Name] = recs
	}
	return result, nil
}

// BySport runs All over the legs belonging to sportID; zero means every sport
func (e *Engine) BySport(legs []models.LegCandidate, sportID int64) (map[ProfileName][]models.Recommendation, error) {
	if sportID == 0 {
		return e.All(legs)
	}
	filtered := make([]models.LegCandidate, 0, len(legs))
	for _, leg := range legs {
		if leg.SportID == sportID {
			filtered = append(filtered, leg)
		}
	}
	return e.All(filtered)
}

// Evaluate runs one profile over the legs. Invalid legs are skipped.
func (e *Engine) Evaluate(legs []models.LegCandidate, profile Profile) ([]models.Recommendation, error) {
	candidates := validLegs(legs)

	var (
		recs      []models.Recommendation
		evaluated int
		err       error
	)
	switch profile.Kind {
	case SearchSingle:
		recs, evaluated = e.searchSingles(candidates, profile)
	case SearchCombinations:
		recs, evaluated, err = e.searchCombinations(candidates, profile)
	case SearchFavorites:
		recs, evaluated = e.searchFavorites(candidates, profile)
	default:
		return nil, fmt.Errorf("%w: %q has no search kind", ErrUnknownProfile, profile.Name)
	}
	if err != nil {
		return nil, err
	}

	if e.hook != nil {
		e.hook(profile.Name, evaluated, len(recs))
	}
	return recs, nil
}

func (e *Engine) searchSingles(legs []models.LegCandidate, profile Profile) ([]models.Recommendation, int) {
	var recs []models.Recommendation
	for i := range legs {
		if rec, ok := score(profile, legs[i:i+1]); ok {
			recs = append(recs, rec)
		}
	}
	return rankByExpectedValue(recs, profile.MaxResults), len(legs)
}

func (e *Engine) searchCombinations(legs []models.LegCandidate, profile Profile) ([]models.Recommendation, int, error) {
	k := profile.MaxLegs
	if k < 2 || len(legs) < k {
		return nil, 0, nil
	}
	if len(legs) > e.maxCandidates {
		return nil, 0, fmt.Errorf("%w: %d legs exceeds limit of %d for %s",
			ErrTooManyCandidates, len(legs), e.maxCandidates, profile.Name)
	}

	var recs []models.Recommendation
	evaluated := 0
	set := make([]models.LegCandidate, k)
	Combinations(len(legs), k, func(idx []int) {
		evaluated++
		for i, j := range idx {
			set[i] = legs[j]
		}
		if rec, ok := score(profile, set); ok {
			recs = append(recs, rec)
		}
	})

	return rankByExpectedValue(recs, profile.MaxResults), evaluated, nil
}

// searchFavorites evaluates a single parlay made of the most probable
// short-priced legs. There is no fallback search when it misses the thresholds.
func (e *Engine) searchFavorites(legs []models.LegCandidate, profile Profile) ([]models.Recommendation, int) {
	favorites := make([]models.LegCandidate, 0, len(legs))
	for _, leg := range legs {
		if profile.AllowsLeg(leg.DecimalOdds) {
			favorites = append(favorites, leg)
		}
	}
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].Probability > favorites[j].Probability
	})
	if profile.MaxLegs > 0 && len(favorites) > profile.MaxLegs {
		favorites = favorites[:profile.MaxLegs]
	}
	if len(favorites) < 2 {
		return nil, 0
	}

	rec, ok := score(profile, favorites)
	if !ok {
		return nil, 1
	}
	return truncate([]models.Recommendation{rec}, profile.MaxResults), 1
}

// score builds a recommendation for a leg set if it meets the profile thresholds
func score(profile Profile, legs []models.LegCandidate) (models.Recommendation, bool) {
	decimal := odds.CombinedOdds(legs)
	probability := odds.CombinedProbability(legs)
	if !profile.Accepts(decimal, probability*100) {
		return models.Recommendation{}, false
	}

	american, err := odds.ToAmerican(decimal)
	if err != nil {
		return models.Recommendation{}, false
	}

	owned := make([]models.LegCandidate, len(legs))
	copy(owned, legs)
	return models.Recommendation{
		ProfileName:          string(profile.Name),
		Legs:                 owned,
		LegCount:             len(owned),
		CombinedDecimalOdds:  decimal,
		CombinedAmericanOdds: american,
		WinProbability:       probability * 100,
		ExpectedValue:        odds.ExpectedValue(decimal, probability),
	}, true
}

func validLegs(legs []models.LegCandidate) []models.LegCandidate {
	out := make([]models.LegCandidate, 0, len(legs))
	for _, leg := range legs {
		if leg.Valid() {
			out = append(out, leg)
		}
	}
	return out
}
