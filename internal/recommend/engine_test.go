package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

func leg(id int64, decimal, probability float64) models.LegCandidate {
	return models.LegCandidate{
		ID:          id,
		Name:        "team",
		Sport:       "NBA",
		SportID:     1,
		DecimalOdds: decimal,
		Probability: probability,
	}
}

func legIDs(rec models.Recommendation) []int64 {
	ids := make([]int64, 0, len(rec.Legs))
	for _, l := range rec.Legs {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestCombinationProfileEvaluatesEveryPair(t *testing.T) {
	evaluated := map[ProfileName]int{}
	engine := NewEngine(WithEvaluationHook(func(p ProfileName, n, _ int) {
		evaluated[p] = n
	}))

	legs := []models.LegCandidate{
		leg(1, 1.9, 0.5), leg(2, 2.1, 0.45), leg(3, 1.8, 0.52),
		leg(4, 2.4, 0.4), leg(5, 1.7, 0.55),
	}

	_, err := engine.Parlays(legs, string(ProfileTwoLeg))
	require.NoError(t, err)
	assert.Equal(t, 10, evaluated[ProfileTwoLeg])

	_, err = engine.Parlays(legs, string(ProfileThreeLeg))
	require.NoError(t, err)
	assert.Equal(t, 10, evaluated[ProfileThreeLeg])
}

func TestTwoEvenMoneyLegsExcludedOnProbability(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{leg(1, 2.0, 0.5), leg(2, 2.0, 0.5)}

	recs, err := engine.Parlays(legs, string(ProfileTwoLeg))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestThresholdBoundaryIsInclusive(t *testing.T) {
	engine := NewEngine()
	profile := Profile{
		Name:              "boundary",
		Kind:              SearchCombinations,
		MinDecimalOdds:    4.0,
		MinWinProbability: 25.0,
		MaxLegs:           2,
		MaxResults:        3,
	}

	recs, err := engine.Evaluate([]models.LegCandidate{leg(1, 2.0, 0.5), leg(2, 2.0, 0.5)}, profile)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 4.0, recs[0].CombinedDecimalOdds, 1e-12)
	assert.InDelta(t, 25.0, recs[0].WinProbability, 1e-12)
	assert.Equal(t, "+300", recs[0].CombinedAmericanOdds)
	assert.InDelta(t, 0.0, recs[0].ExpectedValue, 1e-12)
}

func TestSixFavoritesJustUnderMinimumOdds(t *testing.T) {
	engine := NewEngine()
	profile := Profile{
		Name:           "favorites_odds_only",
		Kind:           SearchFavorites,
		MinDecimalOdds: 3.0,
		MaxLegs:        6,
		MaxResults:     2,
		MaxOddsPerLeg:  1.5,
	}

	legs := make([]models.LegCandidate, 0, 6)
	for i := int64(1); i <= 6; i++ {
		legs = append(legs, leg(i, 1.2, 1/1.2))
	}

	recs, err := engine.Evaluate(legs, profile)
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = engine.Parlays(legs, string(ProfileFavorites))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFavoritesTakesMostProbableLegs(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{
		leg(1, 1.4, 0.95),
		leg(2, 1.45, 0.9),
		leg(3, 1.5, 0.92),
		leg(4, 1.3, 0.6),
		leg(5, 2.2, 0.97), // priced above the per-leg cap
	}

	// All four favorites together fall below 50%
	recs, err := engine.Parlays(legs, string(ProfileFavorites))
	require.NoError(t, err)
	assert.Empty(t, recs)

	profile, err := ProfileByName(string(ProfileFavorites))
	require.NoError(t, err)
	profile.MaxLegs = 3

	recs, err = engine.Evaluate(legs, profile)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []int64{1, 3, 2}, legIDs(recs[0]))
	assert.Equal(t, 3, recs[0].LegCount)
	assert.InDelta(t, 1.4*1.5*1.45, recs[0].CombinedDecimalOdds, 1e-9)
	assert.InDelta(t, 0.95*0.92*0.9*100, recs[0].WinProbability, 1e-9)
}

func TestFavoritesNeedsTwoLegs(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{leg(1, 1.3, 0.8), leg(2, 2.5, 0.5), leg(3, 3.0, 0.4)}

	recs, err := engine.Parlays(legs, string(ProfileFavorites))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSingleBetsRankedByExpectedValue(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{
		leg(1, 2.1, 0.85), // EV 0.785
		leg(2, 1.8, 0.95), // odds too short
		leg(3, 2.5, 0.85), // EV 1.125
		leg(4, 3.0, 0.5),  // probability too low
		leg(5, 2.2, 0.85), // EV 0.87
	}

	recs := engine.SingleBets(legs)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{3}, legIDs(recs[0]))
	assert.Equal(t, []int64{5}, legIDs(recs[1]))
	assert.Equal(t, []int64{1}, legIDs(recs[2]))
	assert.Equal(t, string(ProfileSingle), recs[0].ProfileName)
}

func TestEqualExpectedValueKeepsInputOrder(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{
		leg(7, 2.5, 0.85),
		leg(3, 2.5, 0.85),
		leg(9, 2.5, 0.85),
	}

	recs := engine.SingleBets(legs)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{7}, legIDs(recs[0]))
	assert.Equal(t, []int64{3}, legIDs(recs[1]))
	assert.Equal(t, []int64{9}, legIDs(recs[2]))
}

func TestSingleBetsTruncatedToMaxResults(t *testing.T) {
	engine := NewEngine()
	var legs []models.LegCandidate
	for i := int64(1); i <= 8; i++ {
		legs = append(legs, leg(i, 2.0+float64(i)/10, 0.9))
	}

	recs := engine.SingleBets(legs)
	require.Len(t, recs, 5)
	assert.Equal(t, []int64{8}, legIDs(recs[0]))
}

func TestInvalidLegsAreIgnored(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{
		{ID: 1, DecimalOdds: 0, Probability: 0.9},
		{ID: 2, DecimalOdds: 2.5, Probability: 0},
		{ID: 3, DecimalOdds: 1.0, Probability: 0.99},
		leg(4, 2.5, 0.85),
	}

	recs := engine.SingleBets(legs)
	require.Len(t, recs, 1)
	assert.Equal(t, []int64{4}, legIDs(recs[0]))
}

func TestUnknownProfile(t *testing.T) {
	_, err := NewEngine().Parlays([]models.LegCandidate{leg(1, 2, 0.5)}, "four_leg_parlays")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestCandidateCeiling(t *testing.T) {
	engine := NewEngine(WithMaxCandidates(3))
	legs := []models.LegCandidate{leg(1, 2, 0.5), leg(2, 2, 0.5), leg(3, 2, 0.5), leg(4, 2, 0.5)}

	_, err := engine.Parlays(legs, string(ProfileTwoLeg))
	assert.ErrorIs(t, err, ErrTooManyCandidates)

	// Single bets are linear and not bounded
	assert.NotPanics(t, func() { engine.SingleBets(legs) })
}

func TestAllReturnsEveryProfile(t *testing.T) {
	recs, err := NewEngine().All(nil)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for _, p := range Profiles() {
		assert.NotNil(t, recs[p.Name])
		assert.Empty(t, recs[p.Name])
	}
}

func TestTwoLegRecommendationsFound(t *testing.T) {
	engine := NewEngine()
	legs := []models.LegCandidate{
		leg(1, 2.0, 0.85),
		leg(2, 2.1, 0.8),
		leg(3, 2.4, 0.76),
	}

	recs, err := engine.Parlays(legs, string(ProfileTwoLeg))
	require.NoError(t, err)
	// EVs: 1+3 2.1008, 2+3 2.06432, 1+2 1.856
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{1, 3}, legIDs(recs[0]))
	assert.Equal(t, []int64{2, 3}, legIDs(recs[1]))
	assert.Equal(t, []int64{1, 2}, legIDs(recs[2]))
}

func TestBySportFilters(t *testing.T) {
	engine := NewEngine()
	nba := leg(1, 2.5, 0.85)
	nhl := leg(2, 2.6, 0.85)
	nhl.SportID = 2
	nhl.Sport = "NHL"

	recs, err := engine.BySport([]models.LegCandidate{nba, nhl}, 2)
	require.NoError(t, err)
	require.Len(t, recs[ProfileSingle], 1)
	assert.Equal(t, []int64{2}, legIDs(recs[ProfileSingle][0]))

	recs, err = engine.BySport([]models.LegCandidate{nba, nhl}, 0)
	require.NoError(t, err)
	assert.Len(t, recs[ProfileSingle], 2)
}

func TestLegsFromBets(t *testing.T) {
	bets := []models.BetRecord{
		{ID: 1, TeamName: "Lakers", SportName: "NBA", SportID: 4, Odds: "+150"},
		{ID: 2, TeamName: "Celtics", SportName: "NBA", SportID: 4, Odds: "n/a"},
		{ID: 3, TeamName: "Bruins", SportName: "NHL", SportID: 5, Odds: "-200"},
	}

	legs := LegsFromBets(bets)
	require.Len(t, legs, 2)
	assert.Equal(t, int64(1), legs[0].ID)
	assert.InDelta(t, 2.5, legs[0].DecimalOdds, 1e-12)
	assert.InDelta(t, 0.4, legs[0].Probability, 1e-12)
	assert.Equal(t, "NBA", legs[0].Group())
	assert.InDelta(t, 2.0/3.0, legs[1].Probability, 1e-12)
}
