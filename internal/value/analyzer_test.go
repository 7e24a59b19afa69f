package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

func sampleCandidates() []Candidate {
	return []Candidate{
		{TeamName: "Lakers", Sport: "NBA", Odds: "+100", TrueProbability: 0.7},
		{TeamName: "Celtics", Sport: "NBA", Odds: "+120", TrueProbability: 0.65},
		{TeamName: "Knicks", Sport: "NBA", Odds: "-200", TrueProbability: 0.7},
		{TeamName: "Chiefs", Sport: "NFL", Odds: "+200", TrueProbability: 0.62},
		{TeamName: "Unpriced", Sport: "NHL", TrueProbability: 0.9},
	}
}

func TestAnalyze(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		name        string
		odds        string
		probability float64
		wantValue   bool
		wantEV      float64
		wantEdge    float64
		wantFair    string
		wantConf    float64
	}{
		{"edge but low confidence", "+150", 0.5, false, 25, 10, "+100", 0.55},
		{"value bet", "+100", 0.7, true, 40, 20, "-233", 0.84},
		{"confident but thin edge", "-200", 0.7, false, 5, 3.3333, "-233", 0.7233},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analyzer.Analyze(tt.odds, tt.probability)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, got.IsValueBet)
			assert.InDelta(t, tt.wantEV, got.ExpectedValuePct, 0.001)
			assert.InDelta(t, tt.wantEdge, got.EdgePct, 0.001)
			assert.Equal(t, tt.wantFair, got.FairAmericanOdds)
			assert.InDelta(t, tt.wantConf, got.Confidence, 0.001)
		})
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	analyzer := NewAnalyzer()

	_, err := analyzer.Analyze("evens", 0.6)
	assert.ErrorIs(t, err, odds.ErrInvalidOddsFormat)

	_, err = analyzer.Analyze("+120", 1.0)
	assert.ErrorIs(t, err, ErrInvalidProbability)

	_, err = analyzer.Analyze("+120", -0.1)
	assert.ErrorIs(t, err, ErrInvalidProbability)
}

func TestAnalyzeZeroProbabilityUsesLongFairOdds(t *testing.T) {
	got, err := NewAnalyzer().Analyze("+120", 0)
	require.NoError(t, err)
	assert.Equal(t, "+9900", got.FairAmericanOdds)
	assert.False(t, got.IsValueBet)
}

func TestSetParamsClamps(t *testing.T) {
	analyzer := NewAnalyzer()
	analyzer.SetParams(1.4, -0.2)
	assert.Equal(t, 1.0, analyzer.ConfidenceThreshold())
	assert.Equal(t, 0.0, analyzer.MinEdge())

	analyzer.SetParams(0.5, 0.08)
	got, err := analyzer.Analyze("+150", 0.5)
	require.NoError(t, err)
	assert.True(t, got.IsValueBet)
}

func TestKellyFraction(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		name       string
		decimal    float64
		p          float64
		multiplier float64
		want       float64
	}{
		{"full kelly below cap", 2.0, 0.55, 1.0, 0.10},
		{"half kelly", 2.0, 0.55, 0.5, 0.05},
		{"capped", 3.0, 0.9, 1.0, MaxKellyFraction},
		{"no payout", 1.0, 0.9, 1.0, 0},
		{"negative edge", 2.0, 0.3, 1.0, -0.4},
		{"negative edge half kelly", 2.0, 0.3, 0.5, -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, analyzer.KellyFraction(tt.decimal, tt.p, tt.multiplier), 1e-9)
		})
	}
}

func TestFindBestValueBets(t *testing.T) {
	analyzer := NewAnalyzer()

	bets, err := analyzer.FindBestValueBets(sampleCandidates(), 0)
	require.NoError(t, err)
	require.Len(t, bets, 3)
	assert.Equal(t, "Lakers", bets[0].TeamName)
	assert.Equal(t, "Chiefs", bets[1].TeamName)
	assert.Equal(t, "Celtics", bets[2].TeamName)
	assert.InDelta(t, 3.0, bets[1].DecimalOdds, 1e-9)

	bets, err = analyzer.FindBestValueBets(sampleCandidates(), 2)
	require.NoError(t, err)
	assert.Len(t, bets, 2)
}

func TestFindBestValueBetsSurfacesMalformedOdds(t *testing.T) {
	_, err := NewAnalyzer().FindBestValueBets([]Candidate{{TeamName: "Bad", Odds: "x", TrueProbability: 0.7}}, 5)
	assert.ErrorIs(t, err, odds.ErrInvalidOddsFormat)
}

func TestSuggestParlayOneLegPerSport(t *testing.T) {
	analyzer := NewAnalyzer()
	bets, err := analyzer.FindBestValueBets(sampleCandidates(), 5)
	require.NoError(t, err)

	parlay, err := analyzer.SuggestParlay(bets, 3)
	require.NoError(t, err)
	require.NotNil(t, parlay)

	// Chiefs lead on EV, then the best NBA leg
	require.Len(t, parlay.Bets, 2)
	assert.Equal(t, "Chiefs", parlay.Bets[0].TeamName)
	assert.Equal(t, "Celtics", parlay.Bets[1].TeamName)
	assert.InDelta(t, 0.62*0.65, parlay.CombinedProbability, 1e-9)
	assert.InDelta(t, 6.6, parlay.DecimalOdds, 1e-9)
	assert.Equal(t, "+560", parlay.BookmakerOdds)
	assert.Equal(t, "+148", parlay.FairOdds)
	assert.InDelta(t, (0.62*0.65*6.6-1)*100, parlay.ExpectedValuePct, 1e-6)
	assert.True(t, parlay.IsValueParlay)
}

func TestSuggestParlayNeedsTwoGroups(t *testing.T) {
	analyzer := NewAnalyzer()
	bets := []ValueBet{
		{Candidate: Candidate{TeamName: "A", Sport: "NBA", TrueProbability: 0.7}, DecimalOdds: 2.0},
		{Candidate: Candidate{TeamName: "B", Sport: "NBA", TrueProbability: 0.7}, DecimalOdds: 2.1},
	}

	parlay, err := analyzer.SuggestParlay(bets, 3)
	require.NoError(t, err)
	assert.Nil(t, parlay)

	parlay, err = analyzer.SuggestParlay(bets[:1], 3)
	require.NoError(t, err)
	assert.Nil(t, parlay)

	bets[1].CorrelationGroup = "NBA-late"
	parlay, err = analyzer.SuggestParlay(bets, 3)
	require.NoError(t, err)
	require.NotNil(t, parlay)
	assert.Len(t, parlay.Bets, 2)
}

func TestTrueProbability(t *testing.T) {
	analyzer := NewAnalyzer()
	assert.Equal(t, 0.55, analyzer.TrueProbability(nil, 0.55))
	assert.InDelta(t, 0.1*1+0.9*0.5, analyzer.TrueProbability([]bool{true, true}, 0.5), 1e-9)
}
