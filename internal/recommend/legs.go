package recommend

import (
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
	"github.com/GianisonBoekhoudt/bettingbuddy/internal/odds"
)

// LegsFromBets converts stored bets into leg candidates priced at implied probability.
// Bets with unparsable odds are dropped.
func LegsFromBets(bets []models.BetRecord) []models.LegCandidate {
	legs := make([]models.LegCandidate, 0, len(bets))
	for _, bet := range bets {
		decimal, err := odds.ToDecimal(bet.Odds)
		if err != nil {
			continue
		}
		legs = append(legs, models.LegCandidate{
			ID:               bet.ID,
			Name:             bet.TeamName,
			Sport:            bet.SportName,
			SportID:          bet.SportID,
			AmericanOdds:     bet.Odds,
			DecimalOdds:      decimal,
			Probability:      odds.ImpliedProbability(decimal),
			CorrelationGroup: bet.SportName,
		})
	}
	return legs
}
