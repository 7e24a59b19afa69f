package recommend

import (
	"sort"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

// rankByExpectedValue orders recommendations by EV descending and truncates to limit.
// Equal EVs keep their input order.
func rankByExpectedValue(recs []models.Recommendation, limit int) []models.Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ExpectedValue > recs[j].ExpectedValue
	})
	return truncate(recs, limit)
}

func truncate(recs []models.Recommendation, limit int) []models.Recommendation {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
