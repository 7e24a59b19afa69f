package refresh

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GianisonBoekhoudt/bettingbuddy/internal/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetActiveBets(ctx context.Context) ([]models.BetRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	bets := args.Get(0).([]models.BetRecord)
	out := make([]models.BetRecord, len(bets))
	copy(out, bets)
	return out, args.Error(1)
}

func (m *mockStore) GetBet(ctx context.Context, id int64) (*models.BetRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetRecord), args.Error(1)
}

func (m *mockStore) UpdateBetOdds(ctx context.Context, id int64, odds string) error {
	args := m.Called(ctx, id, odds)
	return args.Error(0)
}

func (m *mockStore) GetActiveParlays(ctx context.Context) ([]models.ParlayRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ParlayRecord), args.Error(1)
}

func (m *mockStore) UpdateParlayTotals(ctx context.Context, id int64, totalOdds string, payout float64) error {
	args := m.Called(ctx, id, totalOdds, payout)
	return args.Error(0)
}

func (m *mockStore) GetSportsByName(ctx context.Context) (map[string]models.Sport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.Sport), args.Error(1)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) FetchOdds(ctx context.Context, sportKey string) ([]models.Event, error) {
	args := m.Called(ctx, sportKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func h2hEvent(home, away string, homePrice, awayPrice float64) models.Event {
	return models.Event{
		HomeTeam: home,
		AwayTeam: away,
		Bookmakers: []models.Bookmaker{{
			Key: "draftkings",
			Markets: []models.Market{{
				Key: models.MarketHeadToHead,
				Outcomes: []models.Outcome{
					{Name: home, Price: homePrice},
					{Name: away, Price: awayPrice},
				},
			}},
		}},
	}
}
